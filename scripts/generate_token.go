//go:build ignore

// Generates an admin JWT for exercising the admin API locally.
//
// Usage: go run scripts/generate_token.go
package main

import (
	"fmt"
	"log"

	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg)

	token, err := jwtManager.GenerateAccessToken(1, "admin@example.com", true)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println("Admin access token:")
	fmt.Println(token)
}
