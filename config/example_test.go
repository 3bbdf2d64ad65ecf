package config_test

import (
	"context"
	"fmt"
	"log"

	"github.com/sagarc03/acsign/config"
)

func ExampleLoad() {
	// Load with defaults only (no config file)
	cfg, err := config.Load(nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Port: %d, Nonces: %s\n", cfg.Server.Port, cfg.Database.Type)
	// Output: Port: 8080, Nonces: memory
}

func ExampleWithContext() {
	cfg, _ := config.Load(nil, nil)

	// Store config in context
	ctx := config.WithContext(context.Background(), cfg)

	// Retrieve later (e.g., in a subcommand)
	retrieved, err := config.FromContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Max skew: %s\n", retrieved.Auth.MaxSkew)
	// Output: Max skew: 15m0s
}
