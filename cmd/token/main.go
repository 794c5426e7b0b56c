package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spec-kit/department-summary/internal/auth"
	"github.com/spec-kit/department-summary/internal/config"
)

func main() {
	subject := flag.String("subject", "operator", "token subject")
	role := flag.String("role", auth.RoleOperator, "token role")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	lifetime := cfg.Auth.TokenTTL()
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, expires, err := auth.NewTokenManager(cfg.Auth.JWTSecret, lifetime).GenerateToken(*subject, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expires.Format(time.RFC3339))
}
