package main

import (
	"flag"
	"fmt"
	"log"

	"lightwatch/config"
	"lightwatch/internals/security"
)

// token prints an operator bearer token for GET /api/v1/status, or an
// argon2id hash for auth.heartbeat_secret_hash when -hash is given.
func main() {
	path := flag.String("config", "env.yaml", "path to the service config file")
	subject := flag.String("sub", "operator", "token subject")
	hash := flag.String("hash", "", "heartbeat secret to hash instead of issuing a token")
	flag.Parse()

	if *hash != "" {
		encoded, err := security.HashSecret(*hash)
		if err != nil {
			log.Fatalf("failed to hash secret: %v", err)
		}
		fmt.Println(encoded)
		return
	}

	cfg, err := config.LoadConfig(*path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	token, err := security.NewTokenService(&cfg.Auth).GenerateAccessToken(*subject, security.RoleOperator)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
