// Package main provides a CLI tool for generating bearer tokens for the
// foodlink API. Tokens use the dev signing key unless -key is given.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "foodlink/internal/platform/jwt"
	usermodels "foodlink/internal/user/models"
	id "foodlink/pkg/domain"
)

const (
	// Dev signing key, matches config.go when FOODLINK_JWT_SIGNING_KEY is not set
	devSigningKey   = "dev-secret-key-change-in-production"
	defaultTokenTTL = 24 * time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]string `json:"claims"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	userID := flag.String("user-id", "", "User ID (UUID). Generated if empty.")
	role := flag.String("role", string(usermodels.RoleDonor), "Role claim: donor or ngo")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	key := flag.String("key", devSigningKey, "HMAC signing key")
	jsonOutput := flag.Bool("json", false, "Output as JSON")
	flag.Usage = printUsage
	flag.Parse()

	uid := parseOrGenerateUserID(*userID)
	parsedRole, err := usermodels.ParseRole(*role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid role: %s\n", *role)
		os.Exit(1)
	}

	token, err := jwttoken.NewService(*key, *ttl).Issue(uid, string(parsedRole))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			ExpiresIn: ttl.String(),
			Claims: map[string]string{
				"user_id": uid.String(),
				"role":    string(parsedRole),
			},
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Access Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Expires In:  %s\n", ttl)
	fmt.Printf("User ID:     %s\n", uid)
	fmt.Printf("Role:        %s\n", parsedRole)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -X PUT -H \"Authorization: Bearer <token>\" -d '{\"name\":\"...\",\"email\":\"...\",\"role\":\"" + string(parsedRole) + "\"}' http://localhost:8080/users/me")
}

func printUsage() {
	fmt.Println(`tokengen - Generate bearer tokens for the foodlink API

WARNING: Tokens signed with the dev key will NOT work against a server
         configured with its own FOODLINK_JWT_SIGNING_KEY.

Usage:
  tokengen [flags]

Examples:
  # Donor token for a fresh user
  tokengen

  # NGO token for an existing user
  tokengen -role ngo -user-id "550e8400-e29b-41d4-a716-446655440000"

  # Output as JSON
  tokengen -json

Flags:`)
	flag.PrintDefaults()
}

func parseOrGenerateUserID(input string) id.UserID {
	if input == "" {
		return id.NewUserID()
	}
	parsed, err := id.ParseUserID(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid user-id UUID: %s\n", input)
		os.Exit(1)
	}
	return parsed
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
