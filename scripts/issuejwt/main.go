package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"orderdesk/internal/config"
	"orderdesk/internal/middleware"
)

// issuejwt mints a bearer token for local testing, signed with the
// server's JWT_SECRET.
func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load")
	user := pflag.String("user", "", "user id (sub claim)")
	tag := pflag.String("tag", "", "display tag")
	role := pflag.String("role", middleware.RoleCustomer, "staff or customer")
	ttl := pflag.Duration("ttl", 24*time.Hour, "token lifetime")
	pflag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "--user is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	raw, err := middleware.IssueToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, middleware.Identity{
		UserID: *user,
		Tag:    *tag,
		Role:   *role,
	}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(raw)
}
