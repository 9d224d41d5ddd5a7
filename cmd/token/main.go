// Command token prints a signed access token for local development against the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

func main() {
	userID := flag.String("user", "", "user id (UUID)")
	companyID := flag.String("company", "", "company id (UUID)")
	role := flag.String("role", string(user.RoleEmployee), "owner, manager or employee")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if !validator.IsValidUUID(*userID) || !validator.IsValidUUID(*companyID) {
		fmt.Fprintln(os.Stderr, "-user and -company must be UUIDs")
		os.Exit(2)
	}
	if _, ok := user.RolePermissions[user.Role(*role)]; !ok {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	svc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Skew)
	token, expiresAt, err := svc.GenerateAccessToken(user.Principal{
		UserID:   *userID,
		TenantID: *companyID,
		Role:     user.Role(*role),
	}, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error signing token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
