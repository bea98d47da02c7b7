// Command catalog_token prints a signed bearer token for the catalog
// service's write routes, using JWT_SECRET_KEY from the environment or .env.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ridloal/product-catalog/internal/platform/auth"
	"github.com/ridloal/product-catalog/internal/platform/config"
)

func main() {
	subject := flag.String("sub", "", "token subject, e.g. an operator name")
	role := flag.String("role", auth.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_TOKEN_TTL)")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "catalog_token: -sub is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadCatalogConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog_token: %v\n", err)
		os.Exit(1)
	}
	if *ttl <= 0 {
		*ttl = cfg.Auth.TokenTTL
	}

	token, err := auth.NewSigner(cfg.Auth.JWTSecretKey).Sign(*subject, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog_token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
