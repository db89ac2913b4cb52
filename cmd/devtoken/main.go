// Command devtoken prints a bearer token accepted by the local verifier.
//
//	LOCAL_AUTH_SECRET=dev devtoken -uid alice -email alice@example.com
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"finance4all/internal/auth"
)

func main() {
	uid := flag.String("uid", "dev-user", "subject (Firebase UID) of the token")
	email := flag.String("email", "dev@example.com", "email claim")
	role := flag.String("role", "", "optional role claim (USER or ADMIN)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := flag.String("secret", os.Getenv("LOCAL_AUTH_SECRET"), "signing secret (defaults to LOCAL_AUTH_SECRET)")
	flag.Parse()

	token, err := auth.IssueLocalToken(*secret, *uid, *email, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
