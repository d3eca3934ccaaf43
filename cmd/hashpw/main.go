// cmd/hashpw/main.go

// hashpw prints the argon2id hash of a password, for provisioning the
// ADMIN_PASSWORD_HASH environment variable.
//
// Usage: hashpw <password>
package main

import (
	"fmt"
	"os"

	"github.com/wordweaver-game/wordweaver/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}
	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashpw: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
