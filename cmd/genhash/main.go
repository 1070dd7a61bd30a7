// genhash prints a bcrypt hash for APP_PIN_HASH.
// Usage: go run ./cmd/genhash 4821   (or APP_PIN=4821 go run ./cmd/genhash)
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	pin := os.Getenv("APP_PIN")
	if len(os.Args) > 1 {
		pin = os.Args[1]
	}
	if pin == "" {
		fmt.Fprintln(os.Stderr, "usage: genhash <pin>")
		os.Exit(2)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pin), 12)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(h))
}
