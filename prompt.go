package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// passwordPrompt supplies a password when the configuration carries none.
// It is injected into the session so tests never need a real terminal.
type passwordPrompt func() (string, error)

// readPassword prompts on stderr and reads from the terminal without echo.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
