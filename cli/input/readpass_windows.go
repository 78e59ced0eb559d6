//go:build windows

package input

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// readSecurePassword reads the user's password with prompt from stdin.
func readSecurePassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()
	return string(pass), nil
}
