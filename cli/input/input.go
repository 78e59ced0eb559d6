/*
Package input reads user input for CLI commands: plain lines and passwords
that are never echoed.
*/
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is a terminal used for input. If `nil`, stdin is used.
var Terminal *term.Terminal

// ReadWriter combines reader and writer.
type ReadWriter struct {
	io.Reader
	io.Writer
}

// ErrPasswordMismatch is returned when the password confirmation doesn't
// match the password.
var ErrPasswordMismatch = errors.New("the entered passwords do not match")

// ReadLine reads a line from the input without trailing '\n'.
func ReadLine(prompt string) (string, error) {
	trm := Terminal
	if trm == nil {
		s, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return readLineFromStdin(prompt)
		}
		defer func() { _ = term.Restore(int(os.Stdin.Fd()), s) }()
		trm = term.NewTerminal(ReadWriter{os.Stdin, os.Stdout}, "")
	}
	return readLine(trm, prompt)
}

func readLineFromStdin(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) != 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readLine(trm *term.Terminal, prompt string) (string, error) {
	_, err := trm.Write([]byte(prompt))
	if err != nil {
		return "", err
	}
	return trm.ReadLine()
}

// ReadPassword reads the user's password with prompt.
func ReadPassword(prompt string) (string, error) {
	if Terminal != nil {
		return Terminal.ReadPassword(prompt)
	}
	return readSecurePassword(prompt)
}

// ReadNewPassword reads a password twice and checks that both match.
func ReadNewPassword(prompt string) (string, error) {
	pass, err := ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := ReadPassword("Confirm password > ")
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if pass != confirm {
		return "", ErrPasswordMismatch
	}
	return pass, nil
}
