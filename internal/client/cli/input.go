package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// stdinFd is the terminal readPassword reads from.
var stdinFd = func() int { return int(os.Stdin.Fd()) }

// PromptLine writes "label: " to w and returns the next line from r with
// surrounding spaces removed. A last line without a newline still counts.
func PromptLine(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}

	line, err := r.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptSecret writes "label: " to w and reads from the terminal with echo
// off. Callers wipe the result when done.
func PromptSecret(w io.Writer, label string) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return nil, err
	}
	secret, err := readPassword(stdinFd())
	fmt.Fprintln(w)
	return secret, err
}

func wipe(b []byte) {
	clear(b)
}
