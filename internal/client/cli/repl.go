package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the prompt needs. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Exec(ctx context.Context, cmd string, args []string) error
}

// runREPL reads commands line by line from reader until EOF, "exit" or
// "quit". The same reader feeds the command prompts, so no input is lost to
// read-ahead. Command errors are reported by the handlers and the loop
// keeps going.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	fmt.Fprintln(w, "Welcome to SafeVault CLI (type 'help' for commands)")

	for {
		status := ""
		if a.isLoggedIn() {
			status = "(logged in) "
		}
		fmt.Fprintf(w, "sv %s> ", status)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			if err := a.Exec(ctx, cmd, parts[1:]); errors.Is(err, ErrUnknownCommand) {
				fmt.Fprintln(w, "Unknown command:", cmd)
			}
		}
	}
}
