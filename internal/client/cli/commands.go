package cli

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// promptLine and promptSecret can be swapped in tests.
var (
	promptLine   = PromptLine
	promptSecret = PromptSecret
)

var ErrUnknownCommand = errors.New("unknown command")

// Exec runs one command by name.
func (a *App) Exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "users":
		role := ""
		if len(args) > 0 {
			role = args[0]
		}
		return a.Users(ctx, role)
	case "help":
		a.help()
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Available commands: register, login, whoami, users <role>, help, exit")
}

// Register prompts for username, email, password and an optional role, and
// creates the account. An empty role lets the server assign the default.
func (a *App) Register(ctx context.Context) error {
	username, err := promptLine(a.reader, a.out, "Username")
	if err != nil {
		return err
	}
	email, err := promptLine(a.reader, a.out, "Email")
	if err != nil {
		return err
	}

	password, err := promptSecret(a.out, "Password")
	if err != nil {
		return err
	}
	defer wipe(password)

	confirm, err := promptSecret(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer wipe(confirm)

	if string(password) != string(confirm) {
		fmt.Fprintln(a.out, "Passwords do not match")
		return errors.New("passwords do not match")
	}

	role, err := promptLine(a.reader, a.out, "Role (empty for User)")
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	id, err := a.client.Register(ctx, username, email, string(password), role)
	if err != nil {
		fmt.Fprintf(a.out, "Registration failed: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %d)\n", username, id)
	return nil
}

// Login prompts for credentials and prints the access token on success.
func (a *App) Login(ctx context.Context) error {
	username, err := promptLine(a.reader, a.out, "Username")
	if err != nil {
		return err
	}

	password, err := promptSecret(a.out, "Password")
	if err != nil {
		return err
	}
	defer wipe(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	token, expiresAt, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		fmt.Fprintf(a.out, "Login failed: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Login successful, token expires at %s\n", expiresAt.Local().Format(time.RFC1123))
	fmt.Fprintln(a.out, token)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	me, err := a.client.WhoAmI(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "whoami failed: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "%s (%s), token expires at %s\n", me.Username, me.Role, me.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

// Users lists accounts with role. Only admins may call it.
func (a *App) Users(ctx context.Context, role string) error {
	if role == "" {
		fmt.Fprintln(a.out, "Usage: users <role>")
		return errors.New("role is required")
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	users, err := a.client.ListUsersByRole(ctx, role)
	if err != nil {
		fmt.Fprintf(a.out, "users failed: %s\n", err)
		return err
	}

	if len(users) == 0 {
		fmt.Fprintf(a.out, "No users with role %s\n", role)
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
	}
	return nil
}
