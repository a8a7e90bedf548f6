// FILE: othello/internal/client/commands/auth.go
package commands

import (
	"fmt"
	"os"

	"othello/internal/client/display"

	"golang.org/x/term"
)

func (r *Registry) registerAuthCommands() {
	r.Register(&Command{
		Name:        "register",
		ShortName:   "r",
		Description: "Register a new user",
		Usage:       "register",
		Handler:     registerHandler,
	})

	r.Register(&Command{
		Name:        "login",
		ShortName:   "l",
		Description: "Login with credentials",
		Usage:       "login",
		Handler:     loginHandler,
	})

	r.Register(&Command{
		Name:        "logout",
		ShortName:   "o",
		Description: "Clear authentication",
		Usage:       "logout",
		Handler:     logoutHandler,
	})

	r.Register(&Command{
		Name:        "whoami",
		ShortName:   "i",
		Description: "Show current user",
		Usage:       "whoami",
		Handler:     whoamiHandler,
	})

	r.Register(&Command{
		Name:        "user",
		ShortName:   "e",
		Description: "Set user ID manually",
		Usage:       "user <userId>",
		Handler:     setUserHandler,
	})
}

// readPassword reads without echo from a terminal, or a plain line otherwise
func (e *Env) readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return e.prompt(prompt, ""), nil
	}
	fmt.Fprint(e.Out, prompt)
	bytePassword, err := term.ReadPassword(fd)
	fmt.Fprintln(e.Out)
	if err != nil {
		return "", err
	}
	return string(bytePassword), nil
}

func registerHandler(e *Env, args []string) error {
	c := e.GetClient()

	username := e.prompt("Username: ", "")
	password, err := e.readPassword(display.Yellow + "Password: " + display.Reset)
	if err != nil {
		return err
	}
	email := e.prompt("Email (optional): ", "")

	resp, err := c.Register(username, password, email)
	if err != nil {
		return err
	}

	e.SetAuthToken(resp.Token)
	e.SetCurrentUser(resp.UserID)
	e.SetUsername(resp.Username)
	c.SetToken(resp.Token)

	fmt.Fprintf(e.Out, "%sRegistered successfully%s\n", display.Green, display.Reset)
	fmt.Fprintf(e.Out, "User ID: %s\n", resp.UserID)
	fmt.Fprintf(e.Out, "Username: %s\n", resp.Username)

	return nil
}

func loginHandler(e *Env, args []string) error {
	c := e.GetClient()

	identifier := e.prompt("Username or Email: ", "")
	password, err := e.readPassword(display.Yellow + "Password: " + display.Reset)
	if err != nil {
		return err
	}

	resp, err := c.Login(identifier, password)
	if err != nil {
		return err
	}

	e.SetAuthToken(resp.Token)
	e.SetCurrentUser(resp.UserID)
	e.SetUsername(resp.Username)
	c.SetToken(resp.Token)

	fmt.Fprintf(e.Out, "%sLogged in successfully%s\n", display.Green, display.Reset)
	fmt.Fprintf(e.Out, "User ID: %s\n", resp.UserID)
	fmt.Fprintf(e.Out, "Username: %s\n", resp.Username)

	return nil
}

func logoutHandler(e *Env, args []string) error {
	e.SetAuthToken("")
	e.SetCurrentUser("")
	e.SetUsername("")
	e.GetClient().SetToken("")

	fmt.Fprintf(e.Out, "%sLogged out%s\n", display.Green, display.Reset)
	return nil
}

func whoamiHandler(e *Env, args []string) error {
	if e.GetAuthToken() == "" {
		fmt.Fprintf(e.Out, "%sNot authenticated%s\n", display.Yellow, display.Reset)
		return nil
	}

	user, err := e.GetClient().GetCurrentUser()
	if err != nil {
		return err
	}

	fmt.Fprintf(e.Out, "%sCurrent User:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(e.Out, "  User ID:  %s\n", user.UserID)
	fmt.Fprintf(e.Out, "  Username: %s\n", user.Username)
	if user.Email != "" {
		fmt.Fprintf(e.Out, "  Email:    %s\n", user.Email)
	}
	fmt.Fprintf(e.Out, "  Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func setUserHandler(e *Env, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: user <userId>")
	}

	userID := args[0]
	e.SetCurrentUser(userID)
	fmt.Fprintf(e.Out, "%sUser ID set to: %s%s\n", display.Cyan, userID, display.Reset)
	fmt.Fprintln(e.Out, "Note: This doesn't authenticate, just sets the ID for display")

	return nil
}
