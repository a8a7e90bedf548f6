// FILE: othello/internal/client/commands/registry.go
package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"othello/internal/client/api"
	"othello/internal/client/display"
)

// ErrExit is returned by the exit command to end the REPL
var ErrExit = errors.New("exit")

// Session is the client state commands read and update
type Session interface {
	GetAPIBaseURL() string
	SetAPIBaseURL(string)
	GetCurrentGame() string
	SetCurrentGame(string)
	GetCurrentUser() string
	SetCurrentUser(string)
	GetAuthToken() string
	SetAuthToken(string)
	GetUsername() string
	SetUsername(string)
	GetLastMoveCount() int
	SetLastMoveCount(int)
	GetClient() *api.Client
	IsVerbose() bool
	SetGameState(*api.GameResponse)
	GetGameState() *api.GameResponse
	SetPlayerColor(string)
	GetPlayerColor() string
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*Env, []string) error
}

// Env is what a command handler works with: the session plus the streams
// for prompts and output
type Env struct {
	Session
	In  *bufio.Scanner
	Out io.Writer
}

// Registry manages command registration and execution
type Registry struct {
	env      *Env
	commands map[string]*Command
}

func NewRegistry(session Session, in io.Reader, out io.Writer) *Registry {
	r := &Registry{
		env:      &Env{Session: session, In: bufio.NewScanner(in), Out: out},
		commands: make(map[string]*Command),
	}

	// Register all commands
	r.registerGameCommands()
	r.registerAuthCommands()
	r.registerDebugCommands()

	// Help command
	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	// Exit command
	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line. Command failures are printed; only ErrExit
// is returned.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmdName := parts[0]
	args := parts[1:]

	cmd, exists := r.commands[cmdName]
	if !exists {
		fmt.Fprintf(r.env.Out, "%sUnknown command: %s%s\n", display.Red, cmdName, display.Reset)
		fmt.Fprintf(r.env.Out, "Type 'help' for available commands\n")
		return nil
	}

	r.env.GetClient().SetVerbose(r.env.IsVerbose())

	err := cmd.Handler(r.env, args)
	if errors.Is(err, ErrExit) {
		return err
	}
	if err != nil {
		fmt.Fprintf(r.env.Out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return nil
}

func (r *Registry) helpHandler(e *Env, args []string) error {
	if len(args) > 0 {
		// Show help for specific command
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(e.Out, "\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(e.Out, "Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Fprintf(e.Out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	// Show all commands
	fmt.Fprintf(e.Out, "\n%sAvailable Commands:%s\n\n", display.Cyan, display.Reset)

	groups := []struct {
		title string
		names []string
	}{
		{"Game Commands", []string{"new", "join", "move", "computer", "undo", "redo", "forfeit", "show", "state", "delete", "poll"}},
		{"Auth Commands", []string{"register", "login", "logout", "whoami", "user"}},
		{"Utility Commands", []string{"health", "url", "raw", "clear", "help", "exit"}},
	}

	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(e.Out)
		}
		fmt.Fprintf(e.Out, "%s%s:%s\n", display.Yellow, group.title, display.Reset)
		for _, name := range group.names {
			cmd, exists := r.commands[name]
			if !exists {
				continue
			}
			shortPart := ""
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Fprintf(e.Out, "  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	fmt.Fprintf(e.Out, "\nType 'help <command>' for detailed usage\n")
	fmt.Fprintf(e.Out, "Add '-v' to any command for verbose output\n")
	return nil
}

func exitHandler(e *Env, args []string) error {
	fmt.Fprintf(e.Out, "%sGoodbye!%s\n", display.Cyan, display.Reset)
	return ErrExit
}

// prompt asks a question and returns the trimmed answer or def when empty
func (e *Env) prompt(question, def string) string {
	fmt.Fprint(e.Out, display.Yellow+question+display.Reset)
	if !e.In.Scan() {
		return def
	}
	answer := strings.TrimSpace(e.In.Text())
	if answer == "" {
		return def
	}
	return answer
}
