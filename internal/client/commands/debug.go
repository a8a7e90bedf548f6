// FILE: othello/internal/client/commands/debug.go
package commands

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"othello/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Set API base URL",
		Usage:       "url [apiUrl]",
		Handler:     urlHandler,
	})

	r.Register(&Command{
		Name:        "raw",
		ShortName:   ":",
		Description: "Send raw API request",
		Usage:       "raw <method> <path> [json-body]",
		Handler:     rawRequestHandler,
	})

	r.Register(&Command{
		Name:        "clear",
		ShortName:   "-",
		Description: "Clear screen",
		Usage:       "clear",
		Handler:     clearHandler,
	})
}

func healthHandler(e *Env, args []string) error {
	resp, err := e.GetClient().Health()
	if err != nil {
		return err
	}

	fmt.Fprintf(e.Out, "%sServer Health:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(e.Out, "  Status:  %s\n", resp.Status)
	// Convert Unix timestamp to readable time
	t := time.Unix(resp.Time, 0)
	fmt.Fprintf(e.Out, "  Time:    %s\n", t.Format("2006-01-02 15:04:05"))
	if resp.Storage != "" {
		fmt.Fprintf(e.Out, "  Storage: %s\n", resp.Storage)
	}
	fmt.Fprintf(e.Out, "  Computer games: %d\n", resp.ComputerGames)

	return nil
}

func urlHandler(e *Env, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(e.Out, "Current API URL: %s\n", e.GetAPIBaseURL())
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	e.SetAPIBaseURL(url)
	e.GetClient().SetBaseURL(url)

	fmt.Fprintf(e.Out, "%sAPI URL set to: %s%s\n", display.Cyan, url, display.Reset)
	return nil
}

func rawRequestHandler(e *Env, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	method := strings.ToUpper(args[0])
	path := args[1]

	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}

	return e.GetClient().RawRequest(method, path, body)
}

func clearHandler(e *Env, args []string) error {
	cmd := exec.Command("clear")
	cmd.Stdout = e.Out
	return cmd.Run()
}
