// FILE: othello/cmd/othello-client/main.go
// Package main implements an interactive client for the Othello server API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"othello/internal/client/commands"
	"othello/internal/client/display"
	"othello/internal/client/session"

	"github.com/chzyer/readline"
)

func main() {
	cfg, err := session.LoadConfig()
	if err != nil {
		fmt.Printf("%sConfig: %s, using defaults%s\n", display.Yellow, err.Error(), display.Reset)
		def := session.DefaultConfig
		cfg = &def
	}

	apiURL := flag.String("url", cfg.APIBaseURL, "API base URL")
	flag.Parse()

	s := session.New(*apiURL)

	historyFile, err := session.HistoryPath()
	if err != nil {
		historyFile = ""
	}

	// Initialize readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("othello"),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sOthello Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s, os.Stdin, os.Stdout)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "quit" {
			break
		}

		// Check for verbose flag
		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		if errors.Is(registry.Execute(line), commands.ErrExit) {
			break
		}
	}

	// Remember the server and user for the next run
	if s.APIBaseURL != cfg.APIBaseURL || (s.Username != "" && s.Username != cfg.Username) {
		cfg.APIBaseURL = s.APIBaseURL
		if s.Username != "" {
			cfg.Username = s.Username
		}
		if err := cfg.Save(); err != nil {
			fmt.Printf("%sFailed to save config: %s%s\n", display.Red, err.Error(), display.Reset)
		}
	}
}

func buildPrompt(s *session.Session) string {
	parts := []string{}

	// Add user/game context
	if s.Username != "" {
		parts = append(parts, fmt.Sprintf("%s%s%s", display.Magenta, s.Username, display.Reset))
	}
	if s.Username != "" && s.CurrentGame != "" {
		parts = append(parts, fmt.Sprintf("%s - %s", display.Yellow, display.Reset))
	}
	if s.CurrentGame != "" {
		parts = append(parts, fmt.Sprintf("%s%s%s", display.White, shortID(s.CurrentGame), display.Reset))
	}

	// Add player color if in game
	if s.CurrentGameState != nil && s.PlayerColor != "" {
		parts = append(parts, sideText(s.PlayerColor))
	}

	promptStr := "othello"
	if len(parts) > 0 {
		promptStr += display.Yellow + " [" + display.Reset + strings.Join(parts, "") + display.Yellow + "]"
	}

	if g := s.CurrentGameState; g != nil {
		if g.State == "ongoing" || g.State == "pending" {
			playerType := "h"
			if g.PlayerToMove().IsComputer() {
				playerType = "c"
			}
			promptStr += fmt.Sprintf(" - Turn:%s(%s) %d-%d", sideText(g.Turn), playerType, g.Score.Black, g.Score.White)
		} else {
			promptStr += fmt.Sprintf(" - %s%s%s %d-%d", display.Yellow, g.State, display.Reset, g.Score.Black, g.Score.White)
		}
	}

	return display.Prompt(promptStr)
}

// sideText names a side in its disc color, Black as X and White as O
func sideText(color string) string {
	if color == "w" {
		return display.Blue + "White(O)" + display.Reset
	}
	return display.Red + "Black(X)" + display.Reset
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
