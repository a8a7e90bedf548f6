// FILE: othello/cmd/othello-server/cli/cli.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"othello/internal/server/core"
	"othello/internal/server/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
	"golang.org/x/term"
)

const minPasswordLength = 8

// Run is the entry point for the database admin commands
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, moves, user")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "query":
		return runQuery(args[1:])
	case "moves":
		return runMoves(args[1:])
	case "user":
		if len(args) < 2 {
			return fmt.Errorf("user subcommand required: add, delete, set-password, set-hash, list")
		}
		return runUser(args[1], args[2:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// newFlagSet returns a flag set with the shared -path flag
func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	return fs, path
}

// openStore parses args and opens the database at -path
func openStore(fs *flag.FlagSet, path *string, args []string) (*storage.Store, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return nil, fmt.Errorf("database path required")
	}
	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	fs, path := newFlagSet("init")
	store, err := openStore(fs, path, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Printf("Database initialized at: %s\n", *path)
	return nil
}

func runDelete(args []string) error {
	fs, path := newFlagSet("delete")
	store, err := openStore(fs, path, args)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Printf("Database deleted: %s\n", *path)
	return nil
}

// playerInfo describes one side of a stored game
func playerInfo(id string, playerType, level, depth int) string {
	if playerType == 1 {
		return fmt.Sprintf("%s (human)", short(id))
	}
	info := fmt.Sprintf("%s (L%d", short(id), level)
	if depth > 0 {
		info += fmt.Sprintf(" d%d", depth)
	}
	return info + ")"
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runQuery(args []string) error {
	fs, path := newFlagSet("query")
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	playerID := fs.String("playerId", "", "Player ID to filter (optional, * for all)")

	store, err := openStore(fs, path, args)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *playerID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Println("No games found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tBlack Player\tWhite Player\tStart Time\tResult\tScore")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, g := range games {
		result, score := "ongoing", "-"
		if g.Result != nil {
			result = *g.Result
		}
		if g.BlackScore != nil && g.WhiteScore != nil {
			score = fmt.Sprintf("%d-%d", *g.BlackScore, *g.WhiteScore)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			short(g.GameID)+"...",
			playerInfo(g.BlackPlayerID, g.BlackType, g.BlackLevel, g.BlackDepth),
			playerInfo(g.WhitePlayerID, g.WhiteType, g.WhiteLevel, g.WhiteDepth),
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
			result,
			score,
		)
	}
	w.Flush()

	t := tallyResults(games)
	fmt.Printf("\nFound %d game(s): Black won %d, White won %d, %d drawn, %d unfinished\n",
		len(games), t.black, t.white, t.draws, t.unfinished)
	return nil
}

type tally struct {
	black, white, draws, unfinished int
}

// tallyResults counts finished games by winner, forfeits included
func tallyResults(games []storage.GameRecord) tally {
	var t tally
	for _, g := range games {
		if g.Result == nil {
			t.unfinished++
			continue
		}
		switch *g.Result {
		case core.StateBlackWins.String():
			t.black++
		case core.StateWhiteWins.String():
			t.white++
		case core.StateDraw.String():
			t.draws++
		default:
			t.unfinished++
		}
	}
	return t
}

func runMoves(args []string) error {
	fs, path := newFlagSet("moves")
	gameID := fs.String("gameId", "", "Game ID (required)")

	store, err := openStore(fs, path, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	moves, err := store.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(moves) == 0 {
		fmt.Println("No moves found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tColor\tMove\tFlips\tTime")
	for _, m := range moves {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			m.MoveNumber,
			m.PlayerColor,
			m.Move,
			m.Flips,
			m.MoveTimeUTC.Format("15:04:05"),
		)
	}
	w.Flush()

	fmt.Printf("\nFinal position: %s\n", moves[len(moves)-1].PositionAfterMove)
	return nil
}

func runUser(subcommand string, args []string) error {
	switch subcommand {
	case "add":
		return runUserAdd(args)
	case "delete":
		return runUserDelete(args)
	case "set-password":
		return runUserSetPassword(args)
	case "set-hash":
		return runUserSetHash(args)
	case "list":
		return runUserList(args)
	default:
		return fmt.Errorf("unknown user subcommand: %s", subcommand)
	}
}

// promptPassword reads a password from the terminal without echo
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pwBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pwBytes), nil
}

// hashPassword checks the length and hashes with Argon2
func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func runUserAdd(args []string) error {
	fs, path := newFlagSet("user add")
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "Email address (optional)")
	password := fs.String("password", "", "Password (optional, will prompt if not provided)")
	hash := fs.String("hash", "", "Pre-computed password hash (optional)")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("database path required")
	}
	if *username == "" {
		return fmt.Errorf("username required")
	}
	if *password != "" && *hash != "" {
		return fmt.Errorf("cannot specify both -password and -hash")
	}

	var passwordHash string
	var err error
	switch {
	case *interactive:
		if *password != "" || *hash != "" {
			return fmt.Errorf("cannot use -interactive with -password or -hash")
		}
		pw, err := promptPassword("Enter password: ")
		if err != nil {
			return err
		}
		if passwordHash, err = hashPassword(pw); err != nil {
			return err
		}
	case *hash != "":
		if err = auth.ValidatePHCHashFormat(*hash); err != nil {
			return fmt.Errorf("invalid hash format: %w", err)
		}
		passwordHash = *hash
	case *password != "":
		if passwordHash, err = hashPassword(*password); err != nil {
			return err
		}
	default:
		return fmt.Errorf("password required: use -password, -hash, or -interactive")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	// Generate user ID with conflict check
	var userID string
	for attempts := 0; attempts < 10; attempts++ {
		userID = uuid.New().String()
		if _, err := store.GetUserByID(userID); err != nil {
			break
		}
		if attempts == 9 {
			return fmt.Errorf("failed to generate unique user ID after 10 attempts")
		}
	}

	record := storage.UserRecord{
		UserID:       userID,
		Username:     strings.ToLower(*username),
		Email:        strings.ToLower(*email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := store.CreateUser(record); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return fmt.Errorf("username or email already taken")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("User created successfully:\n")
	fmt.Printf("  ID: %s\n", userID)
	fmt.Printf("  Username: %s\n", record.Username)
	if record.Email != "" {
		fmt.Printf("  Email: %s\n", record.Email)
	}
	return nil
}

func runUserDelete(args []string) error {
	fs, path := newFlagSet("user delete")
	username := fs.String("username", "", "Username to delete")
	userID := fs.String("id", "", "User ID to delete")

	store, err := openStore(fs, path, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if (*username == "") == (*userID == "") {
		return fmt.Errorf("specify exactly one of -username or -id")
	}

	targetID := *userID
	if targetID == "" {
		user, err := store.GetUserByUsername(*username)
		if err != nil {
			return fmt.Errorf("user not found: %s", *username)
		}
		targetID = user.UserID
	}

	if err := store.DeleteUserByID(targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("User deleted: %s\n", targetID)
	return nil
}

func runUserSetPassword(args []string) error {
	fs, path := newFlagSet("user set-password")
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "New password")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")

	store, err := openStore(fs, path, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *username == "" {
		return fmt.Errorf("username required")
	}

	newPassword := *password
	switch {
	case *interactive && *password != "":
		return fmt.Errorf("cannot use -interactive with -password")
	case *interactive:
		if newPassword, err = promptPassword("Enter new password: "); err != nil {
			return err
		}
	case *password == "":
		return fmt.Errorf("password required: use -password or -interactive")
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	user, err := store.GetUserByUsername(*username)
	if err != nil {
		return fmt.Errorf("user not found: %s", *username)
	}

	if err := store.UpdateUserPassword(user.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	fmt.Printf("Password updated for user: %s\n", *username)
	return nil
}

func runUserSetHash(args []string) error {
	fs, path := newFlagSet("user set-hash")
	username := fs.String("username", "", "Username (required)")
	hash := fs.String("hash", "", "Password hash (required)")

	store, err := openStore(fs, path, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *username == "" || *hash == "" {
		return fmt.Errorf("username and password hash required")
	}
	if err := auth.ValidatePHCHashFormat(*hash); err != nil {
		return fmt.Errorf("invalid hash format: %w", err)
	}

	user, err := store.GetUserByUsername(*username)
	if err != nil {
		return fmt.Errorf("user not found: %s", *username)
	}

	if err := store.UpdateUserPassword(user.UserID, *hash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	fmt.Printf("Password hash updated for user: %s\n", *username)
	return nil
}

func runUserList(args []string) error {
	fs, path := newFlagSet("user list")
	store, err := openStore(fs, path, args)
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "User ID\tUsername\tEmail\tCreated\tLast Login")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, u := range users {
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		email := u.Email
		if email == "" {
			email = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			short(u.UserID)+"...",
			u.Username,
			email,
			u.CreatedAt.Format("2006-01-02 15:04"),
			lastLogin,
		)
	}
	w.Flush()

	fmt.Printf("\nTotal users: %d\n", len(users))
	return nil
}
