package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	clientapi "github.com/wkarimi/shulebook/internal/client/api"
	"github.com/wkarimi/shulebook/internal/client/auth"
	"github.com/wkarimi/shulebook/internal/client/refresh"
	"github.com/wkarimi/shulebook/internal/client/state"
	"github.com/wkarimi/shulebook/internal/config"
)

// Passwords bundles the non-interactive password sources.
type Passwords struct {
	FromFile string
	FromArgs string
}

// App bundles the composed client services for the CLI commands.
type App struct {
	Client       *clientapi.Client
	Auth         *auth.Manager
	Store        *state.Store
	Orchestrator *refresh.Orchestrator
	Config       *config.Config
	Logger       *slog.Logger
}

// readPassword retrieves the password with the usual priority:
// 1. SHULEBOOK_PASSWORD environment variable
// 2. --password-file (file path)
// 3. --password (command line)
// 4. Interactive prompt (fallback)
func readPassword(passwords Passwords) (string, error) {
	if envPassword := os.Getenv("SHULEBOOK_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if passwords.FromArgs != "" {
		return passwords.FromArgs, nil
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// readInput reads one line from stdin
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptPassword reads a password without echoing it
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}

// PrintUsage prints the command overview.
func PrintUsage() {
	fmt.Println("Shulebook Portal Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shulebook [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version              Show version information")
	fmt.Println("  --server URL           Portal API base address (default: http://localhost:8000)")
	fmt.Println("  --db PATH              Path to local database (default: shulebook-client.db)")
	fmt.Println("  --password PASSWORD    Password (not recommended, use env var or file)")
	fmt.Println("  --password-file PATH   Path to file containing the password")
	fmt.Println()
	fmt.Println("Password Priority (highest to lowest):")
	fmt.Println("  1. SHULEBOOK_PASSWORD environment variable")
	fmt.Println("  2. --password-file (file path)")
	fmt.Println("  3. --password (command line)")
	fmt.Println("  4. Interactive prompt (fallback)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login                  Log in to the portal")
	fmt.Println("  signup                 Register a new account")
	fmt.Println("  logout                 Log out and clear local state")
	fmt.Println("  status                 Show session status")
	fmt.Println("  dashboard              Fetch and show role dashboard data")
	fmt.Println("  profile [field=value]  Show or update profile fields")
	fmt.Println("  watch                  Poll the notification feed until interrupted")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  shulebook login")
	fmt.Println("  shulebook dashboard")
	fmt.Println("  shulebook --refresh dashboard")
	fmt.Println("  shulebook profile email=amina@example.org")
	fmt.Println("  shulebook --server https://portal.example.org watch")
}
