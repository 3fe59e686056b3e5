package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	clientapi "github.com/wkarimi/shulebook/internal/client/api"
	"github.com/wkarimi/shulebook/internal/client/auth"
	"github.com/wkarimi/shulebook/internal/client/cli"
	"github.com/wkarimi/shulebook/internal/client/refresh"
	"github.com/wkarimi/shulebook/internal/client/state"
	"github.com/wkarimi/shulebook/internal/client/storage/boltdb"
	"github.com/wkarimi/shulebook/internal/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "", "Portal API base address (overrides SHULEBOOK_SERVER_URL)")
	dbPath := flag.String("db", "", "Path to local database (overrides SHULEBOOK_DB)")
	password := flag.String("password", "", "Password (not recommended, use env var or file)")
	passwordFile := flag.String("password-file", "", "Path to file containing the password")
	forceRefresh := flag.Bool("refresh", false, "Force a dashboard refresh cycle")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logLevel := slog.LevelWarn
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, closeApp, err := buildApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeApp()

	passwords := cli.Passwords{FromFile: *passwordFile, FromArgs: *password}

	if err := runCommand(ctx, app, command, args[1:], passwords, *forceRefresh); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildApp is the composition root. The ordering matters: the session
// manager receives the state store's dispatch function (the dependency
// is one-directional) and is then injected into the transport as its
// token refresher.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*cli.App, func(), error) {
	boltStorage, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	closeApp := func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}

	apiClient := clientapi.NewClient(cfg.ServerURL, boltStorage)
	store := state.NewStore()
	authManager := auth.NewManager(apiClient, boltStorage, store.Dispatch, logger)
	apiClient.SetRefresher(authManager)
	orchestrator := refresh.NewOrchestrator(apiClient, authManager, store, logger)

	// Silent session restore; settles in Unauthenticated when no
	// refresh token is stored, without touching the network.
	if err := authManager.Start(ctx); err != nil {
		closeApp()
		return nil, nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return &cli.App{
		Client:       apiClient,
		Auth:         authManager,
		Store:        store,
		Orchestrator: orchestrator,
		Config:       cfg,
		Logger:       logger,
	}, closeApp, nil
}

func runCommand(ctx context.Context, app *cli.App, command string, args []string, passwords cli.Passwords, forceRefresh bool) error {
	switch command {
	case "login":
		return app.RunLogin(ctx, passwords)
	case "signup":
		return app.RunSignup(ctx, passwords)
	case "logout":
		return app.RunLogout(ctx)
	case "status":
		return app.RunStatus(ctx)
	case "dashboard":
		return app.RunDashboard(ctx, forceRefresh)
	case "profile":
		return app.RunProfile(ctx, args)
	case "watch":
		return app.RunWatch(ctx)
	default:
		cli.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printVersion() {
	fmt.Printf("Shulebook Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
