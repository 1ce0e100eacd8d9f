package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitnudge/internal/cli"
	"github.com/julianstephens/habitnudge/internal/cli/habits"
	"github.com/julianstephens/habitnudge/internal/cli/nudges"
	"github.com/julianstephens/habitnudge/internal/cli/system"
	"github.com/julianstephens/habitnudge/internal/config"
	"github.com/julianstephens/habitnudge/internal/constants"
	apperrors "github.com/julianstephens/habitnudge/internal/errors"
	"github.com/julianstephens/habitnudge/internal/keyring"
	"github.com/julianstephens/habitnudge/internal/logger"
	"github.com/julianstephens/habitnudge/internal/storage"
	"github.com/julianstephens/habitnudge/internal/storage/postgres"
	"github.com/julianstephens/habitnudge/internal/storage/sqlite"
)

var CLI struct {
	Version    kong.VersionFlag
	DB         string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the keyring, the HABITNUDGE_DB_CONNECTION environment variable or .pgpass instead." type:"string"`
	ConfigFile string `name:"config" help:"Path to the TOML config file." type:"path"`
	Debug      bool   `help:"Write debug logs and mirror them to stderr."`
	Verbose    bool   `short:"v" help:"Mirror informational logs to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize habitnudge storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Habit   habits.HabitCmd   `cmd:"" help:"Manage habits and habit tracking."`
	Nudge   nudges.NudgeCmd   `cmd:"" help:"Evaluate and deliver nudges."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage database credentials in the OS keyring."`
	Config  system.ConfigCmd  `cmd:"" help:"Inspect configuration."`
	Backup  system.BackupCmd  `cmd:"" help:"Snapshot and restore the SQLite database."`
}

// commands that manage their own storage lifecycle or need none
var noAutoLoad = []string{"init", "doctor", "keyring", "config"}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Context-aware habit nudges"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: config.Dir(), Verbose: CLI.Verbose}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	cfgPath := CLI.ConfigFile
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		apperrors.Fatal(err)
	}

	connStr, source := keyring.ResolveConnection(CLI.DB, config.DefaultDBPath())
	store, err := openStore(connStr, source)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: cfgPath,
		DBSource:   source,
	}

	if needsLoad(ctx.Command()) {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

func needsLoad(command string) bool {
	first, _, _ := strings.Cut(command, " ")
	for _, c := range noAutoLoad {
		if first == c {
			return false
		}
	}
	return true
}

func openStore(connStr string, source keyring.Source) (storage.Provider, error) {
	if storage.IsPostgres(connStr) || strings.Contains(connStr, "host=") {
		// Passwords are only tolerated when they come from the encrypted keyring
		if source != keyring.SourceKeyring && storage.HasEmbeddedCredentials(connStr) {
			return nil, fmt.Errorf("%w: use `%s keyring set`, the %s environment variable without a password plus .pgpass, or a password-less connection string",
				postgres.ErrEmbeddedCredentials, constants.AppName, constants.DBConnectionEnvVar)
		}
		logger.Debug("Using PostgreSQL storage", "source", source)
		return postgres.New(connStr), nil
	}

	path, err := expandHome(connStr)
	if err != nil {
		return nil, err
	}
	logger.Debug("Using SQLite storage", "path", path, "source", source)
	return sqlite.NewStore(path), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
