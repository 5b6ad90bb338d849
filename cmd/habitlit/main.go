package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/session"
	"github.com/julianstephens/habitlit/internal/storage"
)

var CLI struct {
	Version        kong.VersionFlag
	Config         string `help:"Data file path (.db or .json), :memory:, or PostgreSQL connection string. Credentials must NOT be embedded in the connection string, use PGPASSWORD or .pgpass instead." env:"HABITLIT_CONFIG" default:"${default_config}"`
	DebugLog       bool   `name:"debug" help:"Log at debug level and mirror logs to stderr." env:"HABITLIT_DEBUG"`
	SessionBackend string `help:"Where the signed-in profile is kept (file|keyring|memory)." env:"HABITLIT_SESSION_BACKEND" default:"file" enum:"file,keyring,memory"`

	Init        cli.InitCmd        `cmd:"" help:"Initialize habitlit storage."`
	Migrate     cli.MigrateCmd     `cmd:"" help:"Run database migrations."`
	Doctor      cli.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Validate    cli.ValidateCmd    `cmd:"" help:"Check habits and logs for conflicts."`
	Tui         cli.TuiCmd         `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Serve       cli.ServeCmd       `cmd:"" help:"Serve the JSON API."`
	Auth        cli.AuthCmd        `cmd:"" help:"Sign up, sign in and out."`
	Habit       cli.HabitCmd       `cmd:"" help:"Manage habits and habit tracking."`
	Category    cli.CategoryCmd    `cmd:"" help:"Show habit categories."`
	Achievement cli.AchievementCmd `cmd:"" help:"Manage achievements."`
	Backup      cli.BackupCmd      `cmd:"" help:"Manage data backups."`
	Debug       cli.DebugCmd       `cmd:"" help:"Debug commands for troubleshooting."`
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"default_addr":   constants.DefaultListenAddr,
		},
	)

	config, err := cli.ExpandHome(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	dataDir, err := cli.DataDirFor(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.DebugLog, ConfigDir: dataDir}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := storage.New(config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	slot, err := session.NewSlot(CLI.SessionBackend, dataDir)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:    store,
		Sessions: session.New(slot),
		DataDir:  dataDir,
	}

	logger.Debug("Running command", "command", ctx.Command(), "config", store.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
