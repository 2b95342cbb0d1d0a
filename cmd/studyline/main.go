package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/studyline/internal/cli"
	"github.com/julianstephens/studyline/internal/config"
	"github.com/julianstephens/studyline/internal/constants"
	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Store path (.db for SQLite, .json for a JSON document) or PostgreSQL connection string. Credentials must not be embedded; use the keyring or STUDYLINE_DB_CONNECTION. Defaults to the keyring connection or ${default_config}." env:"STUDYLINE_CONFIG"`
	Env      string `help:"Optional .env file with STUDYLINE_* settings." default:".env" type:"path"`
	Debug    bool   `help:"Log debug output to stderr."`
	Timezone string `help:"Timezone used to decide today's date. Overrides STUDYLINE_TIMEZONE."`
	Content  string `help:"Question pool file (YAML or JSON). Defaults to the bundled sample." type:"path"`
	Today    string `help:"Pretend today is this date (YYYY-MM-DD)." hidden:""`

	Init         cli.InitCmd         `cmd:"" help:"Initialize studyline storage."`
	Tui          cli.TuiCmd          `cmd:"" help:"Launch the interactive dashboard." default:"withargs"`
	Plan         cli.PlanCmd         `cmd:"" help:"Manage study plans."`
	Streak       cli.StreakCmd       `cmd:"" help:"Show and record study streaks."`
	Challenge    cli.ChallengeCmd    `cmd:"" help:"Daily challenge question."`
	Mock         cli.MockCmd         `cmd:"" help:"Timed mock tests."`
	Achievements cli.AchievementsCmd `cmd:"" help:"List achievement tiers."`
	Backup       cli.BackupCmd       `cmd:"" help:"Manage database backups."`
	Keyring      cli.KeyringCmd      `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Study plans, streaks, daily challenges and mock tests"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":         constants.Version,
			"default_feature": constants.DefaultFeature,
			"default_config":  constants.DefaultConfigPath,
		},
	)

	settings, err := config.Load(CLI.Env)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Timezone != "" {
		settings.Timezone = CLI.Timezone
		if err := settings.Validate(); err != nil {
			errors.Fatal(err)
		}
	}

	store, err := cli.NewProvider(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: cli.ConfigDir(store)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx, err := cli.NewContext(store, settings)
	if err != nil {
		errors.Fatal(err)
	}
	appCtx.Today = CLI.Today
	appCtx.Content = CLI.Content

	if needsStore(ctx.Selected()) {
		if err := store.Load(); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// needsStore reports whether the selected command reads the store. The
// top-level init creates it and keyring commands never touch it.
func needsStore(cmd *kong.Node) bool {
	if cmd == nil {
		return true
	}
	switch topLevel(cmd).Name {
	case "init", "keyring":
		return false
	}
	return true
}

// topLevel walks up to the command directly under the application node.
func topLevel(cmd *kong.Node) *kong.Node {
	for cmd.Parent != nil && cmd.Parent.Type != kong.ApplicationNode {
		cmd = cmd.Parent
	}
	return cmd
}
