package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sandeepkv93/flowstate/internal/config"
	"github.com/sandeepkv93/flowstate/internal/logging"
	"github.com/sandeepkv93/flowstate/internal/storage"
	"github.com/sandeepkv93/flowstate/internal/workspace"
)

// NewRootCommand returns the top-level CLI command. Without a subcommand it
// launches the TUI.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "flowstate",
		Usage: "Terminal task manager with focus sessions, streaks and levels",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory holding the task and progression snapshots",
			},
			&cli.StringFlag{
				Name:  "storage",
				Usage: "Snapshot backend: sqlite or file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			NewAddCommand(),
			NewListCommand(),
			NewNextCommand(),
			NewDoneCommand(),
			NewStatsCommand(),
			NewProjectCommand(),
			NewLabelCommand(),
			NewConfigCommand(),
		},
	}
}

func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}
	cfg = config.FromEnv(cfg)
	if v := strings.TrimSpace(cmd.String("data-dir")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(cmd.String("storage")); v != "" {
		cfg.Storage = strings.ToLower(v)
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// session is everything a command needs once config is resolved.
type session struct {
	cfg    config.Config
	log    *slog.Logger
	ws     *workspace.Workspace
	closer io.Closer
}

func openSession(ctx context.Context, cmd *cli.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, closer, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)

	store, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	ws, err := workspace.Open(ctx, store, workspace.WithLogger(log))
	if err != nil {
		_ = store.Close()
		_ = closer.Close()
		return nil, err
	}
	log.Debug("session opened", "data_dir", cfg.DataDir, "storage", cfg.Storage)
	return &session{cfg: cfg, log: log, ws: ws, closer: closer}, nil
}

func (s *session) Close() error {
	err := s.ws.Close()
	if cerr := s.closer.Close(); err == nil {
		err = cerr
	}
	return err
}

func out(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}
