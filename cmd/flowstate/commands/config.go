package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand returns the config subcommand group.
func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the resolved configuration",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective config as YAML",
				Action: runConfigShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file and log file paths",
				Action: runConfigPath,
			},
		},
	}
}

func runConfigShow(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = out(cmd).Write(raw)
	return err
}

func runConfigPath(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "config: %s\n", cmd.String("config"))
	fmt.Fprintf(out(cmd), "data:   %s\n", cfg.DataDir)
	fmt.Fprintf(out(cmd), "log:    %s\n", cfg.LogPath())
	return nil
}
