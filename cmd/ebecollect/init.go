package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ebecollect/internal/collect"
	"ebecollect/internal/config"
)

func initCmd() *cobra.Command {
	var root string
	var mode string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter ebecollect.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := collect.ParseMode(mode); err != nil {
				return err
			}
			return runInit(configPath, root, mode)
		},
	}
	cmd.Flags().StringVar(&root, "root", "./events", "Folder holding the event folders")
	cmd.Flags().StringVar(&mode, "mode", string(collect.ModeUrQMD), "Collection mode")
	return cmd
}

func runInit(path, root, mode string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := config.Default()
	if dsnFlag != "" {
		cfg.Database.DSN = dsnFlag
	}
	cfg.Collect.Root = root
	cfg.Collect.Mode = mode

	contents, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
	return nil
}
