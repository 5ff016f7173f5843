package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hairizuan-noorazman/bible-memo/internal/config"
)

func (c *cli) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(c.newConfigInitCmd())
	cmd.AddCommand(c.newConfigShowCmd())
	return cmd
}

func (c *cli) newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a config file template at ~/.bible-memo.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := c.configPath
			if configPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				configPath = p
			}

			if _, err := os.Stat(configPath); err == nil {
				printMessage(cmd.OutOrStdout(), "Config file already exists at "+configPath)
				return nil
			}

			if err := os.WriteFile(configPath, []byte(config.Template), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			printMessage(cmd.OutOrStdout(), "Config file created at "+configPath)
			return nil
		},
	}
}

func (c *cli) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			secret := "(not set)"
			if cfg.Credential.Secret != "" {
				secret = "****"
			}

			printMessage(out, fmt.Sprintf("Storage:     %s", cfg.Storage.Type))
			switch cfg.Storage.Type {
			case "local":
				printMessage(out, fmt.Sprintf("Directory:   %s", cfg.Storage.BaseDir))
			case "s3":
				printMessage(out, fmt.Sprintf("Bucket:      s3://%s/%s (%s)", cfg.Storage.S3Bucket, cfg.Storage.S3Prefix, cfg.Storage.S3Region))
			case "sqlite":
				printMessage(out, fmt.Sprintf("Database:    %s", cfg.Database.Path))
			case "mysql":
				printMessage(out, fmt.Sprintf("Database:    %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
			}
			printMessage(out, fmt.Sprintf("API:         %s", cfg.API.BaseURL))
			printMessage(out, fmt.Sprintf("Token seal:  %s", secret))

			if cfg.File != "" {
				printMessage(out, fmt.Sprintf("Config file: %s", cfg.File))
			} else {
				printMessage(out, "Config file: (none)")
			}

			return nil
		},
	}
}
