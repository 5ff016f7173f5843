package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hairizuan-noorazman/bible-memo/internal/app"
	"github.com/hairizuan-noorazman/bible-memo/internal/config"
	"github.com/hairizuan-noorazman/bible-memo/logger"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// cli carries global flags and the lazily built application.
type cli struct {
	configPath string
	json       bool
	debug      bool

	cfg *config.Config
	app *app.App
}

func main() {
	c := &cli{}
	if err := c.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memo",
		Short: "Memorize Bible verses from the terminal",
		Long:  "Record verse references and their text, fetch text from the abibliadigital API and drill the collection with flashcards.",
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.bible-memo.yaml)")
	rootCmd.PersistentFlags().BoolVar(&c.json, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "Enable debug logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memo %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(c.newConfigCmd())
	rootCmd.AddCommand(c.newVersesCmd())
	rootCmd.AddCommand(c.newFetchCmd())
	rootCmd.AddCommand(c.newCardsCmd())
	rootCmd.AddCommand(c.newTokenCmd())
	rootCmd.AddCommand(c.newBooksCmd())
	return rootCmd
}

// config loads configuration once per invocation.
func (c *cli) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// application builds the stores and client on first use.
func (c *cli) application(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	a, err := app.Build(cmd.Context(), cfg, c.logger(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// logger writes human-readable logs to stderr. Only warnings are shown
// unless --debug is set.
func (c *cli) logger(w io.Writer) logger.Logger {
	level := "warn"
	if c.debug {
		level = "debug"
	}
	return logger.NewLogrusLoggerWithOutput(level, "text", w)
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}
