package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hairizuan-noorazman/bible-memo/credential"
)

func (c *cli) newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the abibliadigital API token",
	}

	cmd.AddCommand(c.newTokenSetCmd())
	cmd.AddCommand(c.newTokenShowCmd())
	cmd.AddCommand(c.newTokenClearCmd())
	return cmd
}

func (c *cli) newTokenSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [token]",
		Short: "Store the API token (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				fmt.Fprint(cmd.OutOrStdout(), "API token: ")
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					token = scanner.Text()
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("token is empty; use 'memo token clear' to remove the stored token")
			}

			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			if err := a.Credentials.Set(cmd.Context(), token); err != nil {
				return err
			}

			printMessage(cmd.OutOrStdout(), "Token saved: "+credential.Mask(token))
			return nil
		},
	}
}

func (c *cli) newTokenShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored token, masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			token, err := a.Credentials.Get(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.json {
				return printJSON(out, map[string]interface{}{
					"configured": token != "",
					"masked":     credential.Mask(token),
					"sealed":     a.Credentials.Sealed(),
				})
			}
			printMessage(out, "Token: "+credential.Mask(token))
			return nil
		},
	}
}

func (c *cli) newTokenClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmAction(cmd.InOrStdin(), cmd.OutOrStdout(), "Remove the stored API token?", yes) {
				printMessage(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			if err := a.Credentials.Clear(cmd.Context()); err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Token cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
