package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (c *cli) newCardsCmd() *cobra.Command {
	var shuffle bool

	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"review"},
		Short:   "Practice the collection as flashcards",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}

			session := a.NewReviewSession(cmd.Context())
			if shuffle {
				session.Shuffle()
			}

			p := tea.NewProgram(
				newCardsModel(session),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("flashcards: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Start in shuffled order")
	return cmd
}
