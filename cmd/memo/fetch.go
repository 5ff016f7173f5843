package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hairizuan-noorazman/bible-memo/verse"
)

type fetchResult struct {
	Reference   string            `json:"reference"`
	Translation verse.Translation `json:"translation"`
	Text        string            `json:"text"`
	ID          string            `json:"id,omitempty"`
}

func (c *cli) newFetchCmd() *cobra.Command {
	var (
		translation string
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <book> <chapter:verse[-verse]>",
		Short: "Fetch verse text from the API",
		Example: `  memo fetch João 3:16
  memo fetch sl 23:1-6 --translation acf --save`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapter, start, end, err := parseReference(args[1])
			if err != nil {
				return err
			}

			var d verse.Draft
			if err := d.Apply(
				verse.SetBook(args[0]),
				verse.SetChapter(chapter),
				verse.SetRange(start, end),
				verse.SetTranslation(translation),
			); err != nil {
				return err
			}

			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			token, err := a.Credentials.Get(ctx)
			if err != nil {
				return err
			}
			if token == "" {
				return fmt.Errorf("no API token stored; run: memo token set")
			}

			if d, err = a.Client.FetchDraft(ctx, d, token); err != nil {
				return err
			}

			result := fetchResult{
				Reference:   d.Reference(),
				Translation: d.Translation,
				Text:        d.Text,
			}
			if result.Translation == "" {
				result.Translation = verse.DefaultTranslation
			}

			if save {
				v, err := a.Verses.Add(ctx, d)
				if err != nil {
					return err
				}
				result.ID = v.ID
			}

			out := cmd.OutOrStdout()
			if c.json {
				return printJSON(out, result)
			}

			printMessage(out, fmt.Sprintf("%s (%s)", result.Reference, result.Translation))
			printMessage(out, result.Text)
			if result.ID != "" {
				printMessage(out, "\nSaved as "+result.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&translation, "translation", "t", "", "Translation (defaults to NVI)")
	cmd.Flags().BoolVar(&save, "save", false, "Add the fetched verse to the collection")
	return cmd
}
