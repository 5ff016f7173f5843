package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hairizuan-noorazman/bible-memo/book"
	"github.com/hairizuan-noorazman/bible-memo/verse"
)

func (c *cli) newVersesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verses",
		Aliases: []string{"v"},
		Short:   "Manage the verse collection",
	}

	cmd.AddCommand(c.newVersesListCmd())
	cmd.AddCommand(c.newVersesShowCmd())
	cmd.AddCommand(c.newVersesAddCmd())
	cmd.AddCommand(c.newVersesEditCmd())
	cmd.AddCommand(c.newVersesDeleteCmd())
	return cmd
}

func (c *cli) newVersesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List verses in canonical order",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}

			verses := a.Verses.List(cmd.Context())
			out := cmd.OutOrStdout()

			if c.json {
				return printJSON(out, verses)
			}

			if len(verses) == 0 {
				printMessage(out, "No verses yet. Add one with: memo verses add --book João --ref 3:16 --text \"...\"")
				return nil
			}

			headers := []string{"ID", "REFERENCE", "TRANSLATION", "TEXT"}
			var rows [][]string
			for _, v := range verses {
				rows = append(rows, []string{
					v.ID,
					v.Reference(),
					string(v.EffectiveTranslation()),
					truncate(v.Text, 60),
				})
			}
			printTable(out, headers, rows)
			printMessage(out, fmt.Sprintf("\nTotal: %d verses", len(verses)))
			return nil
		},
	}
}

func (c *cli) newVersesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one verse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}

			v, err := a.Verses.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.json {
				return printJSON(out, v)
			}

			printMessage(out, fmt.Sprintf("%s (%s)", v.Reference(), v.EffectiveTranslation()))
			printMessage(out, "")
			printMessage(out, v.Text)
			printMessage(out, "")
			printMessage(out, fmt.Sprintf("ID:      %s", v.ID))
			printMessage(out, fmt.Sprintf("Created: %s", time.UnixMilli(v.CreatedAt).Format(time.RFC3339)))
			return nil
		},
	}
}

// verseFlags are shared by add and edit.
type verseFlags struct {
	book        string
	ref         string
	chapter     int
	start       int
	end         int
	translation string
	text        string
	fetch       bool
}

func (f *verseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.book, "book", "", "Book name or abbreviation (accents optional)")
	cmd.Flags().StringVar(&f.ref, "ref", "", "Reference as chapter:verse or chapter:start-end")
	cmd.Flags().IntVar(&f.chapter, "chapter", 0, "Chapter")
	cmd.Flags().IntVar(&f.start, "start", 0, "First verse")
	cmd.Flags().IntVar(&f.end, "end", 0, "Last verse (defaults to --start)")
	cmd.Flags().StringVar(&f.translation, "translation", "", "Translation (NVI, NTLH, ACF, RA, KJV, BBE, RVR, APEE)")
	cmd.Flags().StringVar(&f.text, "text", "", "Verse text")
	cmd.Flags().BoolVar(&f.fetch, "fetch", false, "Fetch the text from the API using the stored token")
}

// setters turns the flags the user actually passed into draft setters.
func (f *verseFlags) setters(cmd *cobra.Command, current verse.Draft) ([]verse.DraftSetter, error) {
	var setters []verse.DraftSetter
	changed := cmd.Flags().Changed

	if changed("book") {
		setters = append(setters, verse.SetBook(f.book))
	}

	chapter, start, end := current.Chapter, current.VerseStart, current.VerseEnd
	rangeChanged := false
	if changed("ref") {
		var err error
		chapter, start, end, err = parseReference(f.ref)
		if err != nil {
			return nil, err
		}
		rangeChanged = true
	}
	if changed("chapter") {
		chapter = f.chapter
	}
	if changed("start") {
		start = f.start
		if !changed("end") && !changed("ref") {
			end = start
		}
		rangeChanged = true
	}
	if changed("end") {
		end = f.end
		rangeChanged = true
	}
	if changed("ref") || changed("chapter") {
		setters = append(setters, verse.SetChapter(chapter))
	}
	if rangeChanged {
		setters = append(setters, verse.SetRange(start, end))
	}

	if changed("translation") {
		setters = append(setters, verse.SetTranslation(f.translation))
	}
	if changed("text") {
		setters = append(setters, verse.SetText(f.text))
	}
	return setters, nil
}

func (c *cli) newVersesAddCmd() *cobra.Command {
	var flags verseFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a verse",
		Example: `  memo verses add --book João --ref 3:16 --text "Porque Deus tanto amou o mundo..."
  memo verses add --book sl --ref 23:1-3 --translation acf --fetch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			setters, err := flags.setters(cmd, verse.Draft{})
			if err != nil {
				return err
			}
			var d verse.Draft
			if err := d.Apply(setters...); err != nil {
				return err
			}

			if flags.fetch {
				token, err := a.Credentials.Get(ctx)
				if err != nil {
					return err
				}
				if d, err = a.Client.FetchDraft(ctx, d, token); err != nil {
					return err
				}
			}

			v, err := a.Verses.Add(ctx, d)
			if err != nil {
				return err
			}

			if c.json {
				return printJSON(cmd.OutOrStdout(), v)
			}
			printMessage(cmd.OutOrStdout(), fmt.Sprintf("Added %s (%s)", v.Reference(), v.ID))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *cli) newVersesEditCmd() *cobra.Command {
	var flags verseFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a verse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			current, err := a.Verses.Get(ctx, args[0])
			if err != nil {
				return err
			}

			d := verse.DraftFrom(current)
			setters, err := flags.setters(cmd, d)
			if err != nil {
				return err
			}
			if len(setters) == 0 && !flags.fetch {
				return errors.New("no fields to update")
			}
			if err := d.Apply(setters...); err != nil {
				return err
			}

			if flags.fetch {
				token, err := a.Credentials.Get(ctx)
				if err != nil {
					return err
				}
				if d, err = a.Client.FetchDraft(ctx, d, token); err != nil {
					return err
				}
			}

			v, err := a.Verses.Update(ctx, current.ID, d)
			if err != nil {
				return err
			}

			if c.json {
				return printJSON(cmd.OutOrStdout(), v)
			}
			printMessage(cmd.OutOrStdout(), "Updated "+v.Reference())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *cli) newVersesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a verse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			prompt := "Delete verse " + args[0] + "?"
			if v, err := a.Verses.Get(ctx, args[0]); err == nil {
				prompt = "Delete " + v.Reference() + "?"
			}
			if !confirmAction(cmd.InOrStdin(), cmd.OutOrStdout(), prompt, yes) {
				printMessage(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			if err := a.Verses.Delete(ctx, args[0]); err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func (c *cli) newBooksCmd() *cobra.Command {
	var testament string

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the 66 books with their abbreviations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var books []book.Info
			for _, b := range book.All() {
				if testament == "" || string(b.Testament) == testament {
					books = append(books, b)
				}
			}

			out := cmd.OutOrStdout()
			if c.json {
				return printJSON(out, books)
			}

			headers := []string{"#", "ABBR", "NAME", "TESTAMENT"}
			var rows [][]string
			for _, b := range books {
				rows = append(rows, []string{strconv.Itoa(b.Index + 1), b.Abbreviation, b.Name, string(b.Testament)})
			}
			printTable(out, headers, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&testament, "testament", "", "Filter by testament (old or new)")
	return cmd
}
