package verse

import (
	"strings"

	"github.com/hairizuan-noorazman/bible-memo/book"
)

// DraftSetter changes one part of a draft.
type DraftSetter func(*Draft) error

// Apply runs setters in order and stops at the first error.
func (d *Draft) Apply(setters ...DraftSetter) error {
	for _, set := range setters {
		if err := set(d); err != nil {
			return err
		}
	}
	return nil
}

// SetBook resolves name against the canonical index (accents and case are
// ignored) and stores the canonical name.
func SetBook(name string) DraftSetter {
	return func(d *Draft) error {
		b, err := book.Resolve(name)
		if err != nil {
			return &ValidationError{Errs: []error{ErrInvalidBook}}
		}
		d.Book = b.Name
		return nil
	}
}

// SetChapter sets the chapter.
func SetChapter(chapter int) DraftSetter {
	return func(d *Draft) error {
		if chapter < 1 {
			return &ValidationError{Errs: []error{ErrInvalidChapter}}
		}
		d.Chapter = chapter
		return nil
	}
}

// SetRange sets both ends of the verse range. Pass start == end for a
// single verse.
func SetRange(start, end int) DraftSetter {
	return func(d *Draft) error {
		if start < 1 {
			return &ValidationError{Errs: []error{ErrInvalidVerseStart}}
		}
		if end < start {
			return &ValidationError{Errs: []error{ErrInvalidRange}}
		}
		d.VerseStart = start
		d.VerseEnd = end
		return nil
	}
}

// SetText sets the verse text.
func SetText(text string) DraftSetter {
	return func(d *Draft) error {
		if strings.TrimSpace(text) == "" {
			return &ValidationError{Errs: []error{ErrEmptyText}}
		}
		d.Text = text
		return nil
	}
}

// SetTranslation parses and sets the translation.
func SetTranslation(name string) DraftSetter {
	return func(d *Draft) error {
		t, err := ParseTranslation(name)
		if err != nil {
			return &ValidationError{Errs: []error{ErrInvalidTranslation}}
		}
		d.Translation = t
		return nil
	}
}
