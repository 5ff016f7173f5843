package verse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hairizuan-noorazman/bible-memo/book"
)

var (
	// ErrVerseNotFound is returned when no verse has the requested ID.
	ErrVerseNotFound = errors.New("verse not found")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid verse")

	// ErrInvalidBook is returned when the book is not in the canonical index.
	ErrInvalidBook = errors.New("book must be one of the 66 canonical books")

	// ErrInvalidChapter is returned when chapter is below 1.
	ErrInvalidChapter = errors.New("chapter must be at least 1")

	// ErrInvalidVerseStart is returned when the first verse is below 1.
	ErrInvalidVerseStart = errors.New("verse start must be at least 1")

	// ErrInvalidRange is returned when the last verse precedes the first.
	ErrInvalidRange = errors.New("verse end must not be before verse start")

	// ErrEmptyText is returned when the text is blank after trimming.
	ErrEmptyText = errors.New("text is required")

	// ErrInvalidTranslation is returned for translations outside the supported set.
	ErrInvalidTranslation = errors.New("unsupported translation")
)

// Translation is a Bible text edition. The set is closed.
type Translation string

const (
	NVI  Translation = "NVI"
	NTLH Translation = "NTLH"
	ACF  Translation = "ACF"
	RA   Translation = "RA"
	KJV  Translation = "KJV"
	BBE  Translation = "BBE"
	RVR  Translation = "RVR"
	APEE Translation = "APEE"
)

// DefaultTranslation is used when a verse does not name one.
const DefaultTranslation = NVI

// Translations lists the supported editions.
func Translations() []Translation {
	return []Translation{NVI, NTLH, ACF, RA, KJV, BBE, RVR, APEE}
}

// IsValid reports whether t is a supported translation.
func (t Translation) IsValid() bool {
	for _, known := range Translations() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTranslation accepts any casing; an empty string yields the default.
func ParseTranslation(s string) (Translation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTranslation, nil
	}
	t := Translation(strings.ToUpper(s))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidTranslation, s)
	}
	return t, nil
}

// Verse is a stored memorization entry. JSON names match the persisted
// collection format.
type Verse struct {
	ID          string      `json:"id"`
	Book        string      `json:"book"`
	Chapter     int         `json:"chapter"`
	VerseStart  int         `json:"verseStart"`
	VerseEnd    int         `json:"verseEnd"`
	Translation Translation `json:"translation,omitempty"`
	Text        string      `json:"text"`
	CreatedAt   int64       `json:"createdAt"`
}

// Reference formats the verse as "João 3:16" or "João 3:16–18".
func (v Verse) Reference() string {
	return formatReference(v.Book, v.Chapter, v.VerseStart, v.VerseEnd)
}

// EffectiveTranslation returns the translation, falling back to the default.
func (v Verse) EffectiveTranslation() Translation {
	if v.Translation == "" {
		return DefaultTranslation
	}
	return v.Translation
}

// Draft is an unvalidated verse payload for Add and Update.
type Draft struct {
	Book        string      `json:"book"`
	Chapter     int         `json:"chapter"`
	VerseStart  int         `json:"verseStart"`
	VerseEnd    int         `json:"verseEnd"`
	Translation Translation `json:"translation,omitempty"`
	Text        string      `json:"text"`
}

// DraftFrom copies the editable fields of v.
func DraftFrom(v Verse) Draft {
	return Draft{
		Book:        v.Book,
		Chapter:     v.Chapter,
		VerseStart:  v.VerseStart,
		VerseEnd:    v.VerseEnd,
		Translation: v.Translation,
		Text:        v.Text,
	}
}

// Reference formats the draft like Verse.Reference.
func (d Draft) Reference() string {
	return formatReference(d.Book, d.Chapter, d.VerseStart, d.VerseEnd)
}

// ValidationError lists every rule a draft broke.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "invalid verse: " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap exposes the individual rule errors to errors.Is.
func (e *ValidationError) Unwrap() []error {
	return e.Errs
}

// Validate checks every rule and returns a *ValidationError listing all
// failures, or nil.
func (d Draft) Validate() error {
	var errs []error

	if _, err := book.Lookup(d.Book); err != nil {
		errs = append(errs, ErrInvalidBook)
	}
	if d.Chapter < 1 {
		errs = append(errs, ErrInvalidChapter)
	}
	if d.VerseStart < 1 {
		errs = append(errs, ErrInvalidVerseStart)
	}
	if d.VerseEnd < d.VerseStart {
		errs = append(errs, ErrInvalidRange)
	}
	if strings.TrimSpace(d.Text) == "" {
		errs = append(errs, ErrEmptyText)
	}
	if d.Translation != "" && !d.Translation.IsValid() {
		errs = append(errs, ErrInvalidTranslation)
	}

	if len(errs) > 0 {
		return &ValidationError{Errs: errs}
	}
	return nil
}

// normalized returns the draft as it is stored: trimmed text and an
// explicit translation.
func (d Draft) normalized() Draft {
	d.Text = strings.TrimSpace(d.Text)
	if d.Translation == "" {
		d.Translation = DefaultTranslation
	}
	return d
}

func formatReference(bookName string, chapter, start, end int) string {
	if end != start {
		return fmt.Sprintf("%s %d:%d–%d", bookName, chapter, start, end)
	}
	return fmt.Sprintf("%s %d:%d", bookName, chapter, start)
}
