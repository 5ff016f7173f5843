// Package review drives a flashcard pass over a snapshot of the verse
// collection. A Session never touches the store.
package review

import (
	"math/rand/v2"
	"time"

	"github.com/hairizuan-noorazman/bible-memo/verse"
)

// Session is one flashcard pass. It is not safe for concurrent use.
type Session struct {
	original []verse.Verse
	order    []verse.Verse
	position int
	revealed bool
	shuffled bool
	rng      *rand.Rand
}

// New starts a session over a copy of verses. A nil rng seeds from the
// current time.
func New(verses []verse.Verse, rng *rand.Rand) *Session {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}
	s := &Session{rng: rng}
	s.Start(verses)
	return s
}

// NewSeeded starts a session whose shuffles are reproducible.
func NewSeeded(verses []verse.Verse, seed uint64) *Session {
	return New(verses, rand.New(rand.NewPCG(seed, seed)))
}

// Start replaces the deck with a copy of verses in the given order.
func (s *Session) Start(verses []verse.Verse) {
	s.original = clone(verses)
	s.order = clone(verses)
	s.position = 0
	s.revealed = false
	s.shuffled = false
}

// Shuffle reorders the deck uniformly at random, starting from the
// original order each time.
func (s *Session) Shuffle() {
	order := clone(s.original)
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	s.order = order
	s.position = 0
	s.revealed = false
	s.shuffled = true
}

// RestoreOriginalOrder undoes any shuffle.
func (s *Session) RestoreOriginalOrder() {
	s.order = clone(s.original)
	s.position = 0
	s.revealed = false
	s.shuffled = false
}

// Next advances one card, stopping at the last. The text is hidden
// either way.
func (s *Session) Next() {
	if s.position < len(s.order)-1 {
		s.position++
	}
	s.revealed = false
}

// Previous goes back one card, stopping at the first. The text is hidden
// either way.
func (s *Session) Previous() {
	if s.position > 0 {
		s.position--
	}
	s.revealed = false
}

// ToggleReveal shows or hides the current card's text.
func (s *Session) ToggleReveal() {
	if len(s.order) == 0 {
		return
	}
	s.revealed = !s.revealed
}

// Current returns the card at the current position. ok is false for an
// empty deck.
func (s *Session) Current() (v verse.Verse, ok bool) {
	if len(s.order) == 0 {
		return verse.Verse{}, false
	}
	return s.order[s.position], true
}

// Position is the zero-based index of the current card.
func (s *Session) Position() int { return s.position }

// Len is the number of cards in the deck.
func (s *Session) Len() int { return len(s.order) }

// Revealed reports whether the current card's text is showing.
func (s *Session) Revealed() bool { return s.revealed }

// Shuffled reports whether the deck is in shuffled order.
func (s *Session) Shuffled() bool { return s.shuffled }

// Order returns a copy of the deck in its current order.
func (s *Session) Order() []verse.Verse { return clone(s.order) }

func clone(verses []verse.Verse) []verse.Verse {
	out := make([]verse.Verse, len(verses))
	copy(out, verses)
	return out
}
