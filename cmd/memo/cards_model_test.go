package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hairizuan-noorazman/bible-memo/review"
	"github.com/hairizuan-noorazman/bible-memo/verse"
)

func testDeck() []verse.Verse {
	return []verse.Verse{
		{ID: "1", Book: "Gênesis", Chapter: 1, VerseStart: 1, VerseEnd: 1, Text: "No princípio"},
		{ID: "2", Book: "Salmos", Chapter: 23, VerseStart: 1, VerseEnd: 2, Translation: verse.ACF, Text: "O Senhor é o meu pastor"},
		{ID: "3", Book: "João", Chapter: 3, VerseStart: 16, VerseEnd: 16, Text: "Porque Deus tanto amou"},
	}
}

func press(t *testing.T, m cardsModel, key tea.KeyMsg) (cardsModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(key)
	next, ok := updated.(cardsModel)
	require.True(t, ok)
	return next, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCardsModel_Init(t *testing.T) {
	m := newCardsModel(review.NewSeeded(testDeck(), 1))
	assert.Nil(t, m.Init())
}

func TestCardsModel_RevealAndNavigate(t *testing.T) {
	m := newCardsModel(review.NewSeeded(testDeck(), 1))

	view := m.View()
	assert.Contains(t, view, "1 / 3")
	assert.Contains(t, view, "Gênesis 1:1")
	assert.Contains(t, view, "NVI")
	assert.Contains(t, view, "press space to reveal")
	assert.NotContains(t, view, "No princípio")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.session.Revealed())
	assert.Contains(t, m.View(), "No princípio")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.session.Position())
	assert.False(t, m.session.Revealed())
	view = m.View()
	assert.Contains(t, view, "2 / 3")
	assert.Contains(t, view, "Salmos 23:1–2")
	assert.Contains(t, view, "ACF")

	m, _ = press(t, m, runes("l"))
	m, _ = press(t, m, runes("n"))
	assert.Equal(t, 2, m.session.Position())

	m, _ = press(t, m, runes("h"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(t, m, runes("p"))
	assert.Equal(t, 0, m.session.Position())
}

func TestCardsModel_ShuffleAndRestore(t *testing.T) {
	m := newCardsModel(review.NewSeeded(testDeck(), 42))
	m, _ = press(t, m, runes("l"))

	m, _ = press(t, m, runes("s"))
	assert.True(t, m.session.Shuffled())
	assert.Equal(t, 0, m.session.Position())
	view := m.View()
	assert.Contains(t, view, "(shuffled)")
	assert.Contains(t, view, "[o] original order")

	m, _ = press(t, m, runes("o"))
	assert.False(t, m.session.Shuffled())
	assert.NotContains(t, m.View(), "(shuffled)")
	current, ok := m.session.Current()
	require.True(t, ok)
	assert.Equal(t, "1", current.ID)
}

func TestCardsModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := newCardsModel(review.NewSeeded(testDeck(), 1))
		m, cmd := press(t, m, key)
		assert.True(t, m.quitting, key.String())
		assert.NotNil(t, cmd, key.String())
		assert.Empty(t, m.View())
	}
}

func TestCardsModel_EmptyDeck(t *testing.T) {
	m := newCardsModel(review.NewSeeded(nil, 1))
	assert.Contains(t, m.View(), "No verses to practice.")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Nil(t, cmd)
	assert.False(t, m.session.Revealed())
}

func TestCardsModel_WindowResize(t *testing.T) {
	m := newCardsModel(review.NewSeeded(testDeck(), 1))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	assert.Equal(t, 36, updated.(cardsModel).progress.Width)
}
