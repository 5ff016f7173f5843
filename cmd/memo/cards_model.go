package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hairizuan-noorazman/bible-memo/review"
)

const cardWidth = 60

var (
	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	shuffledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	referenceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	translationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("45")).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("238")).
				Padding(0, 1)

	hiddenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	textStyle = lipgloss.NewStyle().
			Width(cardWidth - 6)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("51")).
			Padding(1, 2).
			Width(cardWidth).
			Align(lipgloss.Center)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

// cardsModel drives a review session from the keyboard.
type cardsModel struct {
	session  *review.Session
	progress progress.Model
	quitting bool
}

func newCardsModel(s *review.Session) cardsModel {
	return cardsModel{
		session: s,
		progress: progress.New(
			progress.WithGradient("#00ffff", "#00ff00"),
			progress.WithWidth(cardWidth),
			progress.WithoutPercentage(),
		),
	}
}

func (m cardsModel) Init() tea.Cmd {
	return nil
}

func (m cardsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ", "enter":
			m.session.ToggleReveal()
		case "right", "l", "n":
			m.session.Next()
		case "left", "h", "p":
			m.session.Previous()
		case "s":
			m.session.Shuffle()
		case "o":
			m.session.RestoreOriginalOrder()
		}

	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > cardWidth {
			width = cardWidth
		}
		if width > 10 {
			m.progress.Width = width
		}
	}

	return m, nil
}

func (m cardsModel) View() string {
	if m.quitting {
		return ""
	}

	current, ok := m.session.Current()
	if !ok {
		return cardStyle.Render(
			hiddenStyle.Render("No verses to practice.")+"\n"+
				hiddenStyle.Render("Add some with: memo verses add"),
		) + "\n" + footerStyle.Render("[q] quit") + "\n"
	}

	var b strings.Builder

	counter := counterStyle.Render(fmt.Sprintf("%d / %d", m.session.Position()+1, m.session.Len()))
	if m.session.Shuffled() {
		counter += " " + shuffledStyle.Render("(shuffled)")
	}
	b.WriteString(counter + "\n")
	b.WriteString(m.progress.ViewAs(float64(m.session.Position()+1)/float64(m.session.Len())) + "\n")

	var card strings.Builder
	card.WriteString(referenceStyle.Render(current.Reference()) + "\n")
	card.WriteString(translationStyle.Render(string(current.EffectiveTranslation())) + "\n\n")
	if m.session.Revealed() {
		card.WriteString(textStyle.Render(current.Text))
	} else {
		card.WriteString(hiddenStyle.Render("press space to reveal"))
	}
	b.WriteString(cardStyle.Render(card.String()) + "\n")

	order := "[s] shuffle"
	if m.session.Shuffled() {
		order = "[o] original order"
	}
	b.WriteString(footerStyle.Render("[space] reveal  [←/→] move  "+order+"  [q] quit") + "\n")

	return b.String()
}
