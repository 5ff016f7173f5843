package book

import (
	"errors"
	"strings"
)

// ErrUnknownBook is returned when a book name or abbreviation does not
// resolve against the canonical index.
var ErrUnknownBook = errors.New("unknown book")

// Testament identifies which half of the canon a book belongs to.
type Testament string

const (
	OldTestament Testament = "old"
	NewTestament Testament = "new"
)

// Info describes a single book of the Bible.
type Info struct {
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	Testament    Testament `json:"testament"`
	Index        int       `json:"index"`
}

type row struct {
	name string
	abbr string
}

// Declaration order is canonical order.
var oldTestament = []row{
	{"Gênesis", "Gn"},
	{"Êxodo", "Ex"},
	{"Levítico", "Lv"},
	{"Números", "Nm"},
	{"Deuteronômio", "Dt"},
	{"Josué", "Js"},
	{"Juízes", "Jz"},
	{"Rute", "Rt"},
	{"1 Samuel", "1Sm"},
	{"2 Samuel", "2Sm"},
	{"1 Reis", "1Rs"},
	{"2 Reis", "2Rs"},
	{"1 Crônicas", "1Cr"},
	{"2 Crônicas", "2Cr"},
	{"Esdras", "Ed"},
	{"Neemias", "Ne"},
	{"Ester", "Et"},
	{"Jó", "Jó"},
	{"Salmos", "Sl"},
	{"Provérbios", "Pv"},
	{"Eclesiastes", "Ec"},
	{"Cânticos", "Ct"},
	{"Isaías", "Is"},
	{"Jeremias", "Jr"},
	{"Lamentações", "Lm"},
	{"Ezequiel", "Ez"},
	{"Daniel", "Dn"},
	{"Oséias", "Os"},
	{"Joel", "Jl"},
	{"Amós", "Am"},
	{"Obadias", "Ob"},
	{"Jonas", "Jn"},
	{"Miquéias", "Mq"},
	{"Naum", "Na"},
	{"Habacuque", "Hc"},
	{"Sofonias", "Sf"},
	{"Ageu", "Ag"},
	{"Zacarias", "Zc"},
	{"Malaquias", "Ml"},
}

var newTestament = []row{
	{"Mateus", "Mt"},
	{"Marcos", "Mc"},
	{"Lucas", "Lc"},
	{"João", "Jo"},
	{"Atos", "At"},
	{"Romanos", "Rm"},
	{"1 Coríntios", "1Co"},
	{"2 Coríntios", "2Co"},
	{"Gálatas", "Gl"},
	{"Efésios", "Ef"},
	{"Filipenses", "Fp"},
	{"Colossenses", "Cl"},
	{"1 Tessalonicenses", "1Ts"},
	{"2 Tessalonicenses", "2Ts"},
	{"1 Timóteo", "1Tm"},
	{"2 Timóteo", "2Tm"},
	{"Tito", "Tt"},
	{"Filemom", "Fm"},
	{"Hebreus", "Hb"},
	{"Tiago", "Tg"},
	{"1 Pedro", "1Pe"},
	{"2 Pedro", "2Pe"},
	{"1 João", "1Jo"},
	{"2 João", "2Jo"},
	{"3 João", "3Jo"},
	{"Judas", "Jd"},
	{"Apocalipse", "Ap"},
}

var (
	books  []Info
	byName map[string]Info
)

func init() {
	books = make([]Info, 0, len(oldTestament)+len(newTestament))
	for _, r := range oldTestament {
		books = append(books, Info{Name: r.name, Abbreviation: r.abbr, Testament: OldTestament, Index: len(books)})
	}
	for _, r := range newTestament {
		books = append(books, Info{Name: r.name, Abbreviation: r.abbr, Testament: NewTestament, Index: len(books)})
	}

	byName = make(map[string]Info, len(books))
	for _, b := range books {
		byName[b.Name] = b
	}
}

// All returns a copy of the canonical index in canonical order.
func All() []Info {
	out := make([]Info, len(books))
	copy(out, books)
	return out
}

// Count returns the number of books in the canon.
func Count() int {
	return len(books)
}

// Lookup returns the book with exactly the given name.
func Lookup(name string) (Info, error) {
	b, ok := byName[name]
	if !ok {
		return Info{}, ErrUnknownBook
	}
	return b, nil
}

// Order returns the canonical index of the named book.
func Order(name string) (int, error) {
	b, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	return b.Index, nil
}

// APIAbbreviation returns the lowercase abbreviation the remote text API
// expects for the named book ("Jó" -> "jó", "Jo" -> "jo").
func APIAbbreviation(name string) (string, error) {
	b, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return strings.ToLower(b.Abbreviation), nil
}
