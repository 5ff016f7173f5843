package verse

import (
	"math"
	"slices"

	"github.com/hairizuan-noorazman/bible-memo/book"
)

// Sort orders verses in place by canonical book position, then chapter,
// then first verse. The sort is stable. Unknown books sort last; they can
// only come from hand-edited persisted data since writes validate the book.
func Sort(verses []Verse) {
	slices.SortStableFunc(verses, compare)
}

// IsSorted reports whether verses are in canonical order.
func IsSorted(verses []Verse) bool {
	return slices.IsSortedFunc(verses, compare)
}

func compare(a, b Verse) int {
	if d := bookOrder(a.Book) - bookOrder(b.Book); d != 0 {
		return d
	}
	if a.Chapter != b.Chapter {
		return a.Chapter - b.Chapter
	}
	return a.VerseStart - b.VerseStart
}

func bookOrder(name string) int {
	idx, err := book.Order(name)
	if err != nil {
		return math.MaxInt32
	}
	return idx
}
