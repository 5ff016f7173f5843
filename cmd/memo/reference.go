package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseReference parses "3:16" or "3:16-18" into chapter and verse range.
// Both "-" and an en dash separate the range.
func parseReference(s string) (chapter, start, end int, err error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "–", "-"))

	chapterPart, versePart, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid reference %q: expected chapter:verse", s)
	}

	chapter, err = strconv.Atoi(strings.TrimSpace(chapterPart))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid chapter in %q", s)
	}

	startPart, endPart, isRange := strings.Cut(versePart, "-")
	start, err = strconv.Atoi(strings.TrimSpace(startPart))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid verse in %q", s)
	}
	end = start
	if isRange {
		end, err = strconv.Atoi(strings.TrimSpace(endPart))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid end verse in %q", s)
		}
	}

	return chapter, start, end, nil
}
