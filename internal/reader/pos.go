package reader

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category is the display class a part-of-speech tag maps to.
type Category int

const (
	CategoryOther Category = iota
	CategoryNoun
	CategoryVerb
	CategoryAdjective
	CategoryAdverb
	CategoryPreposition
	CategoryPunctuation
)

var categoryNames = map[Category]string{
	CategoryOther:       "other",
	CategoryNoun:        "noun",
	CategoryVerb:        "verb",
	CategoryAdjective:   "adjective",
	CategoryAdverb:      "adverb",
	CategoryPreposition: "preposition",
	CategoryPunctuation: "punctuation",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "other"
}

// posCategories is keyed by the lower-cased first letter of a tag. Tag sets
// differ between taggers (CTB, PKU, ICTCLAS) but agree on these initials.
var posCategories = map[rune]Category{
	'n': CategoryNoun,
	'v': CategoryVerb,
	'a': CategoryAdjective,
	'd': CategoryAdverb,
	'p': CategoryPreposition,
	'w': CategoryPunctuation,
}

// posOverrides holds whole tags whose initial would misclassify them.
var posOverrides = map[string]Category{
	"PU": CategoryPunctuation, // CTB punctuation
	"VA": CategoryAdjective,   // CTB predicative adjective
}

// CategoryOf maps a part-of-speech tag to its display category.
// Empty and unrecognised tags fall back to CategoryOther.
func CategoryOf(pos string) Category {
	pos = strings.TrimSpace(pos)
	if pos == "" {
		return CategoryOther
	}
	if c, ok := posOverrides[strings.ToUpper(pos)]; ok {
		return c
	}
	r, _ := utf8.DecodeRuneInString(pos)
	if c, ok := posCategories[unicode.ToLower(r)]; ok {
		return c
	}
	return CategoryOther
}
