package reader

// Token is one segmented unit of a passage: a word or a punctuation mark,
// its part-of-speech tag and its phonetic reading.
type Token struct {
	Text     string `json:"text"`
	POS      string `json:"pos"`
	Phonetic string `json:"pinyin"`
}

// TokenSequence is a passage's tokens in left-to-right reading order.
type TokenSequence []Token

// Contains reports whether t is one of the tokens in the sequence.
func (s TokenSequence) Contains(t Token) bool {
	for _, tok := range s {
		if tok == t {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no backing array with s.
func (s TokenSequence) Clone() TokenSequence {
	if s == nil {
		return nil
	}
	out := make(TokenSequence, len(s))
	copy(out, s)
	return out
}

// SavedPassage is a passage the reader explicitly saved.
// Passages are never edited; saving edited text creates a new entry.
type SavedPassage struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// Library is the saved-passage list, newest first.
type Library []SavedPassage

// Prepend returns a new library with p in front.
func (l Library) Prepend(p SavedPassage) Library {
	out := make(Library, 0, len(l)+1)
	out = append(out, p)
	return append(out, l...)
}

// Without returns a new library minus the passage with the given id,
// keeping the relative order of the rest. The second result is false when
// no passage had that id.
func (l Library) Without(id int64) (Library, bool) {
	out := make(Library, 0, len(l))
	found := false
	for _, p := range l {
		if p.ID == id {
			found = true
			continue
		}
		out = append(out, p)
	}
	return out, found
}

// Find returns the passage with the given id.
func (l Library) Find(id int64) (SavedPassage, bool) {
	for _, p := range l {
		if p.ID == id {
			return p, true
		}
	}
	return SavedPassage{}, false
}

// Clone returns a copy that shares no backing array with l.
func (l Library) Clone() Library {
	if l == nil {
		return nil
	}
	out := make(Library, len(l))
	copy(out, l)
	return out
}

// ExamplePassage is the built-in sample shown above the saved passages.
var ExamplePassage = Example{
	Title:   "《師說》選段",
	Content: "師者，所以傳道、受業、解惑也。",
}

// Example is a read-only sample passage. It can be loaded but not deleted.
type Example struct {
	Title   string
	Content string
}
