package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer segments normalized text into tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// DictionaryTokenizer splits on whitespace and script boundaries, then segments Thai
// runs by greedy longest match against a lexicon. Characters not covered by any
// lexicon entry are kept together as a single token until the next known word.
type DictionaryTokenizer struct {
	lexicon map[string]struct{}
	maxLen  int
}

// NewDictionaryTokenizer creates a tokenizer over the given lexicon. Entries are
// normalized before use; empty entries are ignored.
func NewDictionaryTokenizer(words ...[]string) *DictionaryTokenizer {
	t := &DictionaryTokenizer{lexicon: make(map[string]struct{})}
	for _, list := range words {
		for _, w := range list {
			w = Normalize(w)
			if w == "" || strings.ContainsRune(w, ' ') {
				continue
			}
			t.lexicon[w] = struct{}{}
			if n := utf8.RuneCountInString(w); n > t.maxLen {
				t.maxLen = n
			}
		}
	}
	return t
}

// Tokenize implements Tokenizer.
func (t *DictionaryTokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	for _, field := range strings.Fields(text) {
		for _, run := range splitScripts(field) {
			if isThai(run[0]) {
				tokens = append(tokens, t.segment(run)...)
				continue
			}
			tokens = append(tokens, string(run))
		}
	}
	return tokens
}

func (t *DictionaryTokenizer) segment(run []rune) []string {
	var out []string
	var pending []rune
	for i := 0; i < len(run); {
		n := t.longestMatch(run[i:])
		if n == 0 {
			pending = append(pending, run[i])
			i++
			continue
		}
		if len(pending) > 0 {
			out = append(out, string(pending))
			pending = nil
		}
		out = append(out, string(run[i:i+n]))
		i += n
	}
	if len(pending) > 0 {
		out = append(out, string(pending))
	}
	return out
}

func (t *DictionaryTokenizer) longestMatch(run []rune) int {
	limit := t.maxLen
	if limit > len(run) {
		limit = len(run)
	}
	for n := limit; n > 0; n-- {
		if _, ok := t.lexicon[string(run[:n])]; ok {
			// Do not split a base character from its trailing combining marks.
			if n < len(run) && unicode.Is(unicode.Mn, run[n]) {
				continue
			}
			return n
		}
	}
	return 0
}

// splitScripts cuts a whitespace-free field wherever it switches between Thai and
// non-Thai characters.
func splitScripts(field string) [][]rune {
	runes := []rune(field)
	if len(runes) == 0 {
		return nil
	}
	var runs [][]rune
	start := 0
	for i := 1; i < len(runes); i++ {
		if isThai(runes[i]) != isThai(runes[start]) {
			runs = append(runs, runes[start:i])
			start = i
		}
	}
	return append(runs, runes[start:])
}

func isThai(r rune) bool {
	return unicode.Is(unicode.Thai, r)
}
