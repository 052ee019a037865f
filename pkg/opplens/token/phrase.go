package token

import "strings"

// Phrase declares a multi-word name and its spelling variants, all folded to
// one canonical token.
type Phrase struct {
	Canonical string
	Variants  []string
}

// PhraseFolder rewrites known multi-word phrases in a token stream into
// single canonical tokens, so "google analytics tutorial" classifies on the
// token "google-analytics" rather than on "google" and "analytics" alone.
type PhraseFolder struct {
	dict   map[string]string // lowercased phrase or variant -> canonical token
	maxLen int
}

// NewPhraseFolder builds a folder over the given phrases. Canonical tokens
// are the lowercased phrase with spaces replaced by hyphens.
func NewPhraseFolder(phrases []Phrase) *PhraseFolder {
	dict := make(map[string]string)
	maxLen := 1
	for _, p := range phrases {
		canonical := CanonicalToken(p.Canonical)
		key := strings.ToLower(p.Canonical)
		dict[key] = canonical
		if l := phraseLen(key); l > maxLen {
			maxLen = l
		}
		for _, v := range p.Variants {
			vkey := strings.ToLower(v)
			dict[vkey] = canonical
			if l := phraseLen(vkey); l > maxLen {
				maxLen = l
			}
		}
	}
	return &PhraseFolder{dict: dict, maxLen: maxLen}
}

// CanonicalToken converts a phrase into its single-token spelling.
func CanonicalToken(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), "-")
}

// Fold applies greedy longest-match rewriting over the token stream.
func (f *PhraseFolder) Fold(tokens []string) []string {
	var result []string
	i := 0

	for i < len(tokens) {
		matched := ""
		matchLen := 1

		// Try the longest candidate phrase first, down to bigrams.
		maxPhrase := f.maxLen
		if remaining := len(tokens) - i; maxPhrase > remaining {
			maxPhrase = remaining
		}
		for n := maxPhrase; n >= 2; n-- {
			key := strings.Join(tokens[i:i+n], " ")
			if canonical, ok := f.dict[key]; ok {
				matched = canonical
				matchLen = n
				break
			}
		}

		if matched != "" {
			result = append(result, matched)
			i += matchLen
			continue
		}

		// Single-token variants still map to their canonical spelling.
		if canonical, ok := f.dict[tokens[i]]; ok {
			result = append(result, canonical)
		} else {
			result = append(result, tokens[i])
		}
		i++
	}

	return result
}

func phraseLen(phrase string) int {
	if phrase == "" {
		return 1
	}
	return len(strings.Fields(phrase))
}
