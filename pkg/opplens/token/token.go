package token

import (
	"strings"
	"unicode"
)

// Tokenizer normalizes keyword text into comparable word tokens for the
// clustering, classification, and affiliate-matching passes.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a tokenizer with the given stopword list.
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// Default returns a tokenizer loaded with DefaultStopwords.
func Default() *Tokenizer {
	return NewTokenizer(DefaultStopwords())
}

// DefaultStopwords lists the function words dropped from keyword text.
// Query modifiers like "best" or "how" are NOT stopwords: they carry
// format signal and stay in the token stream.
func DefaultStopwords() []string {
	return []string{
		"a", "an", "and", "are", "at", "be", "by", "for", "from",
		"in", "is", "it", "of", "on", "or", "that", "the", "this",
		"to", "with", "your",
	}
}

// Tokenize splits text into normalized tokens: lowercased, hyphens cleaned,
// stopwords and purely numeric tokens removed.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			if current.Len() > 0 {
				word := t.processToken(current.String())
				if word != "" {
					tokens = append(tokens, word)
				}
				current.Reset()
			}
		}
	}

	// Don't forget the last token
	if current.Len() > 0 {
		word := t.processToken(current.String())
		if word != "" {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

// Set returns the distinct tokens of text as a membership map.
func (t *Tokenizer) Set(text string) map[string]struct{} {
	tokens := t.Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// leadModifiers are generic qualifiers that open many unrelated queries.
// HeadTerm skips them so "best crm software" and "best email tools" do not
// share a head.
var leadModifiers = map[string]struct{}{
	"best": {}, "top": {}, "how": {}, "free": {}, "cheap": {},
	"good": {}, "great": {}, "new": {},
}

// HeadTerm returns the first token of text that is neither a stopword nor a
// generic lead modifier, or "" when no such token exists.
func (t *Tokenizer) HeadTerm(text string) string {
	for _, tok := range t.Tokenize(text) {
		if _, generic := leadModifiers[tok]; generic {
			continue
		}
		return tok
	}
	return ""
}

// processToken applies cleaning, length, numeric, and stopword filters.
func (t *Tokenizer) processToken(token string) string {
	word := cleanToken(token)
	if word == "" || len(word) <= 1 {
		return ""
	}

	// Purely numeric tokens carry no theme. Mixed tokens like "seo-2024"
	// or "a1" survive.
	if isNumericOnly(word) {
		return ""
	}

	if _, stop := t.stopwords[word]; stop {
		return ""
	}

	return word
}

// cleanToken strips leading/trailing hyphens and collapses runs of hyphens.
func cleanToken(token string) string {
	token = strings.Trim(token, "-")

	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}

	return token
}

// isNumericOnly returns true if the token contains only digits and hyphens.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// AddStopword adds a word to the stopword list.
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword list.
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}
