// Package tokenize turns raw text into weighted tokens.
package tokenize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/tuiread/internal/model"
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Tokenize splits text into tokens. Sentence-ending punctuation gets the
// sentence tier, clause punctuation the clause tier, and the last word of
// every paragraph but the final one at least the paragraph tier.
func Tokenize(text string) []model.Token {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var paragraphs [][]string
	for _, paragraph := range paragraphBreak.Split(text, -1) {
		if words := strings.Fields(paragraph); len(words) > 0 {
			paragraphs = append(paragraphs, words)
		}
	}
	var tokens []model.Token
	for pi, words := range paragraphs {
		for wi, word := range words {
			weight := Weight(word)
			if wi == len(words)-1 && pi < len(paragraphs)-1 && weight < model.ParagraphWeight {
				weight = model.ParagraphWeight
			}
			tokens = append(tokens, model.Token{Text: word, Weight: weight})
		}
	}
	return tokens
}

// Weight returns the pacing tier for a single word.
func Weight(word string) float64 {
	if word == "" {
		return model.NormalWeight
	}
	switch word[len(word)-1] {
	case '.', '!', '?':
		return model.SentenceWeight
	case ',', ';', ':':
		return model.ClauseWeight
	default:
		return model.NormalWeight
	}
}
