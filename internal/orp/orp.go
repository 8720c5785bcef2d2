// Package orp locates the optimal recognition point of a word, the
// character the eye should fixate on.
package orp

import "unicode"

// Index returns the pivot position counted over letters and digits only.
func Index(word string) int {
	n := 0
	for _, r := range word {
		if isWordRune(r) {
			n++
		}
	}
	switch {
	case n <= 2:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	case n <= 13:
		return 3
	default:
		return 4
	}
}

// IndexInOriginal returns the pivot rune position within word, shifted past
// any leading punctuation.
func IndexInOriginal(word string) int {
	lead := 0
	for _, r := range word {
		if isWordRune(r) {
			break
		}
		lead++
	}
	return lead + Index(word)
}

// Split cuts word around its pivot rune.
func Split(word string) (before, pivot, after string) {
	runes := []rune(word)
	if len(runes) == 0 {
		return "", "", ""
	}
	i := IndexInOriginal(word)
	if i > len(runes)-1 {
		i = len(runes) - 1
	}
	return string(runes[:i]), string(runes[i]), string(runes[i+1:])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
