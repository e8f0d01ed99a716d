// Package wordlist provides word list filtering helpers.
package wordlist

import "strings"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

const icelandicLetters = "aábdðeéfghiíjklmnoóprstuúvxyýþæö"

// FilterForLang returns a language-specific filter for word lists.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return filterEnglishASCII
	case "is":
		return filterIcelandic
	default:
		return func(word string) bool { return word != "" }
	}
}

// Filter returns the words accepted by keep, lowercased.
func Filter(words []string, keep FilterFunc) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func filterIcelandic(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !strings.ContainsRune(icelandicLetters, r) {
			return false
		}
	}
	return true
}
