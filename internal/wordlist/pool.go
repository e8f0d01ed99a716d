package wordlist

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Intner is a source of uniform random ints in [0, n).
type Intner interface {
	Intn(n int) int
}

// Pool groups candidate words by rune length.
type Pool map[int][]string

// BuildPool keeps single-token words and groups them by length. Duplicates are dropped.
func BuildPool(corpus []string) Pool {
	pool := Pool{}
	seen := make(map[string]struct{}, len(corpus))
	for _, word := range corpus {
		word = strings.TrimSpace(word)
		if word == "" || strings.IndexFunc(word, unicode.IsSpace) >= 0 {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		n := utf8.RuneCountInString(word)
		pool[n] = append(pool[n], word)
	}
	return pool
}

// Select draws a word of the given length, preferring words not in used.
//
// When every word of that length has been used it draws from all of them
// again. ok is false only when the pool has no word of that length.
func (p Pool) Select(rnd Intner, length int, used map[string]struct{}) (word string, ok bool) {
	all := p[length]
	if len(all) == 0 {
		return "", false
	}
	fresh := make([]string, 0, len(all))
	for _, w := range all {
		if _, dup := used[w]; !dup {
			fresh = append(fresh, w)
		}
	}
	if len(fresh) > 0 {
		return fresh[rnd.Intn(len(fresh))], true
	}
	return all[rnd.Intn(len(all))], true
}

// Lengths returns the word lengths present in the pool, ascending.
func (p Pool) Lengths() []int {
	out := make([]int, 0, len(p))
	for n, words := range p {
		if len(words) > 0 {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// Size returns the total number of words in the pool.
func (p Pool) Size() int {
	total := 0
	for _, words := range p {
		total += len(words)
	}
	return total
}
