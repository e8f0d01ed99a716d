// Package generator builds the weighted character bag letters are spawned from.
package generator

import (
	"math/rand"
	"time"
	"unicode"
	"unicode/utf8"
)

// Bag weighting policy.
const (
	// NextWeight is the number of copies of the next needed letter.
	NextWeight = 5
	// OtherWeight is the number of copies of every other letter still needed.
	OtherWeight = 3
	// SpacingDivisor sets the blank filler count to len(bag)/SpacingDivisor.
	SpacingDivisor = 2
)

// Blank is the filler rune; it spawns an empty cell.
const Blank = ' '

// GenerateBag returns the draw pool for the next spawns.
//
// The next needed letter carries NextWeight copies and every other distinct
// letter of the remaining suffix carries OtherWeight copies, followed by
// blanks. Letters outside the remaining suffix never appear. A complete word
// yields the single-blank sentinel.
func GenerateBag(typed, target string) []rune {
	runes := []rune(target)
	n := utf8.RuneCountInString(typed)
	if typed == target || n >= len(runes) {
		return []rune{Blank}
	}

	next := unicode.ToLower(runes[n])
	bag := make([]rune, 0, NextWeight+OtherWeight*(len(runes)-n))
	for i := 0; i < NextWeight; i++ {
		bag = append(bag, next)
	}

	seen := map[rune]struct{}{next: {}}
	for _, r := range runes[n+1:] {
		r = unicode.ToLower(r)
		if unicode.IsSpace(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		for i := 0; i < OtherWeight; i++ {
			bag = append(bag, r)
		}
	}

	fillers := len(bag) / SpacingDivisor
	for i := 0; i < fillers; i++ {
		bag = append(bag, Blank)
	}
	return bag
}

// Generator draws spawn characters and word choices.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Spawn draws one rune uniformly from bag. An empty bag spawns a blank.
func (g *Generator) Spawn(bag []rune) rune {
	if len(bag) == 0 {
		return Blank
	}
	return bag[g.rnd.Intn(len(bag))]
}

// Intn returns a uniform int in [0, n).
func (g *Generator) Intn(n int) int {
	return g.rnd.Intn(n)
}
