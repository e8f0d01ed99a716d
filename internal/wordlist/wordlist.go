// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default_en.txt
var defaultEnglish string

// DefaultCorpus returns the built-in English word list.
func DefaultCorpus() []string {
	words, err := ParseWords(strings.NewReader(defaultEnglish))
	if err != nil {
		return nil
	}
	return words
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ParseWords(file)
}

// ParseWords reads one word per line, skipping blank lines and # comments.
func ParseWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
