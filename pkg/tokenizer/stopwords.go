package tokenizer

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Stopwords is a set of tokens excluded from documents
type Stopwords struct {
	words map[string]struct{}
}

// NewStopwords builds a stopword set from a list
func NewStopwords(words []string) *Stopwords {
	s := &Stopwords{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			s.words[w] = struct{}{}
		}
	}
	return s
}

// LoadStopwords reads a newline-delimited stopword file. Invalid UTF-8 is dropped.
func LoadStopwords(path string) (*Stopwords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stopwords: %w", err)
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.ToValidUTF8(data, nil)

	var words []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan stopwords: %w", err)
	}

	return NewStopwords(words), nil
}

// Contains reports whether token is a stopword
func (s *Stopwords) Contains(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[token]
	return ok
}

// Len returns the number of stopwords
func (s *Stopwords) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}
