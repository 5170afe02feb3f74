package learning

import (
	"fmt"
	"strings"
)

// Mode selects how a document is turned into a vector
type Mode string

const (
	// Presence marks a term with 1 if it appears at least once
	Presence Mode = "presence"
	// Count records the number of occurrences of a term (bag of words)
	Count Mode = "count"
)

// ParseMode converts a config string to a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case Presence:
		return Presence, nil
	case Count, "":
		return Count, nil
	default:
		return "", fmt.Errorf("unknown vector mode: %q", s)
	}
}

// Vector is a fixed-length document vector over a vocabulary
type Vector []int

// Sum returns the sum of all entries
func (v Vector) Sum() int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}

// Vocabulary is an ordered set of unique terms. Term i is dimension i of
// every vector produced from it.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// BuildVocabulary collects every distinct token of the documents, in order
// of first appearance
func BuildVocabulary(docs [][]string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int)}
	for _, doc := range docs {
		for _, tok := range doc {
			if _, ok := v.index[tok]; ok {
				continue
			}
			v.index[tok] = len(v.terms)
			v.terms = append(v.terms, tok)
		}
	}
	return v
}

// NewVocabulary restores a vocabulary from a persisted term list
func NewVocabulary(terms []string) (*Vocabulary, error) {
	v := &Vocabulary{
		terms: make([]string, len(terms)),
		index: make(map[string]int, len(terms)),
	}
	for i, t := range terms {
		if _, dup := v.index[t]; dup {
			return nil, fmt.Errorf("duplicate vocabulary term %q at %d", t, i)
		}
		v.index[t] = i
		v.terms[i] = t
	}
	return v, nil
}

// Len returns the number of terms
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns a copy of the ordered term list
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Term returns the term at dimension i
func (v *Vocabulary) Term(i int) string {
	return v.terms[i]
}

// Index returns the dimension of a term
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// PresenceVector marks each vocabulary term that occurs in doc.
// Tokens outside the vocabulary are ignored.
func (v *Vocabulary) PresenceVector(doc []string) Vector {
	vec := make(Vector, len(v.terms))
	for _, tok := range doc {
		if i, ok := v.index[tok]; ok {
			vec[i] = 1
		}
	}
	return vec
}

// CountVector counts the occurrences of each vocabulary term in doc.
// Tokens outside the vocabulary are ignored.
func (v *Vocabulary) CountVector(doc []string) Vector {
	vec := make(Vector, len(v.terms))
	for _, tok := range doc {
		if i, ok := v.index[tok]; ok {
			vec[i]++
		}
	}
	return vec
}

// Vectorize converts doc using the given mode
func (v *Vocabulary) Vectorize(mode Mode, doc []string) Vector {
	if mode == Presence {
		return v.PresenceVector(doc)
	}
	return v.CountVector(doc)
}
