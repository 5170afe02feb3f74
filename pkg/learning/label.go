package learning

import (
	"fmt"
	"strings"
)

// Label is the binary class of an email
type Label int

const (
	Ham  Label = 0
	Spam Label = 1
)

// ParseLabel converts a corpus index label ("spam" or "ham") to a Label
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spam":
		return Spam, nil
	case "ham":
		return Ham, nil
	default:
		return Ham, fmt.Errorf("unknown label: %q", s)
	}
}

func (l Label) String() string {
	if l == Spam {
		return "spam"
	}
	return "ham"
}

// Sample pairs a tokenized document with its label
type Sample struct {
	Tokens []string `json:"tokens"`
	Label  Label    `json:"label"`
}

// Dataset is an ordered collection of labeled documents
type Dataset []Sample

// Documents returns the token sequences of the dataset in order
func (d Dataset) Documents() [][]string {
	docs := make([][]string, len(d))
	for i, s := range d {
		docs[i] = s.Tokens
	}
	return docs
}

// Labels returns the labels of the dataset in order
func (d Dataset) Labels() []Label {
	labels := make([]Label, len(d))
	for i, s := range d {
		labels[i] = s.Label
	}
	return labels
}

// Counts returns the number of ham and spam samples
func (d Dataset) Counts() (ham, spam int) {
	for _, s := range d {
		if s.Label == Spam {
			spam++
		} else {
			ham++
		}
	}
	return ham, spam
}
