package tokenizer

import (
	"fmt"

	"github.com/go-ego/gse"
)

// Segmenter splits text into words
type Segmenter interface {
	Cut(text string) []string
}

// GseSegmenter segments Chinese text with a gse dictionary
type GseSegmenter struct {
	seg gse.Segmenter
	hmm bool
}

// NewGseSegmenter loads the embedded Chinese dictionary, or dictPath when set
func NewGseSegmenter(dictPath string, hmm bool) (*GseSegmenter, error) {
	g := &GseSegmenter{hmm: hmm}
	g.seg.SkipLog = true

	var err error
	if dictPath == "" {
		err = g.seg.LoadDictEmbed()
	} else {
		err = g.seg.LoadDict(dictPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load segmentation dictionary: %w", err)
	}

	return g, nil
}

// Cut segments text in accurate mode
func (g *GseSegmenter) Cut(text string) []string {
	return g.seg.Cut(text, g.hmm)
}

var _ Segmenter = (*GseSegmenter)(nil)
