package tokenizer

import (
	"unicode/utf8"

	"github.com/zpam/spamnb/pkg/email"
	"go.uber.org/zap"
)

// DefaultMinTokenRunes keeps tokens longer than one character
const DefaultMinTokenRunes = 2

// Tokenizer turns email bodies into filtered token sequences
type Tokenizer struct {
	seg       Segmenter
	stopwords *Stopwords
	minRunes  int
	logger    *zap.Logger
}

// Option configures a Tokenizer
type Option func(*Tokenizer)

// WithMinTokenRunes sets the minimum token length in characters
func WithMinTokenRunes(n int) Option {
	return func(t *Tokenizer) {
		if n > 0 {
			t.minRunes = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tokenizer) {
		t.logger = logger
	}
}

// New creates a tokenizer
func New(seg Segmenter, stopwords *Stopwords, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		seg:       seg,
		stopwords: stopwords,
		minRunes:  DefaultMinTokenRunes,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize segments text and keeps the words that are long enough, begin
// with a CJK ideograph and are not stopwords. Order and duplicates are kept.
func (t *Tokenizer) Tokenize(text string) []string {
	words := t.seg.Cut(text)
	tokens := make([]string, 0, len(words))

	for _, w := range words {
		if utf8.RuneCountInString(w) < t.minRunes {
			continue
		}
		if !startsWithIdeograph(w) {
			continue
		}
		if t.stopwords.Contains(w) {
			continue
		}
		tokens = append(tokens, w)
	}

	return tokens
}

// TokenizeEmail tokenizes the body of msg; headers are ignored
func (t *Tokenizer) TokenizeEmail(msg *email.Email) []string {
	if msg.Dropped > 0 {
		t.logger.Debug("Dropped undecodable characters",
			zap.String("path", msg.Path),
			zap.Int("dropped", msg.Dropped))
	}
	return t.Tokenize(msg.Body)
}

func startsWithIdeograph(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r >= 0x4E00 && r <= 0x9FFF
}
