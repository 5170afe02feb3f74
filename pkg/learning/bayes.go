package learning

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmptyTrainingSet is returned when training is attempted without documents
	ErrEmptyTrainingSet = errors.New("empty training set")
	// ErrDimensionMismatch is returned when vectors, labels or the vocabulary disagree in size
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Laplace smoothing: every token starts with one pseudo-occurrence per class
// and each class total starts at two.
const (
	tokenPseudoCount = 1.0
	totalPseudoCount = 2.0
)

// Model is a trained multinomial Naive Bayes spam model
type Model struct {
	Vocabulary   *Vocabulary
	HamLogProbs  []float64
	SpamLogProbs []float64
	SpamPrior    float64

	HamDocuments  int
	SpamDocuments int
}

// Train fits per-class token log-probabilities and the spam prior from
// vectorized documents. Vector i belongs to labels[i].
func Train(vocab *Vocabulary, vectors []Vector, labels []Label) (*Model, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("%w: %d vectors, %d labels", ErrDimensionMismatch, len(vectors), len(labels))
	}

	dims := vocab.Len()
	hamCounts := make([]float64, dims)
	spamCounts := make([]float64, dims)
	floats.AddConst(tokenPseudoCount, hamCounts)
	floats.AddConst(tokenPseudoCount, spamCounts)
	hamTotal, spamTotal := totalPseudoCount, totalPseudoCount

	model := &Model{Vocabulary: vocab}
	row := make([]float64, dims)

	for i, vec := range vectors {
		if len(vec) != dims {
			return nil, fmt.Errorf("%w: vector %d has %d entries, vocabulary has %d", ErrDimensionMismatch, i, len(vec), dims)
		}
		for j, n := range vec {
			row[j] = float64(n)
		}

		if labels[i] == Spam {
			floats.Add(spamCounts, row)
			spamTotal += floats.Sum(row)
			model.SpamDocuments++
		} else {
			floats.Add(hamCounts, row)
			hamTotal += floats.Sum(row)
			model.HamDocuments++
		}
	}

	model.SpamPrior = float64(model.SpamDocuments) / float64(len(vectors))
	model.HamLogProbs = logProbs(hamCounts, hamTotal)
	model.SpamLogProbs = logProbs(spamCounts, spamTotal)

	return model, nil
}

// TrainDataset builds vectors for every sample with the given mode and trains on them
func TrainDataset(vocab *Vocabulary, data Dataset, mode Mode) (*Model, error) {
	vectors := make([]Vector, len(data))
	for i, s := range data {
		vectors[i] = vocab.Vectorize(mode, s.Tokens)
	}
	return Train(vocab, vectors, data.Labels())
}

func logProbs(counts []float64, total float64) []float64 {
	out := make([]float64, len(counts))
	floats.ScaleTo(out, 1/total, counts)
	for i, p := range out {
		out[i] = math.Log(p)
	}
	return out
}

// Scores returns the log-posterior (up to a shared constant) of both classes
func (m *Model) Scores(vec Vector) (ham, spam float64, err error) {
	if len(vec) != len(m.SpamLogProbs) {
		return 0, 0, fmt.Errorf("%w: vector has %d entries, model has %d", ErrDimensionMismatch, len(vec), len(m.SpamLogProbs))
	}

	x := make([]float64, len(vec))
	for i, n := range vec {
		x[i] = float64(n)
	}

	spam = floats.Dot(x, m.SpamLogProbs) + math.Log(m.SpamPrior)
	ham = floats.Dot(x, m.HamLogProbs) + math.Log(1.0-m.SpamPrior)
	return ham, spam, nil
}

// Classify labels a vector as spam only if the spam score is strictly
// greater than the ham score
func (m *Model) Classify(vec Vector) (Label, error) {
	ham, spam, err := m.Scores(vec)
	if err != nil {
		return Ham, err
	}
	if spam > ham {
		return Spam, nil
	}
	return Ham, nil
}

// ClassifyTokens vectorizes a document with the model vocabulary and classifies it
func (m *Model) ClassifyTokens(mode Mode, doc []string) (Label, error) {
	return m.Classify(m.Vocabulary.Vectorize(mode, doc))
}

// SpamProbability normalizes the two class scores into P(spam | document)
func SpamProbability(ham, spam float64) float64 {
	return 1.0 / (1.0 + math.Exp(ham-spam))
}

// TokenStats describes how strongly a vocabulary term indicates spam
type TokenStats struct {
	Token       string  `json:"token"`
	HamLogProb  float64 `json:"ham_log_prob"`
	SpamLogProb float64 `json:"spam_log_prob"`
	// LogRatio is log P(token|spam) - log P(token|ham)
	LogRatio float64 `json:"log_ratio"`
}

// TopTokens returns the terms with the largest log-likelihood ratio towards
// the given class
func (m *Model) TopTokens(class Label, limit int) []*TokenStats {
	tokens := make([]*TokenStats, 0, m.Vocabulary.Len())
	for i := 0; i < m.Vocabulary.Len(); i++ {
		tokens = append(tokens, &TokenStats{
			Token:       m.Vocabulary.Term(i),
			HamLogProb:  m.HamLogProbs[i],
			SpamLogProb: m.SpamLogProbs[i],
			LogRatio:    m.SpamLogProbs[i] - m.HamLogProbs[i],
		})
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		if class == Spam {
			return tokens[i].LogRatio > tokens[j].LogRatio
		}
		return tokens[i].LogRatio < tokens[j].LogRatio
	})

	if limit > 0 && len(tokens) > limit {
		tokens = tokens[:limit]
	}
	return tokens
}

// ModelInfo contains model information
type ModelInfo struct {
	VocabularySize int     `json:"vocabulary_size"`
	HamDocuments   int     `json:"ham_documents"`
	SpamDocuments  int     `json:"spam_documents"`
	SpamPrior      float64 `json:"spam_prior"`
}

// Info returns summary information about the trained model
func (m *Model) Info() *ModelInfo {
	return &ModelInfo{
		VocabularySize: m.Vocabulary.Len(),
		HamDocuments:   m.HamDocuments,
		SpamDocuments:  m.SpamDocuments,
		SpamPrior:      m.SpamPrior,
	}
}

// PrintStats prints model statistics
func (m *Model) PrintStats(w io.Writer) {
	info := m.Info()

	fmt.Fprintf(w, "🧠 Naive Bayes Model\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	fmt.Fprintf(w, "Training Data:\n")
	fmt.Fprintf(w, "  Spam emails: %d\n", info.SpamDocuments)
	fmt.Fprintf(w, "  Ham emails: %d\n", info.HamDocuments)
	fmt.Fprintf(w, "  Spam prior: %.4f\n", info.SpamPrior)
	fmt.Fprintf(w, "  Vocabulary size: %d\n", info.VocabularySize)

	fmt.Fprintf(w, "\n📈 Top Spam Tokens:\n")
	for i, tok := range m.TopTokens(Spam, 10) {
		fmt.Fprintf(w, "  %2d. %-15s (%+.3f log ratio)\n", i+1, tok.Token, tok.LogRatio)
	}

	fmt.Fprintf(w, "\n📉 Top Ham Tokens:\n")
	for i, tok := range m.TopTokens(Ham, 10) {
		fmt.Fprintf(w, "  %2d. %-15s (%+.3f log ratio)\n", i+1, tok.Token, tok.LogRatio)
	}

	fmt.Fprintf(w, "\n")
}
