package modelstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zpam/spamnb/pkg/learning"
)

// SchemaVersion is the version written by Save
const SchemaVersion = 1

const modelFile = "model.json"

var (
	// ErrNotFound means no model was persisted for a training size
	ErrNotFound = errors.New("model not found")
	// ErrSchemaVersion means the persisted record uses an unknown schema
	ErrSchemaVersion = errors.New("unsupported model schema version")
)

// Record is the persisted form of a trained model and its training snapshot
type Record struct {
	SchemaVersion int              `json:"schema_version"`
	TrainNum      int              `json:"train_num"`
	CreatedAt     time.Time        `json:"created_at"`
	VectorMode    learning.Mode    `json:"vector_mode"`
	Vocabulary    []string         `json:"vocabulary"`
	HamLogProbs   []float64        `json:"ham_log_probs"`
	SpamLogProbs  []float64        `json:"spam_log_probs"`
	SpamPrior     float64          `json:"spam_prior"`
	HamDocuments  int              `json:"ham_documents"`
	SpamDocuments int              `json:"spam_documents"`
	Training      learning.Dataset `json:"training"`
}

// NewRecord captures a trained model for persistence
func NewRecord(trainNum int, mode learning.Mode, model *learning.Model, training learning.Dataset) *Record {
	return &Record{
		SchemaVersion: SchemaVersion,
		TrainNum:      trainNum,
		CreatedAt:     time.Now().UTC(),
		VectorMode:    mode,
		Vocabulary:    model.Vocabulary.Terms(),
		HamLogProbs:   model.HamLogProbs,
		SpamLogProbs:  model.SpamLogProbs,
		SpamPrior:     model.SpamPrior,
		HamDocuments:  model.HamDocuments,
		SpamDocuments: model.SpamDocuments,
		Training:      training,
	}
}

// Model rebuilds the trained model
func (r *Record) Model() (*learning.Model, error) {
	vocab, err := learning.NewVocabulary(r.Vocabulary)
	if err != nil {
		return nil, err
	}
	if len(r.HamLogProbs) != vocab.Len() || len(r.SpamLogProbs) != vocab.Len() {
		return nil, fmt.Errorf("%w: vocabulary %d, ham %d, spam %d",
			learning.ErrDimensionMismatch, vocab.Len(), len(r.HamLogProbs), len(r.SpamLogProbs))
	}

	return &learning.Model{
		Vocabulary:    vocab,
		HamLogProbs:   r.HamLogProbs,
		SpamLogProbs:  r.SpamLogProbs,
		SpamPrior:     r.SpamPrior,
		HamDocuments:  r.HamDocuments,
		SpamDocuments: r.SpamDocuments,
	}, nil
}

// Store keeps one model record per training size under a directory
type Store struct {
	dir string
}

// New creates a store rooted at dir
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the record path for a training size
func (s *Store) Path(trainNum int) string {
	return filepath.Join(s.dir, strconv.Itoa(trainNum), modelFile)
}

// Exists reports whether a model was persisted for trainNum
func (s *Store) Exists(trainNum int) bool {
	_, err := os.Stat(s.Path(trainNum))
	return err == nil
}

// Load reads the record for trainNum
func (s *Store) Load(trainNum int) (*Record, error) {
	file, err := os.Open(s.Path(trainNum))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: train size %d", ErrNotFound, trainNum)
		}
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer file.Close()

	var rec Record
	if err := json.NewDecoder(file).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	if rec.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchemaVersion, rec.SchemaVersion)
	}
	if rec.TrainNum != trainNum {
		return nil, fmt.Errorf("model file for %d holds train size %d", trainNum, rec.TrainNum)
	}

	return &rec, nil
}

// Save writes the record atomically, replacing any previous model for the size
func (s *Store) Save(rec *Record) error {
	path := s.Path(rec.TrainNum)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, modelFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := json.NewEncoder(tmp).Encode(rec); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace model: %w", err)
	}

	return nil
}
