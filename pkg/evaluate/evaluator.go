package evaluate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/zpam/spamnb/pkg/email"
	"github.com/zpam/spamnb/pkg/learning"
	"github.com/zpam/spamnb/pkg/metrics"
	"github.com/zpam/spamnb/pkg/modelstore"
	"github.com/zpam/spamnb/pkg/profiler"
)

// DefaultSampleWindow bounds how far past the training range test
// documents are drawn from
const DefaultSampleWindow = 30000

// misclassifiedTokens is how many tokens of a misclassified document are logged
const misclassifiedTokens = 8

// Source is an indexed collection of labeled emails
type Source interface {
	Len() int
	Read(i int) (*email.Email, learning.Label, error)
}

// Tokenizer turns an email into filtered tokens
type Tokenizer interface {
	TokenizeEmail(msg *email.Email) []string
}

// ModelStore persists trained models keyed by training size
type ModelStore interface {
	Load(trainNum int) (*modelstore.Record, error)
	Save(rec *modelstore.Record) error
}

// Result is the outcome of one evaluation
type Result struct {
	Confusion Confusion
	Accuracy  float64
	Precision float64
	Recall    float64
	Record    metrics.Record
}

// Evaluator trains or loads a model and measures it on a random sample
type Evaluator struct {
	source  Source
	tok     Tokenizer
	models  ModelStore
	results metrics.Store

	logger *zap.Logger
	prof   *profiler.Profiler
	rng    *rand.Rand
	mode   learning.Mode
	window int

	state    State
	trainNum int
	model    *learning.Model
	dataset  learning.Dataset
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProfiler records stage timings into p
func WithProfiler(p *profiler.Profiler) Option {
	return func(e *Evaluator) {
		e.prof = p
	}
}

// WithRand sets the random source used for sampling test documents
func WithRand(r *rand.Rand) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds the sampler. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(e *Evaluator) {
		e.rng = newRand(seed)
	}
}

// WithVectorMode selects how newly trained models vectorize documents
func WithVectorMode(mode learning.Mode) Option {
	return func(e *Evaluator) {
		if mode != "" {
			e.mode = mode
		}
	}
}

// WithSampleWindow sets the width of the test sampling range
func WithSampleWindow(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.window = n
		}
	}
}

// New creates an evaluator in the NoModel state
func New(source Source, tok Tokenizer, models ModelStore, results metrics.Store, opts ...Option) *Evaluator {
	e := &Evaluator{
		source:  source,
		tok:     tok,
		models:  models,
		results: results,
		logger:  zap.NewNop(),
		rng:     newRand(0),
		mode:    learning.Count,
		window:  DefaultSampleWindow,
		state:   NoModel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// State returns the current stage
func (e *Evaluator) State() State {
	return e.state
}

// Model returns the loaded model, or nil before LoadOrTrain
func (e *Evaluator) Model() *learning.Model {
	return e.model
}

// TrainNum returns the training size of the loaded model
func (e *Evaluator) TrainNum() int {
	return e.trainNum
}

// Run loads or trains a model for trainNum and evaluates it on testNum samples
func (e *Evaluator) Run(ctx context.Context, trainNum, testNum int) (*Result, error) {
	if err := e.LoadOrTrain(ctx, trainNum); err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, testNum)
}

// LoadOrTrain loads the persisted model for trainNum, training and
// persisting one from the first trainNum corpus entries if none exists
func (e *Evaluator) LoadOrTrain(ctx context.Context, trainNum int) error {
	if trainNum < 1 {
		return fmt.Errorf("train size must be positive, got %d", trainNum)
	}

	rec, err := e.models.Load(trainNum)
	switch {
	case err == nil:
		model, err := rec.Model()
		if err != nil {
			return fmt.Errorf("failed to restore model: %w", err)
		}
		if len(rec.Training) != trainNum {
			return fmt.Errorf("persisted model for %d holds %d training samples", trainNum, len(rec.Training))
		}
		if rec.VectorMode != "" {
			e.mode = rec.VectorMode
		}
		e.loaded(trainNum, model, rec.Training)
		e.logger.Info("Loaded persisted model",
			zap.Int("train_num", trainNum),
			zap.Int("vocabulary", model.Vocabulary.Len()),
			zap.String("mode", string(e.mode)))
		return nil
	case !errors.Is(err, modelstore.ErrNotFound):
		return err
	}

	if trainNum > e.source.Len() {
		return fmt.Errorf("train size %d exceeds corpus size %d", trainNum, e.source.Len())
	}

	e.logger.Info("Training model", zap.Int("train_num", trainNum), zap.String("mode", string(e.mode)))
	start := time.Now()

	training := make(learning.Dataset, 0, trainNum)
	for i := 0; i < trainNum; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sample, err := e.readSample(i)
		if err != nil {
			return err
		}
		training = append(training, sample)
	}

	t := e.prof.Start(profiler.StageVocabulary)
	vocab := learning.BuildVocabulary(training.Documents())
	t.Stop()

	t = e.prof.Start(profiler.StageTrain)
	model, err := learning.TrainDataset(vocab, training, e.mode)
	t.Stop()
	if err != nil {
		return fmt.Errorf("failed to train model: %w", err)
	}

	t = e.prof.Start(profiler.StagePersist)
	err = e.models.Save(modelstore.NewRecord(trainNum, e.mode, model, training))
	t.Stop()
	if err != nil {
		return err
	}

	ham, spam := training.Counts()
	e.logger.Info("Model trained",
		zap.Int("train_num", trainNum),
		zap.Int("ham", ham),
		zap.Int("spam", spam),
		zap.Int("vocabulary", vocab.Len()),
		zap.Duration("elapsed", time.Since(start)))

	e.loaded(trainNum, model, training)
	return nil
}

func (e *Evaluator) loaded(trainNum int, model *learning.Model, training learning.Dataset) {
	e.trainNum = trainNum
	e.model = model
	e.dataset = training
	e.state = ModelLoaded
}

// Evaluate classifies testNum documents sampled with replacement from
// [trainNum, trainNum+window) and appends the resulting metrics to the store
func (e *Evaluator) Evaluate(ctx context.Context, testNum int) (*Result, error) {
	if e.state == NoModel {
		return nil, fmt.Errorf("no model loaded")
	}
	if testNum < 1 {
		return nil, fmt.Errorf("test size must be positive, got %d", testNum)
	}

	lo := e.trainNum
	hi := min(e.trainNum+e.window, e.source.Len())
	if lo >= hi {
		return nil, fmt.Errorf("no test documents available past index %d (corpus size %d)", lo, e.source.Len())
	}

	prev := e.state
	e.state = Evaluating
	res, err := e.evaluate(ctx, testNum, lo, hi)
	if err != nil {
		e.state = prev
		return nil, err
	}
	e.state = Done
	return res, nil
}

func (e *Evaluator) evaluate(ctx context.Context, testNum, lo, hi int) (*Result, error) {
	// test samples extend the training samples; earlier runs are discarded
	e.dataset = e.dataset[:e.trainNum:e.trainNum]

	for i := 0; i < testNum; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx := lo + e.rng.IntN(hi-lo)
		sample, err := e.readSample(idx)
		if err != nil {
			return nil, err
		}
		e.dataset = append(e.dataset, sample)
	}

	var c Confusion
	for pos := e.trainNum; pos < e.trainNum+testNum; pos++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sample := e.dataset[pos]

		t := e.prof.Start(profiler.StageVectorize)
		vec := e.model.Vocabulary.Vectorize(e.mode, sample.Tokens)
		t.Stop()

		t = e.prof.Start(profiler.StageClassify)
		predicted, err := e.model.Classify(vec)
		t.Stop()
		if err != nil {
			return nil, err
		}

		c.Add(predicted, sample.Label)
		if predicted != sample.Label {
			e.logMisclassified(pos, predicted, sample)
		}
	}

	res, err := newResult(e.trainNum, testNum, c)
	if err != nil {
		return nil, err
	}

	if err := e.results.Append(ctx, res.Record); err != nil {
		return nil, fmt.Errorf("failed to store metrics: %w", err)
	}

	e.logger.Info("Evaluation complete",
		zap.Int("train_num", e.trainNum),
		zap.Int("test_num", testNum),
		zap.Stringer("confusion", c),
		zap.Float64("accuracy", res.Accuracy),
		zap.Float64("precision", res.Precision),
		zap.Float64("recall", res.Recall))

	return res, nil
}

func newResult(trainNum, testNum int, c Confusion) (*Result, error) {
	acc, err := c.Accuracy()
	if err != nil {
		return nil, err
	}
	precision, err := c.Precision()
	if err != nil {
		return nil, err
	}
	recall, err := c.Recall()
	if err != nil {
		return nil, err
	}

	rec := metrics.NewRecord(trainNum, testNum, acc, precision, recall)
	rec.TP, rec.FP, rec.FN, rec.TN = c.TP, c.FP, c.FN, c.TN

	return &Result{
		Confusion: c,
		Accuracy:  acc,
		Precision: precision,
		Recall:    recall,
		Record:    rec,
	}, nil
}

func (e *Evaluator) readSample(i int) (learning.Sample, error) {
	t := e.prof.Start(profiler.StageRead)
	msg, label, err := e.source.Read(i)
	t.Stop()
	if err != nil {
		return learning.Sample{}, err
	}

	t = e.prof.Start(profiler.StageTokenize)
	tokens := e.tok.TokenizeEmail(msg)
	t.Stop()

	return learning.Sample{Tokens: tokens, Label: label}, nil
}

func (e *Evaluator) logMisclassified(pos int, predicted learning.Label, sample learning.Sample) {
	if ce := e.logger.Check(zap.DebugLevel, "Misclassified"); ce != nil {
		head := sample.Tokens
		if len(head) > misclassifiedTokens {
			head = head[:misclassifiedTokens]
		}
		ce.Write(
			zap.Int("position", pos),
			zap.Stringer("predicted", predicted),
			zap.Stringer("actual", sample.Label),
			zap.Strings("tokens", head))
	}
}
