package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/zpam/spamnb/pkg/config"
	"github.com/zpam/spamnb/pkg/corpus"
	"github.com/zpam/spamnb/pkg/email"
	"github.com/zpam/spamnb/pkg/evaluate"
	"github.com/zpam/spamnb/pkg/learning"
	"github.com/zpam/spamnb/pkg/logging"
	"github.com/zpam/spamnb/pkg/metrics"
	"github.com/zpam/spamnb/pkg/modelstore"
	"github.com/zpam/spamnb/pkg/profiler"
	"github.com/zpam/spamnb/pkg/tokenizer"
)

// BuildContainer creates and configures a dependency injection container.
// Components are built lazily, so commands only pay for what they invoke.
func BuildContainer(cfg *config.Config) (*dig.Container, error) {
	return buildContainer(cfg, newSegmenter)
}

func newSegmenter(cfg *config.Config) (tokenizer.Segmenter, error) {
	seg, err := tokenizer.NewGseSegmenter(cfg.Tokenizer.DictPath, cfg.Tokenizer.HMM)
	if err != nil {
		return nil, err
	}
	return seg, nil
}

func buildContainer(cfg *config.Config, segmenter interface{}) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(cfg *config.Config) (*zap.Logger, error) {
		return logging.InitLogger(cfg.Logging)
	}); err != nil {
		return nil, err
	}

	// Register profiler
	if err := container.Provide(profiler.NewProfiler); err != nil {
		return nil, err
	}

	// Register tokenization
	if err := container.Provide(func(cfg *config.Config) (*tokenizer.Stopwords, error) {
		return tokenizer.LoadStopwords(cfg.Tokenizer.Stopwords)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(segmenter); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, seg tokenizer.Segmenter, stopwords *tokenizer.Stopwords, logger *zap.Logger) *tokenizer.Tokenizer {
		logger.Info("Loaded stopwords", zap.Int("count", stopwords.Len()))
		return tokenizer.New(seg, stopwords,
			tokenizer.WithMinTokenRunes(cfg.Tokenizer.MinTokenRunes),
			tokenizer.WithLogger(logger))
	}); err != nil {
		return nil, err
	}

	// Register corpus access
	if err := container.Provide(func(cfg *config.Config) (*email.Parser, error) {
		return email.NewParser(cfg.Corpus.Encoding)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, parser *email.Parser, logger *zap.Logger) (*corpus.Corpus, error) {
		c, err := corpus.Open(cfg.Corpus.Root, cfg.Corpus.Index, cfg.Corpus.PathPrefix, parser)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened corpus", zap.String("root", cfg.Corpus.Root), zap.Int("emails", c.Len()))
		return c, nil
	}); err != nil {
		return nil, err
	}

	// Register stores
	if err := container.Provide(func(cfg *config.Config) *modelstore.Store {
		return modelstore.New(cfg.Model.Dir)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (metrics.Store, error) {
		return metrics.Open(context.Background(), cfg.Metrics, logger)
	}); err != nil {
		return nil, err
	}

	// Register evaluator
	if err := container.Provide(newEvaluator); err != nil {
		return nil, err
	}

	return container, nil
}

// evaluatorParams groups the evaluator dependencies
type evaluatorParams struct {
	dig.In

	Config    *config.Config
	Logger    *zap.Logger
	Profiler  *profiler.Profiler
	Corpus    *corpus.Corpus
	Tokenizer *tokenizer.Tokenizer
	Models    *modelstore.Store
	Results   metrics.Store
}

func newEvaluator(p evaluatorParams) (*evaluate.Evaluator, error) {
	mode, err := learning.ParseMode(p.Config.Model.VectorMode)
	if err != nil {
		return nil, err
	}

	return evaluate.New(p.Corpus, p.Tokenizer, p.Models, p.Results,
		evaluate.WithLogger(p.Logger),
		evaluate.WithProfiler(p.Profiler),
		evaluate.WithSeed(p.Config.Evaluation.Seed),
		evaluate.WithSampleWindow(p.Config.Evaluation.SampleWindow),
		evaluate.WithVectorMode(mode),
	), nil
}
