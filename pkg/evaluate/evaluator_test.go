package evaluate

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zpam/spamnb/pkg/email"
	"github.com/zpam/spamnb/pkg/learning"
	"github.com/zpam/spamnb/pkg/metrics"
	"github.com/zpam/spamnb/pkg/modelstore"
	"github.com/zpam/spamnb/pkg/profiler"
)

type doc struct {
	body  string
	label learning.Label
}

// memorySource serves whitespace-separated bodies and remembers what was read
type memorySource struct {
	docs  []doc
	reads []int
}

func (s *memorySource) Len() int { return len(s.docs) }

func (s *memorySource) Read(i int) (*email.Email, learning.Label, error) {
	if i < 0 || i >= len(s.docs) {
		return nil, learning.Ham, errors.New("index out of range")
	}
	s.reads = append(s.reads, i)
	return &email.Email{Body: s.docs[i].body}, s.docs[i].label, nil
}

type countingTokenizer struct {
	calls int
}

func (t *countingTokenizer) TokenizeEmail(msg *email.Email) []string {
	t.calls++
	return strings.Fields(msg.Body)
}

var trainingDocs = []doc{
	{"发票 优惠", learning.Spam},
	{"会议 安排", learning.Ham},
	{"发票 中奖", learning.Spam},
	{"会议 记录", learning.Ham},
}

func corpusWith(test ...doc) *memorySource {
	docs := append([]doc(nil), trainingDocs...)
	return &memorySource{docs: append(docs, test...)}
}

type fixture struct {
	source  *memorySource
	tok     *countingTokenizer
	models  *modelstore.Store
	results *metrics.JSONStore
}

func newFixture(t *testing.T, test ...doc) *fixture {
	t.Helper()
	dir := t.TempDir()
	return &fixture{
		source:  corpusWith(test...),
		tok:     &countingTokenizer{},
		models:  modelstore.New(filepath.Join(dir, "model")),
		results: metrics.NewJSONStore(filepath.Join(dir, "result.json")),
	}
}

func (f *fixture) evaluator(opts ...Option) *Evaluator {
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return New(f.source, f.tok, f.models, f.results, opts...)
}

func TestRunEndToEnd(t *testing.T) {
	f := newFixture(t,
		doc{"发票 中奖", learning.Spam},
		doc{"会议 安排", learning.Ham},
	)
	e := f.evaluator()
	require.Equal(t, NoModel, e.State())

	res, err := e.Run(context.Background(), 4, 20)
	require.NoError(t, err)
	assert.Equal(t, Done, e.State())

	assert.Equal(t, 20, res.Confusion.Total())
	assert.Zero(t, res.Confusion.FP)
	assert.Zero(t, res.Confusion.FN)
	assert.Equal(t, 1.0, res.Accuracy)
	assert.Equal(t, 1.0, res.Precision)
	assert.Equal(t, 1.0, res.Recall)

	assert.Equal(t, 4, res.Record.TrainNum)
	assert.Equal(t, 20, res.Record.TestNum)
	assert.NotEmpty(t, res.Record.RunID)
	assert.Equal(t, res.Confusion.TP, res.Record.TP)

	assert.True(t, f.models.Exists(4), "trained model should be persisted")

	stored, err := f.results.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, stored["4"], 1)
	assert.Equal(t, res.Record.RunID, stored["4"][0].RunID)
}

func TestSamplingStaysInWindow(t *testing.T) {
	f := newFixture(t,
		doc{"发票 中奖", learning.Spam},
		doc{"会议 安排", learning.Ham},
		doc{"发票 优惠", learning.Spam},
		doc{"会议 记录", learning.Ham},
	)
	e := f.evaluator(WithSampleWindow(2))

	_, err := e.Run(context.Background(), 4, 50)
	if err != nil {
		// a sample of a single class is legitimate here
		require.ErrorIs(t, err, ErrZeroDenominator)
	}

	require.Len(t, f.source.reads, 54)
	for _, idx := range f.source.reads[4:] {
		assert.True(t, idx == 4 || idx == 5, "index %d outside window", idx)
	}
}

func TestSamplingClipsWindowToCorpus(t *testing.T) {
	f := newFixture(t, doc{"发票 中奖", learning.Spam})
	e := f.evaluator()

	res, err := e.Run(context.Background(), 4, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Confusion.TP)

	for _, idx := range f.source.reads[4:] {
		assert.Equal(t, 4, idx)
	}
}

func TestConfusionSumsToTestSize(t *testing.T) {
	f := newFixture(t,
		doc{"发票 中奖", learning.Spam},
		doc{"发票 优惠", learning.Ham},
		doc{"会议 安排", learning.Spam},
		doc{"会议 记录", learning.Ham},
	)

	for _, n := range []int{10, 37, 100} {
		e := f.evaluator()
		res, err := e.Run(context.Background(), 4, n)
		require.NoError(t, err)
		c := res.Confusion
		assert.Equal(t, n, c.TP+c.FP+c.FN+c.TN)
	}
}

func TestTwoRunsAppendTwoRecords(t *testing.T) {
	f := newFixture(t,
		doc{"发票 中奖", learning.Spam},
		doc{"会议 安排", learning.Ham},
	)
	e := f.evaluator()
	ctx := context.Background()

	require.NoError(t, e.LoadOrTrain(ctx, 4))
	first, err := e.Evaluate(ctx, 10)
	require.NoError(t, err)
	second, err := e.Evaluate(ctx, 10)
	require.NoError(t, err)
	assert.NotEqual(t, first.Record.RunID, second.Record.RunID)

	stored, err := f.results.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored["4"], 2)
}

func TestPersistedModelSkipsTrainingTokenization(t *testing.T) {
	f := newFixture(t,
		doc{"发票 中奖", learning.Spam},
		doc{"会议 安排", learning.Ham},
	)
	ctx := context.Background()

	first, err := f.evaluator().Run(ctx, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, 14, f.tok.calls)

	tok := &countingTokenizer{}
	source := corpusWith(f.source.docs[4:]...)
	e := New(source, tok, f.models, f.results, WithRand(rand.New(rand.NewPCG(1, 2))))

	second, err := e.Run(ctx, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, tok.calls, "only test documents should be tokenized")
	for _, idx := range source.reads {
		assert.GreaterOrEqual(t, idx, 4, "training documents should not be read")
	}

	assert.Equal(t, first.Confusion, second.Confusion)
	assert.Equal(t, learning.BuildVocabulary([][]string{
		{"发票", "优惠"}, {"会议", "安排"}, {"发票", "中奖"}, {"会议", "记录"},
	}).Terms(), e.Model().Vocabulary.Terms())
}

func TestZeroDenominatorAppendsNothing(t *testing.T) {
	f := newFixture(t,
		doc{"会议 安排", learning.Ham},
		doc{"会议 记录", learning.Ham},
	)
	e := f.evaluator()
	ctx := context.Background()

	_, err := e.Run(ctx, 4, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroDenominator))
	assert.Equal(t, ModelLoaded, e.State(), "failed evaluation should keep the loaded model")

	stored, err := f.results.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, stored.Len())
}

func TestMisclassificationsAreLogged(t *testing.T) {
	f := newFixture(t,
		doc{"发票 中奖", learning.Spam},
		doc{"发票 优惠 会议 安排 会议 记录 发票 中奖 优惠", learning.Ham},
	)
	core, logs := observer.New(zapcore.DebugLevel)
	e := f.evaluator(WithLogger(zap.New(core)))

	res, err := e.Run(context.Background(), 4, 30)
	require.NoError(t, err)
	require.Positive(t, res.Confusion.FP)

	entries := logs.FilterMessage("Misclassified").All()
	require.Len(t, entries, res.Confusion.FP)

	fields := entries[0].ContextMap()
	assert.Equal(t, "spam", fields["predicted"])
	assert.Equal(t, "ham", fields["actual"])
	assert.Len(t, fields["tokens"], misclassifiedTokens)
}

func TestProfilerRecordsStages(t *testing.T) {
	f := newFixture(t,
		doc{"发票 中奖", learning.Spam},
		doc{"会议 安排", learning.Ham},
	)
	p := profiler.NewProfiler()
	_, err := f.evaluator(WithProfiler(p)).Run(context.Background(), 4, 10)
	require.NoError(t, err)

	assert.Equal(t, 14, p.GetStats(profiler.StageRead).Count)
	assert.Equal(t, 14, p.GetStats(profiler.StageTokenize).Count)
	assert.Equal(t, 10, p.GetStats(profiler.StageClassify).Count)
	assert.Equal(t, 1, p.GetStats(profiler.StageTrain).Count)
}

func TestEvaluatorErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("evaluate before load", func(t *testing.T) {
		e := newFixture(t).evaluator()
		_, err := e.Evaluate(ctx, 10)
		assert.Error(t, err)
		assert.Equal(t, NoModel, e.State())
	})

	t.Run("train size exceeds corpus", func(t *testing.T) {
		e := newFixture(t).evaluator()
		assert.Error(t, e.LoadOrTrain(ctx, 10))
		assert.Equal(t, NoModel, e.State())
	})

	t.Run("nothing to test", func(t *testing.T) {
		e := newFixture(t).evaluator()
		require.NoError(t, e.LoadOrTrain(ctx, 4))
		_, err := e.Evaluate(ctx, 10)
		assert.Error(t, err)
		assert.Equal(t, ModelLoaded, e.State())
	})

	t.Run("canceled", func(t *testing.T) {
		e := newFixture(t).evaluator()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, e.LoadOrTrain(cctx, 4), context.Canceled)
	})
}
