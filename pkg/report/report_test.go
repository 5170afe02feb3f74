package report

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zpam/spamnb/pkg/metrics"
)

func storeWith(t *testing.T, records ...metrics.Record) metrics.Store {
	t.Helper()
	s := metrics.NewJSONStore(filepath.Join(t.TempDir(), "result.json"))
	for _, r := range records {
		require.NoError(t, s.Append(context.Background(), r))
	}
	return s
}

func TestLoadAveragesPerTrainingSize(t *testing.T) {
	s := storeWith(t,
		metrics.NewRecord(1000, 200, 0.9, 0.8, 0.7),
		metrics.NewRecord(1000, 200, 0.7, 0.6, 0.5),
		metrics.NewRecord(500, 200, 0.5, 0.5, 0.5),
	)

	rows, err := Load(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "500", rows[0].Key)
	assert.Equal(t, "1000", rows[1].Key)
	assert.Equal(t, 2, rows[1].Runs)
	assert.InDelta(t, 0.8, rows[1].ACC, 1e-9)
	assert.InDelta(t, 0.7, rows[1].Precision, 1e-9)
	assert.InDelta(t, 0.6, rows[1].Recall, 1e-9)
}

func TestLoadEmptyStore(t *testing.T) {
	_, err := Load(context.Background(), storeWith(t))
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []metrics.Summary{{Key: "1000", TrainNum: 1000, Runs: 3, ACC: 0.95, Precision: 0.9, Recall: 0.85}})

	out := buf.String()
	assert.Contains(t, out, "1000")
	assert.Contains(t, out, "95.00%")
	assert.Contains(t, out, "85.00%")
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.xlsx")
	rows := []metrics.Summary{
		{Key: "500", TrainNum: 500, Runs: 1, ACC: 0.8, Precision: 0.75, Recall: 0.7},
		{Key: "1000", TrainNum: 1000, Runs: 2, ACC: 0.9, Precision: 0.85, Recall: 0.8},
	}

	require.NoError(t, WriteWorkbook(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(Sheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, headers, got[0])
	assert.Equal(t, "500", got[1][0])
	assert.Equal(t, "1000", got[2][0])
	assert.Equal(t, "2", got[2][1])
	assert.Equal(t, "0.9", got[2][2])
}

func TestWriteWorkbookWithoutRows(t *testing.T) {
	err := WriteWorkbook(filepath.Join(t.TempDir(), "empty.xlsx"), nil)
	assert.ErrorIs(t, err, ErrNoResults)
}
