package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zpam/spamnb/pkg/email"
	"github.com/zpam/spamnb/pkg/learning"
)

func TestWriteCorpusRoundTrip(t *testing.T) {
	dir := t.TempDir()

	spam, ham, err := NewGenerator(42).WriteCorpus(dir, 20, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 5, spam)
	assert.Equal(t, 15, ham)

	parser, err := email.NewParser("")
	require.NoError(t, err)
	c, err := Open(dir, filepath.Join(dir, "full", "index"), DefaultPathPrefix, parser)
	require.NoError(t, err)
	require.Equal(t, 20, c.Len())

	spamSeen := 0
	for i := 0; i < c.Len(); i++ {
		msg, label, err := c.Read(i)
		require.NoError(t, err)
		assert.Zero(t, msg.Dropped, "generated emails should decode cleanly")
		assert.NotEmpty(t, msg.Body)
		assert.Contains(t, msg.Header, "Subject: ")
		if label == learning.Spam {
			spamSeen++
		}
	}
	assert.Equal(t, 5, spamSeen)
}

func TestWriteCorpusIsDeterministic(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	_, _, err := NewGenerator(7).WriteCorpus(a, 5, 0.4)
	require.NoError(t, err)
	_, _, err = NewGenerator(7).WriteCorpus(b, 5, 0.4)
	require.NoError(t, err)

	for _, rel := range []string{"full/index", "data/000/000", "data/000/004"} {
		x, err := os.ReadFile(filepath.Join(a, rel))
		require.NoError(t, err)
		y, err := os.ReadFile(filepath.Join(b, rel))
		require.NoError(t, err)
		assert.Equal(t, x, y, rel)
	}
}

func TestWriteCorpusSplitsDirectories(t *testing.T) {
	dir := t.TempDir()
	_, _, err := NewGenerator(1).WriteCorpus(dir, emailsPerDir+1, 0.5)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "data", "001", "000"))
	assert.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, "full", "index"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(index)), "../data/001/000"))
}

func TestWriteCorpusRejectsBadArguments(t *testing.T) {
	g := NewGenerator(1)
	_, _, err := g.WriteCorpus(t.TempDir(), 0, 0.5)
	assert.Error(t, err)
	_, _, err = g.WriteCorpus(t.TempDir(), 10, 1.5)
	assert.Error(t, err)
}
