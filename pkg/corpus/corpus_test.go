package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zpam/spamnb/pkg/email"
	"github.com/zpam/spamnb/pkg/learning"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReadIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")
	writeFile(t, path, "spam ../data/000/000\nham ../data/000/001\n\n  spam ../data/000/002  \n")

	entries, err := ReadIndex(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Label: learning.Spam, Path: "../data/000/000"}, entries[0])
	assert.Equal(t, Entry{Label: learning.Ham, Path: "../data/000/001"}, entries[1])
	assert.Equal(t, learning.Spam, entries[2].Label)
}

func TestReadIndexErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadIndex(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad")
	writeFile(t, bad, "spam ../a\nmaybe ../b\n")
	_, err = ReadIndex(bad)
	assert.ErrorContains(t, err, "line 2")

	short := filepath.Join(dir, "short")
	writeFile(t, short, "spam\n")
	_, err = ReadIndex(short)
	assert.ErrorContains(t, err, "line 1")
}

func TestCorpusRead(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "full", "index"), "ham ../data/000/000\nspam ../data/000/001\n")
	writeFile(t, filepath.Join(root, "data", "000", "000"), "From: a\n\nmeeting notes")
	writeFile(t, filepath.Join(root, "data", "000", "001"), "From: b\n\nwin money")

	parser, err := email.NewParser("utf-8")
	require.NoError(t, err)

	c, err := Open(root, filepath.Join(root, "full", "index"), DefaultPathPrefix, parser)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, filepath.Join(root, "data", "000", "001"), c.Resolve("../data/000/001"))

	msg, label, err := c.Read(1)
	require.NoError(t, err)
	assert.Equal(t, learning.Spam, label)
	assert.Equal(t, "win money", msg.Body)

	_, _, err = c.Read(2)
	assert.Error(t, err)
}

func TestOpenMissingRoot(t *testing.T) {
	parser, _ := email.NewParser("")
	_, err := Open(filepath.Join(t.TempDir(), "nope"), "index", DefaultPathPrefix, parser)
	assert.Error(t, err)
}
