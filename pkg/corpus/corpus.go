package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zpam/spamnb/pkg/email"
	"github.com/zpam/spamnb/pkg/learning"
)

// DefaultPathPrefix is the relative prefix used by TREC06C index entries
const DefaultPathPrefix = "../"

// Entry is one line of the corpus index
type Entry struct {
	Label learning.Label
	Path  string
}

// ReadIndex parses a "<label> <relative-path>" index file
func ReadIndex(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus index: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("index line %d: expected \"<label> <path>\", got %q", lineNo, line)
		}

		label, err := learning.ParseLabel(fields[0])
		if err != nil {
			return nil, fmt.Errorf("index line %d: %w", lineNo, err)
		}

		entries = append(entries, Entry{Label: label, Path: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus index: %w", err)
	}

	return entries, nil
}

// Corpus gives indexed access to the labeled emails of a corpus
type Corpus struct {
	root    string
	prefix  string
	entries []Entry
	parser  *email.Parser
}

// Open reads the index and checks that the corpus root exists
func Open(root, indexPath, prefix string, parser *email.Parser) (*Corpus, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("corpus root not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root is not a directory: %s", root)
	}

	entries, err := ReadIndex(indexPath)
	if err != nil {
		return nil, err
	}

	return &Corpus{
		root:    root,
		prefix:  prefix,
		entries: entries,
		parser:  parser,
	}, nil
}

// Len returns the number of indexed emails
func (c *Corpus) Len() int {
	return len(c.entries)
}

// Entry returns index entry i
func (c *Corpus) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(c.entries) {
		return Entry{}, fmt.Errorf("corpus index %d out of range [0, %d)", i, len(c.entries))
	}
	return c.entries[i], nil
}

// Resolve maps an index path onto the corpus root
func (c *Corpus) Resolve(rel string) string {
	rel = strings.TrimPrefix(rel, c.prefix)
	return filepath.Join(c.root, filepath.FromSlash(rel))
}

// Read loads and parses email i
func (c *Corpus) Read(i int) (*email.Email, learning.Label, error) {
	entry, err := c.Entry(i)
	if err != nil {
		return nil, learning.Ham, err
	}

	msg, err := c.parser.ParseFromFile(c.Resolve(entry.Path))
	if err != nil {
		return nil, learning.Ham, fmt.Errorf("corpus entry %d: %w", i, err)
	}
	return msg, entry.Label, nil
}
