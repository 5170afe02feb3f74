package email

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// DefaultEncoding is the charset of the TREC06C corpus. GB18030 is a
// superset of GB2312 and GBK.
const DefaultEncoding = "gb18030"

// Email is a raw corpus message split into header and body
type Email struct {
	Path   string
	Header string
	Body   string

	// Dropped counts the undecodable characters removed from the body
	Dropped int
}

// Parser decodes raw messages with a fixed charset
type Parser struct {
	enc encoding.Encoding
}

// NewParser creates a parser for the named charset ("gb18030", "gbk",
// "gb2312", "hz-gb-2312", "utf-8"). An empty name selects GB18030.
func NewParser(charset string) (*Parser, error) {
	if charset == "" || strings.EqualFold(charset, DefaultEncoding) {
		return &Parser{enc: simplifiedchinese.GB18030}, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", charset, err)
	}
	return &Parser{enc: enc}, nil
}

// ParseFromFile reads and parses a message from disk
func (p *Parser) ParseFromFile(path string) (*Email, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read email: %w", err)
	}

	msg := p.Parse(raw)
	msg.Path = path
	return msg, nil
}

// Parse splits raw on the first blank line and decodes both halves.
// A message without a blank line is all header with an empty body.
func (p *Parser) Parse(raw []byte) *Email {
	head, body := splitHeaderBody(raw)

	header, _ := p.decode(head)
	text, dropped := p.decode(body)

	return &Email{
		Header:  header,
		Body:    text,
		Dropped: dropped,
	}
}

func splitHeaderBody(raw []byte) (head, body []byte) {
	lf := bytes.Index(raw, []byte("\n\n"))
	crlf := bytes.Index(raw, []byte("\r\n\r\n"))

	switch {
	case lf < 0 && crlf < 0:
		return raw, nil
	case crlf >= 0 && (lf < 0 || crlf < lf):
		return raw[:crlf], raw[crlf+4:]
	default:
		return raw[:lf], raw[lf+2:]
	}
}

// decode converts b to UTF-8, dropping anything that cannot be decoded
func (p *Parser) decode(b []byte) (string, int) {
	if len(b) == 0 {
		return "", 0
	}

	out, err := p.enc.NewDecoder().Bytes(b)
	if err != nil {
		out = bytes.ToValidUTF8(b, nil)
	}

	s := string(out)
	dropped := strings.Count(s, string(utf8.RuneError))
	if dropped > 0 {
		s = strings.ReplaceAll(s, string(utf8.RuneError), "")
	}
	return s, dropped
}
