// Package extract turns email files on disk into plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DefaultCharset is used to decode text files that are not valid UTF-8.
const DefaultCharset = "windows-1252"

// ErrUnsupportedFormat is returned for extensions without an extractor.
var ErrUnsupportedFormat = errors.New("unsupported format for text extraction")

var (
	extraneousWhitespace = regexp.MustCompile(`[ \t\f\v]+`)
	utf8BOM              = []byte{0xEF, 0xBB, 0xBF}
)

// Extractor reads .txt, .pdf and .docx files.
type Extractor struct {
	charset     string
	fallback    encoding.Encoding
	maxFileSize int64
}

// Option tweaks an Extractor.
type Option func(*Extractor)

// WithMaxFileSize rejects files larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(e *Extractor) {
		e.maxFileSize = n
	}
}

// New builds an extractor that decodes non UTF-8 text with charset.
func New(charset string, opts ...Option) (*Extractor, error) {
	if strings.TrimSpace(charset) == "" {
		charset = DefaultCharset
	}
	enc, err := ianaindex.IANA.Encoding(strings.ToLower(charset))
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q is not supported", charset)
	}
	e := &Extractor{charset: charset, fallback: enc}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Charset returns the fallback charset name.
func (e *Extractor) Charset() string {
	return e.charset
}

// Extract returns the text content of the file at path.
func (e *Extractor) Extract(path string) (string, error) {
	if e.maxFileSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		if info.Size() > e.maxFileSize {
			return "", fmt.Errorf("file is %d bytes, limit is %d", info.Size(), e.maxFileSize)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return e.readText(path)
	case ".pdf":
		return readPDF(path)
	case ".docx":
		return readDOCX(path)
	default:
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
}

func (e *Extractor) readText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return e.decode(raw)
}

func (e *Extractor) decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), e.fallback.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode %s text: %w", e.charset, err)
	}
	return string(decoded), nil
}

func readPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return normalizeWhitespace(builder.String()), nil
}

func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(extraneousWhitespace.ReplaceAllString(line, " "))
		if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
