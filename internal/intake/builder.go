package intake

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Submission is one validated request to classify an email. It is built fresh
// for every attempt and never stored.
type Submission struct {
	Kind    InputMode
	Content string
	File    *SelectedFile
	Policy  FilePolicy
}

// Extractor turns a file on disk into plain text.
type Extractor interface {
	Extract(path string) (string, error)
}

// BuilderConfig configures validation and the file payload policy.
type BuilderConfig struct {
	Extensions ExtensionSet
	Policy     FilePolicy
	Extractor  Extractor
	// MaxFileSize caps uploaded files in bytes. Zero disables the limit.
	MaxFileSize int64
}

// Builder validates user input and produces submissions.
type Builder struct {
	accepted  ExtensionSet
	policy    FilePolicy
	extractor Extractor
	maxSize   int64
	stat      func(string) (os.FileInfo, error)
}

// NewBuilder applies defaults: the standard extension set and the upload
// policy.
func NewBuilder(cfg BuilderConfig) *Builder {
	accepted := cfg.Extensions
	if accepted.Empty() {
		accepted = StandardExtensions
	}
	policy := cfg.Policy
	if policy == "" {
		policy = PolicyUpload
	}
	return &Builder{
		accepted:  accepted,
		policy:    policy,
		extractor: cfg.Extractor,
		maxSize:   cfg.MaxFileSize,
		stat:      os.Stat,
	}
}

// Extensions returns the accepted suffixes.
func (b *Builder) Extensions() ExtensionSet {
	return b.accepted
}

// Policy returns the file payload policy.
func (b *Builder) Policy() FilePolicy {
	return b.policy
}

// Build validates the input of the active mode. A non-nil error is always a
// *ValidationError and means no request may be sent.
func (b *Builder) Build(mode InputMode, text string, files FileInput) (Submission, error) {
	switch mode {
	case ModeText:
		content := strings.TrimSpace(text)
		if content == "" {
			return Submission{}, &ValidationError{Kind: EmptyInput}
		}
		return Submission{Kind: ModeText, Content: content}, nil
	case ModeFile:
		return b.buildFile(files)
	default:
		return Submission{}, fmt.Errorf("unknown input mode %d", mode)
	}
}

func (b *Builder) buildFile(files FileInput) (Submission, error) {
	file, ok := files.First()
	if !ok {
		return Submission{}, &ValidationError{Kind: NoFileSelected}
	}
	if !b.accepted.Accepts(file.Name) {
		return Submission{}, &ValidationError{Kind: UnsupportedExtension, File: file.Name, Accepted: b.accepted}
	}

	sub := Submission{Kind: ModeFile, File: &file, Policy: b.policy}
	switch b.policy {
	case PolicyPlaceholder:
		sub.Content = Placeholder(file.Name)
	case PolicyExtract:
		if b.extractor == nil {
			return Submission{}, &ValidationError{Kind: UnreadableFile, File: file.Name, Err: errors.New("text extraction is not configured")}
		}
		text, err := b.extractor.Extract(file.Path)
		if err != nil {
			return Submission{}, &ValidationError{Kind: UnreadableFile, File: file.Name, Err: err}
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return Submission{}, &ValidationError{Kind: EmptyInput, File: file.Name}
		}
		sub.Content = text
	default:
		info, err := b.stat(file.Path)
		if err != nil {
			return Submission{}, &ValidationError{Kind: UnreadableFile, File: file.Name, Err: err}
		}
		if info.IsDir() {
			return Submission{}, &ValidationError{Kind: UnreadableFile, File: file.Name, Err: errors.New("is a directory")}
		}
		if b.maxSize > 0 && info.Size() > b.maxSize {
			err := fmt.Errorf("file is %d bytes, limit is %d", info.Size(), b.maxSize)
			return Submission{}, &ValidationError{Kind: UnreadableFile, File: file.Name, Err: err}
		}
	}
	return sub, nil
}
