package intake

import (
	"fmt"
	"strings"
)

// ExtensionSet is the list of accepted file suffixes, stored lowercased with a
// leading dot.
type ExtensionSet struct {
	exts []string
}

var (
	// StandardExtensions accepts plain text and PDF files.
	StandardExtensions = NewExtensionSet(".txt", ".pdf")
	// ExtendedExtensions also accepts Word documents.
	ExtendedExtensions = NewExtensionSet(".txt", ".pdf", ".doc", ".docx")
)

// NewExtensionSet normalizes and deduplicates exts.
func NewExtensionSet(exts ...string) ExtensionSet {
	set := ExtensionSet{}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !set.contains(ext) {
			set.exts = append(set.exts, ext)
		}
	}
	return set
}

// ParseExtensionSet accepts "standard", "extended" or a comma separated list
// such as ".txt,.pdf,.eml".
func ParseExtensionSet(value string) (ExtensionSet, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "standard":
		return StandardExtensions, nil
	case "extended":
		return ExtendedExtensions, nil
	}
	set := NewExtensionSet(strings.Split(value, ",")...)
	if set.Empty() {
		return ExtensionSet{}, fmt.Errorf("no extensions in %q", value)
	}
	return set, nil
}

// Accepts reports whether name ends with an accepted suffix, ignoring case.
func (s ExtensionSet) Accepts(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, ext := range s.exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (s ExtensionSet) contains(ext string) bool {
	for _, existing := range s.exts {
		if existing == ext {
			return true
		}
	}
	return false
}

// Empty reports whether the set has no entries.
func (s ExtensionSet) Empty() bool {
	return len(s.exts) == 0
}

// List returns a copy of the suffixes.
func (s ExtensionSet) List() []string {
	return append([]string(nil), s.exts...)
}

// Describe renders the set for people, eg. ".txt or .pdf".
func (s ExtensionSet) Describe() string {
	switch len(s.exts) {
	case 0:
		return ""
	case 1:
		return s.exts[0]
	}
	return strings.Join(s.exts[:len(s.exts)-1], ", ") + " or " + s.exts[len(s.exts)-1]
}

func (s ExtensionSet) String() string {
	return strings.Join(s.exts, ",")
}
