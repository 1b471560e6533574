package intake

import (
	"path/filepath"
	"strings"
)

const selectedFileLabel = "Selected file: "

// SelectedFile is a file handle chosen in the picker.
type SelectedFile struct {
	Name string
	Path string
}

// FileFromPath builds a SelectedFile from a path on disk.
func FileFromPath(path string) SelectedFile {
	return SelectedFile{Name: filepath.Base(path), Path: path}
}

// Ext returns the lowercased extension including the dot.
func (f SelectedFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// FileInput is the picker state. Only the first entry is ever submitted.
type FileInput []SelectedFile

// First returns the first selected file, if any.
func (in FileInput) First() (SelectedFile, bool) {
	if len(in) == 0 {
		return SelectedFile{}, false
	}
	return in[0], true
}

// FileObserver tracks picker changes and the filename label shown under the
// picker. It never validates extensions; that happens at submit time.
type FileObserver struct {
	files FileInput
	label string
}

// Observe records a picker change.
func (o *FileObserver) Observe(files FileInput) {
	if len(files) == 0 {
		o.files = nil
		o.label = ""
		return
	}
	o.files = append(FileInput(nil), files...)
	o.label = selectedFileLabel + files[0].Name
}

// Clear is a picker change with zero files.
func (o *FileObserver) Clear() {
	o.Observe(nil)
}

// Files returns the current picker state.
func (o *FileObserver) Files() FileInput {
	return append(FileInput(nil), o.files...)
}

// Label returns the filename label, empty when nothing is selected.
func (o *FileObserver) Label() string {
	return o.label
}
