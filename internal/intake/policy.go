package intake

import (
	"fmt"
	"strings"
)

// FilePolicy decides what a file submission puts on the wire.
type FilePolicy string

const (
	// PolicyUpload sends the raw file as multipart form data.
	PolicyUpload FilePolicy = "upload"
	// PolicyPlaceholder sends only a JSON placeholder naming the file. The
	// service never sees the file content under this policy.
	PolicyPlaceholder FilePolicy = "placeholder"
	// PolicyExtract extracts text locally and sends it as JSON.
	PolicyExtract FilePolicy = "extract"
)

const placeholderPrefix = "Arquivo: "

// ParseFilePolicy validates a configured policy name. Empty means upload.
func ParseFilePolicy(value string) (FilePolicy, error) {
	switch FilePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyUpload:
		return PolicyUpload, nil
	case PolicyPlaceholder:
		return PolicyPlaceholder, nil
	case PolicyExtract:
		return PolicyExtract, nil
	default:
		return "", fmt.Errorf("unknown file policy %q (want upload, placeholder or extract)", value)
	}
}

// Placeholder is the text sent in place of a file under PolicyPlaceholder.
func Placeholder(name string) string {
	return placeholderPrefix + name
}
