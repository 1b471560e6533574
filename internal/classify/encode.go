package classify

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"os"

	"github.com/csheth/mailtriage/internal/intake"
)

const (
	emailField = "email"
	fileField  = "file"
)

type encodedPayload struct {
	body        io.Reader
	contentType string
	kind        string
	size        int
}

// encodeSubmission renders JSON for text, placeholder and extracted content,
// and multipart form data for raw uploads.
func encodeSubmission(sub intake.Submission) (encodedPayload, error) {
	if sub.Kind == intake.ModeFile && sub.Policy == intake.PolicyUpload && sub.File != nil {
		return encodeUpload(*sub.File)
	}
	buf, err := json.Marshal(map[string]string{emailField: sub.Content})
	if err != nil {
		return encodedPayload{}, err
	}
	return encodedPayload{
		body:        bytes.NewReader(buf),
		contentType: "application/json",
		kind:        "json",
		size:        len(buf),
	}, nil
}

func encodeUpload(file intake.SelectedFile) (encodedPayload, error) {
	src, err := os.Open(file.Path)
	if err != nil {
		return encodedPayload{}, &intake.ValidationError{Kind: intake.UnreadableFile, File: file.Name, Err: err}
	}
	defer src.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fileField, file.Name)
	if err != nil {
		return encodedPayload{}, err
	}
	if _, err := io.Copy(part, src); err != nil {
		return encodedPayload{}, &intake.ValidationError{Kind: intake.UnreadableFile, File: file.Name, Err: err}
	}
	if err := writer.Close(); err != nil {
		return encodedPayload{}, err
	}
	return encodedPayload{
		body:        bytes.NewReader(buf.Bytes()),
		contentType: writer.FormDataContentType(),
		kind:        "multipart",
		size:        buf.Len(),
	}, nil
}
