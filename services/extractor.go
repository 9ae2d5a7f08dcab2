package services

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"code.sajari.com/docconv"
	"github.com/dslipak/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

var (
	// ErrUnsupportedType is returned for file types outside PDF, DOC, DOCX
	// and plain text.
	ErrUnsupportedType = errors.New("unsupported file type: only PDF, DOC, DOCX and plain text are accepted")
	// ErrFileTooLarge is returned when the upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
)

// FileExtractor turns an uploaded CV into plain text.
type FileExtractor struct {
	maxBytes int64
}

func NewFileExtractor(maxBytes int64) *FileExtractor {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &FileExtractor{maxBytes: maxBytes}
}

// MaxBytes returns the configured upload size limit.
func (e *FileExtractor) MaxBytes() int64 {
	return e.maxBytes
}

// Extract validates the upload and returns the extracted text. The type check
// runs before the size check, so an oversized file of an unsupported type
// reports the type problem. Parse failures on well-typed input are wrapped as
// collaborator errors so callers can distinguish them from bad requests.
func (e *FileExtractor) Extract(data []byte, mimeType string) (string, error) {
	mimeType = normalizeMIME(mimeType)

	switch mimeType {
	case mimePDF, mimeDOC, mimeDOCX, mimeText:
	default:
		return "", ErrUnsupportedType
	}

	if int64(len(data)) > e.maxBytes {
		return "", ErrFileTooLarge
	}

	var (
		text string
		err  error
	)
	switch mimeType {
	case mimePDF:
		text, err = extractPDF(data)
	case mimeDOCX:
		text, _, err = docconv.ConvertDocx(bytes.NewReader(data))
	case mimeDOC:
		text, _, err = docconv.ConvertDoc(bytes.NewReader(data))
	case mimeText:
		text = string(data)
	}
	if err != nil {
		return "", newCollaboratorError("file extraction", err)
	}

	slog.Info("Extracted CV text", "mime_type", mimeType, "bytes", len(data), "text_length", len(text))
	return text, nil
}

// extractPDF joins the plain text of each page with newlines.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w", i, err)
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}

// normalizeMIME lowercases the type and strips parameters such as charset.
func normalizeMIME(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
