package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	// MimePDF is the whitelisted PDF media type.
	MimePDF = "application/pdf"
	// MimeDOCX is the whitelisted Word document media type.
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// FormatLabel maps a whitelisted media type to its short display label.
func FormatLabel(mimeType string) string {
	switch normalizeMimeType(mimeType) {
	case MimePDF:
		return "PDF"
	case MimeDOCX:
		return "DOCX"
	default:
		return "unknown"
	}
}

// ErrUnsupportedType is returned when the media type is not whitelisted.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrNoText is returned when extraction succeeds but yields no usable text.
var ErrNoText = errors.New("no text extracted")

// ParseError wraps an underlying parser failure without leaking its raw type.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Text extracts plain text from an in-memory document. It accepts exactly the
// PDF and DOCX media types; any other type fails with ErrUnsupportedType.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func Text(data []byte, mimeType string) (string, error) {
	switch normalizeMimeType(mimeType) {
	case MimePDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", &ParseError{Format: "PDF", Err: err}
		}
		return text, nil
	case MimeDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return "", &ParseError{Format: "DOCX", Err: err}
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	return stripDocxXML(content), nil
}

// stripDocxXML flattens word/document.xml markup into newline-separated text.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
