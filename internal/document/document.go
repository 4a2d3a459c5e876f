// Package document reads resume documents and extracts their plain text.
package document

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
)

// MIMEPDF is the only accepted document type.
const MIMEPDF = "application/pdf"

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrDocumentUnreadable  = errors.New("document is unreadable")
)

var pdfMagic = []byte("%PDF-")

// Document is a binary document with its declared or detected MIME type.
type Document struct {
	Name string
	MIME string
	Data []byte
}

// New builds a document, detecting its MIME type from the content and name.
func New(name string, data []byte) Document {
	return Document{Name: name, MIME: DetectMIME(name, data), Data: data}
}

// DetectMIME sniffs the PDF signature, falling back to the file extension.
func DetectMIME(name string, data []byte) string {
	if bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return MIMEPDF
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MIMEPDF
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// Accepts reports whether a MIME type can be extracted.
func Accepts(mime string) bool {
	return strings.EqualFold(strings.TrimSpace(mime), MIMEPDF)
}
