package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// pageReader is the subset of a parsed PDF the extractor walks.
type pageReader interface {
	NumPage() int
	PageText(i int) (string, error)
}

type pdfPages struct {
	reader *pdf.Reader
}

func (p pdfPages) NumPage() int { return p.reader.NumPage() }

func (p pdfPages) PageText(i int) (string, error) {
	page := p.reader.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// Extractor pulls plain text out of PDF documents.
type Extractor struct {
	logger *zap.Logger
	open   func(data []byte) (pageReader, error)
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger, open: openPDF}
}

func openPDF(data []byte) (pageReader, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return pdfPages{reader: reader}, nil
}

// Text returns the document text, pages in order. Tokens within a page are
// joined by single spaces and every page ends with a newline.
func (e *Extractor) Text(ctx context.Context, doc Document) (text string, err error) {
	if !Accepts(doc.MIME) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, doc.MIME)
	}

	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrDocumentUnreadable, r)
		}
	}()

	pages, err := e.open(doc.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}

	var builder strings.Builder
	count := pages.NumPage()
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pageText, err := pages.PageText(i)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrDocumentUnreadable, i, err)
		}

		builder.WriteString(strings.Join(strings.Fields(pageText), " "))
		builder.WriteString("\n")
	}

	e.logger.Debug("extracted document text",
		zap.String("document", doc.Name),
		zap.Int("pages", count),
		zap.Int("text_length", builder.Len()),
	)

	return builder.String(), nil
}
