package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/apperrors"
)

const DefaultMaxPages = 10

type PDFExtractor interface {
	Extract(data []byte) (*PDFContent, error)
}

type PDFContent struct {
	Text         string
	PageCount    int
	PagesRead    int
	PagesSkipped int
}

// pageSource is the part of a parsed PDF the extractor needs.
type pageSource interface {
	NumPage() int
	PageText(index int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

var errNullPage = errors.New("page object is null")

func (p pdfPages) NumPage() int {
	return p.r.NumPage()
}

func (p pdfPages) PageText(index int) (string, error) {
	page := p.r.Page(index)
	if page.V.IsNull() {
		return "", errNullPage
	}
	return page.GetPlainText(nil)
}

// openPDF parses the document from memory. The parser panics on some malformed
// inputs, so the panic is turned into an error.
func openPDF(data []byte) (src pageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return pdfPages{r: r}, nil
}

type pdfExtractor struct {
	maxPages int
	log      *zap.Logger
	open     func(data []byte) (pageSource, error)
}

func NewPDFExtractor(maxPages int, log *zap.Logger) PDFExtractor {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &pdfExtractor{maxPages: maxPages, log: log, open: openPDF}
}

// Extract reads at most maxPages pages and returns the cleaned text.
// Pages that fail to decode are logged and skipped.
func (e *pdfExtractor) Extract(data []byte) (*PDFContent, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file: %w", apperrors.ErrInvalidDocument)
	}

	src, err := e.open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w: %v", apperrors.ErrInvalidDocument, err)
	}

	total := safeNumPage(src)
	if total <= 0 {
		return nil, fmt.Errorf("document has no pages: %w", apperrors.ErrInvalidDocument)
	}

	limit := total
	if limit > e.maxPages {
		limit = e.maxPages
	}

	content := &PDFContent{PageCount: total}
	var textBuilder strings.Builder

	for pageIndex := 1; pageIndex <= limit; pageIndex++ {
		text, err := safePageText(src, pageIndex)
		if err != nil {
			content.PagesSkipped++
			e.log.Warn("skipping unreadable page", zap.Int("page", pageIndex), zap.Error(err))
			continue
		}

		content.PagesRead++
		textBuilder.WriteString(text)
		textBuilder.WriteString(" ")
	}

	content.Text = Clean(textBuilder.String())
	if content.Text == "" {
		return nil, fmt.Errorf("read %d of %d pages: %w", content.PagesRead, limit, apperrors.ErrEmptyContent)
	}

	return content, nil
}

func safeNumPage(src pageSource) (n int) {
	defer func() {
		if r := recover(); r != nil {
			n = 0
		}
	}()
	return src.NumPage()
}

func safePageText(src pageSource, index int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parser panic: %v", r)
		}
	}()
	return src.PageText(index)
}
