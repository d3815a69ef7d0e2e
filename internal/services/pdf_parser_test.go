package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/testhelpers"
)

// fakePages serves canned page texts; a page listed in failing returns an
// error and one listed in panicking panics.
type fakePages struct {
	pages     []string
	failing   map[int]bool
	panicking map[int]bool
	requested []int
}

func (f *fakePages) NumPage() int { return len(f.pages) }

func (f *fakePages) PageText(index int) (string, error) {
	f.requested = append(f.requested, index)
	if f.panicking[index] {
		panic("malformed content stream")
	}
	if f.failing[index] {
		return "", fmt.Errorf("page %d: bad font", index)
	}
	return f.pages[index-1], nil
}

func extractorWith(src pageSource, maxPages int, log *zap.Logger) *pdfExtractor {
	e := NewPDFExtractor(maxPages, log).(*pdfExtractor)
	e.open = func([]byte) (pageSource, error) { return src, nil }
	return e
}

func TestExtractJoinsAndCleansPages(t *testing.T) {
	src := &fakePages{pages: []string{"Tender for\nroad works.", "  Closing date:\t31 March. "}}

	content, err := extractorWith(src, 10, nil).Extract([]byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "Tender for road works. Closing date: 31 March.", content.Text)
	assert.Equal(t, 2, content.PageCount)
	assert.Equal(t, 2, content.PagesRead)
	assert.Zero(t, content.PagesSkipped)
}

func TestExtractStopsAtMaxPages(t *testing.T) {
	pages := make([]string, 15)
	for i := range pages {
		pages[i] = fmt.Sprintf("page%d", i+1)
	}
	src := &fakePages{pages: pages}

	content, err := extractorWith(src, 10, nil).Extract([]byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, 15, content.PageCount)
	assert.Equal(t, 10, content.PagesRead)
	assert.Len(t, src.requested, 10)
	assert.NotContains(t, content.Text, "page11")
}

func TestExtractSkipsFailingPages(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	src := &fakePages{
		pages:     []string{"one", "two", "three"},
		failing:   map[int]bool{1: true},
		panicking: map[int]bool{3: true},
	}

	content, err := extractorWith(src, 10, zap.New(core)).Extract([]byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "two", content.Text)
	assert.Equal(t, 2, content.PagesSkipped)
	assert.Equal(t, 2, logs.FilterMessage("skipping unreadable page").Len())
}

func TestExtractAllPagesFailing(t *testing.T) {
	src := &fakePages{pages: []string{"a", "b"}, failing: map[int]bool{1: true, 2: true}}

	_, err := extractorWith(src, 10, nil).Extract([]byte("%PDF"))
	assert.True(t, errors.Is(err, apperrors.ErrEmptyContent))
}

func TestExtractBlankText(t *testing.T) {
	src := &fakePages{pages: []string{"   ", "\n\t"}}

	_, err := extractorWith(src, 10, nil).Extract([]byte("%PDF"))
	assert.True(t, errors.Is(err, apperrors.ErrEmptyContent))
}

func TestExtractZeroPages(t *testing.T) {
	src := &fakePages{}

	_, err := extractorWith(src, 10, nil).Extract([]byte("%PDF"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidDocument))
}

func TestExtractRejectsGarbage(t *testing.T) {
	e := NewPDFExtractor(10, nil)

	_, err := e.Extract([]byte("this is not a pdf at all"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidDocument))

	_, err = e.Extract(nil)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidDocument))
}

func TestExtractRealDocument(t *testing.T) {
	data := testhelpers.BuildPDF("Construction of access roads in Gauteng", "CIDB grading required")

	content, err := NewPDFExtractor(10, nil).Extract(data)
	require.NoError(t, err)
	assert.Equal(t, 2, content.PageCount)
	assert.Contains(t, content.Text, "Gauteng")
	assert.Contains(t, content.Text, "CIDB")
}

func TestExtractRealDocumentWithoutPages(t *testing.T) {
	_, err := NewPDFExtractor(10, nil).Extract(testhelpers.BuildPDF())
	assert.True(t, errors.Is(err, apperrors.ErrInvalidDocument))
}
