package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	f := newTenderFixture(t, false, nil)
	ctx := context.Background()
	budget := 99.5

	res, err := f.service.Ingest(ctx, IngestRequest{FileName: "bridge.pdf", Data: []byte("%PDF-b"), Buyer: "SANRAL", Budget: &budget})
	require.NoError(t, err)

	data, err := NewExportService(f.service).ExportXLSX(ctx)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = book.Close() }()

	rows, err := book.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Title", rows[0][1])
	assert.Equal(t, res.Tender.ID.String(), rows[1][0])
	assert.Equal(t, "bridge", rows[1][1])
	assert.Equal(t, "SANRAL", rows[1][2])
	assert.Equal(t, "99.50", rows[1][4])
	assert.Equal(t, res.Summary.Text, rows[1][7])
}
