package xlsxexport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nfextract/internal/domain"
	"nfextract/internal/report"
)

func TestWrite(t *testing.T) {
	table := &report.Table{
		Model: domain.ReportModelProducts,
		Columns: []report.Column{
			{Key: "key", Header: "Chave"},
			{Key: "productName", Header: "Produto"},
		},
		Rows: [][]string{
			{"35240111222333000181550010000001231123456780", "Caneta Azul"},
			{"35240111222333000181550010000001231123456780", "Grampeador"},
		},
	}

	data, err := Write(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Chave", "Produto"}, rows[0])
	assert.Equal(t, "Grampeador", rows[2][1])
	// keys stay text, not scientific-notation numbers
	assert.Equal(t, "35240111222333000181550010000001231123456780", rows[1][0])
}

func TestWrite_NoColumns(t *testing.T) {
	data, err := Write(&report.Table{Rows: [][]string{}})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
