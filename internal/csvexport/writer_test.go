package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfextract/internal/domain"
	"nfextract/internal/report"
)

func sampleTable() *report.Table {
	return &report.Table{
		Model: domain.ReportModelParties,
		Columns: []report.Column{
			{Key: "key", Header: "Chave"},
			{Key: "emitter", Header: "Emitente"},
		},
		Rows: [][]string{
			{"35240111222333000181550010000001231123456780", "Empresa, LTDA"},
			{"35240111222333000181570010000004561123456700", `Aspas "duplas"`},
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteTable(sampleTable()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Chave", "Emitente"}, rows[0])
	assert.Equal(t, "Empresa, LTDA", rows[1][1])
	assert.Equal(t, `Aspas "duplas"`, rows[2][1])
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	table := sampleTable()
	table.Rows = nil
	require.NoError(t, NewWriter(&buf).WriteTable(table))
	assert.Equal(t, string(BOM)+"Chave,Emitente\n", buf.String())
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "products", "products"},
		{"spaces_and_slashes", "NFe Emitente/Destinatário", "NFe_Emitente_Destinat_rio"},
		{"trim", "__icms__", "icms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}

	long := bytes.Repeat([]byte("a"), 150)
	assert.Len(t, SanitizeFilename(string(long)), 100)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "relatorio_icms_2024-01-15.csv", BuildFilename("icms", "csv", now))
}
