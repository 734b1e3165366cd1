package report

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfextract/internal/domain"
	"nfextract/internal/extractor"
)

func fixture(t *testing.T, name string) *domain.FiscalDocument {
	t.Helper()
	raw, err := os.ReadFile("../extractor/testdata/" + name)
	require.NoError(t, err)
	doc, err := extractor.Extract(raw)
	require.NoError(t, err)
	return doc
}

func TestBuild_Parties(t *testing.T) {
	doc := fixture(t, "nfeproc_full.xml")
	table, err := Build(domain.ReportModelParties, []*domain.FiscalDocument{doc, doc}, Options{})
	require.NoError(t, err)

	require.Len(t, table.Rows, 1, "duplicate keys collapse")
	assert.Equal(t, "Chave", table.Headers()[0])
	row := table.Rows[0]
	assert.Equal(t, doc.Chave, row[0])
	assert.Equal(t, "11222333000181", row[2])
	assert.Equal(t, "52998224725", row[5])
	assert.Equal(t, "360.00", row[9])
	assert.Equal(t, "Remetente", row[10])
}

func TestBuild_Products(t *testing.T) {
	doc := fixture(t, "nfeproc_full.xml")
	table, err := Build(domain.ReportModelProducts, []*domain.FiscalDocument{doc}, Options{})
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"P001", "Caneta Azul", "2.0000", "50.0000000000"}, table.Rows[0][6:])
	assert.Equal(t, "P003", table.Rows[2][6])
}

func TestBuild_ICMS(t *testing.T) {
	doc := fixture(t, "nfeproc_full.xml")
	table, err := Build(domain.ReportModelICMS, []*domain.FiscalDocument{doc}, Options{})
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"0", "102", "", "", "", ""}, table.Rows[0][4:])
	assert.Equal(t, []string{"0", "00", "3", "200.00", "18.00", "36.00"}, table.Rows[1][4:])
	assert.Equal(t, "1", table.Rows[2][4])
}

func TestBuild_RecordWithoutItems(t *testing.T) {
	doc := fixture(t, "cteproc.xml")
	table, err := Build(domain.ReportModelProducts, []*domain.FiscalDocument{doc}, Options{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, doc.Chave, table.Rows[0][0])
	assert.Empty(t, table.Rows[0][6])
}

func TestBuild_KeyColumns(t *testing.T) {
	doc := fixture(t, "nfeproc_full.xml")
	cols := []string{"keyUF", "keyYearMonth", "keyModel", "keySeries"}
	table, err := Build(domain.ReportModelParties, []*domain.FiscalDocument{doc}, Options{Columns: cols})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"35", "2401", "55", "001"}, table.Rows[0])

	doc.Chave = "123"
	table, err = Build(domain.ReportModelParties, []*domain.FiscalDocument{doc}, Options{Columns: cols})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", ""}, table.Rows[0])
}

func TestBuild_Options(t *testing.T) {
	doc := fixture(t, "nfeproc_full.xml")
	docs := []*domain.FiscalDocument{doc, nil}

	t.Run("selected_columns", func(t *testing.T) {
		table, err := Build(domain.ReportModelProducts, docs, Options{Columns: []string{"productName", "key"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Produto", "Chave"}, table.Headers())
		assert.Equal(t, []string{"Grampeador", doc.Chave}, table.Rows[1])
	})

	t.Run("search", func(t *testing.T) {
		table, err := Build(domain.ReportModelProducts, docs, Options{Search: "  grampe "})
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "P002", table.Rows[0][6])
	})

	t.Run("search_no_match", func(t *testing.T) {
		table, err := Build(domain.ReportModelParties, docs, Options{Search: "zzz"})
		require.NoError(t, err)
		assert.NotNil(t, table.Rows)
		assert.Empty(t, table.Rows)
	})
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build("danfe", nil, Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownReportModel)

	_, err = Build(domain.ReportModelParties, nil, Options{Columns: []string{"bogus"}})
	assert.ErrorIs(t, err, domain.ErrUnknownReportColumn)
}
