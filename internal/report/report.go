// Package report flattens extracted records into tabular rows for export.
package report

import (
	"fmt"
	"strings"

	"nfextract/internal/accesskey"
	"nfextract/internal/domain"
)

// Column is one exportable field.
type Column struct {
	Key    string
	Header string
}

// Table is a flattened report ready for a writer.
type Table struct {
	Model   domain.ReportModel
	Columns []Column
	Rows    [][]string
}

var headers = map[string]string{
	"key":                       "Chave",
	"keyUF":                     "UF (chave)",
	"keyYearMonth":              "AAMM (chave)",
	"keyModel":                  "Modelo (chave)",
	"keySeries":                 "Série (chave)",
	"emissionDate":              "Emissão",
	"emitterCnpjCpf":            "Emitente CNPJ/CPF",
	"emitterStateRegistration":  "Emitente IE",
	"emitter":                   "Emitente",
	"receiverCnpjCpf":           "Destinatário CNPJ/CPF",
	"receiverStateRegistration": "Destinatário IE",
	"receiver":                  "Destinatário",
	"number":                    "Número",
	"value":                     "Valor",
	"freightMode":               "Modalidade Frete",
	"productCode":               "Cód. Produto",
	"productName":               "Produto",
	"productQuantity":           "Qtd.",
	"productUnitValue":          "Vl. Unit.",
	"icmsOrig":                  "Origem ICMS",
	"icmsCST":                   "CST ICMS",
	"icmsModBC":                 "Mod. BC ICMS",
	"icmsVBC":                   "VBC ICMS",
	"icmsPICMS":                 "Alíq. ICMS",
	"icmsVICMS":                 "Valor ICMS",
}

// DefaultColumns lists the columns each model exports when none are selected.
var DefaultColumns = map[domain.ReportModel][]string{
	domain.ReportModelParties: {
		"key", "emissionDate", "emitterCnpjCpf", "emitterStateRegistration", "emitter",
		"receiverCnpjCpf", "receiverStateRegistration", "receiver", "number", "value", "freightMode",
	},
	domain.ReportModelProducts: {
		"key", "emissionDate", "emitter", "receiver", "number", "value",
		"productCode", "productName", "productQuantity", "productUnitValue",
	},
	domain.ReportModelICMS: {
		"key", "number", "productCode", "productName",
		"icmsOrig", "icmsCST", "icmsModBC", "icmsVBC", "icmsPICMS", "icmsVICMS",
	},
}

// Options narrows a report.
type Options struct {
	Columns []string // empty means the model defaults
	Search  string   // case-insensitive substring over every cell
}

// Build flattens docs into a table for model. The parties model yields one
// row per access key; the item models yield one row per line item, and a
// record without items still yields its header row.
func Build(model domain.ReportModel, docs []*domain.FiscalDocument, opts Options) (*Table, error) {
	if !domain.ValidReportModels[model] {
		return nil, fmt.Errorf("report.Build: %w: %q", domain.ErrUnknownReportModel, model)
	}
	keys := opts.Columns
	if len(keys) == 0 {
		keys = DefaultColumns[model]
	}
	cols := make([]Column, 0, len(keys))
	for _, k := range keys {
		h, ok := headers[k]
		if !ok {
			return nil, fmt.Errorf("report.Build: %w: %q", domain.ErrUnknownReportColumn, k)
		}
		cols = append(cols, Column{Key: k, Header: h})
	}

	var records []map[string]string
	seen := make(map[string]bool)
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		base := baseRow(doc)
		if model == domain.ReportModelParties {
			if doc.Chave != "" && seen[doc.Chave] {
				continue
			}
			seen[doc.Chave] = true
			records = append(records, base)
			continue
		}
		if len(doc.Det) == 0 {
			records = append(records, base)
			continue
		}
		for i := range doc.Det {
			records = append(records, itemRow(base, &doc.Det[i]))
		}
	}

	table := &Table{Model: model, Columns: cols, Rows: [][]string{}}
	needle := strings.ToLower(strings.TrimSpace(opts.Search))
	for _, rec := range records {
		if needle != "" && !matches(rec, needle) {
			continue
		}
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = rec[c.Key]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Headers returns the header row.
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Header
	}
	return out
}

func baseRow(doc *domain.FiscalDocument) map[string]string {
	row := map[string]string{
		"key":                       doc.Chave,
		"emissionDate":              doc.Ide.DhEmi,
		"emitterCnpjCpf":            doc.Emit.CNPJ,
		"emitterStateRegistration":  doc.Emit.IE,
		"emitter":                   doc.Emit.XNome,
		"receiverCnpjCpf":           doc.Dest.CNPJ,
		"receiverStateRegistration": doc.Dest.IE,
		"receiver":                  doc.Dest.XNome,
		"number":                    doc.Ide.NNF,
		"value":                     doc.Total.ICMSTot.VNF.String(),
		"freightMode":               freightMode(doc.Transp.ModFrete),
	}
	// key columns stay empty when the key does not validate
	if k, err := accesskey.Parse(doc.Chave); err == nil {
		row["keyUF"] = k.UF
		row["keyYearMonth"] = k.YearMonth
		row["keyModel"] = k.Model
		row["keySeries"] = k.Series
	}
	return row
}

func freightMode(code string) string {
	if code == "" {
		return ""
	}
	return domain.FreightModeLabel(code)
}

func itemRow(base map[string]string, it *domain.LineItem) map[string]string {
	row := make(map[string]string, len(base)+10)
	for k, v := range base {
		row[k] = v
	}
	icms := it.Imposto.ICMS
	row["productCode"] = it.Prod.CProd
	row["productName"] = it.Prod.XProd
	row["productQuantity"] = it.Prod.QCom.String()
	row["productUnitValue"] = it.Prod.VUnCom.String()
	row["icmsOrig"] = icms.Orig
	row["icmsCST"] = icms.Code()
	row["icmsModBC"] = icms.ModBC
	row["icmsVBC"] = icms.VBC.String()
	row["icmsPICMS"] = icms.PICMS.String()
	row["icmsVICMS"] = icms.VICMS.String()
	return row
}

func matches(rec map[string]string, needle string) bool {
	for _, v := range rec {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
