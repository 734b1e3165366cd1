package extractor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfextract/internal/domain"
	"nfextract/internal/xmltree"
)

const fullKey = "35240111222333000181550010000001231123456780"

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return raw
}

func mustExtract(t *testing.T, raw []byte, opts ...Option) *domain.FiscalDocument {
	t.Helper()
	doc, err := Extract(raw, opts...)
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func TestExtract_FullNFeProc(t *testing.T) {
	doc := mustExtract(t, loadFixture(t, "nfeproc_full.xml"))

	assert.Equal(t, domain.ShapeNFeProc, doc.Tipo)
	assert.Equal(t, "4.00", doc.Versao)
	assert.Equal(t, fullKey, doc.Chave)

	assert.Equal(t, "35", doc.Ide.CUF)
	assert.Equal(t, "12345678", doc.Ide.CNF)
	assert.Equal(t, "VENDA DE MERCADORIA", doc.Ide.NatOp)
	assert.Equal(t, "55", doc.Ide.Mod)
	assert.Equal(t, "1", doc.Ide.Serie)
	assert.Equal(t, "123", doc.Ide.NNF)
	assert.Equal(t, "2024-01-15T10:30:00-03:00", doc.Ide.DhEmi)
	assert.Equal(t, "2024-01-15T11:00:00-03:00", doc.Ide.DhSaiEnt)
	assert.Equal(t, "3550308", doc.Ide.CMunFG)
	assert.Equal(t, "ERP 2.1", doc.Ide.VerProc)
	assert.Equal(t, "", doc.Ide.ChNFe)
	assert.Equal(t, domain.Amount("360.00"), doc.Ide.VNF)

	assert.Equal(t, "Empresa Emitente LTDA", doc.Emit.XNome)
	assert.Equal(t, "Emitente", doc.Emit.XFant)
	assert.Equal(t, "11222333000181", doc.Emit.CNPJ)
	assert.Equal(t, "123456789012", doc.Emit.IE)
	assert.Equal(t, "987654321", doc.Emit.IEST)
	assert.Equal(t, "55667788", doc.Emit.IM)
	assert.Equal(t, "3", doc.Emit.CRT)
	assert.Equal(t, "Avenida Paulista", doc.Emit.EnderEmit.XLgr)
	assert.Equal(t, "Sala 10", doc.Emit.EnderEmit.XCpl)
	assert.Equal(t, "SP", doc.Emit.EnderEmit.UF)
	assert.Equal(t, "01310100", doc.Emit.EnderEmit.CEP)
	assert.Equal(t, "1133334444", doc.Emit.EnderEmit.Fone)

	assert.Equal(t, "Maria da Silva", doc.Dest.XNome)
	assert.Equal(t, "52998224725", doc.Dest.CNPJ)
	assert.Equal(t, "", doc.Dest.IE)
	assert.Equal(t, "9", doc.Dest.IndIEDest)
	assert.Equal(t, "maria@example.com", doc.Dest.Email)
	assert.Equal(t, "Campinas", doc.Dest.EnderDest.XMun)

	tot := doc.Total.ICMSTot
	assert.Equal(t, domain.Amount("227.00"), tot.VBC)
	assert.Equal(t, domain.Amount("40.86"), tot.VICMS)
	assert.Equal(t, domain.Amount("330.00"), tot.VProd)
	assert.Equal(t, domain.Amount("15.00"), tot.VFrete)
	assert.Equal(t, domain.Amount("5.00"), tot.VDesc)
	assert.Equal(t, domain.Amount("20.00"), tot.VIPI)
	assert.Equal(t, domain.Amount("1.65"), tot.VPIS)
	assert.Equal(t, domain.Amount("7.60"), tot.VCOFINS)
	assert.Equal(t, domain.Amount("360.00"), tot.VNF)

	assert.Equal(t, "0", doc.Transp.ModFrete)
	assert.Equal(t, "11444777000161", doc.Transp.Transporta.CNPJ)
	assert.Equal(t, "Transportadora Rapida LTDA", doc.Transp.Transporta.XNome)
	assert.Equal(t, "Jundiai", doc.Transp.Transporta.XMun)
	assert.Equal(t, "ABC1D23", doc.Transp.VeicTransp.Placa)
	assert.Equal(t, "12345678", doc.Transp.VeicTransp.RNTC)
	require.Len(t, doc.Transp.Vol, 2)
	assert.Equal(t, domain.Amount("2"), doc.Transp.Vol[0].QVol)
	assert.Equal(t, "CAIXA", doc.Transp.Vol[0].Esp)
	assert.Equal(t, "ACME", doc.Transp.Vol[0].Marca)
	assert.Equal(t, domain.Amount("11.000"), doc.Transp.Vol[0].PesoB)
	assert.Equal(t, "", doc.Transp.Vol[1].Marca)

	assert.Equal(t, "123", doc.Cobr.Fat.NFat)
	assert.Equal(t, domain.Amount("360.00"), doc.Cobr.Fat.VLiq)
	require.Len(t, doc.Cobr.Dup, 2)
	assert.Equal(t, domain.Installment{NDup: "001", DVenc: "2024-02-15", VDup: "180.00"}, doc.Cobr.Dup[0])
	assert.Equal(t, domain.Installment{NDup: "002", DVenc: "2024-03-15", VDup: "180.00"}, doc.Cobr.Dup[1])

	require.Len(t, doc.Pag.DetPag, 1)
	assert.Equal(t, domain.PaymentDetail{IndPag: "1", TPag: "15", VPag: "360.00"}, doc.Pag.DetPag[0])

	assert.Equal(t, "Pedido 998", doc.InfAdic.InfCpl)
	assert.Equal(t, "Documento emitido por ME ou EPP", doc.InfAdic.InfAdFisco)

	prot := doc.ProtNFe.InfProt
	assert.Equal(t, fullKey, prot.ChNFe)
	assert.Equal(t, "135240000012345", prot.NProt)
	assert.Equal(t, "100", prot.CStat)
	assert.Equal(t, "Autorizado o uso da NF-e", prot.XMotivo)
	assert.Equal(t, "2024-01-15T10:31:02-03:00", prot.DhRecbto)
}

func TestExtract_LineItemsKeepDocumentOrder(t *testing.T) {
	doc := mustExtract(t, loadFixture(t, "nfeproc_full.xml"))

	require.Len(t, doc.Det, 3)
	for i, want := range []string{"Caneta Azul", "Grampeador", "Papel A4"} {
		assert.Equal(t, want, doc.Det[i].Prod.XProd)
		assert.Equal(t, []string{"1", "2", "3"}[i], doc.Det[i].NItem)
	}

	item := doc.Det[0].Prod
	assert.Equal(t, "P001", item.CProd)
	assert.Equal(t, "7891234567895", item.CEAN)
	assert.Equal(t, "96081000", item.NCM)
	assert.Equal(t, "5102", item.CFOP)
	assert.Equal(t, domain.Amount("2.0000"), item.QCom)
	assert.Equal(t, domain.Amount("50.0000000000"), item.VUnCom)
	assert.Equal(t, domain.Amount("100.00"), item.VProd)
	assert.Equal(t, "1234567", doc.Det[1].Prod.CEST)
	assert.Equal(t, "Garantia de 1 ano", doc.Det[1].InfAdProd)
	assert.Equal(t, domain.Amount("5.00"), doc.Det[2].Prod.VDesc)
}

func TestExtract_ICMSReadsFirstChild(t *testing.T) {
	doc := mustExtract(t, loadFixture(t, "nfeproc_full.xml"))

	simples := doc.Det[0].Imposto.ICMS
	assert.Equal(t, "102", simples.CSOSN)
	assert.Equal(t, "", simples.CST)
	assert.Equal(t, "102", simples.Code())
	assert.Equal(t, "0", simples.Orig)

	normal := doc.Det[1].Imposto.ICMS
	assert.Equal(t, "", normal.CSOSN)
	assert.Equal(t, "00", normal.CST)
	assert.Equal(t, "00", normal.Code())
	assert.Equal(t, "3", normal.ModBC)
	assert.Equal(t, domain.Amount("200.00"), normal.VBC)
	assert.Equal(t, domain.Amount("18.00"), normal.PICMS)
	assert.Equal(t, domain.Amount("36.00"), normal.VICMS)

	reduced := doc.Det[2].Imposto.ICMS
	assert.Equal(t, "20", reduced.CST)
	assert.Equal(t, "1", reduced.Orig)
	assert.Equal(t, domain.Amount("4.86"), reduced.VICMS)
}

func TestExtract_ICMSOnlyFirstVariantCounts(t *testing.T) {
	raw := []byte(`<NFe><infNFe><det nItem="1"><imposto><ICMS>
		<ICMSSN500><orig>2</orig><CSOSN>500</CSOSN></ICMSSN500>
		<ICMS00><orig>0</orig><CST>00</CST><vICMS>9.99</vICMS></ICMS00>
	</ICMS></imposto></det></infNFe></NFe>`)

	icms := mustExtract(t, raw).Det[0].Imposto.ICMS
	assert.Equal(t, "500", icms.CSOSN)
	assert.Equal(t, "", icms.CST)
	assert.Equal(t, "2", icms.Orig)
	assert.Equal(t, domain.Amount(""), icms.VICMS)
}

func TestExtract_IPIPrecedence(t *testing.T) {
	doc := mustExtract(t, loadFixture(t, "nfeproc_full.xml"))

	nt := doc.Det[0].Imposto.IPI
	assert.Equal(t, "53", nt.CST)
	assert.Equal(t, domain.Amount(""), nt.VIPI)
	assert.Equal(t, domain.Amount(""), nt.PIPI)

	trib := doc.Det[1].Imposto.IPI
	assert.Equal(t, "50", trib.CST)
	assert.Equal(t, domain.Amount("20.00"), trib.VIPI)
	assert.Equal(t, domain.Amount("10.00"), trib.PIPI)

	both := []byte(`<NFe><infNFe><det nItem="1"><imposto><IPI>
		<IPINT><CST>53</CST></IPINT>
		<IPITrib><CST>99</CST><pIPI>5.00</pIPI><vIPI>1.00</vIPI></IPITrib>
	</IPI></imposto></det></infNFe></NFe>`)
	ipi := mustExtract(t, both).Det[0].Imposto.IPI
	assert.Equal(t, "99", ipi.CST)
	assert.Equal(t, domain.Amount("1.00"), ipi.VIPI)
}

func TestExtract_PISAndCOFINS(t *testing.T) {
	doc := mustExtract(t, loadFixture(t, "nfeproc_full.xml"))

	pis := doc.Det[0].Imposto.PIS
	assert.Equal(t, domain.Contribution{CST: "01", VBC: "100.00", Rate: "1.65", Value: "1.65"}, pis)
	cofins := doc.Det[0].Imposto.COFINS
	assert.Equal(t, domain.Contribution{CST: "01", VBC: "100.00", Rate: "7.60", Value: "7.60"}, cofins)
	assert.Equal(t, domain.Contribution{}, doc.Det[1].Imposto.PIS)
}

func TestExtract_TaxIDPrecedence(t *testing.T) {
	doc := mustExtract(t, loadFixture(t, "nfe_unsigned.xml"))
	assert.Equal(t, "52998224725", doc.Emit.CNPJ, "CPF used when CNPJ is absent")
	assert.Equal(t, "11444777000161", doc.Dest.CNPJ, "CNPJ wins over CPF")

	none := mustExtract(t, []byte(`<NFe><infNFe><emit><xNome>X</xNome></emit></infNFe></NFe>`))
	assert.Equal(t, "", none.Emit.CNPJ)
	assert.Equal(t, "X", none.Emit.XNome)
}

func TestExtract_MissingSectionsDefault(t *testing.T) {
	doc := mustExtract(t, loadFixture(t, "nfe_unsigned.xml"))

	assert.NotNil(t, doc.Cobr.Dup)
	assert.Empty(t, doc.Cobr.Dup)
	assert.NotNil(t, doc.Pag.DetPag)
	assert.Empty(t, doc.Pag.DetPag)
	assert.NotNil(t, doc.Transp.Vol)
	assert.Equal(t, domain.Carrier{}, doc.Transp.Transporta)
	assert.Equal(t, domain.AdditionalInfo{}, doc.InfAdic)
	assert.Equal(t, domain.ProtocolInfo{}, doc.ProtNFe.InfProt)
	assert.Equal(t, domain.ShapeNFe, doc.Tipo)

	item := doc.Det[0]
	assert.Equal(t, domain.ICMS{}, item.Imposto.ICMS)
	assert.Equal(t, domain.IPI{}, item.Imposto.IPI)
	assert.Equal(t, "", item.Prod.NCM)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"dup":[]`)
	assert.Contains(t, string(out), `"detPag":[]`)
	assert.Contains(t, string(out), `"vol":[]`)
	assert.Contains(t, string(out), `"infCpl":""`)
}

func TestExtract_EmptyWrapperStillAssembles(t *testing.T) {
	doc := mustExtract(t, []byte(`<nfeProc><NFe/></nfeProc>`))

	assert.Equal(t, domain.ShapeNFeProc, doc.Tipo)
	assert.Equal(t, "", doc.Chave)
	assert.Equal(t, domain.Identification{}, doc.Ide)
	assert.NotNil(t, doc.Det)
	assert.Empty(t, doc.Det)
	assert.NotNil(t, doc.Cobr.Dup)
}

func TestExtract_AccessKeyOrder(t *testing.T) {
	const (
		protKey = "11111111111111111111111111111111111111111111"
		ideKey  = "22222222222222222222222222222222222222222222"
		idKey   = "33333333333333333333333333333333333333333333"
	)

	t.Run("protocol_wins", func(t *testing.T) {
		raw := []byte(`<nfeProc><NFe><infNFe Id="NFe` + idKey + `"><ide><chNFe>` + ideKey + `</chNFe></ide></infNFe></NFe>
			<protNFe><infProt><chNFe>` + protKey + `</chNFe></infProt></protNFe></nfeProc>`)
		doc := mustExtract(t, raw)
		assert.Equal(t, protKey, doc.Chave)
		assert.Equal(t, ideKey, doc.Ide.ChNFe)
	})

	t.Run("identification_second", func(t *testing.T) {
		raw := []byte(`<NFe><infNFe Id="NFe` + idKey + `"><ide><chNFe>` + ideKey + `</chNFe></ide></infNFe></NFe>`)
		assert.Equal(t, ideKey, mustExtract(t, raw).Chave)
	})

	t.Run("id_attribute_last", func(t *testing.T) {
		raw := []byte(`<NFe><infNFe Id="NFe` + idKey + `"><ide/></infNFe></NFe>`)
		assert.Equal(t, idKey, mustExtract(t, raw).Chave)
	})

	t.Run("none", func(t *testing.T) {
		raw := []byte(`<NFe><infNFe><ide/></infNFe></NFe>`)
		doc := mustExtract(t, raw)
		assert.Equal(t, "", doc.Chave)

		tree, err := xmltree.Parse(raw)
		require.NoError(t, err)
		key, err := ResolveAccessKey(tree, doc)
		assert.Equal(t, "", key)
		var missing *domain.MissingAccessKeyError
		assert.True(t, errors.As(err, &missing))
		assert.ErrorIs(t, err, domain.ErrMissingAccessKey)
	})
}

func TestResolveAccessKey_FromRecordOnly(t *testing.T) {
	doc := &domain.FiscalDocument{}
	doc.Ide.ChNFe = "abc"
	key, err := ResolveAccessKey(nil, doc)
	require.NoError(t, err)
	assert.Equal(t, "abc", key)

	_, err = ResolveAccessKey(nil, &domain.FiscalDocument{})
	assert.ErrorIs(t, err, domain.ErrMissingAccessKey)
}

func TestExtract_Idempotent(t *testing.T) {
	raw := loadFixture(t, "nfeproc_full.xml")
	first := mustExtract(t, raw)
	second := mustExtract(t, raw)
	assert.Equal(t, first, second)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestExtract_TotalsKeepLiteralValue(t *testing.T) {
	doc := mustExtract(t, []byte(`<NFe><infNFe><total><ICMSTot><vNF>123.45</vNF></ICMSTot></total></infNFe></NFe>`))

	vnf := doc.Total.ICMSTot.VNF
	assert.Equal(t, "123.45", vnf.String())
	assert.True(t, vnf.Decimal().Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, 123.45, vnf.Float64())
}

func TestExtract_TotalsIgnoreItemValues(t *testing.T) {
	raw := []byte(`<NFe><infNFe>
		<det nItem="1"><imposto><ICMS><ICMS00><vBC>999.00</vBC></ICMS00></ICMS></imposto></det>
		<total><ICMSTot><vBC>10.00</vBC></ICMSTot></total>
	</infNFe></NFe>`)
	assert.Equal(t, domain.Amount("10.00"), mustExtract(t, raw).Total.ICMSTot.VBC)
}

func TestExtract_MalformedInput(t *testing.T) {
	for _, raw := range []string{"", "<nfeProc><NFe>", "garbage"} {
		doc, err := Extract([]byte(raw))
		assert.Nil(t, doc)
		var malformed *domain.MalformedInputError
		assert.True(t, errors.As(err, &malformed), "input %q", raw)
	}
}

func TestExtract_UnknownRoot(t *testing.T) {
	doc, err := Extract([]byte(`<html><body><p>hello</p></body></html>`))
	assert.Nil(t, doc)

	var structure *domain.StructureError
	require.True(t, errors.As(err, &structure))
	assert.Equal(t, "html", structure.Root)
	assert.ErrorIs(t, err, domain.ErrUnsupportedStructure)
	assert.False(t, errors.Is(err, domain.ErrMalformedInput))
}

func TestExtract_CFe(t *testing.T) {
	doc := mustExtract(t, loadFixture(t, "cfe_sat.xml"))

	assert.Equal(t, domain.ShapeCFe, doc.Tipo)
	assert.Equal(t, "0.08", doc.Versao)
	assert.Equal(t, "35240111222333000181599000012340000426543210", doc.Chave)
	assert.Equal(t, "000042", doc.Ide.NNF)
	assert.Equal(t, "900001234", doc.Ide.Serie)
	assert.Equal(t, "20240115", doc.Ide.DhEmi)
	assert.Equal(t, "Mercado Exemplo LTDA", doc.Emit.XNome)
	assert.Equal(t, "52998224725", doc.Dest.CNPJ)
	assert.Equal(t, domain.Amount("25.00"), doc.Total.ICMSTot.VNF)
	assert.Equal(t, domain.Amount("25.00"), doc.Ide.VNF)

	require.Len(t, doc.Det, 1)
	assert.Equal(t, "0", doc.Det[0].Imposto.ICMS.Orig)
	assert.Equal(t, "00", doc.Det[0].Imposto.ICMS.CST)
	assert.Equal(t, domain.Amount("0.41"), doc.Det[0].Imposto.PIS.Value)

	require.Len(t, doc.Pag.DetPag, 1)
	assert.Equal(t, "01", doc.Pag.DetPag[0].TPag)
	assert.Equal(t, domain.Amount("30.00"), doc.Pag.DetPag[0].VPag)
	assert.Equal(t, domain.Amount("5.00"), doc.Pag.VTroco)
	assert.Equal(t, "Obrigado pela preferencia", doc.InfAdic.InfCpl)
}

func TestExtract_CTe(t *testing.T) {
	doc := mustExtract(t, loadFixture(t, "cteproc.xml"))

	assert.Equal(t, domain.ShapeCTe, doc.Tipo)
	assert.Equal(t, "35240111222333000181570010000004561123456700", doc.Chave)
	assert.Equal(t, "456", doc.Ide.NNF)
	assert.Equal(t, "12345670", doc.Ide.CNF)
	assert.Equal(t, "3550308", doc.Ide.CMunFG)
	assert.Equal(t, "Transportadora Rapida LTDA", doc.Emit.XNome)
	assert.Equal(t, "1145556666", doc.Emit.EnderEmit.Fone)
	assert.Equal(t, "Maria da Silva", doc.Dest.XNome)
	assert.Equal(t, "52998224725", doc.Dest.CNPJ)
	assert.Equal(t, domain.Amount("150.00"), doc.Total.ICMSTot.VNF)
	assert.Equal(t, "135240000099999", doc.ProtNFe.InfProt.NProt)
	assert.Equal(t, "4.00", doc.Versao)
	assert.Empty(t, doc.Det)
}

func TestExtract_NestedReferencesDoNotDecideShape(t *testing.T) {
	t.Run("cte_carrying_nfe", func(t *testing.T) {
		raw := []byte(`<CTe><infCte Id="CTe35240111222333000181570010000004561123456700">
			<ide><nCT>456</nCT></ide>
			<emit><CNPJ>11444777000161</CNPJ><xNome>Transportadora</xNome></emit>
			<infCTeNorm><infDoc><infNFe><chave>` + fullKey + `</chave></infNFe></infDoc></infCTeNorm>
		</infCte></CTe>`)
		doc := mustExtract(t, raw)
		assert.Equal(t, domain.ShapeCTe, doc.Tipo)
		assert.Equal(t, "35240111222333000181570010000004561123456700", doc.Chave)
		assert.Equal(t, "456", doc.Ide.NNF)
		assert.Equal(t, "Transportadora", doc.Emit.XNome)
	})

	t.Run("nfe_referencing_nfe", func(t *testing.T) {
		raw := []byte(`<nfeProc><NFe><infNFe Id="NFe` + fullKey + `">
			<ide><nNF>123</nNF><NFref><refNFe>35240111444777000161550010000009991000009990</refNFe></NFref></ide>
		</infNFe></NFe></nfeProc>`)
		doc := mustExtract(t, raw)
		assert.Equal(t, domain.ShapeNFeProc, doc.Tipo)
		assert.Equal(t, fullKey, doc.Chave)
		assert.Equal(t, "123", doc.Ide.NNF)
	})

	t.Run("unknown_envelope_uses_wrapped_info", func(t *testing.T) {
		raw := []byte(`<envio><CTe><infCte Id="CTe35240111222333000181570010000004561123456700">
			<infCTeNorm><infDoc><infNFe><chave>` + fullKey + `</chave></infNFe></infDoc></infCTeNorm>
		</infCte></CTe></envio>`)
		doc := mustExtract(t, raw)
		assert.Equal(t, domain.ShapeCTe, doc.Tipo)
		assert.Equal(t, "35240111222333000181570010000004561123456700", doc.Chave)
	})
}

func TestExtract_LegacyRepeatedPag(t *testing.T) {
	raw := []byte(`<NFe><infNFe>
		<pag><tPag>01</tPag><vPag>10.00</vPag></pag>
		<pag><tPag>03</tPag><vPag>20.00</vPag></pag>
	</infNFe></NFe>`)
	doc := mustExtract(t, raw)

	require.Len(t, doc.Pag.DetPag, 2)
	assert.Equal(t, "01", doc.Pag.DetPag[0].TPag)
	assert.Equal(t, domain.Amount("20.00"), doc.Pag.DetPag[1].VPag)
}

func TestExtract_Options(t *testing.T) {
	raw := loadFixture(t, "nfeproc_full.xml")

	doc := mustExtract(t, raw, WithoutItems(), WithoutPayment())
	assert.NotNil(t, doc.Det)
	assert.Empty(t, doc.Det)
	assert.Empty(t, doc.Cobr.Dup)
	assert.Empty(t, doc.Pag.DetPag)
	assert.Equal(t, "Empresa Emitente LTDA", doc.Emit.XNome)
	assert.Equal(t, fullKey, doc.Chave)
}

func TestNew_UsesBoundOptions(t *testing.T) {
	ex := New(WithoutItems())
	doc, err := ex.Extract(loadFixture(t, "nfeproc_full.xml"))
	require.NoError(t, err)
	assert.Empty(t, doc.Det)
}
