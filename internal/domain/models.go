package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FiscalDocument is the normalized record extracted from an NFe, CFe or CTe XML.
// JSON keys mirror the fiscal tag names. Every field is always present; optional
// sections that are missing from the XML come back as empty values.
type FiscalDocument struct {
	Ide     Identification `json:"ide"`
	Emit    Emitter        `json:"emit"`
	Dest    Receiver       `json:"dest"`
	Det     []LineItem     `json:"det"`
	Total   Total          `json:"total"`
	Transp  Transport      `json:"transp"`
	Cobr    Billing        `json:"cobr"`
	Pag     Payment        `json:"pag"`
	InfAdic AdditionalInfo `json:"infAdic"`
	ProtNFe Protocol       `json:"protNFe"`
	Chave   string         `json:"chave"`
	Tipo    Shape          `json:"tipo"`
	Versao  string         `json:"versao"`
}

// Identification holds the ide section.
type Identification struct {
	CUF      string `json:"cUF"`
	CNF      string `json:"cNF"`
	NatOp    string `json:"natOp"`
	Mod      string `json:"mod"`
	Serie    string `json:"serie"`
	NNF      string `json:"nNF"`
	DhEmi    string `json:"dhEmi"`
	DhSaiEnt string `json:"dhSaiEnt"`
	TpNF     string `json:"tpNF"`
	IdDest   string `json:"idDest"`
	CMunFG   string `json:"cMunFG"`
	TpImp    string `json:"tpImp"`
	TpEmis   string `json:"tpEmis"`
	CDV      string `json:"cDV"`
	TpAmb    string `json:"tpAmb"`
	FinNFe   string `json:"finNFe"`
	IndFinal string `json:"indFinal"`
	IndPres  string `json:"indPres"`
	ProcEmi  string `json:"procEmi"`
	VerProc  string `json:"verProc"`
	ChNFe    string `json:"chNFe"`
	VNF      Amount `json:"vNF"`
}

// Address is a party address (enderEmit / enderDest).
type Address struct {
	XLgr    string `json:"xLgr"`
	Nro     string `json:"nro"`
	XCpl    string `json:"xCpl"`
	XBairro string `json:"xBairro"`
	CMun    string `json:"cMun"`
	XMun    string `json:"xMun"`
	UF      string `json:"UF"`
	CEP     string `json:"CEP"`
	CPais   string `json:"cPais"`
	XPais   string `json:"xPais"`
}

// EmitterAddress adds the phone number, which only the emitter carries.
type EmitterAddress struct {
	Address
	Fone string `json:"fone"`
}

// Party holds the fields shared by emitter and receiver.
// CNPJ carries the party tax id: the CNPJ when present, otherwise the CPF.
type Party struct {
	XNome string `json:"xNome"`
	CNPJ  string `json:"CNPJ"`
	IE    string `json:"IE"`
}

// Emitter is the emit section.
type Emitter struct {
	Party
	XFant     string         `json:"xFant"`
	IEST      string         `json:"IEST"`
	IM        string         `json:"IM"`
	CRT       string         `json:"CRT"`
	EnderEmit EmitterAddress `json:"enderEmit"`
}

// Receiver is the dest section.
type Receiver struct {
	Party
	IndIEDest string  `json:"indIEDest"`
	Email     string  `json:"email"`
	EnderDest Address `json:"enderDest"`
}

// LineItem is one det entry.
type LineItem struct {
	NItem     string   `json:"nItem"`
	Prod      Product  `json:"prod"`
	Imposto   Taxation `json:"imposto"`
	InfAdProd string   `json:"infAdProd"`
}

// Product is the prod section of a line item.
type Product struct {
	CProd  string `json:"cProd"`
	CEAN   string `json:"cEAN"`
	XProd  string `json:"xProd"`
	NCM    string `json:"NCM"`
	CEST   string `json:"CEST"`
	CFOP   string `json:"CFOP"`
	UCom   string `json:"uCom"`
	QCom   Amount `json:"qCom"`
	VUnCom Amount `json:"vUnCom"`
	VProd  Amount `json:"vProd"`
	VDesc  Amount `json:"vDesc"`
}

// Taxation is the imposto section of a line item.
type Taxation struct {
	ICMS   ICMS         `json:"ICMS"`
	IPI    IPI          `json:"IPI"`
	PIS    Contribution `json:"PIS"`
	COFINS Contribution `json:"COFINS"`
}

// ICMS holds the item ICMS group. Only one of CSOSN (simplified regime) and
// CST (normal regime) is normally filled.
type ICMS struct {
	Orig  string `json:"orig"`
	CSOSN string `json:"CSOSN"`
	CST   string `json:"CST"`
	ModBC string `json:"modBC"`
	VBC   Amount `json:"vBC"`
	PICMS Amount `json:"pICMS"`
	VICMS Amount `json:"vICMS"`
}

// Code returns the tax situation code: CSOSN when set, CST otherwise.
func (i ICMS) Code() string {
	if i.CSOSN != "" {
		return i.CSOSN
	}
	return i.CST
}

// IPI holds the item IPI group.
type IPI struct {
	CST  string `json:"CST"`
	VIPI Amount `json:"vIPI"`
	PIPI Amount `json:"pIPI"`
}

// Contribution holds a PIS or COFINS group.
type Contribution struct {
	CST   string `json:"CST"`
	VBC   Amount `json:"vBC"`
	Rate  Amount `json:"aliquota"`
	Value Amount `json:"valor"`
}

// Total is the total section.
type Total struct {
	ICMSTot ICMSTotals `json:"ICMSTot"`
}

// ICMSTotals is the ICMSTot group.
type ICMSTotals struct {
	VBC        Amount `json:"vBC"`
	VICMS      Amount `json:"vICMS"`
	VICMSDeson Amount `json:"vICMSDeson"`
	VFCP       Amount `json:"vFCP"`
	VBCST      Amount `json:"vBCST"`
	VST        Amount `json:"vST"`
	VFCPST     Amount `json:"vFCPST"`
	VFCPSTRet  Amount `json:"vFCPSTRet"`
	VProd      Amount `json:"vProd"`
	VFrete     Amount `json:"vFrete"`
	VSeg       Amount `json:"vSeg"`
	VDesc      Amount `json:"vDesc"`
	VII        Amount `json:"vII"`
	VIPI       Amount `json:"vIPI"`
	VIPIDevol  Amount `json:"vIPIDevol"`
	VPIS       Amount `json:"vPIS"`
	VCOFINS    Amount `json:"vCOFINS"`
	VOutro     Amount `json:"vOutro"`
	VNF        Amount `json:"vNF"`
}

// Transport is the transp section.
type Transport struct {
	ModFrete   string   `json:"modFrete"`
	Transporta Carrier  `json:"transporta"`
	VeicTransp Vehicle  `json:"veicTransp"`
	Vol        []Volume `json:"vol"`
}

// Carrier is the transporta group. CNPJ holds the CNPJ or, failing that, the CPF.
type Carrier struct {
	CNPJ   string `json:"CNPJ"`
	XNome  string `json:"xNome"`
	IE     string `json:"IE"`
	XEnder string `json:"xEnder"`
	XMun   string `json:"xMun"`
	UF     string `json:"UF"`
}

// Vehicle is the veicTransp group.
type Vehicle struct {
	Placa string `json:"placa"`
	UF    string `json:"UF"`
	RNTC  string `json:"RNTC"`
}

// Volume is one vol entry.
type Volume struct {
	QVol  Amount `json:"qVol"`
	Esp   string `json:"esp"`
	Marca string `json:"marca"`
	NVol  string `json:"nVol"`
	PesoL Amount `json:"pesoL"`
	PesoB Amount `json:"pesoB"`
}

// Billing is the cobr section.
type Billing struct {
	Fat Invoice       `json:"fat"`
	Dup []Installment `json:"dup"`
}

// Invoice is the fat group.
type Invoice struct {
	NFat  string `json:"nFat"`
	VOrig Amount `json:"vOrig"`
	VDesc Amount `json:"vDesc"`
	VLiq  Amount `json:"vLiq"`
}

// Installment is one dup entry.
type Installment struct {
	NDup  string `json:"nDup"`
	DVenc string `json:"dVenc"`
	VDup  Amount `json:"vDup"`
}

// Payment is the pag section.
type Payment struct {
	DetPag []PaymentDetail `json:"detPag"`
	VTroco Amount          `json:"vTroco"`
}

// PaymentDetail is one detPag entry.
type PaymentDetail struct {
	IndPag string `json:"indPag"`
	TPag   string `json:"tPag"`
	VPag   Amount `json:"vPag"`
}

// AdditionalInfo is the infAdic section.
type AdditionalInfo struct {
	InfCpl     string `json:"infCpl"`
	InfAdFisco string `json:"infAdFisco"`
}

// Protocol is the authorization envelope (protNFe / protCTe).
type Protocol struct {
	InfProt ProtocolInfo `json:"infProt"`
}

// ProtocolInfo is the infProt group.
type ProtocolInfo struct {
	TpAmb    string `json:"tpAmb"`
	VerAplic string `json:"verAplic"`
	ChNFe    string `json:"chNFe"`
	DhRecbto string `json:"dhRecbto"`
	NProt    string `json:"nProt"`
	DigVal   string `json:"digVal"`
	CStat    string `json:"cStat"`
	XMotivo  string `json:"xMotivo"`
}

// StoredDocument is an extracted record persisted by access key.
type StoredDocument struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	AccessKey string          `db:"access_key" json:"access_key"`
	Shape     Shape           `db:"shape" json:"shape"`
	Number    string          `db:"number" json:"number"`
	IssuerTax string          `db:"issuer_tax_id" json:"issuer_tax_id"`
	Total     string          `db:"total" json:"total"`
	Record    json.RawMessage `db:"record" json:"record"`
	SourceKey string          `db:"source_key" json:"source_key"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// ProcessingLog is an entry in the processing log.
type ProcessingLog struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Status    ProcessingStatus `db:"status" json:"status"`
	AccessKey string           `db:"access_key" json:"access_key"`
	FileName  string           `db:"file_name" json:"file_name"`
	Message   string           `db:"message" json:"message"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
