// Package extractor turns a parsed fiscal XML tree into a domain.FiscalDocument.
package extractor

import (
	"nfextract/internal/domain"
	"nfextract/internal/port"
	"nfextract/internal/xmltree"
)

type settings struct {
	skipItems   bool
	skipPayment bool
}

// Option tunes which optional groups Assemble reads.
type Option func(*settings)

// WithoutItems skips line items; Det is returned empty.
func WithoutItems() Option {
	return func(s *settings) { s.skipItems = true }
}

// WithoutPayment skips billing and payment; both are returned empty.
func WithoutPayment() Option {
	return func(s *settings) { s.skipPayment = true }
}

// Assemble builds the full record from tree. Missing optional sections come
// back as empty values. The only failure is a tree with no fiscal-document
// root marker (*domain.StructureError). An unresolvable access key leaves
// Chave empty.
func Assemble(tree *xmltree.Tree, opts ...Option) (*domain.FiscalDocument, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	det, err := detect(tree)
	if err != nil {
		return nil, err
	}
	p := det.profile
	info := xmltree.SubtreeScope(det.info)

	doc := &domain.FiscalDocument{
		Tipo:   det.shape,
		Versao: xmltree.Attr(det.info, "versao", xmltree.Attr(det.info, "versaoDadosEnt", "")),
	}
	doc.Ide = extractIdentification(info, p)
	doc.Emit = extractEmitter(info)
	doc.Dest = extractReceiver(info)
	doc.Total = extractTotals(info, p)
	doc.Ide.VNF = doc.Total.ICMSTot.VNF
	doc.Transp = extractTransport(info)

	doc.Det = []domain.LineItem{}
	if !cfg.skipItems {
		doc.Det = extractItems(info, p)
	}

	doc.Cobr = domain.Billing{Dup: []domain.Installment{}}
	doc.Pag = domain.Payment{DetPag: []domain.PaymentDetail{}}
	if !cfg.skipPayment {
		doc.Cobr = extractBilling(info)
		doc.Pag = extractPayment(info, p)
	}

	doc.InfAdic = extractAdditionalInfo(info)
	doc.ProtNFe = extractProtocol(tree.Scope(), p)

	if key, err := ResolveAccessKey(tree, doc); err == nil {
		doc.Chave = key
	}
	return doc, nil
}

// Extract parses raw XML and assembles the record.
func Extract(raw []byte, opts ...Option) (*domain.FiscalDocument, error) {
	tree, err := xmltree.Parse(raw)
	if err != nil {
		return nil, err
	}
	return Assemble(tree, opts...)
}

type extractor struct {
	opts []Option
}

// New returns a port.DocumentExtractor bound to the given options.
func New(opts ...Option) port.DocumentExtractor {
	return &extractor{opts: opts}
}

func (e *extractor) Extract(raw []byte) (*domain.FiscalDocument, error) {
	return Extract(raw, e.opts...)
}
