package extractor

import (
	"github.com/beevik/etree"

	"nfextract/internal/domain"
	"nfextract/internal/xmltree"
)

func text(loc xmltree.Locator, tag string) string {
	return xmltree.Text(loc, tag, "")
}

func amount(loc xmltree.Locator, tag string) domain.Amount {
	return domain.Amount(xmltree.Text(loc, tag, ""))
}

// within scopes lookups to the first descendant of loc named tag.
func within(loc xmltree.Locator, tag string) xmltree.Locator {
	return xmltree.SubtreeScope(loc.First(tag))
}

// taxID prefers the CNPJ and falls back to the CPF.
func taxID(loc xmltree.Locator) string {
	return xmltree.FirstText(loc, "CNPJ", "CPF")
}

func extractIdentification(info xmltree.Locator, p profile) domain.Identification {
	ide := within(info, "ide")
	return domain.Identification{
		CUF:      text(ide, "cUF"),
		CNF:      xmltree.FirstText(ide, "cNF", "cCT"),
		NatOp:    text(ide, "natOp"),
		Mod:      text(ide, "mod"),
		Serie:    xmltree.FirstText(ide, p.serieTags...),
		NNF:      text(ide, p.numberTag),
		DhEmi:    xmltree.FirstText(ide, p.dateTags...),
		DhSaiEnt: text(ide, "dhSaiEnt"),
		TpNF:     text(ide, "tpNF"),
		IdDest:   text(ide, "idDest"),
		CMunFG:   xmltree.FirstText(ide, "cMunFG", "cMunEnv"),
		TpImp:    text(ide, "tpImp"),
		TpEmis:   text(ide, "tpEmis"),
		CDV:      text(ide, "cDV"),
		TpAmb:    text(ide, "tpAmb"),
		FinNFe:   text(ide, "finNFe"),
		IndFinal: text(ide, "indFinal"),
		IndPres:  text(ide, "indPres"),
		ProcEmi:  text(ide, "procEmi"),
		VerProc:  text(ide, "verProc"),
		ChNFe:    text(ide, p.keyTag),
	}
}

func extractAddress(loc xmltree.Locator) domain.Address {
	return domain.Address{
		XLgr:    text(loc, "xLgr"),
		Nro:     text(loc, "nro"),
		XCpl:    text(loc, "xCpl"),
		XBairro: text(loc, "xBairro"),
		CMun:    text(loc, "cMun"),
		XMun:    text(loc, "xMun"),
		UF:      text(loc, "UF"),
		CEP:     text(loc, "CEP"),
		CPais:   text(loc, "cPais"),
		XPais:   text(loc, "xPais"),
	}
}

func extractEmitter(info xmltree.Locator) domain.Emitter {
	emit := within(info, "emit")
	ender := within(emit, "enderEmit")
	return domain.Emitter{
		Party: domain.Party{
			XNome: text(emit, "xNome"),
			CNPJ:  taxID(emit),
			IE:    text(emit, "IE"),
		},
		XFant: text(emit, "xFant"),
		IEST:  text(emit, "IEST"),
		IM:    text(emit, "IM"),
		CRT:   text(emit, "CRT"),
		EnderEmit: domain.EmitterAddress{
			Address: extractAddress(ender),
			Fone:    text(ender, "fone"),
		},
	}
}

func extractReceiver(info xmltree.Locator) domain.Receiver {
	dest := within(info, "dest")
	return domain.Receiver{
		Party: domain.Party{
			XNome: text(dest, "xNome"),
			CNPJ:  taxID(dest),
			IE:    text(dest, "IE"),
		},
		IndIEDest: text(dest, "indIEDest"),
		Email:     text(dest, "email"),
		EnderDest: extractAddress(within(dest, "enderDest")),
	}
}

func extractTotals(info xmltree.Locator, p profile) domain.Total {
	tot := within(info, "ICMSTot")
	t := domain.ICMSTotals{
		VBC:        amount(tot, "vBC"),
		VICMS:      amount(tot, "vICMS"),
		VICMSDeson: amount(tot, "vICMSDeson"),
		VFCP:       amount(tot, "vFCP"),
		VBCST:      amount(tot, "vBCST"),
		VST:        amount(tot, "vST"),
		VFCPST:     amount(tot, "vFCPST"),
		VFCPSTRet:  amount(tot, "vFCPSTRet"),
		VProd:      amount(tot, "vProd"),
		VFrete:     amount(tot, "vFrete"),
		VSeg:       amount(tot, "vSeg"),
		VDesc:      amount(tot, "vDesc"),
		VII:        amount(tot, "vII"),
		VIPI:       amount(tot, "vIPI"),
		VIPIDevol:  amount(tot, "vIPIDevol"),
		VPIS:       amount(tot, "vPIS"),
		VCOFINS:    amount(tot, "vCOFINS"),
		VOutro:     amount(tot, "vOutro"),
		VNF:        amount(tot, "vNF"),
	}
	if t.VNF == "" && p.totalTag != "vNF" {
		t.VNF = amount(info, p.totalTag)
	}
	return domain.Total{ICMSTot: t}
}

func extractTransport(info xmltree.Locator) domain.Transport {
	transp := within(info, "transp")
	carrier := within(transp, "transporta")
	vehicle := within(transp, "veicTransp")

	vols := transp.All("vol")
	volumes := make([]domain.Volume, 0, len(vols))
	for _, v := range vols {
		vol := xmltree.SubtreeScope(v)
		volumes = append(volumes, domain.Volume{
			QVol:  amount(vol, "qVol"),
			Esp:   text(vol, "esp"),
			Marca: text(vol, "marca"),
			NVol:  text(vol, "nVol"),
			PesoL: amount(vol, "pesoL"),
			PesoB: amount(vol, "pesoB"),
		})
	}

	return domain.Transport{
		ModFrete: text(transp, "modFrete"),
		Transporta: domain.Carrier{
			CNPJ:   taxID(carrier),
			XNome:  text(carrier, "xNome"),
			IE:     text(carrier, "IE"),
			XEnder: text(carrier, "xEnder"),
			XMun:   text(carrier, "xMun"),
			UF:     text(carrier, "UF"),
		},
		VeicTransp: domain.Vehicle{
			Placa: text(vehicle, "placa"),
			UF:    text(vehicle, "UF"),
			RNTC:  xmltree.FirstText(vehicle, "RNTC", "RNTRC"),
		},
		Vol: volumes,
	}
}

func extractItems(info xmltree.Locator, p profile) []domain.LineItem {
	dets := info.All("det")
	items := make([]domain.LineItem, 0, len(dets))
	for _, det := range dets {
		items = append(items, extractItem(det, p))
	}
	return items
}

func extractItem(det *etree.Element, p profile) domain.LineItem {
	loc := xmltree.SubtreeScope(det)
	prod := within(loc, "prod")
	imposto := within(loc, "imposto")

	return domain.LineItem{
		NItem: xmltree.Attr(det, "nItem", ""),
		Prod: domain.Product{
			CProd:  text(prod, "cProd"),
			CEAN:   text(prod, "cEAN"),
			XProd:  text(prod, "xProd"),
			NCM:    text(prod, "NCM"),
			CEST:   text(prod, "CEST"),
			CFOP:   text(prod, "CFOP"),
			UCom:   text(prod, "uCom"),
			QCom:   amount(prod, "qCom"),
			VUnCom: amount(prod, "vUnCom"),
			VProd:  amount(prod, "vProd"),
			VDesc:  amount(prod, "vDesc"),
		},
		Imposto: domain.Taxation{
			ICMS:   extractICMS(imposto, p),
			IPI:    extractIPI(imposto),
			PIS:    extractContribution(imposto, "PIS"),
			COFINS: extractContribution(imposto, "COFINS"),
		},
		InfAdProd: text(loc, "infAdProd"),
	}
}

// extractICMS reads the first child of the ICMS group, whatever its
// variant tag (ICMS00, ICMS20, ICMSSN102, ...).
func extractICMS(imposto xmltree.Locator, p profile) domain.ICMS {
	group := xmltree.SubtreeScope(xmltree.FirstChild(imposto.First("ICMS")))
	return domain.ICMS{
		Orig:  xmltree.FirstText(group, p.origTags...),
		CSOSN: text(group, "CSOSN"),
		CST:   text(group, "CST"),
		ModBC: text(group, "modBC"),
		VBC:   amount(group, "vBC"),
		PICMS: amount(group, "pICMS"),
		VICMS: amount(group, "vICMS"),
	}
}

// extractIPI takes the CST from IPITrib, then IPINT. Value and rate only
// exist on IPITrib.
func extractIPI(imposto xmltree.Locator) domain.IPI {
	ipi := within(imposto, "IPI")
	trib := within(ipi, "IPITrib")
	nt := within(ipi, "IPINT")

	cst := text(trib, "CST")
	if cst == "" {
		cst = text(nt, "CST")
	}
	return domain.IPI{
		CST:  cst,
		VIPI: amount(trib, "vIPI"),
		PIPI: amount(trib, "pIPI"),
	}
}

// extractContribution reads PIS or COFINS from the first child of its group.
func extractContribution(imposto xmltree.Locator, tag string) domain.Contribution {
	group := xmltree.SubtreeScope(xmltree.FirstChild(imposto.First(tag)))
	return domain.Contribution{
		CST:   text(group, "CST"),
		VBC:   amount(group, "vBC"),
		Rate:  amount(group, "p"+tag),
		Value: amount(group, "v"+tag),
	}
}

func extractBilling(info xmltree.Locator) domain.Billing {
	cobr := within(info, "cobr")
	fat := within(cobr, "fat")

	dups := cobr.All("dup")
	installments := make([]domain.Installment, 0, len(dups))
	for _, d := range dups {
		dup := xmltree.SubtreeScope(d)
		installments = append(installments, domain.Installment{
			NDup:  text(dup, "nDup"),
			DVenc: text(dup, "dVenc"),
			VDup:  amount(dup, "vDup"),
		})
	}

	return domain.Billing{
		Fat: domain.Invoice{
			NFat:  text(fat, "nFat"),
			VOrig: amount(fat, "vOrig"),
			VDesc: amount(fat, "vDesc"),
			VLiq:  amount(fat, "vLiq"),
		},
		Dup: installments,
	}
}

// extractPayment reads detPag entries. Layouts before 4.00 repeat the pag
// group itself instead, so those are read as details when no detPag exists.
func extractPayment(info xmltree.Locator, p profile) domain.Payment {
	section := within(info, p.paySection)

	nodes := section.All(p.payDetail)
	if len(nodes) == 0 {
		for _, n := range info.All(p.paySection) {
			if xmltree.Child(n, p.payType) != nil {
				nodes = append(nodes, n)
			}
		}
	}

	details := make([]domain.PaymentDetail, 0, len(nodes))
	for _, n := range nodes {
		d := xmltree.SubtreeScope(n)
		details = append(details, domain.PaymentDetail{
			IndPag: text(d, "indPag"),
			TPag:   text(d, p.payType),
			VPag:   amount(d, p.payValue),
		})
	}

	return domain.Payment{
		DetPag: details,
		VTroco: amount(section, "vTroco"),
	}
}

func extractAdditionalInfo(info xmltree.Locator) domain.AdditionalInfo {
	adic := within(info, "infAdic")
	return domain.AdditionalInfo{
		InfCpl:     text(adic, "infCpl"),
		InfAdFisco: text(adic, "infAdFisco"),
	}
}

func extractProtocol(doc xmltree.Locator, p profile) domain.Protocol {
	prot := within(within(doc, p.protTag), "infProt")
	return domain.Protocol{
		InfProt: domain.ProtocolInfo{
			TpAmb:    text(prot, "tpAmb"),
			VerAplic: text(prot, "verAplic"),
			ChNFe:    text(prot, p.keyTag),
			DhRecbto: text(prot, "dhRecbto"),
			NProt:    text(prot, "nProt"),
			DigVal:   text(prot, "digVal"),
			CStat:    text(prot, "cStat"),
			XMotivo:  text(prot, "xMotivo"),
		},
	}
}
