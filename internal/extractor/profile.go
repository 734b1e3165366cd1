package extractor

import (
	"github.com/beevik/etree"

	"nfextract/internal/domain"
	"nfextract/internal/xmltree"
)

// profile holds the tag names that differ between document layouts. One
// extractor reads every layout through its profile.
type profile struct {
	shape      domain.Shape
	wrappers   []string // root markers accepted when the info node is absent
	envelope   string   // authorized envelope root (nfeProc, cteProc)
	infoTag    string
	protTag    string
	keyTag     string
	idPrefix   string
	numberTag  string
	serieTags  []string
	dateTags   []string
	totalTag   string
	paySection string
	payDetail  string
	payType    string
	payValue   string
	origTags   []string
}

var (
	nfeProfile = profile{
		shape:      domain.ShapeNFe,
		wrappers:   []string{"nfeProc", "NFe"},
		envelope:   "nfeProc",
		infoTag:    "infNFe",
		protTag:    "protNFe",
		keyTag:     "chNFe",
		idPrefix:   "NFe",
		numberTag:  "nNF",
		serieTags:  []string{"serie"},
		dateTags:   []string{"dhEmi", "dEmi"},
		totalTag:   "vNF",
		paySection: "pag",
		payDetail:  "detPag",
		payType:    "tPag",
		payValue:   "vPag",
		origTags:   []string{"orig"},
	}
	cfeProfile = profile{
		shape:      domain.ShapeCFe,
		wrappers:   []string{"CFe"},
		infoTag:    "infCFe",
		protTag:    "protCFe",
		keyTag:     "chCFe",
		idPrefix:   "CFe",
		numberTag:  "nCFe",
		serieTags:  []string{"nserieSAT", "serie"},
		dateTags:   []string{"dEmi", "dhEmi"},
		totalTag:   "vCFe",
		paySection: "pgto",
		payDetail:  "MP",
		payType:    "cMP",
		payValue:   "vMP",
		origTags:   []string{"Orig", "orig"},
	}
	cteProfile = profile{
		shape:      domain.ShapeCTe,
		wrappers:   []string{"cteProc", "CTe"},
		envelope:   "cteProc",
		infoTag:    "infCte",
		protTag:    "protCTe",
		keyTag:     "chCTe",
		idPrefix:   "CTe",
		numberTag:  "nCT",
		serieTags:  []string{"serie"},
		dateTags:   []string{"dhEmi"},
		totalTag:   "vTPrest",
		paySection: "pag",
		payDetail:  "detPag",
		payType:    "tPag",
		payValue:   "vPag",
		origTags:   []string{"orig"},
	}

	profiles = []profile{nfeProfile, cfeProfile, cteProfile}
)

// detection is the outcome of probing a tree for a fiscal-document root.
type detection struct {
	profile profile
	shape   domain.Shape
	info    *etree.Element
}

// detect identifies the layout from the document element first, so a
// reference to another document nested deep inside (a CT-e listing the NF-e
// it carries) never decides the shape. Trees whose root is not a fiscal
// marker fall back to an info node under its own wrapper, then to any
// marker found. Only a tree with none yields a StructureError.
func detect(tree *xmltree.Tree) (detection, error) {
	root := tree.Root()
	loc := tree.Scope()
	for _, p := range profiles {
		if root.Tag == p.infoTag {
			return p.detected(loc, root), nil
		}
		if p.isWrapper(root.Tag) {
			info := p.wrappedInfo(xmltree.SubtreeScope(root))
			if info == nil {
				info = root
			}
			return p.detected(loc, info), nil
		}
	}
	for _, p := range profiles {
		if info := p.wrappedInfo(loc); info != nil {
			return p.detected(loc, info), nil
		}
	}
	for _, p := range profiles {
		if info := loc.First(p.infoTag); info != nil {
			return p.detected(loc, info), nil
		}
	}
	for _, p := range profiles {
		for _, tag := range p.wrappers {
			if wrapper := loc.First(tag); wrapper != nil {
				return p.detected(loc, wrapper), nil
			}
		}
	}
	return detection{}, &domain.StructureError{Root: tree.RootTag()}
}

func (p profile) detected(loc xmltree.Locator, info *etree.Element) detection {
	return detection{profile: p, shape: p.shapeFor(loc), info: info}
}

func (p profile) isWrapper(tag string) bool {
	for _, w := range p.wrappers {
		if w == tag {
			return true
		}
	}
	return false
}

// wrappedInfo returns the first info node whose parent is one of the
// profile's wrappers.
func (p profile) wrappedInfo(loc xmltree.Locator) *etree.Element {
	for _, info := range loc.All(p.infoTag) {
		if parent := info.Parent(); parent != nil && p.isWrapper(parent.Tag) {
			return info
		}
	}
	return nil
}

func (p profile) shapeFor(loc xmltree.Locator) domain.Shape {
	if p.shape == domain.ShapeNFe && loc.First(p.envelope) != nil {
		return domain.ShapeNFeProc
	}
	return p.shape
}
