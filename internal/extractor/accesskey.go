package extractor

import (
	"strings"

	"nfextract/internal/domain"
	"nfextract/internal/xmltree"
)

// ResolveAccessKey returns the document access key. Sources are tried in a
// fixed order and the first non-empty one wins:
//
//  1. the authorization protocol (infProt/chNFe),
//  2. the identification section key (ide/chNFe),
//  3. the Id attribute of the info node with its layout prefix removed.
//
// When every source is empty it returns *domain.MissingAccessKeyError.
func ResolveAccessKey(tree *xmltree.Tree, doc *domain.FiscalDocument) (string, error) {
	if doc != nil {
		if key := strings.TrimSpace(doc.ProtNFe.InfProt.ChNFe); key != "" {
			return key, nil
		}
		if key := strings.TrimSpace(doc.Ide.ChNFe); key != "" {
			return key, nil
		}
	}
	if tree == nil {
		return "", &domain.MissingAccessKeyError{}
	}

	det, err := detect(tree)
	if err != nil {
		return "", &domain.MissingAccessKeyError{}
	}
	if key := keyFromID(det); key != "" {
		return key, nil
	}
	return "", &domain.MissingAccessKeyError{}
}

func keyFromID(det detection) string {
	if det.info == nil || det.info.Tag != det.profile.infoTag {
		return ""
	}
	id := xmltree.Attr(det.info, "Id", "")
	return strings.TrimPrefix(id, det.profile.idPrefix)
}
