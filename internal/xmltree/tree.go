// Package xmltree parses fiscal XML into an element tree and provides the
// scoped lookups the extractors are built on.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"nfextract/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Tree is a parsed XML document. Each Parse call owns its own tree.
type Tree struct {
	doc *etree.Document
}

// Parse builds a Tree from raw bytes. Empty input, input without any element
// and input that is not well-formed XML all yield *domain.MalformedInputError.
func Parse(raw []byte) (*Tree, error) {
	if len(bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))) == 0 {
		return nil, &domain.MalformedInputError{Err: errors.New("empty input")}
	}
	return ParseReader(bytes.NewReader(raw))
}

// ParseReader is Parse for a stream.
func ParseReader(r io.Reader) (*Tree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xmltree.ParseReader: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if err := checkWellFormed(raw); err != nil {
		return nil, &domain.MalformedInputError{Err: err}
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
	}
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, &domain.MalformedInputError{Err: err}
	}
	if doc.Root() == nil {
		return nil, &domain.MalformedInputError{Err: errors.New("no root element")}
	}
	return &Tree{doc: doc}, nil
}

// checkWellFormed runs a strict token pass; etree alone accepts some
// mismatched end tags. A document has exactly one top-level element.
func checkWellFormed(raw []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.CharsetReader = charset.NewReaderLabel
	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return fmt.Errorf("second root element <%s> at offset %d", t.Name.Local, dec.InputOffset())
				}
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
}

// Root returns the document element.
func (t *Tree) Root() *etree.Element {
	return t.doc.Root()
}

// RootTag returns the local name of the document element.
func (t *Tree) RootTag() string {
	return t.doc.Root().Tag
}

// Scope returns a document-wide locator for this tree.
func (t *Tree) Scope() Locator {
	return DocumentScope(t)
}

func (t *Tree) String() string {
	return fmt.Sprintf("xmltree(<%s>)", t.RootTag())
}
