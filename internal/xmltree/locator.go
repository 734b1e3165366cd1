package xmltree

import (
	"strings"

	"github.com/beevik/etree"
)

// Locator finds elements by local tag name. Namespace prefixes are ignored.
// Both methods walk in document order.
type Locator interface {
	First(tag string) *etree.Element
	All(tag string) []*etree.Element
}

type scope struct {
	base        *etree.Element
	includeBase bool
}

// DocumentScope searches the whole document, the root element included.
func DocumentScope(t *Tree) Locator {
	if t == nil {
		return scope{}
	}
	return scope{base: t.Root(), includeBase: true}
}

// SubtreeScope searches only the descendants of el. A nil el yields a
// locator that finds nothing, so lookups under a missing section fall back
// to their defaults.
func SubtreeScope(el *etree.Element) Locator {
	return scope{base: el}
}

func (s scope) First(tag string) *etree.Element {
	var found *etree.Element
	s.walk(func(el *etree.Element) bool {
		if el.Tag == tag {
			found = el
			return false
		}
		return true
	})
	return found
}

func (s scope) All(tag string) []*etree.Element {
	out := []*etree.Element{}
	s.walk(func(el *etree.Element) bool {
		if el.Tag == tag {
			out = append(out, el)
		}
		return true
	})
	return out
}

// walk visits elements in preorder until fn returns false.
func (s scope) walk(fn func(*etree.Element) bool) {
	if s.base == nil {
		return
	}
	if s.includeBase && !fn(s.base) {
		return
	}
	preorder(s.base, fn)
}

func preorder(el *etree.Element, fn func(*etree.Element) bool) bool {
	for _, child := range el.ChildElements() {
		if !fn(child) {
			return false
		}
		if !preorder(child, fn) {
			return false
		}
	}
	return true
}

// Text is the single defaulting primitive: the trimmed text of the first
// element named tag under loc, or def when there is none or it is empty.
func Text(loc Locator, tag, def string) string {
	el := loc.First(tag)
	if el == nil {
		return def
	}
	if v := strings.TrimSpace(el.Text()); v != "" {
		return v
	}
	return def
}

// FirstText returns the first non-empty Text among tags, in order.
func FirstText(loc Locator, tags ...string) string {
	for _, tag := range tags {
		if v := Text(loc, tag, ""); v != "" {
			return v
		}
	}
	return ""
}

// Attr returns the value of an attribute of el, or def.
func Attr(el *etree.Element, name, def string) string {
	if el == nil {
		return def
	}
	if v := strings.TrimSpace(el.SelectAttrValue(name, "")); v != "" {
		return v
	}
	return def
}

// FirstChild returns the first child element of el, whatever its tag.
func FirstChild(el *etree.Element) *etree.Element {
	if el == nil {
		return nil
	}
	children := el.ChildElements()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// Child returns the first direct child of el named tag.
func Child(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}
