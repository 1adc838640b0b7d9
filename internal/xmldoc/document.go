// Package xmldoc wraps the parsed XML document the pipeline works on: root
// element inspection for detection and XPath evaluation for extraction.
package xmldoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"xmlprocessor/internal/models"
)

// Document is a parsed, namespace-aware XML document.
type Document struct {
	doc  *xmlquery.Node
	root *xmlquery.Node
}

// Parse parses raw bytes into a Document. Unparsable input or input without a
// root element yields ErrMalformedDocument.
func Parse(data []byte) (*Document, error) {
	node, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedDocument, err)
	}
	root := findRootElement(node)
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", models.ErrMalformedDocument)
	}
	return &Document{doc: node, root: root}, nil
}

func findRootElement(doc *xmlquery.Node) *xmlquery.Node {
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// RootName returns the local name of the document's root element, without any
// namespace prefix.
func (d *Document) RootName() string {
	name := d.root.Data
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// RootNamespace returns the namespace URI of the root element, or "" when the
// document is not namespaced.
func (d *Document) RootNamespace() string {
	return d.root.NamespaceURI
}

// Value evaluates an XPath expression against the document and returns the
// text of the first matching node. The second return is false when the path
// does not resolve.
func (d *Document) Value(path string) (string, bool, error) {
	node, err := xmlquery.Query(d.doc, path)
	if err != nil {
		return "", false, fmt.Errorf("invalid source path %q: %w", path, err)
	}
	if node == nil {
		return "", false, nil
	}
	return strings.TrimSpace(node.InnerText()), true, nil
}

// AttributeValue evaluates an XPath expression locating an element and returns
// the named attribute's value on the first match.
func (d *Document) AttributeValue(path, attr string) (string, bool, error) {
	node, err := xmlquery.Query(d.doc, path)
	if err != nil {
		return "", false, fmt.Errorf("invalid source path %q: %w", path, err)
	}
	if node == nil {
		return "", false, nil
	}
	for _, a := range node.Attr {
		if a.Name.Local == attr {
			return strings.TrimSpace(a.Value), true, nil
		}
	}
	return "", false, nil
}
