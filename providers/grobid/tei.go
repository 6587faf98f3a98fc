package grobid

import (
	"encoding/xml"
	"strings"
)

// Node ist ein generischer Knoten des geparsten TEI-Baums. Die Suche läuft
// über lokale Elementnamen, Namespace-Präfixe spielen keine Rolle.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr
	Chardata string
	Children []Node

	// segments hält Textstücke und Kind-Indizes in Dokumentreihenfolge,
	// damit Mixed Content bei DeepText nicht umsortiert wird.
	segments []segment
}

// segment ist entweder ein Textstück (child < 0) oder ein Verweis auf den
// Kind-Knoten mit diesem Index.
type segment struct {
	text  string
	child int
}

// UnmarshalXML baut den Knoten tokenweise auf. Das Standard-Mapping über
// Struct-Tags würde alle Zeichendaten eines Elements zusammenziehen und die
// Reihenfolge gegenüber Inline-Elementen verlieren.
func (n *Node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.XMLName = start.Name
	n.Attrs = start.Attr
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var child Node
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
			n.segments = append(n.segments, segment{child: len(n.Children) - 1})
		case xml.CharData:
			n.Chardata += string(t)
			n.segments = append(n.segments, segment{text: string(t), child: -1})
		case xml.EndElement:
			return nil
		}
	}
}

// ParseTEI parst ein XML-Dokument in den generischen Baum.
func ParseTEI(data []byte) (*Node, error) {
	var root Node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// Attr liefert den Wert des Attributs mit dem gegebenen lokalen Namen.
func (n *Node) Attr(name string) string {
	for _, attr := range n.Attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// Text liefert die Zeichendaten direkt innerhalb des Elements.
func (n *Node) Text() string {
	return n.Chardata
}

// DeepText liefert die Zeichendaten des Elements und aller Nachkommen in
// Dokumentreihenfolge, mit Leerzeichen verbunden.
func (n *Node) DeepText() string {
	var parts []string
	for _, s := range n.segments {
		if s.child >= 0 {
			parts = append(parts, n.Children[s.child].DeepText())
		} else {
			parts = append(parts, s.text)
		}
	}
	return strings.Join(parts, " ")
}

// step ist ein Segment eines Suchpfads. deep bedeutet Nachkommen-Suche auf
// beliebiger Tiefe, sonst wird nur unter den direkten Kindern gesucht.
type step struct {
	name string
	deep bool
}

// parsePath zerlegt Pfade wie "titleStmt/title" oder "textClass//classCode".
// Das erste Segment wird immer als Nachkommen-Suche interpretiert, "//"
// zwischen Segmenten erzwingt Nachkommen-Suche auch für das Folgesegment.
func parsePath(path string) []step {
	var steps []step
	deep := true
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			deep = true
			continue
		}
		steps = append(steps, step{name: segment, deep: deep})
		deep = false
	}
	return steps
}

// FindAll liefert alle Knoten, die dem Pfad entsprechen, in Dokumentreihenfolge.
func (n *Node) FindAll(path string) []*Node {
	current := []*Node{n}
	for _, s := range parsePath(path) {
		var next []*Node
		for _, node := range current {
			if s.deep {
				next = append(next, node.descendants(s.name)...)
			} else {
				for i := range node.Children {
					if node.Children[i].XMLName.Local == s.name {
						next = append(next, &node.Children[i])
					}
				}
			}
		}
		current = next
	}
	return current
}

// FindFirst liefert den ersten Treffer des Pfads oder nil.
func (n *Node) FindFirst(path string) *Node {
	matches := n.FindAll(path)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// FindText liefert den direkten Text des ersten Treffers, getrimmt.
func (n *Node) FindText(path string) string {
	node := n.FindFirst(path)
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.Text())
}

// descendants sammelt alle Nachkommen mit dem gegebenen lokalen Namen, den
// Empfänger selbst ausgenommen.
func (n *Node) descendants(name string) []*Node {
	var matches []*Node
	for i := range n.Children {
		child := &n.Children[i]
		if child.XMLName.Local == name {
			matches = append(matches, child)
		}
		matches = append(matches, child.descendants(name)...)
	}
	return matches
}
