package manifest

import (
	"bytes"
	"encoding/xml"
	stderrors "errors"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
)

var spaceCommaRx = regexp.MustCompile(`,\s*`)

// Person is an author or maintainer. Email may be empty.
type Person struct {
	Name  string
	Email string
}

// Export is an element below <export>, kept with its attributes in document
// order. Names carry their namespace prefix as written, e.g. "ros:path".
type Export struct {
	Tag   string
	Attrs []Attr
}

// Attr is an attribute of an export element.
type Attr struct {
	Name  string
	Value string
}

// Manifest holds the fields read from a rosbuild manifest or stack file.
type Manifest struct {
	Description string
	Authors     []Person
	Licenses    []string
	URL         string
	Depends     []string
	Exports     []Export
}

type innerXML struct {
	Inner string `xml:",innerxml"`
}

type element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
}

type document struct {
	Attrs       []xml.Attr `xml:",any,attr"`
	Description *innerXML `xml:"description"`
	Author      *string   `xml:"author"`
	License     *string   `xml:"license"`
	URL         string    `xml:"url"`
	Depends     []struct {
		Package string `xml:"package,attr"`
	} `xml:"depend"`
	Export *struct {
		Attrs    []xml.Attr `xml:",any,attr"`
		Elements []element  `xml:",any"`
	} `xml:"export"`
}

// Parse reads a manifest.xml or stack.xml document.
func Parse(data []byte) (*Manifest, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, syntaxError(data, err)
	}

	switch {
	case doc.Description == nil:
		return nil, missingElement("description")
	case doc.Author == nil:
		return nil, missingElement("author")
	case doc.License == nil:
		return nil, missingElement("license")
	}

	m := &Manifest{
		Description: leadingText(doc.Description.Inner),
		Authors:     ParseAuthors(*doc.Author),
		Licenses:    splitList(*doc.License),
		URL:         strings.TrimSpace(doc.URL),
	}
	for _, d := range doc.Depends {
		m.Depends = append(m.Depends, d.Package)
	}
	if doc.Export != nil {
		scope := namespaces{}.declare(doc.Attrs).declare(doc.Export.Attrs)
		for _, e := range doc.Export.Elements {
			m.Exports = append(m.Exports, scope.declare(e.Attrs).export(e))
		}
	}
	return m, nil
}

// ParseAuthors splits the free-form <author> text. Entries are separated by
// commas and may carry an e-mail address after a slash:
// "Alice/alice@example.com, Bob". Entries with more than one slash are skipped.
func ParseAuthors(s string) []Person {
	var people []Person
	for _, entry := range splitList(s) {
		parts := strings.Split(entry, "/")
		switch len(parts) {
		case 1:
			people = append(people, Person{Name: parts[0]})
		case 2:
			people = append(people, Person{Name: strings.TrimSpace(parts[0]), Email: strings.TrimSpace(parts[1])})
		}
	}
	return people
}

// namespaces maps namespace URLs back to the prefix declared for them. The
// decoder resolves prefixes to URLs, which package.xml must not show.
type namespaces map[string]string

// declare returns a copy of ns extended with the xmlns attributes in attrs.
func (ns namespaces) declare(attrs []xml.Attr) namespaces {
	out := make(namespaces, len(ns))
	for url, prefix := range ns {
		out[url] = prefix
	}
	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns":
			out[a.Value] = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			out[a.Value] = ""
		}
	}
	return out
}

// qualified renders name with the prefix it was written with. Undeclared
// prefixes are left untouched by the decoder and come back as is.
func (ns namespaces) qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	if name.Space == "xmlns" {
		return "xmlns:" + name.Local
	}
	prefix, ok := ns[name.Space]
	switch {
	case !ok:
		return name.Space + ":" + name.Local
	case prefix == "":
		return name.Local
	default:
		return prefix + ":" + name.Local
	}
}

func (ns namespaces) export(e element) Export {
	out := Export{Tag: ns.qualified(e.XMLName), Attrs: make([]Attr, 0, len(e.Attrs))}
	for _, a := range e.Attrs {
		out.Attrs = append(out.Attrs, Attr{Name: ns.qualified(a.Name), Value: a.Value})
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range spaceCommaRx.Split(strings.TrimSpace(s), -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// leadingText returns the text before the first child element, trimmed. Markup
// entities are kept as written.
func leadingText(inner string) string {
	if i := strings.IndexByte(inner, '<'); i >= 0 {
		inner = inner[:i]
	}
	return strings.TrimSpace(inner)
}

func missingElement(name string) error {
	return errors.ValidationError("manifest is missing <" + name + ">").
		WithContext("element", name).
		Build()
}

func syntaxError(data []byte, err error) error {
	b := errors.WrapError(err, errors.CategoryValidation, "invalid manifest XML").Fatal()

	var se *xml.SyntaxError
	if stderrors.As(err, &se) {
		b.WithContext("line", se.Line)
		lines := bytes.Split(data, []byte("\n"))
		if se.Line >= 1 && se.Line <= len(lines) {
			b.WithContext("text", strings.TrimRight(string(lines[se.Line-1]), "\r"))
		}
	}
	return b.Build()
}
