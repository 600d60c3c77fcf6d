package project

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// visitFunc is called for every start element. ancestors holds the local
// names of the enclosing elements, outermost first. Returning consumed=true
// means the visitor read the element to its end token.
type visitFunc func(d *xml.Decoder, el xml.StartElement, ancestors []string) (consumed bool, err error)

// errStop ends a walk early without reporting an error.
var errStop = errors.New("stop walking")

// newDecoder creates a decoder that skips a UTF-8 byte order mark and
// honours the encoding declared in the XML prolog.
func newDecoder(r io.Reader) *xml.Decoder {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	d := xml.NewDecoder(br)
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// walkFile streams the XML document at path through visit.
func walkFile(path string, visit visitFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := walk(newDecoder(f), visit); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func walk(d *xml.Decoder, visit visitFunc) error {
	var stack []string
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			consumed, err := visit(d, t, stack)
			if errors.Is(err, errStop) {
				return nil
			}
			if err != nil {
				return err
			}
			if !consumed {
				stack = append(stack, t.Name.Local)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// attr returns the value of the attribute with the given local name.
func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// parentIs reports whether the innermost ancestor is named name.
func parentIs(ancestors []string, name string) bool {
	return len(ancestors) > 0 && ancestors[len(ancestors)-1] == name
}
