package xmldoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
)

// SyntaxError reports malformed XML together with its position.
type SyntaxError struct {
	Resource string
	Line     int
	Column   int
	Err      error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.Resource, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Resource, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parse builds the element tree for a single resource.
func Parse(r io.Reader, resource string) (*Document, error) {
	lines := newLineIndex(r)
	decoder := xml.NewDecoder(lines)

	var stack []*Element
	var root *Element
	rootClosed := false

	fail := func(err error) (*Document, error) {
		line, col := decoder.InputPos()
		return nil, &SyntaxError{Resource: resource, Line: line, Column: col, Err: err}
	}

	for {
		// the offset before a start element token is its '<'
		start := decoder.InputOffset()
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return fail(fmt.Errorf("unexpected element %s after document end", t.Name.Local))
			}
			line, col := lines.position(start)
			elem := &Element{
				Kind:     classify(t.Name.Space, t.Name.Local),
				Space:    t.Name.Space,
				Local:    t.Name.Local,
				Attrs:    convertAttrs(t.Attr),
				Location: Location{Resource: resource, Line: line, Column: col},
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, elem)
				elem.Parent = parent
			} else {
				root = elem
			}
			stack = append(stack, elem)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 && root != nil {
					rootClosed = true
				}
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(string(t)) {
					return fail(errors.New("unexpected character data outside root element"))
				}
				continue
			}
			stack[len(stack)-1].Text += string(t)
		}
	}

	if root == nil {
		return nil, &SyntaxError{Resource: resource, Err: io.ErrUnexpectedEOF}
	}

	return &Document{Resource: resource, Root: root}, nil
}

// lineIndex records line start offsets of the bytes read through it.
type lineIndex struct {
	r      io.Reader
	read   int64
	starts []int64
}

func newLineIndex(r io.Reader) *lineIndex {
	return &lineIndex{r: r, starts: []int64{0}}
}

func (l *lineIndex) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	for i, b := range p[:n] {
		if b == '\n' {
			l.starts = append(l.starts, l.read+int64(i)+1)
		}
	}
	l.read += int64(n)
	return n, err
}

// position maps a byte offset to a 1-based line and column.
func (l *lineIndex) position(offset int64) (int, int) {
	i := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return i + 1, int(offset-l.starts[i]) + 1
}

// ParseString parses an in-memory document.
func ParseString(s, resource string) (*Document, error) {
	return Parse(strings.NewReader(s), resource)
}

// convertAttrs drops namespace declarations, which the decoder has already
// applied to element and attribute names.
func convertAttrs(attrs []xml.Attr) []Attr {
	out := make([]Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		out = append(out, Attr{Space: a.Name.Space, Local: a.Name.Local, Value: a.Value})
	}
	return out
}

func isIgnorableOutsideRoot(data string) bool {
	for _, r := range data {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
