package frontmatter

import (
	"bytes"
	"fmt"
	"strings"
)

// Line is a single raw frontmatter line.
//
// Key is set for top-level `key: value` lines and empty for everything else
// (nested values, list items, comments, blank lines).
type Line struct {
	Key  string
	Text string
	EOL  string
}

// Header is an ordered, line-preserving view of a frontmatter block.
//
// Only top-level keys are indexed. Serializing a parsed Header with Bytes
// reproduces the input exactly; Append adds new lines at the end of the block.
type Header struct {
	lines   []Line
	newline string
}

// ParseHeader splits raw frontmatter (as returned by Split) into lines.
func ParseHeader(raw []byte, style Style) *Header {
	h := &Header{newline: style.Newline}
	if h.newline == "" {
		h.newline = "\n"
	}

	rest := raw
	for len(rest) > 0 {
		text := rest
		eol := ""
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			text = rest[:i]
			eol = "\n"
			rest = rest[i+1:]
		} else {
			rest = nil
		}
		if bytes.HasSuffix(text, []byte("\r")) {
			text = text[:len(text)-1]
			eol = "\r" + eol
		}
		h.lines = append(h.lines, Line{Key: topLevelKey(string(text)), Text: string(text), EOL: eol})
	}
	return h
}

// NewHeader returns an empty header that emits lines using the given newline.
func NewHeader(style Style) *Header {
	return ParseHeader(nil, style)
}

// Has reports whether a top-level key is defined.
func (h *Header) Has(key string) bool {
	_, ok := h.Lookup(key)
	return ok
}

// Lookup returns the first line defining the top-level key.
func (h *Header) Lookup(key string) (Line, bool) {
	for _, l := range h.lines {
		if l.Key != "" && l.Key == key {
			return l, true
		}
	}
	return Line{}, false
}

// Append adds `key: value` as the last line of the block. value is written
// verbatim and must already be valid YAML.
func (h *Header) Append(key, value string) {
	// A final line without terminator would otherwise merge with the new one.
	if n := len(h.lines); n > 0 && h.lines[n-1].EOL == "" {
		h.lines[n-1].EOL = h.newline
	}
	h.lines = append(h.lines, Line{
		Key:  key,
		Text: fmt.Sprintf("%s: %s", key, value),
		EOL:  h.newline,
	})
}

// Bytes serializes the header lines without delimiters.
func (h *Header) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range h.lines {
		buf.WriteString(l.Text)
		buf.WriteString(l.EOL)
	}
	return buf.Bytes()
}

// topLevelKey extracts the key of an unindented `key: value` line.
func topLevelKey(line string) string {
	if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' || line[0] == '-' {
		return ""
	}

	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return ""
	}
	// `key:value` is a plain scalar in YAML, not a mapping entry.
	if idx+1 < len(line) && line[idx+1] != ' ' && line[idx+1] != '\t' {
		return ""
	}

	key := strings.TrimSpace(line[:idx])
	if len(key) >= 2 {
		if (key[0] == '"' && key[len(key)-1] == '"') || (key[0] == '\'' && key[len(key)-1] == '\'') {
			key = key[1 : len(key)-1]
		}
	}
	return key
}
