package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is a top-level ATX heading (`# Title`) located in a Markdown body.
//
// LineStart and LineEnd delimit the heading's source line, LineEnd including
// the line terminator when present.
type Heading struct {
	Text      string
	LineStart int
	LineEnd   int
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// FirstTitleHeading returns the first level-1 ATX heading that starts at the
// beginning of a line and has non-empty text. The text is everything after
// the leading `#`, trimmed.
//
// Headings nested in block quotes or lists, setext headings and `#` lines in
// code blocks are not considered.
func FirstTitleHeading(body []byte) (Heading, bool) {
	var found Heading
	ok := false

	_ = gmast.Walk(ParseBody(body), func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, isHeading := n.(*gmast.Heading)
		if !isHeading || h.Level != 1 || h.Lines().Len() == 0 {
			return gmast.WalkContinue, nil
		}

		seg := h.Lines().At(0)
		start, end := lineBounds(body, seg.Start)
		line := body[start:end]
		if !bytes.HasPrefix(line, []byte("# ")) && !bytes.HasPrefix(line, []byte("#\t")) {
			return gmast.WalkContinue, nil
		}

		// Taken from the raw line so a closing `#` sequence stays part of the title.
		title := strings.TrimSpace(string(line[1:]))
		if title == "" {
			return gmast.WalkContinue, nil
		}

		found = Heading{Text: title, LineStart: start, LineEnd: end}
		ok = true
		return gmast.WalkStop, nil
	})

	return found, ok
}

// Removal returns the edit that deletes the heading line together with the
// blank lines directly following it.
func (h Heading) Removal(body []byte) Edit {
	end := h.LineEnd
	for end < len(body) {
		_, next := lineBounds(body, end)
		if len(bytes.TrimSpace(body[end:next])) != 0 {
			break
		}
		end = next
	}
	return Edit{Start: h.LineStart, End: end}
}

// lineBounds returns the start of the line containing offset and the end of
// that line including its terminator.
func lineBounds(body []byte, offset int) (int, int) {
	start := bytes.LastIndexByte(body[:offset], '\n') + 1
	end := len(body)
	if i := bytes.IndexByte(body[offset:], '\n'); i >= 0 {
		end = offset + i + 1
	}
	return start, end
}
