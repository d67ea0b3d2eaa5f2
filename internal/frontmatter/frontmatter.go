package frontmatter

import (
	"bytes"
	"errors"
)

// Delimiter is the marker line that opens and closes a frontmatter block.
const Delimiter = "---"

// Style captures formatting details needed for stable rewriting.
//
// It focuses on newline shape and does not attempt to model YAML formatting;
// header lines are kept verbatim by Header.
type Style struct {
	Newline string
	// BareClose is set when the closing delimiter is the last line of the
	// document and has no line terminator.
	BareClose bool
}

// Split separates `---` delimited frontmatter from the Markdown body.
//
// The returned frontmatter excludes both delimiter lines and keeps the line
// terminator of its last line. If the document does not start with an opening
// delimiter line, had is false and body is the full input. A closing delimiter
// is any later line consisting only of `---`, including a final line without
// a terminator.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	open := []byte(Delimiter + style.Newline)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	start := len(open)
	pos := start
	for pos < len(content) {
		line := content[pos:]
		next := len(content)
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = pos + i + 1
		}

		if string(bytes.TrimSuffix(line, []byte("\r"))) == Delimiter {
			style.BareClose = next == len(content) && !bytes.HasSuffix(content, []byte("\n"))
			return content[start:pos], content[next:], true, style, nil
		}
		pos = next
	}

	return nil, nil, false, style, ErrMissingClosingDelimiter
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is.
// If had is true, Join emits `---` delimiters using the newline style
// captured in Style.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	open := []byte(Delimiter + nl)
	closing := []byte(Delimiter + nl)
	if style.BareClose && len(body) == 0 {
		closing = []byte(Delimiter)
	}

	out := make([]byte, 0, len(open)+len(frontmatter)+len(closing)+len(body))
	out = append(out, open...)
	out = append(out, frontmatter...)
	out = append(out, closing...)
	out = append(out, body...)
	return out
}

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			if i > 0 && content[i-1] == '\r' {
				newline = "\r\n"
			}
			break
		}
	}

	return Style{Newline: newline}
}
