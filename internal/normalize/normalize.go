// Package normalize ensures Markdown documents carry the frontmatter keys the
// site generator requires: a title and a (possibly empty) head list.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/docsync/internal/frontmatter"
	"git.home.luguber.info/inful/docsync/internal/markdown"
)

// DefaultTitle is used when a document has neither frontmatter nor a
// top-level heading.
const DefaultTitle = "Documentación"

const (
	TitleKey = "title"
	HeadKey  = "head"

	emptyHead = "[]"
)

// Options configures a Normalizer.
type Options struct {
	// DefaultTitle replaces DefaultTitle when non-empty.
	DefaultTitle string
	// UnicodeNFC composes extracted titles to Unicode normalization form C.
	UnicodeNFC bool
}

// Normalizer rewrites Markdown frontmatter. It holds no mutable state and is
// safe for concurrent use.
type Normalizer struct {
	defaultTitle string
	nfc          bool
}

// New creates a Normalizer.
func New(opts Options) *Normalizer {
	title := strings.TrimSpace(opts.DefaultTitle)
	if title == "" {
		title = DefaultTitle
	}
	return &Normalizer{defaultTitle: title, nfc: opts.UnicodeNFC}
}

// DefaultTitle returns the fallback title in use.
func (n *Normalizer) DefaultTitle() string {
	return n.defaultTitle
}

// Normalize returns content with a normalized frontmatter block and reports
// what was done.
//
//   - Existing frontmatter defining `head` is returned untouched.
//   - Existing frontmatter without `head` gets `head: []` as its last line.
//   - Frontmatter without a closing delimiter is returned untouched.
//   - Documents without frontmatter get a synthesized block whose title comes
//     from the first `# ` heading (removed from the body) or the default title.
func (n *Normalizer) Normalize(content []byte) ([]byte, Outcome) {
	raw, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		return content, OutcomeMalformed
	}

	if had {
		header := frontmatter.ParseHeader(raw, style)
		if header.Has(HeadKey) {
			return content, OutcomeUnchanged
		}
		header.Append(HeadKey, emptyHead)
		style.BareClose = false
		return frontmatter.Join(header.Bytes(), body, true, style), OutcomeHeadAdded
	}

	title := n.defaultTitle
	if heading, ok := markdown.FirstTitleHeading(body); ok {
		if stripped, err := heading.Removal(body).Apply(body); err == nil {
			title = heading.Text
			body = stripped
		}
	}
	if n.nfc {
		title = norm.NFC.String(title)
	}

	header := frontmatter.NewHeader(style)
	header.Append(TitleKey, QuoteTitle(title))
	header.Append(HeadKey, emptyHead)

	out := frontmatter.Join(header.Bytes(), nil, true, style)
	out = append(out, style.Newline...)
	out = append(out, body...)
	return out, OutcomeHeaderSynthesized
}

var titleEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// QuoteTitle renders title as a YAML double-quoted scalar.
func QuoteTitle(title string) string {
	return `"` + titleEscaper.Replace(title) + `"`
}

// Normalize applies a Normalizer with default options.
func Normalize(content []byte) []byte {
	out, _ := New(Options{}).Normalize(content)
	return out
}
