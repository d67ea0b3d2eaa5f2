package normalize

// Outcome describes what Normalize did to a document.
type Outcome int

const (
	// OutcomeUnchanged means the frontmatter already defined head.
	OutcomeUnchanged Outcome = iota
	// OutcomeHeadAdded means `head: []` was appended to existing frontmatter.
	OutcomeHeadAdded
	// OutcomeHeaderSynthesized means a new frontmatter block was prepended.
	OutcomeHeaderSynthesized
	// OutcomeMalformed means the frontmatter was never closed; content was passed through.
	OutcomeMalformed
)

// Outcomes lists all outcomes in reporting order.
var Outcomes = []Outcome{OutcomeUnchanged, OutcomeHeadAdded, OutcomeHeaderSynthesized, OutcomeMalformed}

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeHeadAdded:
		return "head_added"
	case OutcomeHeaderSynthesized:
		return "header_synthesized"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Modified reports whether the outcome rewrites the document.
func (o Outcome) Modified() bool {
	return o == OutcomeHeadAdded || o == OutcomeHeaderSynthesized
}
