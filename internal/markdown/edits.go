package markdown

import "fmt"

// Edit represents a targeted byte-range replacement.
//
// Start and End are byte offsets into the original source, with End exclusive.
// Replacement replaces source[Start:End].
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// Apply returns a copy of source with the edit applied. source is not modified.
func (e Edit) Apply(source []byte) ([]byte, error) {
	if e.Start < 0 || e.End < e.Start || e.End > len(source) {
		return nil, fmt.Errorf("invalid edit range [%d:%d] for %d bytes", e.Start, e.End, len(source))
	}

	out := make([]byte, 0, len(source)-(e.End-e.Start)+len(e.Replacement))
	out = append(out, source[:e.Start]...)
	out = append(out, e.Replacement...)
	out = append(out, source[e.End:]...)
	return out, nil
}
