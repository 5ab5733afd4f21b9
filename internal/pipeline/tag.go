package pipeline

import "strings"

// Tag is the ordered list of labels of the steps that ran. It is diagnostic
// only.
type Tag []string

// String renders the tag as consecutive bracketed labels, e.g. "[RESIZE][MEDIAN]".
func (t Tag) String() string {
	var sb strings.Builder
	for _, l := range t {
		sb.WriteByte('[')
		sb.WriteString(l)
		sb.WriteByte(']')
	}
	return sb.String()
}
