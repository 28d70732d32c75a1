package display

import "strings"

// Aggregate merges the display records of one cell evaluation.
//
// All PlainText records collapse into a single record whose payload is the
// concatenation of their payloads in original order. Records of other kinds
// pass through unchanged, after the merged PlainText record, preserving
// their relative order. When the merged payload is empty nothing is
// emitted for the PlainText partition: bookkeeping statements capture no
// output and must not surface blank records.
//
// The rule applies only within one evaluation's output list, never across
// cells.
func Aggregate(records []Record) []Record {
	var text strings.Builder
	rest := make([]Record, 0, len(records))

	for _, r := range records {
		if r.Kind == PlainText {
			text.WriteString(r.Payload)
			continue
		}
		rest = append(rest, r)
	}

	if text.Len() == 0 {
		return rest
	}

	out := make([]Record, 0, len(rest)+1)
	out = append(out, Text(text.String()))
	out = append(out, rest...)
	return out
}
