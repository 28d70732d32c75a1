package display

import (
	"encoding/json"
	"fmt"
)

// Kind tags a Record with its rendering treatment.
type Kind int

const (
	// PlainText renders verbatim, typically captured stdout bytes.
	PlainText Kind = iota
	// HTML renders as markup (error messages, type info).
	HTML
)

// String returns the wire name of the kind, used for JSON output and
// scenario files.
func (k Kind) String() string {
	switch k {
	case PlainText:
		return "text"
	case HTML:
		return "html"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the kind's wire name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the wire names emitted by MarshalJSON.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "text":
		*k = PlainText
	case "html":
		*k = HTML
	default:
		return fmt.Errorf("unknown display kind %q", name)
	}
	return nil
}

// Record is one unit of display output produced by evaluating a cell.
type Record struct {
	Kind    Kind   `json:"kind"`
	Payload string `json:"payload"`
}

// Text builds a PlainText record.
func Text(payload string) Record {
	return Record{Kind: PlainText, Payload: payload}
}

// Markup builds an HTML record.
func Markup(payload string) Record {
	return Record{Kind: HTML, Payload: payload}
}
