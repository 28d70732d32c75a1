package display

import (
	"fmt"
	"strings"
)

// Options controls the markup emitted by the formatter. A zero value is
// not usable; construct via DefaultOptions or the config package.
type Options struct {
	// ErrorColor is the CSS color of error markup.
	ErrorColor string
	// TypeColor is the CSS color of type-info markup.
	TypeColor string
}

// DefaultOptions returns the stock rendering options.
func DefaultOptions() Options {
	return Options{
		ErrorColor: "red",
		TypeColor:  "green",
	}
}

// qualifiedPrefixes are package qualifiers stripped from type names in
// diagnostics. Cell code is interpreted in package main, so "main.Foo"
// reads better as "Foo"; reflect qualifiers leak from the session's
// dynamic evaluation.
var qualifiedPrefixes = []string{
	"main.",
	"reflect.",
}

// CleanTypeNames shortens fully-qualified type names in diagnostic text
// and normalizes the constant-kind spelling "untyped string" to the
// user-facing "string".
//
// The cleanup is idempotent: applying it twice yields the same string.
func CleanTypeNames(s string) string {
	for _, prefix := range qualifiedPrefixes {
		s = strings.ReplaceAll(s, prefix, "")
	}
	return strings.ReplaceAll(s, "untyped string", "string")
}

// stripNoise removes the "(and N more errors)" suffix go/scanner appends
// when a parse produced several diagnostics. Only the first error is shown;
// the count adds nothing for a single cell.
func stripNoise(msg string) string {
	if !strings.HasSuffix(msg, " more errors)") && !strings.HasSuffix(msg, " more error)") {
		return msg
	}
	if i := strings.LastIndex(msg, " (and "); i >= 0 {
		return msg[:i]
	}
	return msg
}

// FormatError turns raw exception or diagnostic text into one HTML error
// record: noisy suffixes stripped, type names shortened, newlines turned
// into line breaks, wrapped in the emphasized error template.
func FormatError(msg string, opts Options) Record {
	cleaned := CleanTypeNames(stripNoise(msg))
	cleaned = strings.ReplaceAll(cleaned, "\n", "<br/>")
	return Markup(fmt.Sprintf(
		`<span class="err-msg" style="color: %s; font-style: italic;">%s</span>`,
		opts.ErrorColor, cleaned))
}

// FormatTypeInfo renders the result of a ":t expr" directive: the
// expression and its type, bold and colored. Type names go through the
// same cleanup as error text.
func FormatTypeInfo(expr, typ string, opts Options) Record {
	rendered := CleanTypeNames(fmt.Sprintf("%s :: %s", expr, typ))
	return Markup(fmt.Sprintf(
		`<span class="get-type" style="font-weight: bold; color: %s;">%s</span>`,
		opts.TypeColor, rendered))
}
