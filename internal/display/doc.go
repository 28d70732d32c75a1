// Package display provides the display-ready output model for cell
// evaluation: records tagged with a rendering kind, the aggregation rule
// that merges one cell's records, and the formatter that turns raw Go
// diagnostics into user-facing markup.
package display
