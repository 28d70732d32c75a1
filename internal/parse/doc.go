// Package parse carves raw cell text into typed commands.
//
// Processing is a three stage pipeline:
//
//	text    → Segment           → blocks (contiguous multi-line strings)
//	blocks  → Classify          → commands (a grammar cascade per block)
//	commands → JoinDeclarations → final command sequence
//
// Segmentation splits along indentation and line-prefix boundaries:
// directive lines (":...") and import lines are single-line blocks; any
// other line opens a block that absorbs every following line indented
// strictly deeper than it.
//
// Classification tries, in priority order: directive, import, the full
// declaration grammar, then the statement grammar (the block wrapped in a
// synthetic function body). A block matching no grammar becomes a
// ParseError carrying whichever attempt's failure is most relevant.
//
// The grammars are Go's own, via go/parser; pretty-printed forms come from
// go/printer so downstream consumers always see canonical source text.
package parse
