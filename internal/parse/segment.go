package parse

import (
	"go/scanner"
	"go/token"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Segment splits raw cell text into contiguous blocks.
//
// Directive lines and single-line import clauses stand alone. Any other
// line opens a block that absorbs every immediately following line either
// indented strictly deeper than it or still inside an unbalanced
// delimiter (a brace, paren or bracket opened earlier in the block -
// closing braces return to column 0 in Go, so indentation alone cannot
// delimit declarations). Blank lines inside a block are preserved; blank
// lines between blocks are dropped.
//
// Input text is NFC-normalized first so that visually identical cells
// segment and classify identically.
func Segment(text string) []string {
	text = norm.NFC.String(text)
	lines := strings.Split(text, "\n")

	var blocks []string
	for i := 0; i < len(lines); {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			i++
			continue
		}

		if isDirectiveLine(trimmed) || (isImportLine(trimmed) && delimDelta(line) == 0) {
			blocks = append(blocks, line)
			i++
			continue
		}

		indent := leadingSpaces(line)
		depth := delimDelta(line)
		j := i + 1
		for j < len(lines) {
			next := lines[j]
			if strings.TrimSpace(next) == "" {
				// Provisionally part of the block; trimmed below if the
				// block actually ended here.
				j++
				continue
			}
			if depth <= 0 && leadingSpaces(next) <= indent {
				break
			}
			depth += delimDelta(next)
			j++
		}

		block := lines[i:j]
		for len(block) > 1 && strings.TrimSpace(block[len(block)-1]) == "" {
			block = block[:len(block)-1]
		}
		blocks = append(blocks, strings.Join(block, "\n"))
		i = j
	}

	return joinAnnotations(blocks)
}

// joinAnnotations concatenates a bare type annotation block with the block
// that follows it, so a name's annotation and its defining equation are
// classified as one unit.
func joinAnnotations(blocks []string) []string {
	out := make([]string, 0, len(blocks))
	for i := 0; i < len(blocks); i++ {
		block := blocks[i]
		if i+1 < len(blocks) && isBareAnnotation(block) {
			next := blocks[i+1]
			trimmed := strings.TrimSpace(next)
			if trimmed != "" && !isDirectiveLine(trimmed) && !isImportLine(trimmed) {
				out = append(out, block+"\n"+next)
				i++
				continue
			}
		}
		out = append(out, block)
	}
	return out
}

// isDirectiveLine reports whether a trimmed line starts with the directive
// marker.
func isDirectiveLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, ":")
}

// isImportLine reports whether a trimmed line is an import clause. The
// keyword must stand alone: "imports" or "imported" do not count.
func isImportLine(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "import") {
		return false
	}
	rest := trimmed[len("import"):]
	if rest == "" {
		return true
	}
	switch rest[0] {
	case ' ', '\t', '"', '(', '.', '_':
		return true
	}
	return false
}

// delimDelta counts a line's net delimiter balance: opened minus closed
// braces, parens and brackets, token-aware so delimiters inside strings
// and comments don't count. Raw strings spanning lines are the one case
// the per-line scan cannot see through.
func delimDelta(line string) int {
	var s scanner.Scanner
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(line))
	s.Init(file, []byte(line), nil, 0)

	delta := 0
	for {
		_, tok, _ := s.Scan()
		if tok == token.EOF {
			break
		}
		switch tok {
		case token.LBRACE, token.LPAREN, token.LBRACK:
			delta++
		case token.RBRACE, token.RPAREN, token.RBRACK:
			delta--
		}
	}
	return delta
}

// leadingSpaces counts a line's indentation. Tabs count as one column
// each; cells are expected to use spaces, matching the segmentation rule.
func leadingSpaces(line string) int {
	n := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}
