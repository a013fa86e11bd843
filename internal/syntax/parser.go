package syntax

import (
	"fmt"
	"strings"
	"unicode"
)

// Parser converts canonical source text into a syntax tree.
// Implementations must be safe for concurrent use; a parse failure is
// per-file and never fatal to a run.
type Parser interface {
	Parse(text string) (*Node, error)
}

// ParseError reports that source text could not be parsed.
type ParseError struct {
	// Reason describes the failure.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return "parse failure: " + e.Reason
}

// keywords are word tokens kept as their own label instead of being folded
// into the identifier class. Covers the Verilog and C-family vocabulary the
// detector is typically pointed at; unknown words degrade gracefully to
// identifiers.
var keywords = map[string]struct{}{
	// Verilog
	"module": {}, "endmodule": {}, "begin": {}, "end": {},
	"input": {}, "output": {}, "inout": {}, "wire": {}, "reg": {},
	"assign": {}, "always": {}, "initial": {}, "posedge": {}, "negedge": {},
	"case": {}, "endcase": {}, "default": {}, "parameter": {}, "localparam": {},
	"function": {}, "endfunction": {}, "task": {}, "endtask": {}, "generate": {}, "endgenerate": {},
	// shared / C-family
	"if": {}, "else": {}, "for": {}, "while": {}, "do": {}, "return": {},
	"break": {}, "continue": {}, "switch": {}, "struct": {}, "typedef": {},
	"int": {}, "char": {}, "void": {}, "float": {}, "double": {}, "unsigned": {}, "static": {}, "const": {},
}

// brackets maps opening runes to the interior node label and expected
// closing rune.
var brackets = map[rune]struct {
	label string
	close rune
}{
	'(': {"paren", ')'},
	'[': {"bracket", ']'},
	'{': {"brace", '}'},
}

// StructureParser is the built-in Parser. It has no configuration and the
// zero value is ready to use.
type StructureParser struct{}

// NewStructureParser creates a StructureParser.
func NewStructureParser() *StructureParser { return &StructureParser{} }

// Parse lexes the text into classified tokens and nests them by bracket
// structure. Mismatched or unclosed brackets and unterminated string
// literals are parse failures.
func (p *StructureParser) Parse(text string) (*Node, error) {
	root := &Node{Label: "root"}
	stack := []*Node{root}
	closers := []rune{}

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case isWordStart(r):
			start := i
			for i < len(runes) && isWordPart(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			top(stack).add(&Node{Label: classifyWord(word)})

		case unicode.IsDigit(r):
			for i < len(runes) && isNumberPart(runes[i]) {
				i++
			}
			top(stack).add(&Node{Label: "num"})

		case r == '"':
			i++
			for i < len(runes) && runes[i] != '"' {
				if runes[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(runes) {
				return nil, &ParseError{Reason: "unterminated string literal"}
			}
			i++
			top(stack).add(&Node{Label: "str"})

		default:
			if b, ok := brackets[r]; ok {
				child := &Node{Label: b.label}
				top(stack).add(child)
				stack = append(stack, child)
				closers = append(closers, b.close)
				i++
				continue
			}
			if r == ')' || r == ']' || r == '}' {
				if len(closers) == 0 || closers[len(closers)-1] != r {
					return nil, &ParseError{Reason: fmt.Sprintf("unexpected %q", r)}
				}
				stack = stack[:len(stack)-1]
				closers = closers[:len(closers)-1]
				i++
				continue
			}

			// Operators and punctuation: greedily consume a run of
			// symbol characters and keep it verbatim as the label.
			start := i
			for i < len(runes) && isOperatorPart(runes[i]) {
				i++
			}
			if i == start {
				// Unclassifiable rune (stray control char etc.); drop it.
				i++
				continue
			}
			top(stack).add(&Node{Label: string(runes[start:i])})
		}
	}

	if len(closers) != 0 {
		return nil, &ParseError{Reason: fmt.Sprintf("unclosed %q", closers[len(closers)-1])}
	}
	return root, nil
}

// top returns the innermost open node.
func top(stack []*Node) *Node { return stack[len(stack)-1] }

// classifyWord folds identifiers into a single class so renamed variables
// still match; keywords keep their own label.
func classifyWord(word string) string {
	if _, ok := keywords[strings.TrimPrefix(word, "`")]; ok {
		return strings.TrimPrefix(word, "`")
	}
	return "id"
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '`' || r == '$'
}

func isWordPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

// isNumberPart accepts Verilog-style sized literals (8'hFF) and C-style
// hex/float forms without validating them; the exact spelling is folded
// into the "num" class anyway.
func isNumberPart(r rune) bool {
	return unicode.IsDigit(r) || unicode.IsLetter(r) || r == '\'' || r == '_' || r == '.'
}

func isOperatorPart(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&', '|', '^', '~', '?', ':', ';', ',', '.', '#', '@', '\'':
		return true
	}
	return false
}
