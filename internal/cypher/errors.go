package cypher

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// SyntaxError reports a query that failed to parse, with the offending
// position, per spec.md §6's error taxonomy.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error: %s", e.Line, e.Column, e.Message)
}

func wrapParseError(err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(participle.Error); ok {
		pos := pe.Position()
		return &SyntaxError{Message: pe.Message(), Line: pos.Line, Column: pos.Column}
	}
	return &SyntaxError{Message: err.Error()}
}
