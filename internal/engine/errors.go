package engine

import "fmt"

// Error is engine's single error type, identified by Kind, mirroring the
// teacher's query.QueryError. Kinds are listed in spec.md §6.
type Error struct {
	Kind    string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("engine error (%s): %s", e.Kind, e.Message)
}

const (
	KindUnknownVariable  = "UnknownVariable"
	KindInvalidStartType = "InvalidStartType"
	KindParseError       = "ParseError"
	KindCancelled        = "Cancelled"
	KindResultTooLarge   = "ResultTooLarge"
	KindInternalError    = "InternalError"
)
