package graph

import "fmt"

// ValueKind tags the payload carried by a Value.
type ValueKind int

const (
	NullVal ValueKind = iota
	IntVal
	FloatVal
	BoolVal
	StringVal
	ListVal
	MapVal
)

// Value is a dynamically typed property value. Node and edge property maps
// are keyed by string and valued by Value; comparisons in the WHERE filter
// coerce numeric kinds and fall through to false on anything else rather
// than erroring.
type Value struct {
	Kind ValueKind
	I    int64
	F    float64
	B    bool
	S    string
	L    []Value
	M    map[string]Value
}

func Null() Value                 { return Value{Kind: NullVal} }
func Int(i int64) Value           { return Value{Kind: IntVal, I: i} }
func Float(f float64) Value       { return Value{Kind: FloatVal, F: f} }
func Bool(b bool) Value           { return Value{Kind: BoolVal, B: b} }
func String(s string) Value       { return Value{Kind: StringVal, S: s} }
func List(l []Value) Value        { return Value{Kind: ListVal, L: l} }
func Map(m map[string]Value) Value { return Value{Kind: MapVal, M: m} }

func (v Value) IsNull() bool { return v.Kind == NullVal }

// Numeric reports whether v carries an Int or Float payload and returns it
// widened to float64.
func (v Value) Numeric() (float64, bool) {
	switch v.Kind {
	case IntVal:
		return float64(v.I), true
	case FloatVal:
		return v.F, true
	default:
		return 0, false
	}
}

func (v Value) String_() string {
	switch v.Kind {
	case NullVal:
		return "null"
	case IntVal:
		return fmt.Sprintf("%d", v.I)
	case FloatVal:
		return fmt.Sprintf("%g", v.F)
	case BoolVal:
		return fmt.Sprintf("%t", v.B)
	case StringVal:
		return v.S
	case ListVal:
		return fmt.Sprintf("%v", v.L)
	case MapVal:
		return fmt.Sprintf("%v", v.M)
	default:
		return ""
	}
}

// Equal compares two Values structurally, coercing Int/Float against each
// other the same way the WHERE filter's comparison operator does.
func (v Value) Equal(other Value) bool {
	if vf, ok := v.Numeric(); ok {
		if of, ok := other.Numeric(); ok {
			return vf == of
		}
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case NullVal:
		return true
	case BoolVal:
		return v.B == other.B
	case StringVal:
		return v.S == other.S
	case ListVal:
		if len(v.L) != len(other.L) {
			return false
		}
		for i := range v.L {
			if !v.L[i].Equal(other.L[i]) {
				return false
			}
		}
		return true
	case MapVal:
		if len(v.M) != len(other.M) {
			return false
		}
		for k, mv := range v.M {
			ov, ok := other.M[k]
			if !ok || !mv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Less orders two Values for ORDER BY purposes. Numeric kinds compare
// numerically; strings and bools compare natively; everything else is
// incomparable and reports ok=false so the caller can apply null-ordering
// rules instead.
func (v Value) Less(other Value) (less bool, ok bool) {
	if vf, okv := v.Numeric(); okv {
		if of, oko := other.Numeric(); oko {
			return vf < of, true
		}
	}
	if v.Kind != other.Kind {
		return false, false
	}
	switch v.Kind {
	case StringVal:
		return v.S < other.S, true
	case BoolVal:
		return !v.B && other.B, true
	default:
		return false, false
	}
}
