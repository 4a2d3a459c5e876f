package profile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type fieldKind int

const (
	kindAbsent fieldKind = iota
	kindScalar
	kindList
)

// Field holds one profile value as received: a scalar string, a list of
// strings, or nothing at all. The zero value is absent.
type Field struct {
	kind   fieldKind
	scalar string
	list   []string
}

func Scalar(s string) Field {
	return Field{kind: kindScalar, scalar: s}
}

func List(items ...string) Field {
	return Field{kind: kindList, list: append([]string(nil), items...)}
}

func (f Field) IsAbsent() bool { return f.kind == kindAbsent }

// String collapses the field: lists are joined with ", ", absent is "".
func (f Field) String() string {
	switch f.kind {
	case kindScalar:
		return f.scalar
	case kindList:
		return strings.Join(f.list, ", ")
	default:
		return ""
	}
}

// FieldFromAny converts a value decoded from untrusted JSON into a Field.
// Arrays become lists (null elements dropped), other non-null values become
// scalars of their textual form.
func FieldFromAny(v any) Field {
	switch val := v.(type) {
	case nil:
		return Field{}
	case string:
		return Scalar(val)
	case []string:
		return List(val...)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			items = append(items, textOf(item))
		}
		return List(items...)
	default:
		return Scalar(textOf(val))
	}
}

func textOf(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
