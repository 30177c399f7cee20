package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row maps a column name to a cell value. An absent key, a nil value and a
// blank string are all treated as null.
type Row map[string]any

// IsNull reports whether the column holds no usable value.
func (r Row) IsNull(column string) bool {
	v, ok := r[column]
	if !ok {
		return true
	}
	return IsNullValue(v)
}

// Text returns the string form of a column value and false when it is null.
func (r Row) Text(column string) (string, bool) {
	if r.IsNull(column) {
		return "", false
	}
	return Text(r[column]), true
}

func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func IsNullValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []byte:
		return strings.TrimSpace(string(t)) == ""
	default:
		return false
	}
}

// Text renders a cell value the way it is compared as a key. Floats use the
// shortest representation so 12 and 12.0 render the same.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
