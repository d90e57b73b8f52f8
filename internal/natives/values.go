package natives

import (
	"fmt"
	"math"
	"strconv"
)

// Script values reach host code as float64, string, bool, nil, or an
// interpreter object. Interpreter objects print through fmt.Stringer and
// compare through Equaler.

// Equaler is implemented by interpreter objects with their own identity.
type Equaler interface {
	Equal(other any) bool
}

// Stringify renders a script value the way print shows it.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case float64:
		return FormatNumber(v)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

// FormatNumber prints integral values without a fraction.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Equal is script equality: primitives by value, objects by identity.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case Equaler:
		return av.Equal(b)
	}
	return a == b
}
