package natives

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String is the boxed form of a script string.
type String string

func (s String) Length() float64 { return float64(len([]rune(string(s)))) }

func (s String) CharAt(index float64) (string, error) {
	runes := []rune(string(s))
	i := int(index)
	if i < 0 || i >= len(runes) {
		return "", fmt.Errorf("index %d out of range for string of length %d", i, len(runes))
	}
	return string(runes[i]), nil
}

func (s String) IndexOf(needle string) float64 {
	i := strings.Index(string(s), needle)
	if i < 0 {
		return -1
	}
	return float64(len([]rune(string(s)[:i])))
}

// Substring takes rune offsets; a negative end means the end of the string.
func (s String) Substring(start, end float64) (string, error) {
	runes := []rune(string(s))
	from, to := int(start), int(end)
	if to < 0 {
		to = len(runes)
	}
	if from < 0 || from > to || to > len(runes) {
		return "", fmt.Errorf("substring(%d, %d) out of range for string of length %d", from, to, len(runes))
	}
	return string(runes[from:to]), nil
}

func (s String) ToUpperCase() string { return strings.ToUpper(string(s)) }
func (s String) ToLowerCase() string { return strings.ToLower(string(s)) }
func (s String) Trim() string        { return strings.TrimSpace(string(s)) }

func (s String) Split(separator string) *Array {
	parts := strings.Split(string(s), separator)
	items := make([]any, len(parts))
	for i, p := range parts {
		items[i] = p
	}
	return NewArray(items...)
}

func (s String) Concat(other string) string    { return string(s) + other }
func (s String) StartsWith(prefix string) bool { return strings.HasPrefix(string(s), prefix) }
func (s String) Equals(other string) bool      { return string(s) == other }

// Number is the boxed form of a script number.
type Number float64

func (n Number) ToString() string { return FormatNumber(float64(n)) }

func (n Number) ToFixed(digits float64) (string, error) {
	if digits < 0 || digits > 20 {
		return "", fmt.Errorf("toFixed digits must be between 0 and 20, got %v", digits)
	}
	return strconv.FormatFloat(float64(n), 'f', int(digits), 64), nil
}

func (n Number) Floor() float64 { return math.Floor(float64(n)) }
func (n Number) Ceil() float64  { return math.Ceil(float64(n)) }
func (n Number) Round() float64 { return math.Round(float64(n)) }
func (n Number) Abs() float64   { return math.Abs(float64(n)) }

// NumberStatics holds Number's static methods.
type NumberStatics struct{}

func (NumberStatics) Parse(text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as a number", text)
	}
	return f, nil
}

func (NumberStatics) Max(a, b float64) float64 { return math.Max(a, b) }
func (NumberStatics) Min(a, b float64) float64 { return math.Min(a, b) }

// Boolean is the boxed form of a script boolean.
type Boolean bool

func (b Boolean) ToString() string { return strconv.FormatBool(bool(b)) }
