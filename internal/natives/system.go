package natives

import (
	"fmt"
	"io"
	"time"
)

// SystemStatics holds System's static methods.
type SystemStatics struct {
	Out   io.Writer
	Clock func() time.Time
}

func (s *SystemStatics) Print(value any) error {
	_, err := io.WriteString(s.Out, Stringify(value))
	return err
}

func (s *SystemStatics) Println(value any) error {
	_, err := io.WriteString(s.Out, Stringify(value)+"\n")
	return err
}

// Time returns milliseconds since the Unix epoch.
func (s *SystemStatics) Time() float64 {
	return float64(s.Clock().UnixMilli())
}

// AssertStatics holds Assert's static methods. A failed assertion is a
// host error.
type AssertStatics struct{}

func (AssertStatics) Equals(expected, actual any) error {
	if !Equal(expected, actual) {
		return fmt.Errorf("assertion failed: expected %s, got %s", Stringify(expected), Stringify(actual))
	}
	return nil
}

func (AssertStatics) IsTrue(condition bool) error {
	if !condition {
		return fmt.Errorf("assertion failed: expected true")
	}
	return nil
}

func (AssertStatics) IsNull(value any) error {
	if value != nil {
		return fmt.Errorf("assertion failed: expected null, got %s", Stringify(value))
	}
	return nil
}

func (AssertStatics) Fail(message string) error {
	return fmt.Errorf("assertion failed: %s", message)
}
