package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SummaryKind tags the variant held by a SummaryValue.
type SummaryKind uint8

// Supported summary variants.
const (
	SummaryString SummaryKind = iota
	SummaryInt
)

// SummaryValue is a named summary value that is either text or an integer.
type SummaryValue struct {
	kind SummaryKind
	str  string
	num  int64
}

// StringValue wraps s as a SummaryValue.
func StringValue(s string) SummaryValue {
	return SummaryValue{kind: SummaryString, str: s}
}

// IntValue wraps n as a SummaryValue.
func IntValue(n int64) SummaryValue {
	return SummaryValue{kind: SummaryInt, num: n}
}

// Kind returns the held variant.
func (v SummaryValue) Kind() SummaryKind {
	return v.kind
}

// Text returns the text variant.
func (v SummaryValue) Text() (string, bool) {
	return v.str, v.kind == SummaryString
}

// Int returns the integer variant.
func (v SummaryValue) Int() (int64, bool) {
	return v.num, v.kind == SummaryInt
}

// Display renders the value for human-readable output.
func (v SummaryValue) Display() string {
	if v.kind == SummaryInt {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// MarshalJSON encodes the value as a bare JSON string or number.
func (v SummaryValue) MarshalJSON() ([]byte, error) {
	if v.kind == SummaryInt {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON accepts a JSON string or integer.
func (v *SummaryValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("summary value must be a string or integer: %w", err)
	}
	*v = IntValue(n)
	return nil
}
