package railapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// The upstream is loose about JSON types: the same field can arrive as a
// number in one response and a string in the next. These wrappers accept both.

type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
	case bytes.Equal(b, []byte("true")) || bytes.Equal(b, []byte("false")):
		*s = flexString(b)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*s = flexString(n.String())
	}
	return nil
}

func (s flexString) String() string { return strings.TrimSpace(string(s)) }

type flexFloat struct {
	v *float64
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	text := strings.TrimSuffix(strings.TrimSpace(s.String()), "%")
	f.v = nil
	if text == "" {
		return nil
	}
	// Non-numeric placeholders such as "-" or "N/A" mean "not reported".
	if n, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		f.v = &n
	}
	return nil
}

type flexInt struct {
	v *int
}

func (i *flexInt) UnmarshalJSON(b []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	i.v = nil
	if f.v != nil {
		n := int(math.Round(*f.v))
		i.v = &n
	}
	return nil
}

type flexBool bool

func (fb *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	switch strings.ToLower(s.String()) {
	case "true", "1", "yes", "y":
		*fb = true
	default:
		*fb = false
	}
	return nil
}

// envelopeCode keeps only JSON string values. The error sentinels are string
// constants, so a numeric 712 is not one of them.
type envelopeCode string

func (c *envelopeCode) UnmarshalJSON(b []byte) error {
	*c = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '"' {
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = envelopeCode(v)
	return nil
}

func (c envelopeCode) String() string { return string(c) }
