package whygo

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is an optional numeric measure. The zero value is "not set".
type Number struct {
	Float64 float64
	Valid   bool
}

// Num returns a set Number.
func Num(v float64) Number {
	return Number{Float64: v, Valid: true}
}

// MarshalJSON encodes an unset Number as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON accepts numbers, numeric strings and booleans. Anything else
// (null, empty strings, placeholders like "TBD") decodes as not set.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = parseLooseNumber(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		if b {
			*n = Num(1)
		} else {
			*n = Num(0)
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Num(v)
	return nil
}

func parseLooseNumber(s string) Number {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return Number{}
	case "true", "yes", "done", "complete", "completed":
		return Num(1)
	case "false", "no":
		return Num(0)
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	v, err := strconv.ParseFloat(s, 64)
	// ParseFloat also accepts "NaN" and "Inf", which are placeholders too.
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Num(v)
}
