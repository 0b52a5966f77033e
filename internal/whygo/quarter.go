package whygo

import (
	"fmt"
	"strings"
	"time"
)

// Quarter is a fiscal quarter.
type Quarter int

const (
	Q1 Quarter = iota + 1
	Q2
	Q3
	Q4
)

// Quarters lists the four quarters in order.
func Quarters() []Quarter {
	return []Quarter{Q1, Q2, Q3, Q4}
}

// String returns the lowercase wire form ("q1").
func (q Quarter) String() string {
	if !q.Valid() {
		return "q?"
	}
	return fmt.Sprintf("q%d", int(q))
}

// Label returns the display form ("Q1").
func (q Quarter) Label() string {
	return strings.ToUpper(q.String())
}

// Valid reports whether q is one of Q1..Q4.
func (q Quarter) Valid() bool {
	return q >= Q1 && q <= Q4
}

// ParseQuarter parses "q1".."q4" (case-insensitive).
func ParseQuarter(s string) (Quarter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "q1":
		return Q1, nil
	case "q2":
		return Q2, nil
	case "q3":
		return Q3, nil
	case "q4":
		return Q4, nil
	}
	return 0, fmt.Errorf("invalid quarter %q (want q1, q2, q3 or q4)", s)
}

// QuarterOf returns the calendar quarter containing t.
func QuarterOf(t time.Time) Quarter {
	return Quarter((int(t.Month())-1)/3 + 1)
}

// MarshalText encodes the quarter as "q1".."q4".
func (q Quarter) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("invalid quarter %d", int(q))
	}
	return []byte(q.String()), nil
}

// UnmarshalText decodes "q1".."q4".
func (q *Quarter) UnmarshalText(text []byte) error {
	parsed, err := ParseQuarter(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
