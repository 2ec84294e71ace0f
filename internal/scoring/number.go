// internal/scoring/number.go
package scoring

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is an optional numeric form value. It decodes from a JSON number, a numeric
// string ("1,200.50" included), an empty string or null. Anything that does not parse
// leaves the value absent instead of failing the decode.
type Number struct {
	value float64
	set   bool
}

// Num returns a present Number.
func Num(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{value: v, set: true}
}

// Float64 returns the value and whether it was present.
func (n Number) Float64() (float64, bool) {
	return n.value, n.set
}

// OrZero returns the value, or 0 when absent.
func (n Number) OrZero() float64 {
	if !n.set {
		return 0
	}
	return n.value
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		*n = ParseNumber(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil
	}
	*n = Num(f)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// ParseNumber coerces a raw form string. Thousands separators and surrounding
// whitespace are ignored; empty or invalid input yields an absent Number.
func ParseNumber(raw string) Number {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return Number{}
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Number{}
	}
	return Num(f)
}
