package contracts

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SafeFloat coerces v to a finite float64 and never fails.
// Numbers pass through; strings are stripped of %, commas and whitespace
// then parsed; anything else, including NaN and Inf, yields def.
func SafeFloat(v any, def float64) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case json.Number:
		return parseOr(string(x), def)
	case FlexInt:
		f = float64(x)
	case string:
		return parseOr(x, def)
	default:
		return def
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func parseOr(s string, def float64) float64 {
	cleaned := strings.NewReplacer("%", "", ",", "").Replace(s)
	cleaned = strings.Join(strings.Fields(cleaned), "")
	if cleaned == "" {
		return def
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// FormatNumber renders a float without trailing zeros: 12 → "12", 12.5 → "12.5"
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FlexInt decodes from a JSON number or a numeric string
type FlexInt int64

// UnmarshalJSON accepts 1200, 1200.0, "1200" and "1,200"; anything else is 0
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = FlexInt(SafeFloat(raw, 0))
	return nil
}
