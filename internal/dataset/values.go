package dataset

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Malformed numeric cells are treated as absent rather than failing the load.

func optionalFloat(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func optionalInt(raw string) *int {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	// spreadsheet exports write counts as 1234.0
	return wholeNumber(optionalFloat(s))
}

// wholeNumber converts f to an int when it is integral and fits.
func wholeNumber(f *float64) *int {
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	if *f >= math.MaxInt || *f < math.MinInt {
		return nil
	}
	n := int(*f)
	return &n
}

// optionalNumber decodes a JSON number, a numeric string or anything else,
// which becomes absent. Decoding never fails.
type optionalNumber struct {
	value *float64
}

func (n *optionalNumber) UnmarshalJSON(data []byte) error {
	n.value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			n.value = optionalFloat(strings.ReplaceAll(s, ",", ""))
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n.value = optionalFloat(string(data))
	}
	return nil
}

func (n optionalNumber) Float() *float64 {
	return n.value
}

func (n optionalNumber) Int() *int {
	return wholeNumber(n.value)
}
