// Package prediction turns a free-form intake submission into the feature
// vector a trained risk classifier expects, and scores it.
package prediction

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Vector is a single aligned row. Values[i] belongs to Columns[i].
type Vector struct {
	Columns []string
	Values  []float64
}

// Named returns the vector keyed by column name.
func (v Vector) Named() map[string]float64 {
	named := make(map[string]float64, len(v.Columns))
	for i, column := range v.Columns {
		named[column] = v.Values[i]
	}
	return named
}

// Align converts submission into a vector laid out exactly as columns.
//
// Values that parse as numbers keep their field name. Any other value v of
// field f becomes the indicator column "f_v" set to 1. Columns the expanded
// record lacks are 0 and expanded entries not listed in columns are dropped,
// so a category never seen in training contributes nothing.
func Align(submission map[string]string, columns []string) Vector {
	expanded := expand(submission)

	values := make([]float64, len(columns))
	for i, column := range columns {
		values[i] = expanded[column]
	}

	return Vector{Columns: append([]string(nil), columns...), Values: values}
}

func expand(submission map[string]string) map[string]float64 {
	fields := make([]string, 0, len(submission))
	for field := range submission {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	expanded := make(map[string]float64, len(submission))
	categorical := make([]string, 0)

	for _, field := range fields {
		if value, ok := coerce(submission[field]); ok {
			expanded[field] = value
			continue
		}
		categorical = append(categorical, field)
	}

	// A numeric field wins over an indicator that happens to share its name.
	for _, field := range categorical {
		dummy := field + "_" + submission[field]
		if _, taken := expanded[dummy]; taken {
			continue
		}
		expanded[dummy] = 1
	}

	return expanded
}

// coerce accepts the decimal grammar used when the model was trained:
// optional sign, single underscores between digits, inf and nan. Hex forms
// are categorical. Out of range magnitudes parse as ±Inf.
func coerce(raw string) (float64, bool) {
	text := strings.TrimSpace(raw)
	if isHex(text) {
		return 0, false
	}

	text, ok := stripDigitSeparators(text)
	if !ok {
		return 0, false
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return value, true
		}
		return 0, false
	}
	return value, true
}

func isHex(text string) bool {
	text = strings.TrimLeft(text, "+-")
	return len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

func stripDigitSeparators(text string) (string, bool) {
	if !strings.Contains(text, "_") {
		return text, true
	}

	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '_' {
			b.WriteByte(text[i])
			continue
		}
		if i == 0 || i == len(text)-1 || !isDigit(text[i-1]) || !isDigit(text[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
