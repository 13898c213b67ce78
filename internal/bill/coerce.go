package bill

import (
	"math"
	"strconv"
	"strings"
)

// Coerce converts a loosely typed spreadsheet value into a float64. It never
// fails: nil, unparseable text, non-finite numbers and unsupported types all
// yield def. Text may carry thousands separators and embedded spaces.
// Booleans count as numbers (1 and 0), matching how spreadsheet engines sum them.
func Coerce(value any, def float64) float64 {
	switch v := value.(type) {
	case nil:
		return def
	case Cell:
		return CoerceCell(v, def)
	case string:
		return parseNumber(v, def)
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		return finiteOr(v, def)
	case float32:
		return finiteOr(float64(v), def)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return def
}

// CoerceCell applies the Coerce rules to a typed cell. Date cells are not
// numeric and yield def.
func CoerceCell(c Cell, def float64) float64 {
	switch c.Kind {
	case CellNumber:
		return finiteOr(c.Number, def)
	case CellText:
		return parseNumber(c.Text, def)
	case CellBool:
		return Coerce(c.Bool, def)
	}
	return def
}

func parseNumber(s string, def float64) float64 {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return def
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return def
	}
	return finiteOr(f, def)
}

func finiteOr(f, def float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
