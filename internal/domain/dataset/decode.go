package dataset

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/kpihub/backend/internal/domain/shared"
)

// DateLayouts are the accepted date formats, tried in order. Workbook cells
// arrive as formatted strings, so both ISO and spreadsheet-style layouts
// are covered.
var DateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06 15:04",
	"1/2/06",
}

// DecodeTable decodes raw sheet records into a typed slice. Row numbers in
// error messages are 1-based workbook rows, counting the header as row 1.
func DecodeTable[T any](sheet string, records []map[string]any) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, rec := range records {
		var row T
		if err := DecodeRecord(rec, &row); err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Sheet %s row %d: %v", sheet, i+2, err))
		}
		out = append(out, row)
	}
	return out, nil
}

// DecodeRecord decodes a single raw record into out, which must be a pointer
// to a struct carrying mapstructure tags. String cells are weakly converted
// to the target field type; blank cells decode to the zero value.
func DecodeRecord(record map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			blankToZeroHookFunc(),
			toDecimalHookFunc(),
			toTimeHookFunc(),
		),
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(record)
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

// blankToZeroHookFunc maps blank string cells to the zero value of the
// target type so that sparse sheets decode without errors
func blankToZeroHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() == reflect.String {
			return data, nil
		}
		if strings.TrimSpace(data.(string)) != "" {
			return data, nil
		}
		return reflect.Zero(to).Interface(), nil
	}
}

// toDecimalHookFunc converts string and numeric cells to decimal.Decimal.
// Currency strings may carry a dollar sign and thousands separators.
func toDecimalHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != decimalType {
			return data, nil
		}
		switch from.Kind() {
		case reflect.String:
			s := strings.TrimSpace(data.(string))
			s = strings.TrimPrefix(s, "$")
			s = strings.ReplaceAll(s, ",", "")
			if s == "" {
				return decimal.Zero, nil
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("invalid numeric value %q", data)
			}
			return d, nil
		case reflect.Float32, reflect.Float64:
			return decimal.NewFromFloat(reflect.ValueOf(data).Float()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return decimal.NewFromInt(reflect.ValueOf(data).Int()), nil
		default:
			return data, nil
		}
	}
}

// ParseDate converts a raw cell value to a time.Time using DateLayouts
func ParseDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range DateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date value %q", v)
	default:
		return time.Time{}, fmt.Errorf("unrecognized date value %v", v)
	}
}

// FormatDate renders a date cell, with the zero value rendered as blank
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// FormatDateTime renders a timestamp cell, with the zero value rendered
// as blank
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// InRange reports whether t falls within [start, end]. Zero bounds are
// open; a zero t is only inside a fully open range.
func InRange(t, start, end time.Time) bool {
	if t.IsZero() {
		return start.IsZero() && end.IsZero()
	}
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

// EndOfDay extends a date-level bound to the last instant of its day, so a
// window ending on a given date still covers rows timestamped later that
// same day. Zero stays zero (an open bound).
func EndOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// toTimeHookFunc converts string cells to time.Time using DateLayouts
func toTimeHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != timeType {
			return data, nil
		}
		s := strings.TrimSpace(data.(string))
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range DateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("unrecognized date value %q", data)
	}
}
