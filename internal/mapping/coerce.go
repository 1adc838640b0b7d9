package mapping

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"xmlprocessor/internal/models"
)

// datetimeLayouts are tried in order when coercing DATETIME values.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// coerceValue converts the (already transformed) string value to the rule's
// declared data type. An empty data type coerces like STRING.
func coerceValue(value, dataType string) (interface{}, error) {
	if dataType != "" && !models.ValidDataTypes[dataType] {
		return nil, fmt.Errorf("unknown data type %q", dataType)
	}
	switch dataType {
	case "STRING", "TEXT", "":
		return value, nil
	case "INTEGER":
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid integer", value)
		}
		return n, nil
	case "FLOAT":
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid float", value)
		}
		return f, nil
	case "BOOLEAN":
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(value)))
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid boolean", value)
		}
		return b, nil
	case "DATETIME":
		v := strings.TrimSpace(value)
		for _, layout := range datetimeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), nil
			}
		}
		return nil, fmt.Errorf("value %q is not a valid datetime", value)
	}
	return value, nil
}
