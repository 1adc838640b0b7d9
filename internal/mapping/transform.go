package mapping

import (
	"log"
	"strings"
)

// applyTransformation applies a rule's transformation expression to the
// extracted raw value. Unknown transformations keep the original value and
// log a warning rather than failing the field.
func applyTransformation(value, transformation string) string {
	if transformation == "" {
		return value
	}

	expr := strings.ToLower(transformation)
	switch {
	case expr == "lowercase":
		return strings.ToLower(value)
	case expr == "uppercase":
		return strings.ToUpper(value)
	case expr == "trim":
		return strings.TrimSpace(value)
	case strings.HasPrefix(expr, "prefix:"):
		return transformation[len("prefix:"):] + value
	case strings.HasPrefix(expr, "suffix:"):
		return value + transformation[len("suffix:"):]
	case strings.HasPrefix(expr, "replace:"):
		// replace:old=new, first '=' splits the pair
		spec := transformation[len("replace:"):]
		if i := strings.Index(spec, "="); i >= 0 {
			return strings.ReplaceAll(value, spec[:i], spec[i+1:])
		}
		log.Printf("Warning: malformed replace transformation %q, keeping original value", transformation)
		return value
	default:
		log.Printf("Warning: transformation rule %q is not implemented, keeping original value", transformation)
		return value
	}
}
