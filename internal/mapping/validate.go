package mapping

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// applyValidation checks the (already transformed) string value against a
// rule's validation expression. Multiple expressions can be chained with ';'
// and must all pass.
func applyValidation(value, expression string) error {
	for _, expr := range strings.Split(expression, ";") {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}
		if err := applyOne(value, expr); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(value, expr string) error {
	switch {
	case expr == "nonempty":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("value must not be empty")
		}
	case strings.HasPrefix(expr, "regex:"):
		pattern := expr[len("regex:"):]
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid validation pattern %q: %v", pattern, err)
		}
		if !re.MatchString(value) {
			return fmt.Errorf("value %q does not match pattern %q", value, pattern)
		}
	case strings.HasPrefix(expr, "minLength:"):
		n, err := strconv.Atoi(expr[len("minLength:"):])
		if err != nil {
			return fmt.Errorf("invalid minLength expression %q", expr)
		}
		if len(value) < n {
			return fmt.Errorf("value %q is shorter than %d characters", value, n)
		}
	case strings.HasPrefix(expr, "maxLength:"):
		n, err := strconv.Atoi(expr[len("maxLength:"):])
		if err != nil {
			return fmt.Errorf("invalid maxLength expression %q", expr)
		}
		if len(value) > n {
			return fmt.Errorf("value %q is longer than %d characters", value, n)
		}
	case strings.HasPrefix(expr, "min:"):
		bound, err := strconv.ParseFloat(expr[len("min:"):], 64)
		if err != nil {
			return fmt.Errorf("invalid min expression %q", expr)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("value %q is not numeric", value)
		}
		if v < bound {
			return fmt.Errorf("value %v is below minimum %v", v, bound)
		}
	case strings.HasPrefix(expr, "max:"):
		bound, err := strconv.ParseFloat(expr[len("max:"):], 64)
		if err != nil {
			return fmt.Errorf("invalid max expression %q", expr)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("value %q is not numeric", value)
		}
		if v > bound {
			return fmt.Errorf("value %v exceeds maximum %v", v, bound)
		}
	case strings.HasPrefix(expr, "oneof:"):
		allowed := strings.Split(expr[len("oneof:"):], "|")
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return fmt.Errorf("value %q is not one of %s", value, strings.Join(allowed, ", "))
	default:
		return fmt.Errorf("unknown validation expression %q", expr)
	}
	return nil
}
