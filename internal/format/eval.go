package format

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberFormatter renders a numeric value for a locale and style.
// It matches the locale service contract so the engine can plug the
// service in without this package importing it.
type NumberFormatter func(value float64, locale, style string) (string, error)

// Evaluate resolves the pattern and options for a value.
//
// Conditions are tried in declaration order; the first condition whose
// predicate is true wins. When no condition matches, the spec's default
// pattern and options are returned. Evaluating an uncompiled spec is an
// error, never an implicit compile.
func Evaluate(compiled *Compiled, value any, _ EvalContext) (string, Options, error) {
	if compiled == nil || !compiled.ok {
		return "", nil, fmt.Errorf("format spec is not compiled")
	}

	for _, rule := range compiled.spec.Rules {
		matched, err := matches(rule.When, value)
		if err != nil {
			return "", nil, fmt.Errorf("format spec %q: %w", compiled.spec.Name, err)
		}
		if matched {
			return rule.Pattern, rule.Options, nil
		}
	}

	return compiled.spec.DefaultPattern, compiled.spec.DefaultOptions, nil
}

// matches applies a condition predicate to the value.
func matches(cond Condition, value any) (bool, error) {
	switch cond.Op {
	case OpAlways:
		lit, ok := cond.Operand.(bool)
		if !ok {
			return false, fmt.Errorf("always condition requires a boolean operand")
		}
		return lit, nil
	case OpEquals:
		return looseEqual(value, cond.Operand), nil
	case OpNotEquals:
		return !looseEqual(value, cond.Operand), nil
	case OpGreaterThan, OpLessThan:
		left, lok := toFloat(value)
		right, rok := toFloat(cond.Operand)
		if !lok || !rok {
			return false, fmt.Errorf("condition %s requires numeric value and operand", cond.Op)
		}
		if cond.Op == OpGreaterThan {
			return left > right, nil
		}
		return left < right, nil
	default:
		return false, fmt.Errorf("invalid condition op: %s", cond.Op)
	}
}

// looseEqual compares numerically when both sides are numeric, otherwise
// by stringified form. Records arrive from JSON and YAML decoders with
// mixed int/float representations for the same logical value.
func looseEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// toFloat coerces the numeric types decoders produce into float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// RenderText expands a resolved pattern against the value and context.
//
// Brace tokens are substituted: {value} is the formatted value itself and
// any other token is looked up in the record. The "prefix" and "suffix"
// options wrap the final text; "style" routes the value through the
// supplied number formatter when it is numeric.
func RenderText(pattern string, opts Options, value any, ctx EvalContext, nf NumberFormatter) (string, error) {
	rendered, err := formatValue(value, opts, ctx.Locale, nf)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return "", fmt.Errorf("unbalanced braces in pattern")
		}
		token := rest[open+1 : open+closing]
		rest = rest[open+closing+1:]

		if token == "value" {
			out.WriteString(rendered)
			continue
		}
		field, ok := ctx.Record[token]
		if !ok {
			return "", fmt.Errorf("pattern references unknown field %q", token)
		}
		out.WriteString(Stringify(field))
	}

	text := out.String()
	if prefix, ok := opts["prefix"].(string); ok {
		text = prefix + text
	}
	if suffix, ok := opts["suffix"].(string); ok {
		text += suffix
	}
	return text, nil
}

// formatValue renders the raw value, honoring the locale style options.
func formatValue(value any, opts Options, locale string, nf NumberFormatter) (string, error) {
	style, hasStyle := opts["style"].(string)
	if !hasStyle || nf == nil {
		return applyDecimals(value, opts), nil
	}

	num, ok := toFloat(value)
	if !ok {
		return "", fmt.Errorf("style %q requires a numeric value, got %T", style, value)
	}
	if override, ok := opts["locale"].(string); ok {
		locale = override
	}
	return nf(num, locale, style)
}

// applyDecimals stringifies the value, rounding to the "decimals" option
// when the value is numeric.
func applyDecimals(value any, opts Options) string {
	decimals, ok := toFloat(opts["decimals"])
	if !ok {
		return Stringify(value)
	}
	num, numeric := toFloat(value)
	if !numeric {
		return Stringify(value)
	}
	return strconv.FormatFloat(num, 'f', int(decimals), 64)
}

// Stringify is the raw fallback rendering used when an element has no
// format spec or when spec evaluation fails.
func Stringify(value any) string {
	if value == nil {
		return ""
	}
	if f, ok := value.(float64); ok {
		// Trim the ".0" JSON decoders put on integral numbers.
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}
