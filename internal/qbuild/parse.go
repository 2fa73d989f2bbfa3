package qbuild

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cyroxx/androrm/internal/sqlgen"
)

// ParseFilters parses a filter expression of the form
//
//	path op value [AND path op value ...]
//
// into the ordered filter list the compiler consumes. AND is matched case
// insensitively. Supported operators: =, !=, <, <=, >, >=, LIKE. Values may
// be single- or double-quoted strings, integers, or true/false.
func ParseFilters(expr string) ([]Filter, error) {
	var filters []Filter
	for _, part := range splitByAnd(expr) {
		if part == "" {
			continue
		}
		f, err := ParseFilter(part)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("empty filter expression")
	}
	return filters, nil
}

// ParseFilter parses a single comparison expression.
func ParseFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)

	path, op, value, err := splitComparison(expr)
	if err != nil {
		return Filter{}, err
	}

	lit, err := parseLiteral(value)
	if err != nil {
		return Filter{}, fmt.Errorf("in %q: %w", expr, err)
	}

	segments := strings.Split(path, Separator)
	key := segments[len(segments)-1]
	return Filter{
		Path:   segments,
		Clause: sqlgen.Statement{Key: key, Op: op, Value: lit},
	}, nil
}

// splitByAnd splits a filter expression by AND (case insensitive). AND
// inside a quoted value does not split.
func splitByAnd(expr string) []string {
	var parts []string
	remaining := expr

	for {
		idx := indexOutsideQuotes(remaining, " and ", true)
		if idx == -1 {
			parts = append(parts, strings.TrimSpace(remaining))
			break
		}
		parts = append(parts, strings.TrimSpace(remaining[:idx]))
		remaining = remaining[idx+5:] // len(" and ") == 5
	}

	return parts
}

// indexOutsideQuotes returns the first index of substr in expr that lies
// outside single- or double-quoted regions, or -1. fold makes the match
// case insensitive.
func indexOutsideQuotes(expr, substr string, fold bool) int {
	var quote byte
	for i := 0; i+len(substr) <= len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			continue
		}
		if fold && strings.EqualFold(expr[i:i+len(substr)], substr) {
			return i
		}
		if !fold && expr[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// comparisonOps is ordered longest-first so ">=" wins over ">".
var comparisonOps = []string{
	sqlgen.OpNe, sqlgen.OpLe, sqlgen.OpGe,
	sqlgen.OpEq, sqlgen.OpLt, sqlgen.OpGt,
}

// splitComparison splits "path op value" into its three parts. Operators
// inside a quoted value are not candidates.
func splitComparison(expr string) (path, op, value string, err error) {
	// LIKE needs word-boundary matching, not substring search.
	if idx := indexOutsideQuotes(expr, " like ", true); idx != -1 {
		return strings.TrimSpace(expr[:idx]), sqlgen.OpLike, strings.TrimSpace(expr[idx+6:]), nil
	}

	for _, candidate := range comparisonOps {
		idx := indexOutsideQuotes(expr, candidate, false)
		if idx == -1 {
			continue
		}
		// Don't let "=" claim the tail of "!=", "<=", or ">=".
		if candidate == sqlgen.OpEq && idx > 0 {
			switch expr[idx-1] {
			case '!', '<', '>':
				continue
			}
		}
		return strings.TrimSpace(expr[:idx]),
			candidate,
			strings.TrimSpace(expr[idx+len(candidate):]),
			nil
	}

	return "", "", "", fmt.Errorf("unsupported expression (no operator found): %s", expr)
}

// parseLiteral converts the textual value of a comparison into a literal.
func parseLiteral(value string) (sqlgen.Literal, error) {
	if value == "" {
		return nil, fmt.Errorf("missing comparison value")
	}

	if (strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") && len(value) >= 2) ||
		(strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2) {
		return sqlgen.String(value[1 : len(value)-1]), nil
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return sqlgen.Int(n), nil
	}

	if value == "true" {
		return sqlgen.Bool(true), nil
	}
	if value == "false" {
		return sqlgen.Bool(false), nil
	}
	if strings.EqualFold(value, "null") {
		return sqlgen.Null{}, nil
	}

	// Unquoted bareword: treat as a string literal.
	return sqlgen.String(value), nil
}
