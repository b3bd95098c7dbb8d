// Package resolver turns a raw parameter source for free-form
// statements into the ordered value list the database consumes.
package resolver

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// markerPattern matches embedded host-expression markers of the form
// {{ ... }} inside a raw parameter string.
var markerPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// quotedPlaceholderPattern matches a string literal that looks like a
// positional placeholder, e.g. '$3', inside statement text.
var quotedPlaceholderPattern = regexp.MustCompile(`'(\$\d+)'`)

// Evaluator evaluates one host expression (marker body) to text.
type Evaluator func(expr string) (string, error)

// Resolver prepares free-form statements. Evaluate resolves embedded
// host-expression markers; it may be nil when callers never pass
// markers. LegacyQuotedPlaceholders enables the compatibility rule for
// statements authored before parameterization existed; see Resolve.
type Resolver struct {
	Evaluate                 Evaluator
	LegacyQuotedPlaceholders bool
}

// Resolve produces the final statement text and ordered value list.
//
// When rawParams contains {{ ... }} markers, each marker is evaluated
// independently: a result that parses as JSON contributes one
// structured value; anything else is split on commas into trimmed
// strings. Literal text between markers is split the same way. With no
// markers, rawParams is split directly.
//
// When no parameter source is supplied at all and the legacy flag is
// on, quoted placeholder-looking tokens in the statement text ('$1')
// have their quotes stripped and contribute their own literal text as
// additional trailing parameters, which preserves the pre-parameterized
// statements' output. The rule never applies once an explicit source
// exists.
func (r *Resolver) Resolve(query, rawParams string) (string, []any, error) {
	if strings.TrimSpace(rawParams) == "" {
		if r.LegacyQuotedPlaceholders {
			return applyLegacyPlaceholders(query)
		}
		return query, nil, nil
	}

	values, err := r.resolveParams(rawParams)
	if err != nil {
		return "", nil, err
	}
	return query, values, nil
}

func (r *Resolver) resolveParams(rawParams string) ([]any, error) {
	locs := markerPattern.FindAllStringSubmatchIndex(rawParams, -1)
	if len(locs) == 0 {
		return splitValues(rawParams), nil
	}
	if r.Evaluate == nil {
		return nil, fmt.Errorf("parameter source contains expression markers but no evaluator is configured")
	}

	var values []any
	prev := 0
	for _, loc := range locs {
		if between := rawParams[prev:loc[0]]; strings.Trim(between, " ,\t\n") != "" {
			values = append(values, splitValues(between)...)
		}
		expr := strings.TrimSpace(rawParams[loc[2]:loc[3]])
		evaluated, err := r.Evaluate(expr)
		if err != nil {
			return nil, fmt.Errorf("evaluate expression %q: %w", expr, err)
		}
		values = append(values, expressionValues(evaluated)...)
		prev = loc[1]
	}
	if rest := rawParams[prev:]; strings.Trim(rest, " ,\t\n") != "" {
		values = append(values, splitValues(rest)...)
	}
	return values, nil
}

// expressionValues interprets one evaluated marker: JSON yields one
// structured value, anything else splits on commas.
func expressionValues(evaluated string) []any {
	trimmed := strings.TrimSpace(evaluated)
	var structured any
	if json.Valid([]byte(trimmed)) && trimmed != "" {
		if err := json.Unmarshal([]byte(trimmed), &structured); err == nil {
			return []any{structured}
		}
	}
	return splitValues(evaluated)
}

func splitValues(raw string) []any {
	var out []any
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// applyLegacyPlaceholders strips quotes from placeholder-looking string
// literals and appends each token's text as a trailing parameter, so
// '$1' renders through the driver to the same $1 string the literal
// produced. Kept only for statements that predate parameterization.
func applyLegacyPlaceholders(query string) (string, []any, error) {
	matches := quotedPlaceholderPattern.FindAllStringSubmatch(query, -1)
	if len(matches) == 0 {
		return query, nil, nil
	}
	text := quotedPlaceholderPattern.ReplaceAllString(query, "$1")
	values := make([]any, 0, len(matches))
	for _, m := range matches {
		values = append(values, m[1])
	}
	return text, values, nil
}
