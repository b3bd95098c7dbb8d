package resolver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCommaSeparated(t *testing.T) {
	r := &Resolver{}
	text, values, err := r.Resolve("SELECT * FROM t WHERE a = $1 AND b = $2", " foo , bar ")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", text)
	assert.Equal(t, []any{"foo", "bar"}, values)
}

func TestResolveNoParams(t *testing.T) {
	r := &Resolver{}
	text, values, err := r.Resolve("SELECT 1", "  ")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", text)
	assert.Nil(t, values)
}

func TestResolveMarkers(t *testing.T) {
	evaluations := map[string]string{
		"$json.id":   "42",
		"$json.tags": `["a","b"]`,
		"$json.csv":  "x, y",
	}
	r := &Resolver{Evaluate: func(expr string) (string, error) {
		out, ok := evaluations[expr]
		if !ok {
			return "", fmt.Errorf("unknown expression %q", expr)
		}
		return out, nil
	}}

	tests := []struct {
		name      string
		rawParams string
		want      []any
	}{
		{
			name:      "JSONNumberIsOneStructuredValue",
			rawParams: "{{ $json.id }}",
			want:      []any{float64(42)},
		},
		{
			name:      "JSONArrayIsOneStructuredValue",
			rawParams: "{{ $json.tags }}",
			want:      []any{[]any{"a", "b"}},
		},
		{
			name:      "NonJSONSplitsOnCommas",
			rawParams: "{{ $json.csv }}",
			want:      []any{"x", "y"},
		},
		{
			name:      "LiteralTextAroundMarkers",
			rawParams: "lead, {{ $json.id }}, tail",
			want:      []any{"lead", float64(42), "tail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, values, err := r.Resolve("SELECT $1", tt.rawParams)
			require.NoError(t, err)
			assert.Equal(t, tt.want, values)
		})
	}
}

func TestResolveMarkerWithoutEvaluator(t *testing.T) {
	r := &Resolver{}
	_, _, err := r.Resolve("SELECT $1", "{{ $json.id }}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no evaluator")
}

func TestResolveMarkerEvaluationError(t *testing.T) {
	r := &Resolver{Evaluate: func(string) (string, error) {
		return "", fmt.Errorf("boom")
	}}
	_, _, err := r.Resolve("SELECT $1", "{{ $json.broken }}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$json.broken")
}

// The quoted-placeholder rule is a compatibility quirk inherited from
// pre-parameterized statements: '$1' is unquoted in the text and its
// own token text appended as a trailing parameter, which reproduces the
// original literal output through the driver. It applies only when no
// parameter source is supplied and only behind the flag.
func TestResolveLegacyQuotedPlaceholders(t *testing.T) {
	r := &Resolver{LegacyQuotedPlaceholders: true}

	text, values, err := r.Resolve("SELECT '$1', '$2' FROM t", "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT $1, $2 FROM t", text)
	assert.Equal(t, []any{"$1", "$2"}, values)
}

func TestResolveLegacyRuleSkippedWithExplicitParams(t *testing.T) {
	r := &Resolver{LegacyQuotedPlaceholders: true}

	text, values, err := r.Resolve("SELECT '$1' FROM t WHERE a = $1", "foo")
	require.NoError(t, err)
	// Text untouched: the rule never extends to statements that already
	// carry an explicit parameter source.
	assert.Equal(t, "SELECT '$1' FROM t WHERE a = $1", text)
	assert.Equal(t, []any{"foo"}, values)
}

func TestResolveLegacyRuleOffByDefault(t *testing.T) {
	r := &Resolver{}
	text, values, err := r.Resolve("SELECT '$1' FROM t", "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT '$1' FROM t", text)
	assert.Nil(t, values)
}
