package candidates

import (
	"context"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/simplesurance/pinbump/internal/githubclt"
)

// Filter decides via a jq query if a search result is a candidate.
type Filter struct {
	query *gojq.Query
}

// NewFilter parses the jq query.
// The query is evaluated for a JSON object with the keys "repository",
// "fork", "path", "sha" and "html_url" and must return a single boolean
// value.
func NewFilter(jqQuery string) (*Filter, error) {
	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return nil, err
	}

	return &Filter{query: query}, nil
}

func toJQInput(r *githubclt.CodeSearchResult) map[string]any {
	return map[string]any{
		"repository": r.Repository,
		"fork":       r.Fork,
		"path":       r.Path,
		"sha":        r.SHA,
		"html_url":   r.HTMLURL,
	}
}

func goJQIterToSlice(iter gojq.Iter) ([]any, []error) {
	var result []any
	var errors []error

	for {
		res, ok := iter.Next()
		if !ok {
			return result, errors
		}

		if err, isErr := res.(error); isErr {
			errors = append(errors, err)
			continue
		}

		result = append(result, res)
	}
}

func errString(errs []error) string {
	var result strings.Builder

	for i, err := range errs {
		if i > 0 {
			result.WriteString("; ")
		}

		result.WriteString(fmt.Sprintf("error %d: %s", i, err))
	}

	return result.String()
}

// Match returns true if the query evaluates to true for the search result.
func (f *Filter) Match(ctx context.Context, r *githubclt.CodeSearchResult) (bool, error) {
	result, errs := goJQIterToSlice(f.query.RunWithContext(ctx, toJQInput(r)))
	if len(errs) != 0 {
		return false, fmt.Errorf("json query returned errors, query: %q, errors: %s", f.query.String(), errString(errs))
	}

	if len(result) != 1 {
		return false, fmt.Errorf("json query returned %d results, expected 1, query: %q", len(result), f.query.String())
	}

	val, ok := result[0].(bool)
	if !ok {
		return false, fmt.Errorf(
			"json query returned non-bool result: %+v (%T), query: %q",
			result[0], result[0], f.query.String(),
		)
	}

	return val, nil
}
