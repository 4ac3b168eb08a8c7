package core

import (
	"fmt"
	"strings"
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/kilupskalvis/snip/internal/models"
)

// Query is a compiled boolean expression over snippet fields, e.g.
//
//	favorite && "go" in tags
//	versions > 2 && updated > now() - duration("168h")
//
// It narrows a list further than Filters can.
type Query struct {
	source  string
	program *exprvm.Program
}

// queryEnv builds the variables visible to a query. The zero-valued call
// is used at compile time for type checking.
func queryEnv(sn *models.Snippet) map[string]any {
	if sn == nil {
		sn = &models.Snippet{}
	}
	codes := make([]string, len(sn.CodeBlocks))
	for i, b := range sn.CodeBlocks {
		codes[i] = b.Code
	}
	return map[string]any{
		"id":          sn.ID,
		"title":       sn.Title,
		"description": sn.Description,
		"tags":        nonNil(sn.Tags),
		"language":    nonNil(sn.Language),
		"favorite":    sn.Favorite,
		"project":     sn.Project,
		"code":        strings.Join(codes, "\n\n"),
		"blocks":      len(sn.CodeBlocks),
		"versions":    len(sn.Versions),
		"order":       sn.Order,
		"created":     time.UnixMilli(sn.CreatedAt),
		"updated":     time.UnixMilli(sn.UpdatedAt),
	}
}

// CompileQuery parses and type-checks source. The expression must
// evaluate to a boolean.
func CompileQuery(source string) (*Query, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	program, err := exprlang.Compile(source,
		exprlang.Env(queryEnv(nil)),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile query %q: %w", source, err)
	}
	return &Query{source: source, program: program}, nil
}

// String returns the query source.
func (q *Query) String() string {
	return q.source
}

// Match evaluates the query against one snippet.
func (q *Query) Match(sn *models.Snippet) (bool, error) {
	out, err := exprlang.Run(q.program, queryEnv(sn))
	if err != nil {
		return false, fmt.Errorf("evaluate query %q on %s: %w", q.source, sn.ShortID(), err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Select returns the snippets in list that satisfy q, preserving order.
func (q *Query) Select(list []models.Snippet) ([]models.Snippet, error) {
	out := make([]models.Snippet, 0, len(list))
	for i := range list {
		ok, err := q.Match(&list[i])
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, list[i])
		}
	}
	return out, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
