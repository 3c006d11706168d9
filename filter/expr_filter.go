package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/tvdeck/tvshows"
)

// ErrEmptyExpression is returned when compiling a blank expression
var ErrEmptyExpression = errors.New("empty filter expression")

// ExprFilter represents a compiled expr filter
type ExprFilter struct {
	program *vm.Program
	expr    string
}

// CompileExprFilter compiles an expr filter expression
func CompileExprFilter(expression string) (*ExprFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ErrEmptyExpression
	}

	program, err := expr.Compile(expression,
		expr.Env(showEnv(tvshows.ShowRecord{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Err: err}
	}

	return &ExprFilter{
		program: program,
		expr:    expression,
	}, nil
}

// Evaluate runs the filter against a show
func (f *ExprFilter) Evaluate(show tvshows.ShowRecord) (bool, error) {
	result, err := expr.Run(f.program, showEnv(show))
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, ShowKey: show.IDString(), Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expr,
			ShowKey:    show.IDString(),
			Err:        fmt.Errorf("expression returned %T, not bool", result),
		}
	}
	return matched, nil
}

// Match reports whether the show matches. Evaluation errors count as no match.
func (f *ExprFilter) Match(show tvshows.ShowRecord) bool {
	matched, err := f.Evaluate(show)
	return err == nil && matched
}

// Expression returns the original expression
func (f *ExprFilter) Expression() string {
	return f.expr
}

// String returns the original expression
func (f *ExprFilter) String() string {
	return f.expr
}

// showEnv exposes a show to expressions. Absent fields become zero values;
// the Has* flags tell them apart from real zeroes.
func showEnv(show tvshows.ShowRecord) map[string]any {
	env := map[string]any{
		// Show data
		"ID":             show.IDString(),
		"Title":          deref(show.Title),
		"Genre":          deref(show.Genre),
		"Description":    deref(show.Description),
		"Seasons":        derefOr(show.TotalSeasons, 0),
		"Rating":         derefOr(show.Rating, 0),
		"HasTitle":       show.Title != nil,
		"HasGenre":       show.Genre != nil,
		"HasRating":      show.Rating != nil,
		"HasDescription": show.Description != nil,

		// String helpers
		"includes": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefix": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"hasSuffix": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
	return env
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
