// Package rowfilter narrows a dataset with a CEL boolean expression before
// any faceting happens. Expressions see each row as the map variable `row`.
package rowfilter

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/facetnav/internal/tabular"
)

// Variable is the name rows are bound to in expressions.
const Variable = "row"

// Filter is a compiled row predicate. A nil *Filter keeps every row.
type Filter struct {
	expr string
	prg  cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(Variable, cel.MapType(cel.StringType, cel.StringType)),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
}

// Compile parses and type-checks expr. An empty expression returns a nil
// filter and no error.
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(types.BoolType) {
		return nil, fmt.Errorf("compilation error: expression must return bool, got %s", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match evaluates the filter against row.
func (f *Filter) Match(row tabular.Row) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, _, err := f.prg.Eval(map[string]any{Variable: row.Map()})
	if err != nil {
		return false, fmt.Errorf("eval error on row %d: %w", row.Index+1, err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("eval error on row %d: expected bool, got %s", row.Index+1, out.Type())
	}
	return bool(b), nil
}

// Apply returns the rows of ds the filter keeps. Evaluation stops at the
// first error.
func (f *Filter) Apply(ds *tabular.Dataset) (*tabular.Dataset, error) {
	if f == nil || ds == nil {
		return ds, nil
	}
	var firstErr error
	out := ds.Filter(func(r tabular.Row) bool {
		if firstErr != nil {
			return false
		}
		ok, err := f.Match(r)
		if err != nil {
			firstErr = err
			return false
		}
		return ok
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
