package dashboard

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/seenimoa/envirorank/internal/dataset"
)

// Filter is a compiled CEL predicate over one district. Expressions see
//
//	district  string               district name
//	m         map(string, double)  raw metric values
//	rank      map(string, int)     ranks, 1 = highest value
//
// e.g. m["Rainfall"] > 200.0 && rank["AirQuality"] <= 5
type Filter struct {
	expr    string
	metrics []string
	prg     cel.Program
}

func newFilterEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("district", cel.StringType),
		cel.Variable("m", cel.MapType(cel.StringType, cel.DoubleType)),
		cel.Variable("rank", cel.MapType(cel.StringType, cel.IntType)),
	)
}

// CompileFilter compiles expr for a table with the given metrics.
// Compile errors and non-boolean expressions are invalid input.
func CompileFilter(expr string, metrics []string) (*Filter, error) {
	env, err := newFilterEnv()
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}
	return compileFilter(env, expr, metrics)
}

func compileFilter(env *cel.Env, expr string, metrics []string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, dataset.Invalid("where", 0, "empty filter expression")
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, dataset.Invalid("where", 0, "compile filter: %v", issues.Err())
	}
	if !ast.OutputType().IsExactType(types.BoolType) {
		return nil, dataset.Invalid("where", 0, "filter must be a boolean expression, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, dataset.Invalid("where", 0, "create filter program: %v", err)
	}
	return &Filter{expr: expr, metrics: append([]string(nil), metrics...), prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.expr }

// Match evaluates the filter for one district. values and ranks are aligned
// with the metrics the filter was compiled for. Referencing a metric that
// does not exist is an evaluation error.
func (f *Filter) Match(district string, values []float64, ranks []int) (bool, error) {
	if len(values) != len(f.metrics) || len(ranks) != len(f.metrics) {
		return false, dataset.Invalid("where", 0, "filter expects %d metrics", len(f.metrics))
	}
	m := make(map[string]float64, len(f.metrics))
	r := make(map[string]int64, len(f.metrics))
	for i, name := range f.metrics {
		m[name] = values[i]
		r[name] = int64(ranks[i])
	}

	out, _, err := f.prg.Eval(map[string]any{
		"district": district,
		"m":        m,
		"rank":     r,
	})
	if err != nil {
		return false, dataset.Invalid("where", 0, "evaluate filter for %q: %v", district, err)
	}
	if out.Type() != types.BoolType {
		return false, dataset.Invalid("where", 0, "filter returned %s, want bool", out.Type().TypeName())
	}
	return out.Value().(bool), nil
}
