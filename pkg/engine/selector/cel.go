// Package selector filters table columns with CEL expressions such as
// `machine in ["Inj", "Weld"] && sensor != "Oil"`.
package selector

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/dataset"
)

// ErrNotBoolean is returned for expressions that do not evaluate to a bool.
var ErrNotBoolean = errors.New("selector must be a boolean expression")

// Selector is a compiled column filter. A nil Selector matches every column.
type Selector struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr against the column variables
// machine, sensor and column (all strings).
func Compile(expr string) (*Selector, error) {
	env, err := cel.NewEnv(
		cel.Variable("machine", cel.StringType),
		cel.Variable("sensor", cel.StringType),
		cel.Variable("column", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("selector %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotBoolean, expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("selector %q program creation error: %w", expr, err)
	}
	return &Selector{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (s *Selector) String() string {
	if s == nil {
		return "true"
	}
	return s.expr
}

// Match evaluates the selector for one column.
func (s *Selector) Match(c dataset.Column) (bool, error) {
	if s == nil {
		return true, nil
	}

	out, _, err := s.prg.Eval(map[string]any{
		"machine": c.Machine,
		"sensor":  string(c.Sensor),
		"column":  c.Name,
	})
	if err != nil {
		return false, fmt.Errorf("selector %q on %s: %w", s.expr, c.Name, err)
	}

	match, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T", ErrNotBoolean, s.expr, out.Value())
	}
	return match, nil
}

// Filter keeps the matching columns, preserving order.
func (s *Selector) Filter(cols []dataset.Column) ([]dataset.Column, error) {
	if s == nil {
		return cols, nil
	}

	var kept []dataset.Column
	for _, c := range cols {
		ok, err := s.Match(c)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, c)
		}
	}
	return kept, nil
}
