package expr

import (
	"fmt"
	"math"
)

// Func evaluates a compiled expression. vars is indexed by the positions of
// the names passed to Compile.
type Func func(vars []float64) float64

// Compile resolves every symbol of n to its position in names and returns a
// closure tree. Symbols are resolved once here, so evaluation does no lookups
// by name. When a name repeats, the first position wins.
func Compile(n Node, names []string) (Func, error) {
	slots := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := slots[name]; !dup {
			slots[name] = i
		}
	}
	return compile(n, slots)
}

// CompileString parses and compiles src in one step.
func CompileString(src string, names []string) (Func, error) {
	n, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Compile(n, names)
}

func compile(n Node, slots map[string]int) (Func, error) {
	switch n := n.(type) {
	case *Num:
		v := n.Value
		return func([]float64) float64 { return v }, nil

	case *Ident:
		i, ok := slots[n.Name]
		if !ok {
			return nil, &UnboundError{Name: n.Name}
		}
		return func(vars []float64) float64 { return vars[i] }, nil

	case *Neg:
		x, err := compile(n.X, slots)
		if err != nil {
			return nil, err
		}
		return func(vars []float64) float64 { return -x(vars) }, nil

	case *Binary:
		l, err := compile(n.L, slots)
		if err != nil {
			return nil, err
		}
		r, err := compile(n.R, slots)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case '+':
			return func(vars []float64) float64 { return l(vars) + r(vars) }, nil
		case '-':
			return func(vars []float64) float64 { return l(vars) - r(vars) }, nil
		case '*':
			return func(vars []float64) float64 { return l(vars) * r(vars) }, nil
		case '/':
			return func(vars []float64) float64 { return l(vars) / r(vars) }, nil
		case '^':
			return func(vars []float64) float64 { return math.Pow(l(vars), r(vars)) }, nil
		}
		return nil, fmt.Errorf("expr: unknown operator %q", n.Op)

	case *Call:
		b, ok := builtins[n.Func]
		if !ok {
			return nil, fmt.Errorf("expr: unknown function %q", n.Func)
		}
		if len(n.Args) != b.arity {
			return nil, fmt.Errorf("expr: %s takes %d argument(s), got %d", n.Func, b.arity, len(n.Args))
		}
		args := make([]Func, len(n.Args))
		for i, a := range n.Args {
			f, err := compile(a, slots)
			if err != nil {
				return nil, err
			}
			args[i] = f
		}
		if b.arity == 1 {
			fn, a := b.fn1, args[0]
			return func(vars []float64) float64 { return fn(a(vars)) }, nil
		}
		fn, a, c := b.fn2, args[0], args[1]
		return func(vars []float64) float64 { return fn(a(vars), c(vars)) }, nil
	}
	return nil, fmt.Errorf("expr: unsupported node %T", n)
}
