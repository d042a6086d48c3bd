package expr

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Node is a parsed expression.
type Node interface {
	String() string
}

type Num struct{ Value float64 }

type Ident struct{ Name string }

type Neg struct{ X Node }

// Binary is one of + - * / ^.
type Binary struct {
	Op   byte
	L, R Node
}

type Call struct {
	Func string
	Args []Node
}

func (n *Num) String() string   { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *Ident) String() string { return n.Name }
func (n *Neg) String() string   { return "-(" + n.X.String() + ")" }

func (n *Binary) String() string {
	return "(" + n.L.String() + " " + string(n.Op) + " " + n.R.String() + ")"
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Func + "(" + strings.Join(args, ", ") + ")"
}

type builtin struct {
	arity int
	fn1   func(float64) float64
	fn2   func(float64, float64) float64
}

var builtins = map[string]builtin{
	"exp":  {arity: 1, fn1: math.Exp},
	"log":  {arity: 1, fn1: math.Log},
	"sqrt": {arity: 1, fn1: math.Sqrt},
	"abs":  {arity: 1, fn1: math.Abs},
	"min":  {arity: 2, fn2: math.Min},
	"max":  {arity: 2, fn2: math.Max},
	"pow":  {arity: 2, fn2: math.Pow},
}

// Symbols returns the free symbols of n, sorted and deduplicated.
func Symbols(n Node) []string {
	seen := make(map[string]struct{})
	walk(n, func(id *Ident) { seen[id.Name] = struct{}{} })

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func walk(n Node, visit func(*Ident)) {
	switch n := n.(type) {
	case *Ident:
		visit(n)
	case *Neg:
		walk(n.X, visit)
	case *Binary:
		walk(n.L, visit)
		walk(n.R, visit)
	case *Call:
		for _, a := range n.Args {
			walk(a, visit)
		}
	}
}
