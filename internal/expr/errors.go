package expr

import "fmt"

// SyntaxError reports a malformed expression. Pos is a rune offset into the
// source.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expr: syntax error at %d: %s", e.Pos, e.Msg)
}

// UnboundError reports a symbol with no slot in the binding passed to Compile.
type UnboundError struct {
	Name string
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("expr: unbound symbol %q", e.Name)
}
