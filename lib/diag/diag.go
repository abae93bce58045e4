// Package diag carries positioned diagnostics through the compile pipeline.
package diag

import (
	"fmt"

	"github.com/fatih/color"
)

type Kind int

const (
	Syntax Kind = iota
	Semantic
	Internal
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case Semantic:
		return "semantic error"
	default:
		return "internal error"
	}
}

type Diagnostic struct {
	Kind    Kind
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Kind, d.Message)
}

func Syntaxf(line, column int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: Syntax, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}

func Semanticf(line, column int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: Semantic, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}

// Render formats a diagnostic for terminal output, colored by kind.
func Render(d Diagnostic) string {
	switch d.Kind {
	case Syntax:
		return color.RedString(d.Error())
	case Semantic:
		return color.YellowString(d.Error())
	default:
		return color.MagentaString(d.Error())
	}
}
