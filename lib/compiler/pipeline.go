package compiler

import (
	"github.com/pencil-lang/pencilc/lib/analyzer"
	"github.com/pencil-lang/pencilc/lib/diag"
	"github.com/pencil-lang/pencilc/lib/lexer"
	"github.com/pencil-lang/pencilc/lib/parser"
)

// State names how far a compilation got before finishing or failing.
type State int

const (
	Lexed State = iota
	Parsed
	Analyzed
	Generated
	SyntaxFailed
	SemanticFailed
)

func (s State) String() string {
	switch s {
	case Lexed:
		return "lexed"
	case Parsed:
		return "parsed"
	case Analyzed:
		return "analyzed"
	case Generated:
		return "generated"
	case SyntaxFailed:
		return "syntax failed"
	case SemanticFailed:
		return "semantic failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one compilation. Output is empty unless State is
// Generated; Diagnostics is empty unless State is a failure.
type Result struct {
	State       State
	Output      string
	Diagnostics []diag.Diagnostic
}

// Compile runs the whole pipeline on source. Every call uses fresh stage
// state, so concurrent or repeated compilations never interfere.
func Compile(source string) Result {
	res, prog := analyze(source)
	if res.State != Analyzed {
		return res
	}
	return Result{State: Generated, Output: Generate(prog)}
}

// Check runs the pipeline up to semantic analysis, skipping generation.
func Check(source string) Result {
	res, _ := analyze(source)
	return res
}

func analyze(source string) (Result, *parser.Program) {
	toks := lexer.Tokenize(source)
	prog, syntax := parser.Parse(toks)
	if len(syntax) > 0 {
		return Result{State: SyntaxFailed, Diagnostics: syntax}, nil
	}
	if semantic := analyzer.Analyze(prog); len(semantic) > 0 {
		return Result{State: SemanticFailed, Diagnostics: semantic}, nil
	}
	return Result{State: Analyzed}, prog
}
