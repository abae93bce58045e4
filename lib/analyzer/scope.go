package analyzer

type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolParam:
		return "parameter"
	default:
		return "variable"
	}
}

type Symbol struct {
	Kind   SymbolKind
	Line   int
	Column int
}

// Scope is one frame of the lexical scope stack. Lookups walk the parent
// chain; declarations always land in the innermost frame.
type Scope struct {
	Parent  *Scope
	symbols map[string]Symbol
}

func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, symbols: make(map[string]Symbol)}
}

// LookupLocal checks only this frame. Used for duplicate detection, since
// shadowing an outer frame is legal.
func (s *Scope) LookupLocal(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Lookup resolves name through the whole chain, innermost first.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

func (s *Scope) Define(name string, sym Symbol) {
	s.symbols[name] = sym
}
