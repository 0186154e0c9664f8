package machan

type Node interface {
	Pos() Position
}

type Program struct {
	Body []Node
	Position
}

type Block struct {
	Nodes []Node
	Position
}

type VarDecl struct {
	Const bool
	Ident string
	Expr  Node
	Position
}

type FuncDecl struct {
	Ident  string
	Params []string
	Body   Block
	Position
}

type If struct {
	Cdt Node
	Csq Block
	// Alt is nil, a Block or an If
	Alt Node
	Position
}

type While struct {
	Cdt  Node
	Body Block
	Position
}

type For struct {
	Init VarDecl
	Cdt  Node
	Incr Node
	Body Block
	Position
}

type Case struct {
	Value Node
	Body  Block
	Position
}

type Switch struct {
	Cdt     Node
	Cases   []Case
	Default *Block
	Position
}

type Break struct {
	Position
}

type Continue struct {
	Position
}

type Return struct {
	Expr Node
	Position
}

type Try struct {
	Body  Block
	Ident string
	Catch Block
	Position
}

type Literal[T float64 | string] struct {
	Value T
	Position
}

type Identifier struct {
	Name string
	Position
}

type Array struct {
	Nodes []Node
	Position
}

type Property struct {
	Key string
	// Expr is nil for shorthand properties
	Expr Node
}

type Object struct {
	Props []Property
	Position
}

type Binary struct {
	Op    rune
	Left  Node
	Right Node
	Position
}

type Compare struct {
	Op    rune
	Left  Node
	Right Node
	Position
}

type Logical struct {
	Op    rune
	Left  Node
	Right Node
	Position
}

type Unary struct {
	Op   rune
	Expr Node
	Position
}

type Assignment struct {
	Ident Node
	Expr  Node
	Position
}

type Call struct {
	Ident Node
	Args  []Node
	Position
}

type Member struct {
	Expr     Node
	Prop     Node
	Computed bool
	Position
}

// Builtin is a call to a native function introduced by its keyword. Args are
// left unevaluated.
type Builtin struct {
	Name string
	Args []Node
	Position
}
