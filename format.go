package machan

import (
	"strconv"
	"strings"
)

// Format renders a node back to source. Compound expressions are always
// parenthesized so the output parses to the same tree shape.
func Format(n Node) string {
	var w writer
	w.node(n)
	return w.String()
}

type writer struct {
	strings.Builder
	level int
}

func (w *writer) node(n Node) {
	switch n := n.(type) {
	case Program:
		w.statements(n.Body)
	case Block:
		w.block(n)
	case VarDecl:
		w.WriteString("ithu ")
		if n.Const {
			w.WriteString("const ")
		}
		w.WriteString(n.Ident)
		w.WriteString(" = ")
		w.node(n.Expr)
		w.WriteString(" aanu")
	case FuncDecl:
		w.WriteString("machane pani ")
		w.WriteString(n.Ident)
		w.WriteString("(")
		w.WriteString(strings.Join(n.Params, ", "))
		w.WriteString(") ")
		w.block(n.Body)
	case If:
		w.WriteString("ipo ")
		w.group(n.Cdt)
		w.WriteString(" anengi ")
		w.block(n.Csq)
		if n.Alt != nil {
			w.WriteString(" alengi ")
			w.node(n.Alt)
		}
	case While:
		w.WriteString("machane ")
		w.group(n.Cdt)
		w.WriteString(" avane vare ")
		w.block(n.Body)
	case For:
		w.WriteString("for machane (")
		w.node(n.Init)
		w.WriteString(" : ")
		w.node(n.Cdt)
		w.WriteString(" : ")
		w.node(n.Incr)
		w.WriteString(") enit ")
		w.block(n.Body)
	case Switch:
		w.WriteString("switch machane ")
		w.node(n.Cdt)
		w.WriteString(" {")
		w.level++
		for _, c := range n.Cases {
			w.newline()
			w.WriteString("ipo ")
			w.node(c.Value)
			w.WriteString(" anengi ")
			w.block(c.Body)
		}
		if n.Default != nil {
			w.newline()
			w.WriteString("onnum_alengi ")
			w.block(*n.Default)
		}
		w.level--
		w.newline()
		w.WriteString("}")
	case Try:
		w.WriteString("machane try cheyu ")
		w.block(n.Body)
		w.WriteString(" pidiku (")
		w.WriteString(n.Ident)
		w.WriteString(") ")
		w.block(n.Catch)
	case Break:
		w.WriteString("break")
	case Continue:
		w.WriteString("continue")
	case Return:
		w.WriteString("return")
		if n.Expr != nil {
			w.WriteString(" ")
			w.node(n.Expr)
		}
		w.WriteString(";")
	case Builtin:
		w.WriteString(n.Name)
		w.args(n.Args)
		w.WriteString(";")
	case Literal[float64]:
		w.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))
	case Literal[string]:
		w.quote(n.Value)
	case Identifier:
		w.WriteString(n.Name)
	case Array:
		w.WriteString("[")
		w.list(n.Nodes)
		w.WriteString("]")
	case Object:
		w.WriteString("{")
		for i, p := range n.Props {
			if i > 0 {
				w.WriteString(", ")
			}
			w.WriteString(p.Key)
			w.WriteString(": ")
			if p.Expr == nil {
				w.WriteString(p.Key)
			} else {
				w.node(p.Expr)
			}
		}
		w.WriteString("}")
	case Binary:
		w.infix(n.Op, n.Left, n.Right)
	case Compare:
		w.infix(n.Op, n.Left, n.Right)
	case Logical:
		w.infix(n.Op, n.Left, n.Right)
	case Unary:
		w.WriteString("(")
		w.WriteString(operatorText(n.Op))
		w.operand(n.Expr)
		w.WriteString(")")
	case Assignment:
		w.node(n.Ident)
		w.WriteString(" = ")
		w.node(n.Expr)
	case Call:
		w.operand(n.Ident)
		w.args(n.Args)
	case Member:
		w.operand(n.Expr)
		if n.Computed {
			w.WriteString("[")
			w.node(n.Prop)
			w.WriteString("]")
		} else {
			w.WriteString(".")
			w.node(n.Prop)
		}
	}
}

func (w *writer) statements(list []Node) {
	for i, n := range list {
		if i > 0 {
			w.newline()
		}
		w.node(n)
		if isExpression(n) {
			w.WriteString(";")
		}
	}
}

func (w *writer) block(b Block) {
	w.WriteString("{")
	if len(b.Nodes) > 0 {
		w.level++
		w.newline()
		w.statements(b.Nodes)
		w.level--
		w.newline()
	}
	w.WriteString("}")
}

func (w *writer) infix(op rune, left, right Node) {
	w.WriteString("(")
	w.operand(left)
	w.WriteString(" ")
	w.WriteString(operatorText(op))
	w.WriteString(" ")
	w.operand(right)
	w.WriteString(")")
}

// operand writes n inside another expression. Assignments and object
// literals only parse there when parenthesized.
func (w *writer) operand(n Node) {
	switch n.(type) {
	case Assignment, Object:
		w.WriteString("(")
		w.node(n)
		w.WriteString(")")
	default:
		w.node(n)
	}
}

// quote writes str between the first quote it does not hold unescaped.
// Escapes are kept as written by the scanner so they are copied as is.
func (w *writer) quote(str string) {
	q := dquote
	if hasQuote(str, q) {
		q = squote
	}
	w.WriteRune(q)
	if hasQuote(str, q) {
		var escaped bool
		for _, c := range str {
			if c == q && !escaped {
				w.WriteRune(backslash)
			}
			escaped = c == backslash && !escaped
			w.WriteRune(c)
		}
	} else {
		w.WriteString(str)
	}
	w.WriteRune(q)
}

func hasQuote(str string, q rune) bool {
	var escaped bool
	for _, c := range str {
		if c == q && !escaped {
			return true
		}
		escaped = c == backslash && !escaped
	}
	return false
}

// group writes n between parentheses unless it already is.
func (w *writer) group(n Node) {
	switch n.(type) {
	case Binary, Compare, Logical, Unary:
		w.node(n)
	default:
		w.WriteString("(")
		w.node(n)
		w.WriteString(")")
	}
}

func (w *writer) args(list []Node) {
	w.WriteString("(")
	w.list(list)
	w.WriteString(")")
}

func (w *writer) list(list []Node) {
	for i := range list {
		if i > 0 {
			w.WriteString(", ")
		}
		w.node(list[i])
	}
}

func (w *writer) newline() {
	w.WriteString("\n")
	w.WriteString(strings.Repeat("\t", w.level))
}

func isExpression(n Node) bool {
	switch n.(type) {
	case Literal[float64], Literal[string], Identifier, Array, Object,
		Binary, Compare, Logical, Unary, Assignment, Call, Member:
		return true
	default:
		return false
	}
}
