package machan

import (
	"fmt"
	"strings"
)

const (
	EOF rune = -(iota + 1)
	Ident
	Undefined
	Number
	String
	// keywords
	Machane
	Ithu
	Aanu
	Const
	Para
	Veluthu
	Cheruthu
	Ipo
	Anengi
	Alengi
	Avane
	Vare
	Enit
	InputEduku
	KwWhile
	KwFor
	KwSwitch
	OnnumAlengi
	InatheDate
	Vayiku
	Ezhuthu
	Random
	Fact
	Orangu
	KwBreak
	KwContinue
	Pani
	KwReturn
	KwTry
	Cheyu
	Pidiku
	// operators and punctuation
	And
	Or
	Eq
	Ne
	Le
	Ge
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
	Incr
	Decr
	Add
	Sub
	Mul
	Div
	Mod
	Assign
	Lt
	Gt
	Not
	Lparen
	Rparen
	Lbrace
	Rbrace
	Lsquare
	Rsquare
	Semicolon
	Colon
	Comma
	Dot
)

var keywords = map[string]rune{
	"machane":      Machane,
	"ithu":         Ithu,
	"aanu":         Aanu,
	"const":        Const,
	"para":         Para,
	"veluthu":      Veluthu,
	"cheruthu":     Cheruthu,
	"ipo":          Ipo,
	"anengi":       Anengi,
	"alengi":       Alengi,
	"avane":        Avane,
	"vare":         Vare,
	"enit":         Enit,
	"input_eduku":  InputEduku,
	"while":        KwWhile,
	"for":          KwFor,
	"switch":       KwSwitch,
	"onnum_alengi": OnnumAlengi,
	"inathe_date":  InatheDate,
	"vayiku":       Vayiku,
	"ezhuthu":      Ezhuthu,
	"random":       Random,
	"fact":         Fact,
	"orangu":       Orangu,
	"break":        KwBreak,
	"continue":     KwContinue,
	"pani":         Pani,
	"return":       KwReturn,
	"try":          KwTry,
	"cheyu":        Cheyu,
	"pidiku":       Pidiku,
}

var operators = map[string]rune{
	"&&": And,
	"||": Or,
	"==": Eq,
	"!=": Ne,
	"<=": Le,
	">=": Ge,
	"+=": AddAssign,
	"-=": SubAssign,
	"*=": MulAssign,
	"/=": DivAssign,
	"%=": ModAssign,
	"++": Incr,
	"--": Decr,
	"+":  Add,
	"-":  Sub,
	"*":  Mul,
	"/":  Div,
	"%":  Mod,
	"=":  Assign,
	"<":  Lt,
	">":  Gt,
	"!":  Not,
	"(":  Lparen,
	")":  Rparen,
	"{":  Lbrace,
	"}":  Rbrace,
	"[":  Lsquare,
	"]":  Rsquare,
	";":  Semicolon,
	":":  Colon,
	",":  Comma,
	".":  Dot,
}

// natives are the keywords introducing a native function call statement.
var natives = []rune{
	Para,
	Veluthu,
	Cheruthu,
	InputEduku,
	InatheDate,
	Vayiku,
	Ezhuthu,
	Random,
	Fact,
	Orangu,
}

func isNative(r rune) bool {
	for i := range natives {
		if natives[i] == r {
			return true
		}
	}
	return false
}

func lookupKeyword(str string) (rune, bool) {
	r, ok := keywords[strings.ToLower(str)]
	return r, ok
}

type Position struct {
	Line   int
	Column int
}

func (p Position) Pos() Position {
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Type    rune
	Literal string
	Position
}

func (t Token) String() string {
	var prefix string
	switch t.Type {
	case EOF:
		return "<eof>"
	case Ident:
		prefix = "identifier"
	case Undefined:
		return "<undefined>"
	case Number:
		prefix = "number"
	case String:
		prefix = "string"
	default:
		if isKeywordType(t.Type) {
			prefix = "keyword"
		} else if str := operatorText(t.Type); str != "" {
			return fmt.Sprintf("<%s>", str)
		} else {
			prefix = "unknown"
		}
	}
	return fmt.Sprintf("%s(%s)", prefix, t.Literal)
}

func isKeywordType(r rune) bool {
	return r <= Machane && r >= Pidiku
}

// TypeName gives a readable name for a token type, used in parse errors.
func TypeName(r rune) string {
	switch r {
	case EOF:
		return "End of File"
	case Ident:
		return "identifier"
	case Undefined:
		return "undefined"
	case Number:
		return "number"
	case String:
		return "string"
	}
	for k, v := range keywords {
		if v == r {
			return fmt.Sprintf("'%s'", k)
		}
	}
	if str := operatorText(r); str != "" {
		return fmt.Sprintf("'%s'", str)
	}
	return "unknown"
}

func operatorText(r rune) string {
	for k, v := range operators {
		if v == r {
			return k
		}
	}
	return ""
}
