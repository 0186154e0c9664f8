package machan

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		Input string
		Want  []Token
	}{
		{
			Input: "ithu x = 5 aanu;",
			Want: []Token{
				{Type: Ithu, Literal: "ithu"},
				{Type: Ident, Literal: "x"},
				{Type: Assign, Literal: "="},
				{Type: Number, Literal: "5"},
				{Type: Aanu, Literal: "aanu"},
				{Type: Semicolon, Literal: ";"},
			},
		},
		{
			Input: `"hello world" 'it\'s'`,
			Want: []Token{
				{Type: String, Literal: "hello world"},
				{Type: String, Literal: `it\'s`},
			},
		},
		{
			Input: "a += 1.5 // trailing comment",
			Want: []Token{
				{Type: Ident, Literal: "a"},
				{Type: AddAssign, Literal: "+="},
				{Type: Number, Literal: "1.5"},
			},
		},
		{
			Input: "/* block\ncomment */ x++ y--",
			Want: []Token{
				{Type: Ident, Literal: "x"},
				{Type: Incr, Literal: "++"},
				{Type: Ident, Literal: "y"},
				{Type: Decr, Literal: "--"},
			},
		},
		{
			Input: "ITHU Machane ONNUM_ALENGI",
			Want: []Token{
				{Type: Ithu, Literal: "ITHU"},
				{Type: Machane, Literal: "Machane"},
				{Type: OnnumAlengi, Literal: "ONNUM_ALENGI"},
			},
		},
		{
			Input: "while for switch break continue return try",
			Want: []Token{
				{Type: KwWhile, Literal: "while"},
				{Type: KwFor, Literal: "for"},
				{Type: KwSwitch, Literal: "switch"},
				{Type: KwBreak, Literal: "break"},
				{Type: KwContinue, Literal: "continue"},
				{Type: KwReturn, Literal: "return"},
				{Type: KwTry, Literal: "try"},
			},
		},
		{
			Input: "undefined _x1 9abc",
			Want: []Token{
				{Type: Undefined, Literal: "undefined"},
				{Type: Ident, Literal: "_x1"},
				{Type: Ident, Literal: "9abc"},
			},
		},
		{
			Input: `"unterminated`,
			Want: []Token{
				{Type: Ident, Literal: `"unterminated`},
			},
		},
		{
			Input: "a && b || !c",
			Want: []Token{
				{Type: Ident, Literal: "a"},
				{Type: And, Literal: "&&"},
				{Type: Ident, Literal: "b"},
				{Type: Or, Literal: "||"},
				{Type: Not, Literal: "!"},
				{Type: Ident, Literal: "c"},
			},
		},
		{
			Input: "a&&b",
			Want: []Token{
				{Type: Ident, Literal: "a&&b"},
			},
		},
		{
			Input: "x[0].y",
			Want: []Token{
				{Type: Ident, Literal: "x"},
				{Type: Lsquare, Literal: "["},
				{Type: Number, Literal: "0"},
				{Type: Rsquare, Literal: "]"},
				{Type: Dot, Literal: "."},
				{Type: Ident, Literal: "y"},
			},
		},
		{
			Input: "<= >= == != < > %= -=",
			Want: []Token{
				{Type: Le, Literal: "<="},
				{Type: Ge, Literal: ">="},
				{Type: Eq, Literal: "=="},
				{Type: Ne, Literal: "!="},
				{Type: Lt, Literal: "<"},
				{Type: Gt, Literal: ">"},
				{Type: ModAssign, Literal: "%="},
				{Type: SubAssign, Literal: "-="},
			},
		},
		{
			Input: "/* unterminated",
			Want: []Token{
				{Type: Div, Literal: "/"},
				{Type: Mul, Literal: "*"},
				{Type: Ident, Literal: "unterminated"},
			},
		},
	}
	for _, c := range tests {
		list := Tokenize(c.Input)
		got := make([]Token, 0, len(list))
		for _, tok := range list {
			if tok.Type == EOF {
				continue
			}
			tok.Position = Position{}
			got = append(got, tok)
		}
		if !reflect.DeepEqual(got, c.Want) {
			t.Errorf("%s: tokens mismatched", c.Input)
			t.Logf("want: %v", c.Want)
			t.Logf("got:  %v", got)
		}
	}
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	tests := []string{
		"",
		"   \n\t",
		"// only a comment",
		"/*",
		`"`,
		"'abc\n'",
		"\x00",
		"machane (true) avane vare { para(1); }",
	}
	for _, str := range tests {
		list := Tokenize(str)
		var count int
		for _, tok := range list {
			if tok.Type == EOF {
				count++
			}
		}
		if count != 1 || list[len(list)-1].Type != EOF {
			t.Errorf("%q: expected a single trailing EOF, got %v", str, list)
		}
	}
}

func TestTokenizePosition(t *testing.T) {
	list := Tokenize("ithu x = 1 aanu\n  para(x);")
	var found bool
	for _, tok := range list {
		if tok.Type != Para {
			continue
		}
		found = true
		want := Position{Line: 2, Column: 3}
		if tok.Position != want {
			t.Errorf("para: want position %s, got %s", want, tok.Position)
		}
	}
	if !found {
		t.Fatalf("para keyword not found")
	}
}
