package machan

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/midbel/machan/env"
)

func TestBuiltinsPure(t *testing.T) {
	tests := []struct {
		Input string
		Want  any
	}{
		{Input: "array_length([1, 2, 3]);", Want: 3.0},
		{Input: "ithu a = [1] aanu array_push(a, 2, 3); a;", Want: []any{1.0, 2.0, 3.0}},
		{Input: "ithu a = [1] aanu array_push(a, 2);", Want: 2.0},
		{Input: "array_pop([1, 2]);", Want: 2.0},
		{Input: "array_pop([]);", Want: nil},
		{Input: "array_join([1, \"a\", true]);", Want: "1,a,true"},
		{Input: "array_join([1, 2], \" - \");", Want: "1 - 2"},
		{Input: "array_slice([1, 2, 3, 4], 1, 3);", Want: []any{2.0, 3.0}},
		{Input: "array_slice([1, 2, 3, 4], -2);", Want: []any{3.0, 4.0}},
		{Input: "array_slice([1, 2, 3], 2, 1);", Want: []any{}},
		{Input: "string_length(\"machan\");", Want: 6.0},
		{Input: "string_substring(\"machane\", 1, 4);", Want: "ach"},
		{Input: "string_substring(\"machane\", 4, 1);", Want: "ach"},
		{Input: "string_substring(\"abc\", -1);", Want: "abc"},
		{Input: "string_upper(\"abc\");", Want: "ABC"},
		{Input: "string_lower(\"ABC\");", Want: "abc"},
		{Input: "string_split(\"a,b,c\", \",\");", Want: []any{"a", "b", "c"}},
		{Input: "object_keys({b: 1, a: 2});", Want: []any{"b", "a"}},
		{Input: "object_values({b: 1, a: 2});", Want: []any{1.0, 2.0}},
		{Input: "object_has({a: 1}, \"a\");", Want: true},
		{Input: "object_has({a: 1}, \"b\");", Want: false},
		{Input: "sqrt(16);", Want: 4.0},
		{Input: "abs(-3);", Want: 3.0},
		{Input: "round(2.5);", Want: 3.0},
		{Input: "round(-2.5);", Want: -2.0},
		{Input: "floor(2.7);", Want: 2.0},
		{Input: "ceil(2.1);", Want: 3.0},
		{Input: "power(2, 10);", Want: 1024.0},
		{Input: "number_ano(1);", Want: true},
		{Input: "string_ano(1);", Want: false},
		{Input: "array_ano([]);", Want: true},
		{Input: "object_ano({});", Want: true},
	}
	for _, c := range tests {
		v, rec, _ := execute(t, c.Input)
		if got := v.Raw(); !reflect.DeepEqual(got, c.Want) {
			t.Errorf("%s: want %v, got %v", c.Input, c.Want, got)
		}
		if len(rec.reports) > 0 {
			t.Errorf("%s: unexpected reports %v", c.Input, rec.reports)
		}
	}
}

func TestBuiltinsReported(t *testing.T) {
	tests := []struct {
		Input string
		Want  error
	}{
		{Input: "string_length(1);", Want: ErrType},
		{Input: "array_push(1, 2);", Want: ErrType},
		{Input: "object_keys([]);", Want: ErrType},
		{Input: "sqrt(\"4\");", Want: ErrType},
		{Input: "array_length();", Want: ErrArgument},
		{Input: "power(1);", Want: ErrArgument},
		{Input: "string_split(\"a\");", Want: ErrArgument},
		{Input: "veluthu(1, 2);", Want: ErrArgument},
		{Input: "veluthu(x);", Want: ErrArgument},
		{Input: "cheruthu(\"a\", \"b\", out);", Want: ErrArgument},
		{Input: "fact(-1);", Want: ErrArgument},
		{Input: "fact(2.5);", Want: ErrArgument},
		{Input: "random(5, 1);", Want: ErrArgument},
		{Input: "random(1);", Want: ErrArgument},
		{Input: "random(0, power(10, 30), r);", Want: ErrArgument},
		{Input: "random(0, power(10, 400), r);", Want: ErrArgument},
		{Input: "random(-power(10, 400), 1);", Want: ErrArgument},
		{Input: "random(sqrt(-1), 1);", Want: ErrArgument},
		{Input: "orangu(-1);", Want: ErrArgument},
		{Input: "input_eduku(1);", Want: ErrArgument},
		{Input: "input_eduku(line);", Want: ErrIO},
		{Input: "vayiku(\"missing.txt\");", Want: ErrIO},
		{Input: "vayiku(1);", Want: ErrType},
		{Input: "ezhuthu(\"out.txt\");", Want: ErrArgument},
	}
	for _, c := range tests {
		v, rec, _ := execute(t, c.Input)
		if v != Null {
			t.Errorf("%s: want null, got %v", c.Input, v)
		}
		if !rec.reported(c.Want) {
			t.Errorf("%s: expected %v to be reported, got %v", c.Input, c.Want, rec.reports)
		}
	}
}

func TestBuiltinsPara(t *testing.T) {
	v, rec, _ := execute(t, "para(\"a\", 1, true, [1, 2], {x: 1}, null); para();")
	if v != Null {
		t.Errorf("para should give null, got %v", v)
	}
	want := []string{"a1true[1, 2]{x: 1}null", ""}
	if !reflect.DeepEqual(rec.out, want) {
		t.Errorf("output mismatched: want %q, got %q", want, rec.out)
	}
}

func TestBuiltinsEvaluateOnce(t *testing.T) {
	src := `
ithu n = 0 aanu
machane pani inc() {
	n++;
	return n;
}
para(inc());
ithu p = para aanu
p(inc());
array_length([inc()]);
n;
`
	v, rec, _ := execute(t, src)
	if v.Raw() != 3.0 {
		t.Errorf("arguments should be evaluated once, n = %v", v)
	}
	if want := []string{"1", "2"}; !reflect.DeepEqual(rec.out, want) {
		t.Errorf("output mismatched: want %q, got %q", want, rec.out)
	}
}

func TestBuiltinsExtreme(t *testing.T) {
	v, rec, in := execute(t, "veluthu(3, 7, \"result\");")
	if v.Raw() != 7.0 {
		t.Errorf("veluthu: want 7, got %v", v)
	}
	if got := lookup(t, in, "result").Raw(); got != 7.0 {
		t.Errorf("result: want 7, got %v", got)
	}
	if len(rec.out) > 0 {
		t.Errorf("veluthu should not print, got %v", rec.out)
	}

	_, _, in = execute(t, "cheruthu([4, 2, 9], 5, \"ignored\", small);")
	if got := lookup(t, in, "small").Raw(); got != 2.0 {
		t.Errorf("small: want 2, got %v", got)
	}

	_, err := New(record()).Run("ithu big = 1 aanu veluthu(1, 2, big);")
	if !errors.Is(err, env.ErrDeclared) {
		t.Errorf("declaring an existing variable should fail, got %v", err)
	}
}

func TestBuiltinsFact(t *testing.T) {
	v, rec, _ := execute(t, "fact(5);")
	if v.Raw() != 120.0 {
		t.Errorf("fact: want 120, got %v", v)
	}
	if want := []string{"120"}; !reflect.DeepEqual(rec.out, want) {
		t.Errorf("fact without name should print, got %v", rec.out)
	}
	_, rec, in := execute(t, "fact(0, f);")
	if got := lookup(t, in, "f").Raw(); got != 1.0 {
		t.Errorf("f: want 1, got %v", got)
	}
	if len(rec.out) > 0 {
		t.Errorf("fact with name should not print, got %v", rec.out)
	}

	_, rec, in = execute(t, "fact(170, small); fact(1e10, big); fact(1e10);")
	if got := lookup(t, in, "small").Raw().(float64); math.IsInf(got, 0) {
		t.Errorf("fact(170) should be finite")
	}
	if got := lookup(t, in, "big").Raw(); got != math.Inf(1) {
		t.Errorf("big: want +Inf, got %v", got)
	}
	if want := []string{"Infinity"}; !reflect.DeepEqual(rec.out, want) {
		t.Errorf("fact(1e10): want %q, got %q", want, rec.out)
	}
}

func TestBuiltinsInfinity(t *testing.T) {
	_, rec, _ := execute(t, "para(power(10, 400), \" \", -power(10, 400), \" \", sqrt(-1));")
	if want := []string{"Infinity -Infinity NaN"}; !reflect.DeepEqual(rec.out, want) {
		t.Errorf("want %q, got %q", want, rec.out)
	}
}

func TestBuiltinsKeywordCase(t *testing.T) {
	_, rec, in := execute(t, "ithu r = RANDOM(2, 2) aanu ithu p = Para aanu p(r); PARA(\"x\");")
	if got := lookup(t, in, "r").Raw(); got != 2.0 {
		t.Errorf("r: want 2, got %v", got)
	}
	if want := []string{"2", "2", "x"}; !reflect.DeepEqual(rec.out, want) {
		t.Errorf("want %q, got %q", want, rec.out)
	}
	if len(rec.reports) > 0 {
		t.Errorf("unexpected reports %v", rec.reports)
	}
}

func TestBuiltinsRandom(t *testing.T) {
	for i := 0; i < 50; i++ {
		_, _, in := execute(t, "random(1, 6, r);")
		n, ok := lookup(t, in, "r").Raw().(float64)
		if !ok || n < 1 || n > 6 || n != float64(int(n)) {
			t.Fatalf("r: want integer in [1, 6], got %v", n)
		}
	}
	v, rec, _ := execute(t, "random(2.5, 3.5);")
	if v.Raw() != 3.0 {
		t.Errorf("random: want 3, got %v", v)
	}
	if want := []string{"3"}; !reflect.DeepEqual(rec.out, want) {
		t.Errorf("random without name should print, got %v", rec.out)
	}
}

func TestBuiltinsDate(t *testing.T) {
	_, rec, in := execute(t, "inathe_date(); inathe_date(true, now);")
	if want := []string{"10/19/2026"}; !reflect.DeepEqual(rec.out, want) {
		t.Errorf("date: want %q, got %q", want, rec.out)
	}
	if got := lookup(t, in, "now").Raw(); got != "10/19/2026, 3:04:05 PM" {
		t.Errorf("now: unexpected date time %v", got)
	}
}

func TestBuiltinsInput(t *testing.T) {
	rec := record()
	rec.lines = []string{"[1, two, 3]", "42", "hello world", "[]"}
	in := New(rec)
	_, err := in.Run(`
input_eduku(list);
input_eduku("num", "number? ");
input_eduku(text);
input_eduku(empty);
`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	tests := map[string]any{
		"list":  []any{1.0, "two", 3.0},
		"num":   42.0,
		"text":  "hello world",
		"empty": []any{},
	}
	for name, want := range tests {
		v, err := in.Globals().Lookup(name)
		if err != nil {
			t.Errorf("%s: %s", name, err)
			continue
		}
		if got := v.Raw(); !reflect.DeepEqual(got, want) {
			t.Errorf("%s: want %v, got %v", name, want, got)
		}
	}
}

func TestBuiltinsFiles(t *testing.T) {
	rec := record()
	rec.files["notes.txt"] = "machane"
	in := New(rec)
	v, err := in.Run(`
vayiku("notes.txt", content);
ezhuthu("copy.txt", content + "!!");
ezhuthu("list.txt", [1, 2]);
vayiku("copy.txt");
`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v.Raw() != "machane!!" {
		t.Errorf("vayiku: want machane!!, got %v", v)
	}
	if got := rec.files["list.txt"]; got != "[1, 2]" {
		t.Errorf("list.txt: unexpected content %q", got)
	}
	if got := lookup(t, in, "content").Raw(); got != "machane" {
		t.Errorf("content: unexpected value %v", got)
	}
}

func TestBuiltinsSleep(t *testing.T) {
	v, rec, _ := execute(t, "orangu(250); orangu(1.5);")
	if v != Null {
		t.Errorf("orangu should give null, got %v", v)
	}
	want := []time.Duration{250 * time.Millisecond, 1500 * time.Microsecond}
	if !reflect.DeepEqual(rec.slept, want) {
		t.Errorf("slept: want %v, got %v", want, rec.slept)
	}
}

func TestRegistry(t *testing.T) {
	rec := record()
	reg := NewRegistry(rec)
	v, err := reg.Call("nope", nil, Enclosed(nil), nil)
	if err != nil {
		t.Fatalf("unknown native should not fail: %s", err)
	}
	if v != Null || !rec.reported(ErrUnknown) {
		t.Errorf("unknown native should be reported, got %v", rec.reports)
	}

	names := reg.Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("names should be sorted")
	}
	for _, n := range []string{"para", "veluthu", "input_eduku", "array_push", "object_ano"} {
		if i := sort.SearchStrings(names, n); i >= len(names) || names[i] != n {
			t.Errorf("%s: native not registered", n)
		}
	}

	in := New(rec)
	for _, n := range names {
		if !in.Globals().IsConst(n) {
			t.Errorf("%s: native should be bound as a constant", n)
		}
	}
}

func TestRegistryRaisedErrors(t *testing.T) {
	_, err := New(record()).Run("para(1 / 0);")
	if !errors.Is(err, ErrZero) {
		t.Errorf("errors raised by arguments should propagate, got %v", err)
	}
}
