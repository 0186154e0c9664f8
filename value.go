package machan

import (
	"math"
	"strconv"
	"strings"
)

type Value interface {
	Type() string
	String() string
	Raw() any
}

var Null Value = null{}

func CreateFloat(f float64) Value {
	return real{value: f}
}

func CreateString(str string) Value {
	return varchar{value: str}
}

func CreateBool(b bool) Value {
	return boolean{value: b}
}

func CreateArray(list []Value) Value {
	return &array{values: list}
}

func CreateObject() Value {
	return &object{
		fields: make(map[string]Value),
	}
}

type null struct{}

func (null) Type() string   { return "null" }
func (null) String() string { return "null" }
func (null) Raw() any       { return nil }

type real struct {
	value float64
}

func (real) Type() string { return "number" }

func (f real) String() string {
	switch {
	case math.IsInf(f.value, 1):
		return "Infinity"
	case math.IsInf(f.value, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

func (f real) Raw() any {
	return f.value
}

func (f real) isInt() bool {
	return f.value == math.Trunc(f.value) && !math.IsInf(f.value, 0)
}

type boolean struct {
	value bool
}

func (boolean) Type() string { return "boolean" }

func (b boolean) String() string {
	return strconv.FormatBool(b.value)
}

func (b boolean) Raw() any {
	return b.value
}

type varchar struct {
	value string
}

func (varchar) Type() string { return "string" }

func (s varchar) String() string {
	return s.value
}

func (s varchar) Raw() any {
	return s.value
}

type array struct {
	values []Value
}

func (*array) Type() string { return "array" }

func (a *array) String() string {
	list := make([]string, len(a.values))
	for i := range a.values {
		list[i] = a.values[i].String()
	}
	return "[" + strings.Join(list, ", ") + "]"
}

func (a *array) Raw() any {
	list := make([]any, len(a.values))
	for i := range a.values {
		list[i] = a.values[i].Raw()
	}
	return list
}

func (a *array) At(ix int) (Value, bool) {
	if ix < 0 || ix >= len(a.values) {
		return nil, false
	}
	return a.values[ix], true
}

func (a *array) Len() int {
	return len(a.values)
}

// object keeps its keys in insertion order so that printing and key listing
// are stable.
type object struct {
	keys   []string
	fields map[string]Value
}

func (*object) Type() string { return "object" }

func (o *object) String() string {
	list := make([]string, len(o.keys))
	for i, k := range o.keys {
		list[i] = k + ": " + o.fields[k].String()
	}
	return "{" + strings.Join(list, ", ") + "}"
}

func (o *object) Raw() any {
	m := make(map[string]any)
	for k, v := range o.fields {
		m[k] = v.Raw()
	}
	return m
}

func (o *object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

func (o *object) Set(key string, value Value) {
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = value
}

type function struct {
	ident  string
	params []string
	body   Block
	env    *Env
}

func (*function) Type() string { return "function" }

func (f *function) String() string {
	return "pani " + f.ident + "(" + strings.Join(f.params, ", ") + ")"
}

func (f *function) Raw() any {
	return f.ident
}

type native struct {
	ident string
}

func (native) Type() string { return "native-function" }

func (n native) String() string {
	return "native " + n.ident
}

func (n native) Raw() any {
	return n.ident
}

// signal values unwinding blocks up to the nearest loop, switch or call.

type returnValue struct {
	Value
}

type breakValue struct {
	null
}

type continueValue struct {
	null
}

func isSignal(v Value) bool {
	switch v.(type) {
	case returnValue, breakValue, continueValue:
		return true
	default:
		return false
	}
}

func isTrue(v Value) bool {
	switch v := v.(type) {
	case boolean:
		return v.value
	case real:
		return v.value != 0 && !math.IsNaN(v.value)
	case varchar:
		return v.value != ""
	case null:
		return false
	default:
		return true
	}
}

// equal compares primitive values. Compound values are only equal to
// themselves.
func equal(left, right Value) bool {
	switch x := left.(type) {
	case real:
		y, ok := right.(real)
		return ok && x.value == y.value
	case varchar:
		y, ok := right.(varchar)
		return ok && x.value == y.value
	case boolean:
		y, ok := right.(boolean)
		return ok && x.value == y.value
	case null:
		_, ok := right.(null)
		return ok
	default:
		return left == right
	}
}
