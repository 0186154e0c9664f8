package machan

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

func arrayPush(args []Node, env *Env, eval Evaluator) (Value, error) {
	arr, rest, err := arrayArgs(args, env, eval, 2, -1)
	if err != nil {
		return nil, err
	}
	arr.values = append(arr.values, rest...)
	return CreateFloat(float64(arr.Len())), nil
}

func arrayPop(args []Node, env *Env, eval Evaluator) (Value, error) {
	arr, _, err := arrayArgs(args, env, eval, 1, 1)
	if err != nil {
		return nil, err
	}
	if arr.Len() == 0 {
		return Null, nil
	}
	last := arr.values[arr.Len()-1]
	arr.values = arr.values[:arr.Len()-1]
	return last, nil
}

func arrayLength(args []Node, env *Env, eval Evaluator) (Value, error) {
	arr, _, err := arrayArgs(args, env, eval, 1, 1)
	if err != nil {
		return nil, err
	}
	return CreateFloat(float64(arr.Len())), nil
}

func arrayJoin(args []Node, env *Env, eval Evaluator) (Value, error) {
	arr, rest, err := arrayArgs(args, env, eval, 1, 2)
	if err != nil {
		return nil, err
	}
	sep := ","
	if len(rest) > 0 {
		if sep, err = toString(rest[0]); err != nil {
			return nil, err
		}
	}
	list := make([]string, arr.Len())
	for i, v := range arr.values {
		list[i] = v.String()
	}
	return CreateString(strings.Join(list, sep)), nil
}

func arraySlice(args []Node, env *Env, eval Evaluator) (Value, error) {
	arr, rest, err := arrayArgs(args, env, eval, 1, 3)
	if err != nil {
		return nil, err
	}
	beg, end, err := bounds(rest, arr.Len(), true)
	if err != nil {
		return nil, err
	}
	list := make([]Value, 0, end-beg)
	list = append(list, arr.values[beg:end]...)
	return CreateArray(list), nil
}

func stringLength(args []Node, env *Env, eval Evaluator) (Value, error) {
	str, _, err := stringArgs(args, env, eval, 1, 1)
	if err != nil {
		return nil, err
	}
	return CreateFloat(float64(utf8.RuneCountInString(str))), nil
}

func stringSubstring(args []Node, env *Env, eval Evaluator) (Value, error) {
	str, rest, err := stringArgs(args, env, eval, 2, 3)
	if err != nil {
		return nil, err
	}
	chars := []rune(str)
	beg, end, err := bounds(rest, len(chars), false)
	if err != nil {
		return nil, err
	}
	return CreateString(string(chars[beg:end])), nil
}

func stringMap(fn func(string) string) NativeFunc {
	return func(args []Node, env *Env, eval Evaluator) (Value, error) {
		str, _, err := stringArgs(args, env, eval, 1, 1)
		if err != nil {
			return nil, err
		}
		return CreateString(fn(str)), nil
	}
}

func stringSplit(args []Node, env *Env, eval Evaluator) (Value, error) {
	str, rest, err := stringArgs(args, env, eval, 2, 2)
	if err != nil {
		return nil, err
	}
	sep, err := toString(rest[0])
	if err != nil {
		return nil, err
	}
	parts := strings.Split(str, sep)
	list := make([]Value, len(parts))
	for i := range parts {
		list[i] = CreateString(parts[i])
	}
	return CreateArray(list), nil
}

func objectKeys(args []Node, env *Env, eval Evaluator) (Value, error) {
	obj, _, err := objectArgs(args, env, eval, 1, 1)
	if err != nil {
		return nil, err
	}
	list := make([]Value, len(obj.keys))
	for i, k := range obj.keys {
		list[i] = CreateString(k)
	}
	return CreateArray(list), nil
}

func objectValues(args []Node, env *Env, eval Evaluator) (Value, error) {
	obj, _, err := objectArgs(args, env, eval, 1, 1)
	if err != nil {
		return nil, err
	}
	list := make([]Value, len(obj.keys))
	for i, k := range obj.keys {
		list[i] = obj.fields[k]
	}
	return CreateArray(list), nil
}

func objectHas(args []Node, env *Env, eval Evaluator) (Value, error) {
	obj, rest, err := objectArgs(args, env, eval, 2, 2)
	if err != nil {
		return nil, err
	}
	_, ok := obj.Get(rest[0].String())
	return CreateBool(ok), nil
}

func mathFunc(fn func(float64) float64) NativeFunc {
	return func(args []Node, env *Env, eval Evaluator) (Value, error) {
		list, err := numberArgs(args, env, eval, 1)
		if err != nil {
			return nil, err
		}
		return CreateFloat(fn(list[0])), nil
	}
}

func power(args []Node, env *Env, eval Evaluator) (Value, error) {
	list, err := numberArgs(args, env, eval, 2)
	if err != nil {
		return nil, err
	}
	return CreateFloat(math.Pow(list[0], list[1])), nil
}

func round(f float64) float64 {
	return math.Floor(f + 0.5)
}

func isType(kind string) NativeFunc {
	return func(args []Node, env *Env, eval Evaluator) (Value, error) {
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		v, err := eval(args[0], env)
		if err != nil {
			return nil, err
		}
		return CreateBool(v.Type() == kind), nil
	}
}

func arrayArgs(args []Node, env *Env, eval Evaluator, min, max int) (*array, []Value, error) {
	values, err := checkArgs(args, env, eval, min, max)
	if err != nil {
		return nil, nil, err
	}
	arr, ok := values[0].(*array)
	if !ok {
		return nil, nil, expected("array", values[0])
	}
	return arr, values[1:], nil
}

func stringArgs(args []Node, env *Env, eval Evaluator, min, max int) (string, []Value, error) {
	values, err := checkArgs(args, env, eval, min, max)
	if err != nil {
		return "", nil, err
	}
	str, err := toString(values[0])
	return str, values[1:], err
}

func objectArgs(args []Node, env *Env, eval Evaluator, min, max int) (*object, []Value, error) {
	values, err := checkArgs(args, env, eval, min, max)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := values[0].(*object)
	if !ok {
		return nil, nil, expected("object", values[0])
	}
	return obj, values[1:], nil
}

func numberArgs(args []Node, env *Env, eval Evaluator, count int) ([]float64, error) {
	values, err := checkArgs(args, env, eval, count, count)
	if err != nil {
		return nil, err
	}
	list := make([]float64, len(values))
	for i := range values {
		if list[i], err = toFloat(values[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func checkArgs(args []Node, env *Env, eval Evaluator, min, max int) ([]Value, error) {
	if err := arity(args, min, max); err != nil {
		return nil, err
	}
	return evalArgs(args, env, eval)
}

// bounds computes the range selected by optional start and end arguments.
// With negative set, negative positions count from the end; otherwise they
// are clamped to zero and swapped when start is after end.
func bounds(rest []Value, size int, negative bool) (int, int, error) {
	pos := []int{0, size}
	for i := 0; i < len(rest) && i < len(pos); i++ {
		f, err := toFloat(rest[i])
		if err != nil {
			return 0, 0, err
		}
		n := int(math.Trunc(f))
		if negative && n < 0 {
			n += size
		}
		pos[i] = max(0, min(n, size))
	}
	beg, end := pos[0], pos[1]
	if beg > end {
		if negative {
			end = beg
		} else {
			beg, end = end, beg
		}
	}
	return beg, end, nil
}

func toFloat(v Value) (float64, error) {
	f, ok := v.(real)
	if !ok {
		return 0, expected("number", v)
	}
	return f.value, nil
}

func toString(v Value) (string, error) {
	s, ok := v.(varchar)
	if !ok {
		return "", expected("string", v)
	}
	return s.value, nil
}

func expected(kind string, v Value) error {
	return fmt.Errorf("%s expected, got %s: %w", kind, v.Type(), ErrType)
}
