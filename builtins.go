package machan

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/midbel/machan/host"
)

type Evaluator func(Node, *Env) (Value, error)

// NativeFunc receives its arguments unevaluated. It decides which of them to
// evaluate with the given Evaluator.
type NativeFunc func([]Node, *Env, Evaluator) (Value, error)

type Registry struct {
	host  host.Host
	funcs map[string]NativeFunc
}

func NewRegistry(h host.Host) *Registry {
	r := Registry{
		host: h,
	}
	r.funcs = map[string]NativeFunc{
		"para":        r.para,
		"veluthu":     r.extreme(math.Max),
		"cheruthu":    r.extreme(math.Min),
		"input_eduku": r.input,
		"inathe_date": r.date,
		"vayiku":      r.readFile,
		"ezhuthu":     r.writeFile,
		"random":      r.random,
		"fact":        r.fact,
		"orangu":      r.sleep,

		"array_push":   arrayPush,
		"array_pop":    arrayPop,
		"array_length": arrayLength,
		"array_join":   arrayJoin,
		"array_slice":  arraySlice,

		"string_length":    stringLength,
		"string_substring": stringSubstring,
		"string_upper":     stringMap(strings.ToUpper),
		"string_lower":     stringMap(strings.ToLower),
		"string_split":     stringSplit,

		"object_keys":   objectKeys,
		"object_values": objectValues,
		"object_has":    objectHas,

		"sqrt":  mathFunc(math.Sqrt),
		"abs":   mathFunc(math.Abs),
		"round": mathFunc(round),
		"floor": mathFunc(math.Floor),
		"ceil":  mathFunc(math.Ceil),
		"power": power,

		"number_ano": isType("number"),
		"string_ano": isType("string"),
		"array_ano":  isType("array"),
		"object_ano": isType("object"),
	}
	return &r
}

func (r *Registry) Names() []string {
	list := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		list = append(list, n)
	}
	sort.Strings(list)
	return list
}

// Call runs the native function registered under name. Unknown names and
// recoverable failures are reported to the host and give Null.
func (r *Registry) Call(name string, args []Node, env *Env, eval Evaluator) (Value, error) {
	fn, ok := r.funcs[name]
	if !ok {
		r.host.Report(fmt.Errorf("%s: %w", name, ErrUnknown))
		return Null, nil
	}
	v, err := fn(args, env, eval)
	if err != nil && Recoverable(err) {
		r.host.Report(fmt.Errorf("%s: %w", name, err))
		return Null, nil
	}
	return v, err
}

func (r *Registry) para(args []Node, env *Env, eval Evaluator) (Value, error) {
	values, err := evalArgs(args, env, eval)
	if err != nil {
		return nil, err
	}
	var str strings.Builder
	for _, v := range values {
		str.WriteString(v.String())
	}
	r.host.Print(str.String())
	return Null, nil
}

// extreme gives the largest or smallest of the numbers found in its arguments
// and declares it under the name given as last argument.
func (r *Registry) extreme(pick func(float64, float64) float64) NativeFunc {
	return func(args []Node, env *Env, eval Evaluator) (Value, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("at least 2 arguments expected, got %d: %w", len(args), ErrArgument)
		}
		name, ok := outName(args[len(args)-1])
		if !ok {
			return nil, fmt.Errorf("last argument must be a variable name: %w", ErrArgument)
		}
		values, err := evalArgs(args[:len(args)-1], env, eval)
		if err != nil {
			return nil, err
		}
		var list []float64
		for _, v := range values {
			switch x := v.(type) {
			case real:
				list = append(list, x.value)
			case *array:
				for _, e := range x.values {
					if f, ok := e.(real); ok {
						list = append(list, f.value)
					}
				}
			}
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("at least one number expected: %w", ErrArgument)
		}
		res := list[0]
		for _, f := range list[1:] {
			res = pick(res, f)
		}
		return env.Declare(name, CreateFloat(res), false)
	}
}

func (r *Registry) input(args []Node, env *Env, eval Evaluator) (Value, error) {
	if err := arity(args, 1, 2); err != nil {
		return nil, err
	}
	name, ok := outName(args[0])
	if !ok {
		return nil, fmt.Errorf("first argument must be a variable name: %w", ErrArgument)
	}
	var prompt string
	if len(args) > 1 {
		v, err := eval(args[1], env)
		if err != nil {
			return nil, err
		}
		prompt = v.String()
	}
	line, err := r.host.ReadLine(prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return env.Declare(name, parseInput(line), false)
}

func parseInput(line string) Value {
	str := strings.TrimSpace(line)
	if !strings.HasPrefix(str, "[") || !strings.HasSuffix(str, "]") || len(str) < 2 {
		return parseScalar(line)
	}
	str = strings.TrimSpace(str[1 : len(str)-1])
	list := []Value{}
	if str == "" {
		return CreateArray(list)
	}
	for _, s := range strings.Split(str, ",") {
		list = append(list, parseScalar(strings.TrimSpace(s)))
	}
	return CreateArray(list)
}

func parseScalar(str string) Value {
	if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
		return CreateFloat(f)
	}
	return CreateString(str)
}

const (
	dateLayout     = "1/2/2006"
	datetimeLayout = "1/2/2006, 3:04:05 PM"
)

func (r *Registry) date(args []Node, env *Env, eval Evaluator) (Value, error) {
	if err := arity(args, 0, 2); err != nil {
		return nil, err
	}
	layout := dateLayout
	if len(args) > 0 {
		v, err := eval(args[0], env)
		if err != nil {
			return nil, err
		}
		if isTrue(v) {
			layout = datetimeLayout
		}
	}
	str := CreateString(r.host.Now().Format(layout))
	return r.store(args, 1, str, env)
}

func (r *Registry) readFile(args []Node, env *Env, eval Evaluator) (Value, error) {
	if err := arity(args, 1, 2); err != nil {
		return nil, err
	}
	path, err := evalString(args[0], env, eval)
	if err != nil {
		return nil, err
	}
	content, err := r.host.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return r.store(args, 1, CreateString(content), env)
}

func (r *Registry) writeFile(args []Node, env *Env, eval Evaluator) (Value, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	path, err := evalString(args[0], env, eval)
	if err != nil {
		return nil, err
	}
	data, err := eval(args[1], env)
	if err != nil {
		return nil, err
	}
	if err := r.host.WriteFile(path, data.String()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return Null, nil
}

// maxRange is the largest span of integers a float64 holds exactly.
const maxRange = 1 << 53

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (r *Registry) random(args []Node, env *Env, eval Evaluator) (Value, error) {
	if err := arity(args, 2, 3); err != nil {
		return nil, err
	}
	values, err := evalArgs(args[:2], env, eval)
	if err != nil {
		return nil, err
	}
	lo, err := toFloat(values[0])
	if err != nil {
		return nil, err
	}
	hi, err := toFloat(values[1])
	if err != nil {
		return nil, err
	}
	if !finite(lo) || !finite(hi) {
		return nil, fmt.Errorf("finite bounds expected, got [%s, %s]: %w", CreateFloat(lo), CreateFloat(hi), ErrArgument)
	}
	lo, hi = math.Ceil(lo), math.Floor(hi)
	if hi < lo {
		return nil, fmt.Errorf("empty range [%s, %s]: %w", CreateFloat(lo), CreateFloat(hi), ErrArgument)
	}
	if hi-lo >= maxRange {
		return nil, fmt.Errorf("range [%s, %s] too wide: %w", CreateFloat(lo), CreateFloat(hi), ErrArgument)
	}
	n := lo + float64(rand.Int63n(int64(hi-lo)+1))
	return r.store(args, 2, CreateFloat(n), env)
}

func (r *Registry) fact(args []Node, env *Env, eval Evaluator) (Value, error) {
	if err := arity(args, 1, 2); err != nil {
		return nil, err
	}
	v, err := eval(args[0], env)
	if err != nil {
		return nil, err
	}
	n, ok := v.(real)
	if !ok || !n.isInt() || n.value < 0 {
		return nil, fmt.Errorf("non negative integer expected, got %s: %w", v, ErrArgument)
	}
	res := 1.0
	for i := 2.0; i <= n.value && !math.IsInf(res, 1); i++ {
		res *= i
	}
	return r.store(args, 1, CreateFloat(res), env)
}

func (r *Registry) sleep(args []Node, env *Env, eval Evaluator) (Value, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	v, err := eval(args[0], env)
	if err != nil {
		return nil, err
	}
	ms, ok := v.(real)
	if !ok || ms.value < 0 {
		return nil, fmt.Errorf("non negative number of milliseconds expected, got %s: %w", v, ErrArgument)
	}
	r.host.Sleep(time.Duration(ms.value * float64(time.Millisecond)))
	return Null, nil
}

// store declares value under the variable named by args[pos] when present,
// otherwise prints it.
func (r *Registry) store(args []Node, pos int, value Value, env *Env) (Value, error) {
	if pos >= len(args) {
		r.host.Print(value.String())
		return value, nil
	}
	name, ok := outName(args[pos])
	if !ok {
		return nil, fmt.Errorf("argument %d must be a variable name: %w", pos+1, ErrArgument)
	}
	return env.Declare(name, value, false)
}

// outName reads a variable name from an unevaluated argument.
func outName(n Node) (string, bool) {
	switch n := n.(type) {
	case Identifier:
		return n.Name, true
	case Literal[string]:
		return n.Value, n.Value != ""
	default:
		return "", false
	}
}

func evalArgs(args []Node, env *Env, eval Evaluator) ([]Value, error) {
	list := make([]Value, 0, len(args))
	for _, a := range args {
		v, err := eval(a, env)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

func evalString(n Node, env *Env, eval Evaluator) (string, error) {
	v, err := eval(n, env)
	if err != nil {
		return "", err
	}
	return toString(v)
}

func arity(args []Node, min, max int) error {
	if len(args) >= min && (max < 0 || len(args) <= max) {
		return nil
	}
	switch {
	case max < 0:
		return fmt.Errorf("at least %d arguments expected, got %d: %w", min, len(args), ErrArgument)
	case min == max:
		return fmt.Errorf("%d arguments expected, got %d: %w", min, len(args), ErrArgument)
	default:
		return fmt.Errorf("%d to %d arguments expected, got %d: %w", min, max, len(args), ErrArgument)
	}
}
