package machan

import (
	"errors"
	"fmt"
	"math"
)

// Eval evaluates node in env. Errors returned are the raised ones; type
// mismatches and bad accesses are reported to the host and yield Null.
func (i *Interpreter) Eval(node Node, env *Env) (Value, error) {
	switch n := node.(type) {
	case Program:
		return i.evalProgram(n, env)
	case Block:
		return i.evalBlock(n, env)
	case VarDecl:
		return i.evalVar(n, env)
	case FuncDecl:
		return i.evalFunction(n, env)
	case If:
		return i.evalIf(n, env)
	case While:
		return i.evalWhile(n, env)
	case For:
		return i.evalFor(n, env)
	case Switch:
		return i.evalSwitch(n, env)
	case Try:
		return i.evalTry(n, env)
	case Break:
		return breakValue{}, nil
	case Continue:
		return continueValue{}, nil
	case Return:
		return i.evalReturn(n, env)
	case Builtin:
		return i.registry.Call(n.Name, n.Args, env, i.Eval)
	case Literal[float64]:
		return CreateFloat(n.Value), nil
	case Literal[string]:
		return CreateString(n.Value), nil
	case Identifier:
		return env.Lookup(n.Name)
	case Array:
		return i.evalArray(n, env)
	case Object:
		return i.evalObject(n, env)
	case Binary:
		return i.evalBinary(n, env)
	case Compare:
		return i.evalCompare(n, env)
	case Logical:
		return i.evalLogical(n, env)
	case Unary:
		return i.evalUnary(n, env)
	case Assignment:
		return i.evalAssignment(n, env)
	case Call:
		return i.evalCall(n, env)
	case Member:
		return i.evalMember(n, env)
	default:
		return nil, fmt.Errorf("%T: %w", node, ErrNode)
	}
}

func (i *Interpreter) evalProgram(p Program, env *Env) (Value, error) {
	res := Null
	for _, n := range p.Body {
		v, err := i.Eval(n, env)
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case returnValue:
			return v.Value, nil
		case breakValue, continueValue:
			i.report(fmt.Errorf("%s: %w", n.Pos(), ErrLoop))
			res = Null
		default:
			res = v
		}
	}
	return res, nil
}

func (i *Interpreter) evalBlock(b Block, env *Env) (Value, error) {
	res := Null
	for _, n := range b.Nodes {
		v, err := i.Eval(n, env)
		if err != nil {
			return nil, err
		}
		if isSignal(v) {
			return v, nil
		}
		res = v
	}
	return res, nil
}

func (i *Interpreter) evalVar(v VarDecl, env *Env) (Value, error) {
	value, err := i.Eval(v.Expr, env)
	if err != nil {
		return nil, err
	}
	return env.Declare(v.Ident, value, v.Const)
}

func (i *Interpreter) evalFunction(f FuncDecl, env *Env) (Value, error) {
	fn := &function{
		ident:  f.Ident,
		params: f.Params,
		body:   f.Body,
		env:    env,
	}
	return env.Declare(f.Ident, fn, true)
}

func (i *Interpreter) evalIf(n If, env *Env) (Value, error) {
	cdt, err := i.Eval(n.Cdt, env)
	if err != nil {
		return nil, err
	}
	b, ok := cdt.(boolean)
	if !ok {
		return i.report(fmt.Errorf("%s: condition must be a boolean, got %s: %w", n.Pos(), cdt.Type(), ErrType))
	}
	if b.value {
		return i.evalBlock(n.Csq, env)
	}
	if n.Alt != nil {
		return i.Eval(n.Alt, env)
	}
	return Null, nil
}

func (i *Interpreter) evalWhile(w While, env *Env) (Value, error) {
	for {
		if err := i.interrupted(); err != nil {
			return nil, err
		}
		ok, err := i.test(w.Cdt, env)
		if err != nil || !ok {
			return Null, err
		}
		res, err := i.evalBlock(w.Body, env)
		if err != nil {
			return nil, err
		}
		switch res.(type) {
		case breakValue:
			return Null, nil
		case returnValue:
			return res, nil
		default:
		}
	}
}

func (i *Interpreter) evalFor(f For, env *Env) (Value, error) {
	if _, err := i.evalVar(f.Init, env); err != nil {
		return nil, err
	}
	for {
		if err := i.interrupted(); err != nil {
			return nil, err
		}
		ok, err := i.test(f.Cdt, env)
		if err != nil || !ok {
			return Null, err
		}
		res, err := i.evalBlock(f.Body, env)
		if err != nil {
			return nil, err
		}
		switch res.(type) {
		case breakValue:
			return Null, nil
		case returnValue:
			return res, nil
		default:
		}
		if _, err := i.Eval(f.Incr, env); err != nil {
			return nil, err
		}
	}
}

// test evaluates a loop condition. A non boolean condition is reported and
// ends the loop.
func (i *Interpreter) test(cdt Node, env *Env) (bool, error) {
	v, err := i.Eval(cdt, env)
	if err != nil {
		return false, err
	}
	b, ok := v.(boolean)
	if !ok {
		i.report(fmt.Errorf("%s: loop condition must be a boolean, got %s: %w", cdt.Pos(), v.Type(), ErrType))
		return false, nil
	}
	return b.value, nil
}

func (i *Interpreter) evalSwitch(s Switch, env *Env) (Value, error) {
	subject, err := i.Eval(s.Cdt, env)
	if err != nil {
		return nil, err
	}
	for _, c := range s.Cases {
		value, err := i.Eval(c.Value, env)
		if err != nil {
			return nil, err
		}
		if equal(subject, value) {
			return i.evalCase(c.Body, env)
		}
	}
	if s.Default != nil {
		return i.evalCase(*s.Default, env)
	}
	return Null, nil
}

func (i *Interpreter) evalCase(b Block, env *Env) (Value, error) {
	res, err := i.evalBlock(b, env)
	if _, ok := res.(breakValue); ok {
		res = Null
	}
	return res, err
}

func (i *Interpreter) evalTry(t Try, env *Env) (Value, error) {
	res, err := i.evalBlock(t.Body, Enclosed(env))
	if err == nil || errors.Is(err, ErrInterrupted) {
		return res, err
	}
	catch := Enclosed(env)
	if _, err := catch.Declare(t.Ident, CreateString(err.Error()), true); err != nil {
		return nil, err
	}
	return i.evalBlock(t.Catch, catch)
}

func (i *Interpreter) evalReturn(r Return, env *Env) (Value, error) {
	if r.Expr == nil {
		return returnValue{Null}, nil
	}
	v, err := i.Eval(r.Expr, env)
	if err != nil {
		return nil, err
	}
	return returnValue{v}, nil
}

func (i *Interpreter) evalArray(a Array, env *Env) (Value, error) {
	list := make([]Value, 0, len(a.Nodes))
	for _, n := range a.Nodes {
		v, err := i.Eval(n, env)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return CreateArray(list), nil
}

func (i *Interpreter) evalObject(o Object, env *Env) (Value, error) {
	obj := CreateObject().(*object)
	for _, p := range o.Props {
		var (
			v   Value
			err error
		)
		if p.Expr == nil {
			v, err = env.Lookup(p.Key)
		} else {
			v, err = i.Eval(p.Expr, env)
		}
		if err != nil {
			return nil, err
		}
		obj.Set(p.Key, v)
	}
	return obj, nil
}

func (i *Interpreter) evalBinary(b Binary, env *Env) (Value, error) {
	left, err := i.Eval(b.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.Eval(b.Right, env)
	if err != nil {
		return nil, err
	}
	x, ok1 := left.(real)
	y, ok2 := right.(real)
	if ok1 && ok2 {
		switch b.Op {
		case Add:
			return CreateFloat(x.value + y.value), nil
		case Sub:
			return CreateFloat(x.value - y.value), nil
		case Mul:
			return CreateFloat(x.value * y.value), nil
		case Div:
			if y.value == 0 {
				return nil, fmt.Errorf("%s: %w", b.Pos(), ErrZero)
			}
			return CreateFloat(x.value / y.value), nil
		case Mod:
			return CreateFloat(math.Mod(x.value, y.value)), nil
		}
	}
	if b.Op == Add {
		return CreateString(left.String() + right.String()), nil
	}
	return i.report(incompatible(b.Pos(), b.Op, left, right))
}

func (i *Interpreter) evalCompare(c Compare, env *Env) (Value, error) {
	left, err := i.Eval(c.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.Eval(c.Right, env)
	if err != nil {
		return nil, err
	}
	x, ok1 := left.(real)
	y, ok2 := right.(real)
	if !ok1 || !ok2 {
		return i.report(incompatible(c.Pos(), c.Op, left, right))
	}
	var res bool
	switch c.Op {
	case Gt:
		res = x.value > y.value
	case Lt:
		res = x.value < y.value
	case Ge:
		res = x.value >= y.value
	case Le:
		res = x.value <= y.value
	case Eq:
		res = x.value == y.value
	case Ne:
		res = x.value != y.value
	}
	return CreateBool(res), nil
}

func (i *Interpreter) evalLogical(g Logical, env *Env) (Value, error) {
	left, err := i.Eval(g.Left, env)
	if err != nil {
		return nil, err
	}
	x, ok1 := left.(boolean)
	if ok1 && g.Op == Or && x.value {
		return CreateBool(true), nil
	}
	if ok1 && g.Op == And && !x.value {
		return CreateBool(false), nil
	}
	right, err := i.Eval(g.Right, env)
	if err != nil {
		return nil, err
	}
	y, ok2 := right.(boolean)
	if !ok1 || !ok2 {
		return i.report(incompatible(g.Pos(), g.Op, left, right))
	}
	if g.Op == Or {
		return CreateBool(x.value || y.value), nil
	}
	return CreateBool(x.value && y.value), nil
}

func (i *Interpreter) evalUnary(u Unary, env *Env) (Value, error) {
	v, err := i.Eval(u.Expr, env)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case boolean:
		if u.Op == Not {
			return CreateBool(!x.value), nil
		}
	case real:
		if u.Op == Sub {
			return CreateFloat(-x.value), nil
		}
	}
	return i.report(fmt.Errorf("%s: operator %s not applicable to %s: %w", u.Pos(), operatorText(u.Op), v.Type(), ErrType))
}

func (i *Interpreter) evalAssignment(a Assignment, env *Env) (Value, error) {
	ident, ok := a.Ident.(Identifier)
	if !ok {
		return nil, fmt.Errorf("%s: %w", a.Pos(), ErrAssign)
	}
	v, err := i.Eval(a.Expr, env)
	if err != nil {
		return nil, err
	}
	return env.Assign(ident.Name, v)
}

func (i *Interpreter) evalMember(m Member, env *Env) (Value, error) {
	target, err := i.Eval(m.Expr, env)
	if err != nil {
		return nil, err
	}
	switch x := target.(type) {
	case *object:
		var key string
		if m.Computed {
			prop, err := i.Eval(m.Prop, env)
			if err != nil {
				return nil, err
			}
			key = prop.String()
		} else if id, ok := m.Prop.(Identifier); ok {
			key = id.Name
		}
		if v, ok := x.Get(key); ok && isTrue(v) {
			return v, nil
		}
		return i.report(fmt.Errorf("%s: property '%s' does not exist in the object: %w", m.Pos(), key, ErrProperty))
	case *array:
		if !m.Computed {
			return i.report(fmt.Errorf("%s: arrays only support computed access: %w", m.Pos(), ErrProperty))
		}
		prop, err := i.Eval(m.Prop, env)
		if err != nil {
			return nil, err
		}
		ix, ok := prop.(real)
		if !ok || !ix.isInt() {
			return i.report(fmt.Errorf("%s: index in array access must be an integer number: %w", m.Pos(), ErrIndex))
		}
		v, ok := x.At(int(ix.value))
		if !ok {
			return i.report(fmt.Errorf("%s: machane array il athrem items ilaloo (%s): %w", m.Pos(), ix, ErrIndex))
		}
		return v, nil
	default:
		return i.report(fmt.Errorf("%s: member access on %s: %w", m.Pos(), target.Type(), ErrType))
	}
}

func (i *Interpreter) evalCall(c Call, env *Env) (Value, error) {
	if id, ok := c.Ident.(Identifier); ok {
		if v, err := env.Lookup(id.Name); err == nil {
			if fn, ok := v.(native); ok {
				return i.registry.Call(fn.ident, c.Args, env, i.Eval)
			}
		}
	}
	args := make([]Value, 0, len(c.Args))
	for _, a := range c.Args {
		v, err := i.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	callee, err := i.Eval(c.Ident, env)
	if err != nil {
		return nil, err
	}
	switch fn := callee.(type) {
	case native:
		return i.registry.Call(fn.ident, c.Args, env, i.Eval)
	case *function:
		return i.call(fn, args)
	default:
		return i.report(fmt.Errorf("%s: %s: %w", c.Pos(), callee.Type(), ErrCall))
	}
}

func (i *Interpreter) call(fn *function, args []Value) (Value, error) {
	if err := i.enter(); err != nil {
		return nil, err
	}
	defer i.leave()

	tmp := Enclosed(fn.env)
	for j, p := range fn.params {
		arg := Null
		if j < len(args) {
			arg = args[j]
		}
		if _, err := tmp.Declare(p, arg, false); err != nil {
			return nil, err
		}
	}
	res := Null
	for _, n := range fn.body.Nodes {
		v, err := i.Eval(n, tmp)
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case returnValue:
			return v.Value, nil
		case breakValue, continueValue:
			return Null, nil
		default:
			res = v
		}
	}
	return res, nil
}

func (i *Interpreter) enter() error {
	if err := i.interrupted(); err != nil {
		return err
	}
	if i.maxDepth > 0 && i.depth >= i.maxDepth {
		return fmt.Errorf("%d: %w", i.maxDepth, ErrDepth)
	}
	i.depth++
	return nil
}

func (i *Interpreter) leave() {
	i.depth--
}

func (i *Interpreter) report(err error) (Value, error) {
	i.host.Report(err)
	return Null, nil
}

func incompatible(pos Position, op rune, left, right Value) error {
	return fmt.Errorf("%s: operator %s not applicable to %s and %s: %w", pos, operatorText(op), left.Type(), right.Type(), ErrType)
}
