package machan

import (
	"io"
	"strings"

	"github.com/midbel/machan/host"
	"github.com/tevino/abool/v2"
)

const DefaultMaxDepth = 1000

type Option func(*Interpreter)

// WithMaxDepth bounds the number of nested user function calls. A limit
// lower than one disables the check.
func WithMaxDepth(depth int) Option {
	return func(i *Interpreter) {
		i.maxDepth = depth
	}
}

type Interpreter struct {
	host     host.Host
	registry *Registry
	globals  *Env

	depth    int
	maxDepth int
	stop     *abool.AtomicBool
}

func New(h host.Host, options ...Option) *Interpreter {
	i := Interpreter{
		host:     h,
		registry: NewRegistry(h),
		maxDepth: DefaultMaxDepth,
		stop:     abool.New(),
	}
	for _, o := range options {
		o(&i)
	}
	i.globals = i.Global()
	return &i
}

// Global creates a fresh top level scope where every native function is
// bound as a constant.
func (i *Interpreter) Global() *Env {
	env := Enclosed(nil)
	for _, name := range i.registry.Names() {
		env.Declare(name, native{ident: name}, true)
	}
	return env
}

func (i *Interpreter) Globals() *Env {
	return i.globals
}

// Run parses and evaluates src in the interpreter's global scope. Bindings
// survive between calls.
func (i *Interpreter) Run(src string) (Value, error) {
	return i.Exec(strings.NewReader(src))
}

func (i *Interpreter) Exec(r io.Reader) (Value, error) {
	prog, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return i.Eval(prog, i.globals)
}

// Interrupt asks a running evaluation to stop. It is safe to call from
// another goroutine.
func (i *Interpreter) Interrupt() {
	i.stop.Set()
}

func (i *Interpreter) interrupted() error {
	if i.stop.SetToIf(true, false) {
		return ErrInterrupted
	}
	return nil
}

// Eval parses and evaluates the whole content of r in a new interpreter.
func Eval(r io.Reader, h host.Host) (Value, error) {
	return New(h).Exec(r)
}
