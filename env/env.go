package env

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/sets/hashset"
)

var (
	ErrNotDefined = errors.New("variable not defined")
	ErrDeclared   = errors.New("variable already declared")
	ErrConst      = errors.New("constant variable can not be reassigned")
)

// Env is one level of a lexical scope chain. Names marked constant at a
// level can not be assigned through that level.
type Env[T any] struct {
	parent *Env[T]
	values map[string]T
	consts *hashset.Set
}

func Empty[T any]() *Env[T] {
	return Enclosed[T](nil)
}

func Enclosed[T any](parent *Env[T]) *Env[T] {
	return &Env[T]{
		parent: parent,
		values: make(map[string]T),
		consts: hashset.New(),
	}
}

func (e *Env[T]) Parent() *Env[T] {
	return e.parent
}

func (e *Env[T]) Declare(key string, value T, constant bool) (T, error) {
	if _, ok := e.values[key]; ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", key, ErrDeclared)
	}
	e.values[key] = value
	if constant {
		e.consts.Add(key)
	}
	return value, nil
}

func (e *Env[T]) Assign(key string, value T) (T, error) {
	owner, err := e.Resolve(key)
	if err != nil {
		var zero T
		return zero, err
	}
	if owner.consts.Contains(key) {
		var zero T
		return zero, fmt.Errorf("%s: %w", key, ErrConst)
	}
	owner.values[key] = value
	return value, nil
}

// Resolve gives back the level of the chain where key is declared.
func (e *Env[T]) Resolve(key string) (*Env[T], error) {
	for curr := e; curr != nil; curr = curr.parent {
		if _, ok := curr.values[key]; ok {
			return curr, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", key, ErrNotDefined)
}

func (e *Env[T]) Lookup(key string) (T, error) {
	owner, err := e.Resolve(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return owner.values[key], nil
}

func (e *Env[T]) IsConst(key string) bool {
	owner, err := e.Resolve(key)
	if err != nil {
		return false
	}
	return owner.consts.Contains(key)
}

func (e *Env[T]) Len() int {
	return len(e.values)
}
