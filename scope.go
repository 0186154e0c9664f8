package machan

import "github.com/midbel/machan/env"

type Env = env.Env[Value]

// Enclosed creates a scope seeded with the true, false and null constants.
func Enclosed(parent *Env) *Env {
	e := env.Enclosed(parent)
	e.Declare("true", CreateBool(true), true)
	e.Declare("false", CreateBool(false), true)
	e.Declare("null", Null, true)
	return e
}
