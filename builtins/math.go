package builtins

import (
	"math"
	"math/rand"

	"stepjs/object"
)

func bootstrapMath(r *Realm) {
	m := r.NewObject()
	r.mathObj = m

	m.DefineDataProperty("PI", object.Number(math.Pi), false, false, false)
	m.DefineDataProperty("E", object.Number(math.E), false, false, false)
	m.DefineDataProperty("LN2", object.Number(math.Ln2), false, false, false)
	m.DefineDataProperty("LN10", object.Number(math.Log(10)), false, false, false)
	m.DefineDataProperty("SQRT2", object.Number(math.Sqrt2), false, false, false)

	unary := func(name string, f func(float64) float64) {
		r.method(m, name, 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
			n, err := inv.ToNumber(arg(args, 0))
			if err != nil {
				return object.Undefined, err
			}
			return object.Number(f(n)), nil
		})
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", func(n float64) float64 { return math.Floor(n + 0.5) })
	unary("sqrt", math.Sqrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("log", math.Log)
	unary("exp", math.Exp)

	r.method(m, "pow", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		base, err := inv.ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		exp, err := inv.ToNumber(arg(args, 1))
		if err != nil {
			return object.Undefined, err
		}
		return object.Number(math.Pow(base, exp)), nil
	})

	r.method(m, "max", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		best := math.Inf(-1)
		for _, a := range args {
			n, err := inv.ToNumber(a)
			if err != nil {
				return object.Undefined, err
			}
			if math.IsNaN(n) {
				return object.Number(math.NaN()), nil
			}
			if n > best {
				best = n
			}
		}
		return object.Number(best), nil
	})

	r.method(m, "min", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		best := math.Inf(1)
		for _, a := range args {
			n, err := inv.ToNumber(a)
			if err != nil {
				return object.Undefined, err
			}
			if math.IsNaN(n) {
				return object.Number(math.NaN()), nil
			}
			if n < best {
				best = n
			}
		}
		return object.Number(best), nil
	})

	r.method(m, "random", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(rand.Float64()), nil
	})
}
