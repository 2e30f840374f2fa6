package builtins

import (
	"github.com/dlclark/regexp2"

	"stepjs/object"
)

// regexpExtra is stored in an Object's Extra slot for RegExp instances,
// holding the compiled regexp2.Regexp (ES5 regexes need backreferences
// and lookahead that Go's native regexp/syntax can't express, the reason
// the pack reaches for regexp2 instead of stdlib regexp).
type regexpExtra struct {
	re     *regexp2.Regexp
	source string
	flags  string
}

func compileFlags(flags string) (regexp2.RegexOptions, bool, bool) {
	opts := regexp2.RegexOptions(regexp2.RE2)
	global, sticky := false, false
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'g':
			global = true
		case 'y':
			sticky = true
		}
	}
	return opts, global, sticky
}

// NewRegExp compiles pattern/flags into a guest RegExp instance, used both
// by RegExp's own constructor and by the evaluator to materialize regexp
// literals (§3).
func (r *Realm) NewRegExp(pattern, flags string) (*object.Object, error) {
	opts, _, _ := compileFlags(flags)
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, r.ThrowTypeError("invalid regular expression: " + err.Error())
	}
	o := object.New(r.RegExpProto, object.ClassRegExp)
	o.Extra = &regexpExtra{re: re, source: pattern, flags: flags}
	o.DefineDataProperty("source", object.String(pattern), false, false, false)
	o.DefineDataProperty("global", object.Bool(containsByte(flags, 'g')), false, false, false)
	o.DefineDataProperty("ignoreCase", object.Bool(containsByte(flags, 'i')), false, false, false)
	o.DefineDataProperty("multiline", object.Bool(containsByte(flags, 'm')), false, false, false)
	o.DefineDataProperty("lastIndex", object.Number(0), true, false, false)
	return o, nil
}

func bootstrapRegExp(r *Realm) {
	proto := object.New(r.ObjectProto, object.ClassRegExp)
	r.RegExpProto = proto

	r.RegExpCtor = r.NativeFunction("RegExp", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		pattern, flags := "", ""
		if len(args) > 0 {
			if args[0].IsObject() && args[0].Object().Class == object.ClassRegExp {
				extra := args[0].Object().Extra.(*regexpExtra)
				pattern, flags = extra.source, extra.flags
			} else {
				s, err := inv.ToString(args[0])
				if err != nil {
					return object.Undefined, err
				}
				pattern = s
			}
		}
		if len(args) > 1 && !args[1].IsUndefined() {
			f, err := inv.ToString(args[1])
			if err != nil {
				return object.Undefined, err
			}
			flags = f
		}
		o, err := r.NewRegExp(pattern, flags)
		if err != nil {
			return object.Undefined, err
		}
		return object.FromObject(o), nil
	})
	r.RegExpCtor.Construct = r.RegExpCtor.Call
	r.RegExpCtor.DefineDataProperty("prototype", object.FromObject(proto), false, false, false)
	proto.DefineDataProperty("constructor", object.FromObject(r.RegExpCtor), true, false, true)

	r.method(proto, "test", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := inv.ToString(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		extra := this.Object().Extra.(*regexpExtra)
		m, err := extra.re.FindStringMatch(s)
		if err != nil {
			return object.Undefined, r.ThrowTypeError("regular expression execution failed: " + err.Error())
		}
		return object.Bool(m != nil), nil
	})

	// exec honors lastIndex for global/sticky regexes (15.10.6.2): a match
	// advances lastIndex past itself so a guest while-loop over exec() walks
	// the whole string instead of finding the same leftmost match forever; a
	// failed search (or, for a sticky regex, a match that didn't start
	// exactly at lastIndex) resets lastIndex to 0.
	r.method(proto, "exec", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := inv.ToString(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		o := this.Object()
		extra := o.Extra.(*regexpExtra)
		global := containsByte(extra.flags, 'g')
		sticky := containsByte(extra.flags, 'y')
		start := 0
		if global || sticky {
			if li := o.GetOwnProperty("lastIndex"); li != nil {
				start = int(li.Value.ToNumber())
			}
			if start < 0 || start > len(s) {
				o.DefineDataProperty("lastIndex", object.Number(0), true, false, false)
				return object.Null, nil
			}
		}
		m, err := extra.re.FindStringMatch(s[start:])
		if err != nil {
			return object.Undefined, r.ThrowTypeError("regular expression execution failed: " + err.Error())
		}
		if m == nil || (sticky && m.Index != 0) {
			if global || sticky {
				o.DefineDataProperty("lastIndex", object.Number(0), true, false, false)
			}
			return object.Null, nil
		}
		matchIndex := start + m.Index
		if global || sticky {
			o.DefineDataProperty("lastIndex", object.Number(float64(matchIndex+len(m.String()))), true, false, false)
		}
		groups := m.Groups()
		out := make([]object.Value, len(groups))
		for i, g := range groups {
			if len(g.Captures) == 0 {
				out[i] = object.Undefined
				continue
			}
			out[i] = object.String(g.String())
		}
		arr := NewArrayObject(r, out)
		arr.DefineDataProperty("index", object.Number(float64(matchIndex)), true, true, true)
		arr.DefineDataProperty("input", object.String(s), true, true, true)
		return object.FromObject(arr), nil
	})

	r.method(proto, "toString", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		extra := this.Object().Extra.(*regexpExtra)
		return object.String("/" + extra.source + "/" + extra.flags), nil
	})
}

// RegExpSourceFlags exposes a guest RegExp instance's pattern/flags to
// package bridge, which needs them for guest_to_native without reaching
// into regexpExtra's unexported fields directly.
func RegExpSourceFlags(o *object.Object) (pattern, flags string, ok bool) {
	extra, ok := o.Extra.(*regexpExtra)
	if !ok {
		return "", "", false
	}
	return extra.source, extra.flags, true
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
