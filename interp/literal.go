package interp

import (
	"stepjs/ast"
	"stepjs/object"
)

// literalValue converts a parsed Literal node's Go-native payload into a
// guest Value, materializing regexp literals into RegExp instances that
// share the realm's RegExp.prototype (§3's "regexp" Value case). The
// returned error, when non-nil, is a builtins.ThrownError suitable for
// ip.throwCompletion.
func (ip *Interpreter) literalValue(lit *ast.Literal) (object.Value, error) {
	switch v := lit.Value.(type) {
	case nil:
		return object.Null, nil
	case bool:
		return object.Bool(v), nil
	case float64:
		return object.Number(v), nil
	case string:
		return object.String(v), nil
	case *ast.RegExpLiteral:
		o, err := ip.Realm.NewRegExp(v.Pattern, v.Flags)
		if err != nil {
			return object.Undefined, err
		}
		return object.FromObject(o), nil
	default:
		return object.Undefined, nil
	}
}
