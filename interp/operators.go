package interp

import (
	"math"

	"stepjs/builtins"
	"stepjs/object"
	"stepjs/token"
)

// applyBinaryOp implements the BinaryExpression operators (§4.3's abstract
// relational/equality/arithmetic operations), coercing operands through the
// interpreter's ToPrimitive/ToNumber/ToString so object operands (valueOf,
// toString) participate correctly.
func (ip *Interpreter) applyBinaryOp(op token.Type, l, r object.Value) (object.Value, error) {
	switch op {
	case token.PLUS:
		lp, err := ip.ToPrimitive(l, "default")
		if err != nil {
			return object.Undefined, err
		}
		rp, err := ip.ToPrimitive(r, "default")
		if err != nil {
			return object.Undefined, err
		}
		if lp.IsString() || rp.IsString() {
			ls, err := ip.ToString(lp)
			if err != nil {
				return object.Undefined, err
			}
			rs, err := ip.ToString(rp)
			if err != nil {
				return object.Undefined, err
			}
			return object.String(ls + rs), nil
		}
		ln, err := ip.ToNumber(lp)
		if err != nil {
			return object.Undefined, err
		}
		rn, err := ip.ToNumber(rp)
		if err != nil {
			return object.Undefined, err
		}
		return object.Number(ln + rn), nil
	case token.MINUS, token.MULTIPLY, token.SLASH, token.REMAINDER:
		ln, err := ip.ToNumber(l)
		if err != nil {
			return object.Undefined, err
		}
		rn, err := ip.ToNumber(r)
		if err != nil {
			return object.Undefined, err
		}
		switch op {
		case token.MINUS:
			return object.Number(ln - rn), nil
		case token.MULTIPLY:
			return object.Number(ln * rn), nil
		case token.SLASH:
			return object.Number(ln / rn), nil
		default:
			return object.Number(math.Mod(ln, rn)), nil
		}
	case token.LESS, token.GREATER, token.LESS_OR_EQUAL, token.GREATER_OR_EQUAL:
		return ip.compare(op, l, r)
	case token.EQUAL, token.NOT_EQUAL:
		eq, err := ip.abstractEquals(l, r)
		if err != nil {
			return object.Undefined, err
		}
		if op == token.NOT_EQUAL {
			eq = !eq
		}
		return object.Bool(eq), nil
	case token.STRICT_EQUAL, token.STRICT_NOT_EQUAL:
		eq := strictEquals(l, r)
		if op == token.STRICT_NOT_EQUAL {
			eq = !eq
		}
		return object.Bool(eq), nil
	case token.AND, token.OR, token.XOR, token.SHIFT_LEFT, token.SHIFT_RIGHT, token.UNSIGNED_SHIFT_RIGHT:
		return ip.bitwiseOp(op, l, r)
	case token.INSTANCEOF:
		return ip.instanceOf(l, r)
	case token.IN:
		if !r.IsObject() {
			return object.Undefined, ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError", "'in' on non-object")))
		}
		key, err := ip.ToString(l)
		if err != nil {
			return object.Undefined, err
		}
		return object.Bool(r.Object().HasProperty(key)), nil
	default:
		return object.Undefined, ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError", "unsupported operator")))
	}
}

func (ip *Interpreter) bitwiseOp(op token.Type, l, r object.Value) (object.Value, error) {
	ln, err := ip.ToNumber(l)
	if err != nil {
		return object.Undefined, err
	}
	rn, err := ip.ToNumber(r)
	if err != nil {
		return object.Undefined, err
	}
	li, ri := toInt32(ln), toInt32(rn)
	switch op {
	case token.AND:
		return object.Number(float64(li & ri)), nil
	case token.OR:
		return object.Number(float64(li | ri)), nil
	case token.XOR:
		return object.Number(float64(li ^ ri)), nil
	case token.SHIFT_LEFT:
		return object.Number(float64(li << (uint32(ri) & 31))), nil
	case token.SHIFT_RIGHT:
		return object.Number(float64(li >> (uint32(ri) & 31))), nil
	default: // UNSIGNED_SHIFT_RIGHT
		lu := toUint32(ln)
		return object.Number(float64(lu >> (uint32(ri) & 31))), nil
	}
}

func toInt32(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int32(uint32(int64(n)))
}

func toUint32(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return uint32(int64(n))
}

// compare implements the abstract relational comparison (11.8.5): string
// operands compare lexicographically by UTF-16 code unit, everything else
// numerically, with NaN making every comparison false.
func (ip *Interpreter) compare(op token.Type, l, r object.Value) (object.Value, error) {
	lp, err := ip.ToPrimitive(l, "number")
	if err != nil {
		return object.Undefined, err
	}
	rp, err := ip.ToPrimitive(r, "number")
	if err != nil {
		return object.Undefined, err
	}
	if lp.IsString() && rp.IsString() {
		lu, ru := builtins.ToUTF16(lp.Str()), builtins.ToUTF16(rp.Str())
		c := len(lu) - len(ru)
		for i := 0; i < len(lu) && i < len(ru); i++ {
			if lu[i] != ru[i] {
				c = int(lu[i]) - int(ru[i])
				break
			}
		}
		var res bool
		switch op {
		case token.LESS:
			res = c < 0
		case token.GREATER:
			res = c > 0
		case token.LESS_OR_EQUAL:
			res = c <= 0
		default:
			res = c >= 0
		}
		return object.Bool(res), nil
	}
	ln, err := ip.ToNumber(lp)
	if err != nil {
		return object.Undefined, err
	}
	rn, err := ip.ToNumber(rp)
	if err != nil {
		return object.Undefined, err
	}
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return object.Bool(false), nil
	}
	var res bool
	switch op {
	case token.LESS:
		res = ln < rn
	case token.GREATER:
		res = ln > rn
	case token.LESS_OR_EQUAL:
		res = ln <= rn
	default:
		res = ln >= rn
	}
	return object.Bool(res), nil
}

// abstractEquals implements the == algorithm (11.9.3), including the
// cross-type numeric/string/boolean coercions and the object-to-primitive
// fallback.
func (ip *Interpreter) abstractEquals(l, r object.Value) (bool, error) {
	if l.Kind() == r.Kind() {
		return strictEquals(l, r), nil
	}
	if l.IsNullOrUndefined() && r.IsNullOrUndefined() {
		return true, nil
	}
	if l.IsNullOrUndefined() || r.IsNullOrUndefined() {
		return false, nil
	}
	if l.IsNumber() && r.IsString() {
		return l.Num() == r.ToNumber(), nil
	}
	if l.IsString() && r.IsNumber() {
		return l.ToNumber() == r.Num(), nil
	}
	if l.IsBoolean() {
		return ip.abstractEquals(object.Number(boolToNum(l.Bool())), r)
	}
	if r.IsBoolean() {
		return ip.abstractEquals(l, object.Number(boolToNum(r.Bool())))
	}
	if (l.IsNumber() || l.IsString()) && r.IsObject() {
		rp, err := ip.ToPrimitive(r, "default")
		if err != nil {
			return false, err
		}
		return ip.abstractEquals(l, rp)
	}
	if l.IsObject() && (r.IsNumber() || r.IsString()) {
		lp, err := ip.ToPrimitive(l, "default")
		if err != nil {
			return false, err
		}
		return ip.abstractEquals(lp, r)
	}
	return false, nil
}

func boolToNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// strictEquals implements === (11.9.6): same type, same value, no coercion,
// and unlike SameValue, +0 === -0 while NaN !== NaN.
func strictEquals(l, r object.Value) bool {
	if l.Kind() != r.Kind() {
		return false
	}
	switch l.Kind() {
	case object.KindUndefined, object.KindNull:
		return true
	case object.KindBoolean:
		return l.Bool() == r.Bool()
	case object.KindNumber:
		return l.Num() == r.Num()
	case object.KindString:
		return l.Str() == r.Str()
	default:
		return l.Object() == r.Object()
	}
}

func (ip *Interpreter) instanceOf(l, r object.Value) (object.Value, error) {
	if !r.IsObject() || !r.Object().IsConstructor() {
		return object.Undefined, ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError", "right-hand side of 'instanceof' is not callable")))
	}
	if !l.IsObject() {
		return object.Bool(false), nil
	}
	protoVal, _ := ip.getProp(r.Object(), "prototype")
	if !protoVal.IsObject() {
		return object.Bool(false), nil
	}
	proto := protoVal.Object()
	for cur := l.Object().Proto; cur != nil; cur = cur.Proto {
		if cur == proto {
			return object.Bool(true), nil
		}
	}
	return object.Bool(false), nil
}

// applyUnaryOp implements the unary operators other than delete/typeof,
// which are handled directly in the UnaryExpression frame since they need
// the un-evaluated reference, not just its value.
func (ip *Interpreter) applyUnaryOp(op token.Type, v object.Value) (object.Value, error) {
	switch op {
	case token.PLUS:
		n, err := ip.ToNumber(v)
		return object.Number(n), err
	case token.MINUS:
		n, err := ip.ToNumber(v)
		return object.Number(-n), err
	case token.NOT:
		return object.Bool(!v.ToBoolean()), nil
	case token.BITWISE_NOT:
		n, err := ip.ToNumber(v)
		if err != nil {
			return object.Undefined, err
		}
		return object.Number(float64(^toInt32(n))), nil
	default:
		return object.Undefined, ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError", "unsupported unary operator")))
	}
}

// typeOf implements the typeof operator (11.4.3); an unresolved identifier
// yields "undefined" rather than throwing, the one place typeof suppresses
// ReferenceError.
func typeOf(v object.Value) string {
	switch v.Kind() {
	case object.KindUndefined:
		return "undefined"
	case object.KindNull:
		return "object"
	case object.KindBoolean:
		return "boolean"
	case object.KindNumber:
		return "number"
	case object.KindString:
		return "string"
	default:
		if v.Object().IsCallable() {
			return "function"
		}
		return "object"
	}
}
