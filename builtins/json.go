package builtins

import (
	"strconv"
	"strings"

	"stepjs/object"
)

func bootstrapJSON(r *Realm) {
	j := r.NewObject()
	r.jsonObj = j

	r.method(j, "stringify", 3, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		var b strings.Builder
		ok, err := jsonStringify(inv, &b, arg(args, 0), map[*object.Object]bool{})
		if err != nil {
			return object.Undefined, err
		}
		if !ok {
			return object.Undefined, nil
		}
		return object.String(b.String()), nil
	})

	r.method(j, "parse", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := inv.ToString(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		p := &jsonParser{src: s, r: r}
		v, perr := p.parseValue()
		if perr != nil {
			return object.Undefined, r.ThrowTypeError("JSON.parse: " + perr.Error())
		}
		p.skipSpace()
		if p.pos != len(p.src) {
			return object.Undefined, r.ThrowTypeError("JSON.parse: unexpected trailing data")
		}
		return v, nil
	})
}

func jsonStringify(inv Invoker, b *strings.Builder, v object.Value, seen map[*object.Object]bool) (bool, error) {
	if v.IsObject() && v.Object().IsCallable() {
		return false, nil
	}
	if v.IsObject() {
		if d := v.Object().GetOwnProperty("toJSON"); d != nil && d.Value.IsObject() && d.Value.Object().IsCallable() {
			res, err := inv.Call(d.Value.Object(), v, nil)
			if err != nil {
				return false, err
			}
			v = res
		}
	}
	switch {
	case v.IsUndefined():
		return false, nil
	case v.IsNull():
		b.WriteString("null")
		return true, nil
	case v.IsBoolean():
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
		return true, nil
	case v.IsNumber():
		b.WriteString(object.NumberToString(v.Num()))
		return true, nil
	case v.IsString():
		writeJSONString(b, v.Str())
		return true, nil
	case v.IsObject() && seen[v.Object()]:
		return false, jsonSyntaxError("Converting circular structure to JSON")
	case v.IsObject() && v.Object().Class == object.ClassArray:
		seen[v.Object()] = true
		defer delete(seen, v.Object())
		b.WriteByte('[')
		n := object.ArrayLength(v.Object())
		for i := uint32(0); i < n; i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			el := arrayGet(v.Object(), i)
			ok, err := jsonStringify(inv, b, el, seen)
			if err != nil {
				return false, err
			}
			if !ok {
				b.WriteString("null")
			}
		}
		b.WriteByte(']')
		return true, nil
	case v.IsObject():
		seen[v.Object()] = true
		defer delete(seen, v.Object())
		b.WriteByte('{')
		first := true
		for _, k := range v.Object().OwnKeys() {
			d := v.Object().GetOwnProperty(k)
			if d == nil || !d.Enumerable {
				continue
			}
			var sub strings.Builder
			ok, err := jsonStringify(inv, &sub, d.Value, seen)
			if err != nil {
				return false, err
			}
			if !ok {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			writeJSONString(b, k)
			b.WriteByte(':')
			b.WriteString(sub.String())
		}
		b.WriteByte('}')
		return true, nil
	default:
		return false, nil
	}
}

func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

// jsonParser is a small hand-rolled recursive-descent JSON parser,
// intentionally separate from package parser's ES5 grammar since JSON's
// grammar is a much smaller, non-overlapping subset.
type jsonParser struct {
	src string
	pos int
	r   *Realm
}

func (p *jsonParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsonParser) parseValue() (object.Value, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return object.Undefined, errUnexpectedEOF
	}
	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		return object.String(s), err
	case c == 't':
		return p.expectLiteral("true", object.Bool(true))
	case c == 'f':
		return p.expectLiteral("false", object.Bool(false))
	case c == 'n':
		return p.expectLiteral("null", object.Null)
	default:
		return p.parseNumber()
	}
}

type jsonSyntaxError string

func (e jsonSyntaxError) Error() string { return string(e) }

func strconvSyntaxError(msg string) error { return jsonSyntaxError(msg) }

var errUnexpectedEOF = strconvSyntaxError("unexpected end of input")

func (p *jsonParser) expectLiteral(lit string, v object.Value) (object.Value, error) {
	if p.pos+len(lit) > len(p.src) || p.src[p.pos:p.pos+len(lit)] != lit {
		return object.Undefined, strconvSyntaxError("invalid literal")
	}
	p.pos += len(lit)
	return v, nil
}

func (p *jsonParser) parseNumber() (object.Value, error) {
	start := p.pos
	for p.pos < len(p.src) && strings.ContainsRune("-+.eE0123456789", rune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return object.Undefined, strconvSyntaxError("invalid number")
	}
	n, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return object.Undefined, err
	}
	return object.Number(n), nil
}

func (p *jsonParser) parseString() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.src) {
				break
			}
			switch p.src[p.pos] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'u':
				if p.pos+4 < len(p.src) {
					v, err := strconv.ParseUint(p.src[p.pos+1:p.pos+5], 16, 32)
					if err == nil {
						b.WriteRune(rune(v))
						p.pos += 4
					}
				}
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", strconvSyntaxError("unterminated string")
}

func (p *jsonParser) parseArray() (object.Value, error) {
	p.pos++ // [
	var out []object.Value
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.pos++
		return object.FromObject(NewArrayObject(p.r, out)), nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return object.Undefined, err
		}
		out = append(out, v)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return object.Undefined, errUnexpectedEOF
		}
		if p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return object.FromObject(NewArrayObject(p.r, out)), nil
		}
		return object.Undefined, strconvSyntaxError("expected , or ]")
	}
}

func (p *jsonParser) parseObject() (object.Value, error) {
	p.pos++ // {
	o := p.r.NewObject()
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '}' {
		p.pos++
		return object.FromObject(o), nil
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != '"' {
			return object.Undefined, strconvSyntaxError("expected string key")
		}
		key, err := p.parseString()
		if err != nil {
			return object.Undefined, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return object.Undefined, strconvSyntaxError("expected :")
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return object.Undefined, err
		}
		o.DefineDataProperty(key, v, true, true, true)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return object.Undefined, errUnexpectedEOF
		}
		if p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return object.FromObject(o), nil
		}
		return object.Undefined, strconvSyntaxError("expected , or }")
	}
}
