package builtins

import (
	"fmt"
	"time"

	"stepjs/object"
)

// dateExtra stores the epoch-millisecond value backing a Date instance's
// [[PrimitiveValue]]; ES5 dates are minutely supported here (enough for
// timestamps, ISO formatting, and arithmetic), not full Intl-grade
// calendar support.
type dateExtra struct{ millis float64 }

func bootstrapDate(r *Realm) {
	proto := object.New(r.ObjectProto, object.ClassDate)
	r.DateProto = proto

	construct := func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		var millis float64
		switch len(args) {
		case 0:
			millis = float64(time.Now().UnixNano() / int64(time.Millisecond))
		case 1:
			if args[0].IsString() {
				t, err := time.Parse(time.RFC3339, args[0].Str())
				if err != nil {
					return object.Undefined, nil
				}
				millis = float64(t.UnixNano() / int64(time.Millisecond))
			} else {
				n, err := inv.ToNumber(args[0])
				if err != nil {
					return object.Undefined, err
				}
				millis = n
			}
		default:
			get := func(i int, def float64) float64 {
				if i >= len(args) {
					return def
				}
				n, _ := inv.ToNumber(args[i])
				return n
			}
			y, mo, d := get(0, 1970), get(1, 0), get(2, 1)
			h, mi, se, ms := get(3, 0), get(4, 0), get(5, 0), get(6, 0)
			t := time.Date(int(y), time.Month(int(mo)+1), int(d), int(h), int(mi), int(se), int(ms)*1e6, time.UTC)
			millis = float64(t.UnixNano() / int64(time.Millisecond))
		}
		o := object.New(proto, object.ClassDate)
		o.Extra = &dateExtra{millis: millis}
		return object.FromObject(o), nil
	}

	r.DateCtor = r.NativeFunction("Date", 7, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.String(time.Now().UTC().Format(time.RFC1123)), nil
	})
	r.DateCtor.Construct = nativeCallable(construct)
	r.DateCtor.DefineDataProperty("prototype", object.FromObject(proto), false, false, false)
	proto.DefineDataProperty("constructor", object.FromObject(r.DateCtor), true, false, true)

	r.method(r.DateCtor, "now", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(time.Now().UnixNano() / int64(time.Millisecond))), nil
	})

	dateTime := func(this object.Value) time.Time {
		extra := this.Object().Extra.(*dateExtra)
		return time.Unix(0, int64(extra.millis)*int64(time.Millisecond)).UTC()
	}

	r.method(proto, "getTime", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(this.Object().Extra.(*dateExtra).millis), nil
	})
	r.method(proto, "valueOf", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(this.Object().Extra.(*dateExtra).millis), nil
	})
	r.method(proto, "getFullYear", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(dateTime(this).Year())), nil
	})
	r.method(proto, "getMonth", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(dateTime(this).Month() - 1)), nil
	})
	r.method(proto, "getDate", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(dateTime(this).Day())), nil
	})
	r.method(proto, "getHours", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(dateTime(this).Hour())), nil
	})
	r.method(proto, "getMinutes", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(dateTime(this).Minute())), nil
	})
	r.method(proto, "getSeconds", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(dateTime(this).Second())), nil
	})
	r.method(proto, "getDay", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(dateTime(this).Weekday())), nil
	})
	r.method(proto, "toISOString", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.String(dateTime(this).Format("2006-01-02T15:04:05.000Z")), nil
	})
	r.method(proto, "toString", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.String(fmt.Sprint(dateTime(this))), nil
	})
}
