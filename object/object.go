package object

// Class tags the internal [[Class]] of an object, surfaced by
// Object.prototype.toString and consulted by builtins that only accept a
// specific kind of host object (e.g. Array.prototype methods).
type Class string

const (
	ClassObject   Class = "Object"
	ClassArray    Class = "Array"
	ClassFunction Class = "Function"
	ClassError    Class = "Error"
	ClassBoolean  Class = "Boolean"
	ClassNumber   Class = "Number"
	ClassString   Class = "String"
	ClassDate     Class = "Date"
	ClassRegExp   Class = "RegExp"
	ClassArgs     Class = "Arguments"
)

// PropertyDescriptor is the internal property record: either a data
// property (Value set, Get/Set nil) or an accessor property (Get/Set set,
// Value ignored), per spec.md §4.3.
type PropertyDescriptor struct {
	Value        Value
	Get, Set     *Object // nil if absent
	Writable     bool
	Enumerable   bool
	Configurable bool
}

func (d *PropertyDescriptor) isAccessor() bool { return d.Get != nil || d.Set != nil }

// IsAccessor reports whether d is an accessor (getter/setter) property
// rather than a plain data property.
func (d *PropertyDescriptor) IsAccessor() bool { return d.isAccessor() }

// Object is the guest object: an ordered, insertion-order-preserving
// property table with a prototype link, matching the property-enumeration
// order ES5 requires for for-in and the JSON/console inspection that
// builtins need.
type Object struct {
	Class      Class
	Proto      *Object
	Extensible bool

	keys  []string // insertion order
	props map[string]*PropertyDescriptor

	// Call/Construct are set for callable objects; the interpreter
	// populates them for both native Go functions (builtins) and guest
	// functions (closures over an ast.FunctionExpression/Declaration),
	// keeping both behind the same interface so CallExpression evaluation
	// doesn't need to branch on native-vs-guest.
	Call      Callable
	Construct Callable

	// PrimitiveValue backs Boolean/Number/String/Date wrapper objects'
	// [[PrimitiveValue]] internal slot.
	PrimitiveValue Value
	HasPrimitive   bool

	// Extra is scratch storage for builtins that need object-specific
	// state beyond properties (RegExp's compiled pattern, Date's epoch
	// millis). Concrete builtins type-assert it
	// to their own struct type.
	Extra interface{}
}

// Callable is implemented by both native and guest callable values; the
// concrete implementations are builtins.NativeCallable (wraps a Go func)
// and, in package interp, GuestFunction (wraps an
// *ast.FunctionExpression/Declaration plus its closure scope) and
// asyncCallable (a host async function).
type Callable interface {
	IsCallable() bool
}

func New(proto *Object, class Class) *Object {
	return &Object{
		Class:      class,
		Proto:      proto,
		Extensible: true,
		props:      make(map[string]*PropertyDescriptor),
	}
}

// OwnKeys returns property names in insertion order, the order for-in and
// Object.keys must observe.
func (o *Object) OwnKeys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// GetOwnProperty returns the object's own property descriptor for name,
// or nil if none (does not walk the prototype chain).
func (o *Object) GetOwnProperty(name string) *PropertyDescriptor {
	return o.props[name]
}

// defineOwn inserts or overwrites an own property descriptor, preserving
// insertion order on first definition.
func (o *Object) defineOwn(name string, d *PropertyDescriptor) {
	if _, exists := o.props[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.props[name] = d
}

// DefineDataProperty is the common case: define/replace a plain data
// property with the given attributes.
func (o *Object) DefineDataProperty(name string, v Value, writable, enumerable, configurable bool) {
	o.defineOwn(name, &PropertyDescriptor{Value: v, Writable: writable, Enumerable: enumerable, Configurable: configurable})
}

// DefineAccessorProperty defines or merges an accessor property; get/set
// may individually be nil to leave that half unset (e.g. a set-only
// `{set x(v){}}` literal defines Set and leaves Get nil).
func (o *Object) DefineAccessorProperty(name string, get, set *Object, enumerable, configurable bool) {
	existing := o.props[name]
	if existing != nil && existing.isAccessor() {
		if get != nil {
			existing.Get = get
		}
		if set != nil {
			existing.Set = set
		}
		existing.Enumerable = enumerable
		existing.Configurable = configurable
		return
	}
	o.defineOwn(name, &PropertyDescriptor{Get: get, Set: set, Enumerable: enumerable, Configurable: configurable})
}

// DeleteOwn removes an own property if configurable, reporting success;
// deleting a non-configurable property fails silently in non-strict mode
// (the caller raises TypeError in strict mode per §4.3).
func (o *Object) DeleteOwn(name string) bool {
	d, ok := o.props[name]
	if !ok {
		return true
	}
	if !d.Configurable {
		return false
	}
	delete(o.props, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// FindProperty walks the prototype chain, returning the descriptor and the
// object that owns it (needed so accessor Get/Set calls run with the
// correct receiver-independent `this`: the original receiver, not the
// owner - callers pass the receiver separately to Get/Set).
func (o *Object) FindProperty(name string) (*PropertyDescriptor, *Object) {
	for cur := o; cur != nil; cur = cur.Proto {
		if d, ok := cur.props[name]; ok {
			return d, cur
		}
	}
	return nil, nil
}

// HasProperty reports whether name is visible anywhere on the prototype
// chain, the semantics the `in` operator and with-statement scoping need.
func (o *Object) HasProperty(name string) bool {
	d, _ := o.FindProperty(name)
	return d != nil
}

func (o *Object) IsCallable() bool { return o.Call != nil && o.Call.IsCallable() }
func (o *Object) IsConstructor() bool { return o.Construct != nil && o.Construct.IsCallable() }
