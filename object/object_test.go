package object

import "testing"

func TestDefineDataPropertyPreservesInsertionOrder(t *testing.T) {
	o := New(nil, ClassObject)
	o.DefineDataProperty("b", Number(2), true, true, true)
	o.DefineDataProperty("a", Number(1), true, true, true)
	o.DefineDataProperty("b", Number(20), true, true, true) // redefine, order unchanged

	keys := o.OwnKeys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("want insertion order [b a], got %v", keys)
	}
	if o.GetOwnProperty("b").Value.Num() != 20 {
		t.Fatalf("want redefined value 20, got %v", o.GetOwnProperty("b").Value)
	}
}

func TestFindPropertyWalksPrototypeChain(t *testing.T) {
	proto := New(nil, ClassObject)
	proto.DefineDataProperty("inherited", String("from proto"), true, true, true)
	child := New(proto, ClassObject)
	child.DefineDataProperty("own", String("from child"), true, true, true)

	d, owner := child.FindProperty("inherited")
	if d == nil || owner != proto {
		t.Fatalf("want inherited property found on proto")
	}
	if child.GetOwnProperty("inherited") != nil {
		t.Fatalf("inherited property must not appear as an own property")
	}
	if !child.HasProperty("inherited") || !child.HasProperty("own") {
		t.Fatalf("HasProperty should see both own and inherited properties")
	}
}

func TestDeleteOwnRespectsConfigurable(t *testing.T) {
	o := New(nil, ClassObject)
	o.DefineDataProperty("fixed", Number(1), true, true, false)
	o.DefineDataProperty("removable", Number(2), true, true, true)

	if o.DeleteOwn("fixed") {
		t.Fatalf("deleting a non-configurable property should fail")
	}
	if o.GetOwnProperty("fixed") == nil {
		t.Fatalf("non-configurable property should survive a failed delete")
	}
	if !o.DeleteOwn("removable") {
		t.Fatalf("deleting a configurable property should succeed")
	}
	if o.GetOwnProperty("removable") != nil {
		t.Fatalf("deleted property should no longer be present")
	}
	keys := o.OwnKeys()
	if len(keys) != 1 || keys[0] != "fixed" {
		t.Fatalf("want only 'fixed' left in key order, got %v", keys)
	}
}

func TestDeleteOwnMissingPropertyIsNoop(t *testing.T) {
	o := New(nil, ClassObject)
	if !o.DeleteOwn("nope") {
		t.Fatalf("deleting an absent property should report success")
	}
}

func TestDefineAccessorPropertyMergesGetAndSet(t *testing.T) {
	o := New(nil, ClassObject)
	getter := New(nil, ClassFunction)
	setter := New(nil, ClassFunction)

	o.DefineAccessorProperty("x", getter, nil, true, true)
	o.DefineAccessorProperty("x", nil, setter, true, true)

	d := o.GetOwnProperty("x")
	if d == nil || !d.IsAccessor() {
		t.Fatalf("want an accessor property, got %#v", d)
	}
	if d.Get != getter || d.Set != setter {
		t.Fatalf("want both get and set merged onto the same descriptor")
	}
	keys := o.OwnKeys()
	if len(keys) != 1 {
		t.Fatalf("merging get/set on the same name should not duplicate the key, got %v", keys)
	}
}

func TestIsCallableAndIsConstructor(t *testing.T) {
	plain := New(nil, ClassObject)
	if plain.IsCallable() || plain.IsConstructor() {
		t.Fatalf("a plain object should not be callable or a constructor")
	}
}
