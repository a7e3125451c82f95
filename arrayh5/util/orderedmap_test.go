package util

import (
	"reflect"
	"testing"
)

func TestOrderedMapOrder(t *testing.T) {
	om, err := NewOrderedMap(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	om.Add("zebra", 1)
	om.Add("apple", 2)
	om.Add("mango", 3)
	want := []string{"zebra", "apple", "mango"}
	if !reflect.DeepEqual(om.Keys(), want) {
		t.Error("keys out of order:", om.Keys())
	}
	if om.Len() != 3 {
		t.Error("wrong length:", om.Len())
	}
}

func TestOrderedMapReplace(t *testing.T) {
	om, err := NewOrderedMap(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	om.Add("a", 1)
	om.Add("b", 2)
	om.Add("a", 3)
	if om.Len() != 2 {
		t.Error("replace should not add a key")
	}
	v, has := om.Get("a")
	if !has || v.(int) != 3 {
		t.Error("replace didn't take:", v)
	}
}

func TestOrderedMapDel(t *testing.T) {
	om, err := NewOrderedMap([]string{"a", "b", "c"},
		map[string]interface{}{"a": 1, "b": 2, "c": 3})
	if err != nil {
		t.Fatal(err)
	}
	om.Del("b")
	if !reflect.DeepEqual(om.Keys(), []string{"a", "c"}) {
		t.Error("del keys:", om.Keys())
	}
	if _, has := om.Get("b"); has {
		t.Error("b should be gone")
	}
	om.Del("nosuch") // no-op
	if om.Len() != 2 {
		t.Error("deleting a missing key changed the map")
	}
}

func TestOrderedMapMismatch(t *testing.T) {
	_, err := NewOrderedMap([]string{"a"}, map[string]interface{}{"b": 1})
	if err != ErrorKeysDontMatchValues {
		t.Error("expected mismatch error, got", err)
	}
}
