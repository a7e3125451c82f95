// Package util has small helpers shared by the arrayh5 packages.
package util

import (
	"errors"
	"sort"
)

// OrderedMap is a string-keyed map which remembers the order in which
// keys were added.  The AH5 directory is one of these: scanning for a
// default dataset must see entries in file order, not map order.
type OrderedMap struct {
	keys   []string
	values map[string]interface{}
}

var (
	ErrorKeysDontMatchValues = errors.New("keys don't match values")
)

func NewOrderedMap(keys []string, values map[string]interface{}) (*OrderedMap, error) {
	if len(keys) != len(values) {
		return nil, ErrorKeysDontMatchValues
	}
	mapKeys := make([]string, 0, len(values))
	for k := range values {
		mapKeys = append(mapKeys, k)
	}
	sort.Strings(mapKeys)

	sortedKeys := make([]string, len(keys))
	copy(sortedKeys, keys)
	sort.Strings(sortedKeys)

	for i := range sortedKeys {
		if mapKeys[i] != sortedKeys[i] {
			return nil, ErrorKeysDontMatchValues
		}
	}
	if values == nil {
		values = map[string]interface{}{}
	}
	return &OrderedMap{
		keys:   append([]string(nil), keys...),
		values: values,
	}, nil
}

// Add appends the key if it is new, otherwise it replaces the value and
// keeps the key's position.
func (om *OrderedMap) Add(name string, val interface{}) {
	if _, has := om.values[name]; !has {
		om.keys = append(om.keys, name)
	}
	om.values[name] = val
}

func (om *OrderedMap) Get(key string) (val interface{}, has bool) {
	val, has = om.values[key]
	return
}

// Del removes the key; unknown keys are a no-op.
func (om *OrderedMap) Del(key string) {
	if _, has := om.values[key]; !has {
		return
	}
	delete(om.values, key)
	for i, k := range om.keys {
		if k == key {
			om.keys = append(om.keys[:i], om.keys[i+1:]...)
			break
		}
	}
}

func (om *OrderedMap) Keys() []string {
	return om.keys
}

func (om *OrderedMap) Len() int {
	return len(om.keys)
}
