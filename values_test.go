package beans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedStringValue(t *testing.T) {
	v := TypedStringValue{Value: "8080"}
	assert.False(t, v.HasTargetType())

	v.TargetTypeName = "int"
	assert.True(t, v.HasTargetType())
}

func TestConstructorArgumentValues(t *testing.T) {
	cav := &ConstructorArgumentValues{}

	assert.True(t, cav.Empty())

	cav.AddIndexed(0, ArgumentValue{Value: "first"})
	cav.AddIndexed(0, ArgumentValue{Value: "replaced"})
	cav.AddIndexed(-1, ArgumentValue{Value: "ignored"})
	cav.AddGeneric(ArgumentValue{Value: 42, Type: "int"})
	cav.AddGeneric(ArgumentValue{Value: "hello", Type: "string"})

	assert.Equal(t, 3, cav.Count())
	assert.False(t, cav.Empty())

	indexed, ok := cav.Indexed(0)
	assert.True(t, ok)
	assert.Equal(t, "replaced", indexed.Value)

	_, ok = cav.Indexed(1)
	assert.False(t, ok)

	generic, ok := cav.Generic("string")
	assert.True(t, ok)
	assert.Equal(t, "hello", generic.Value)

	generic, ok = cav.Generic("")
	assert.True(t, ok)
	assert.Equal(t, 42, generic.Value)

	_, ok = cav.Generic("float")
	assert.False(t, ok)
}

func TestManagedListMerge(t *testing.T) {
	parent := ManagedList{Values: []interface{}{"a", "b"}}

	child := ManagedList{Values: []interface{}{"c"}}
	assert.Equal(t, []interface{}{"c"}, child.Merge(parent).Values, "merging is disabled")

	child.MergeEnabled = true
	assert.Equal(t, []interface{}{"a", "b", "c"}, child.Merge(parent).Values)
}

func TestManagedSet(t *testing.T) {
	s := &ManagedSet{}
	s.Add("a")
	s.Add("b")
	s.Add("a") // duplicate

	assert.Equal(t, []interface{}{"a", "b"}, s.Values)

	parent := ManagedSet{Values: []interface{}{"b", "c"}}

	assert.Equal(t, []interface{}{"a", "b"}, s.Merge(parent).Values, "merging is disabled")

	s.MergeEnabled = true
	assert.Equal(t, []interface{}{"b", "c", "a"}, s.Merge(parent).Values)
}

func TestManagedMapMerge(t *testing.T) {
	parent := ManagedMap{Values: map[interface{}]interface{}{"a": 1, "b": 2}}

	child := ManagedMap{Values: map[interface{}]interface{}{"b": 20, "c": 30}}
	assert.Equal(t, child.Values, child.Merge(parent).Values, "merging is disabled")

	child.MergeEnabled = true
	merged := child.Merge(parent)
	assert.Equal(t, map[interface{}]interface{}{"a": 1, "b": 20, "c": 30}, merged.Values)
}

func TestPropertyValues(t *testing.T) {
	pvs := &PropertyValues{}

	assert.Equal(t, 0, pvs.Len())
	assert.False(t, pvs.Contains("name"))

	pvs.Add("name", "a")
	pvs.Add("size", 1)
	pvs.Add("name", "b") // replaced in place

	assert.Equal(t, 2, pvs.Len())
	assert.Equal(t, []string{"name", "size"}, pvs.Names())

	value, ok := pvs.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "b", value)

	_, ok = pvs.Get("unknown")
	assert.False(t, ok)
}
