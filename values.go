package beans

// TypedStringValue holds a raw string value together with the name of the
// type it should eventually be converted to. The conversion itself is the
// business of whoever consumes the definition.
type TypedStringValue struct {
	Value          string
	TargetTypeName string
}

// HasTargetType returns true if a target type name is carried.
func (v TypedStringValue) HasTargetType() bool {
	return v.TargetTypeName != ""
}

// ArgumentValue is one constructor argument of a definition.
type ArgumentValue struct {
	// Value is the argument itself.
	Value interface{}
	// Type optionally names the type the argument must match.
	Type string
	// Name optionally names the parameter the argument is meant for.
	Name string
}

// ConstructorArgumentValues holds the constructor arguments of a definition,
// some bound to a parameter index, the others generic.
type ConstructorArgumentValues struct {
	indexed map[int]ArgumentValue
	generic []ArgumentValue
}

// AddIndexed binds an argument to a parameter index.
// A second argument for the same index replaces the first one.
func (cav *ConstructorArgumentValues) AddIndexed(index int, value ArgumentValue) {
	if index < 0 {
		return
	}
	if cav.indexed == nil {
		cav.indexed = map[int]ArgumentValue{}
	}
	cav.indexed[index] = value
}

// AddGeneric adds an argument that is not bound to a parameter index.
func (cav *ConstructorArgumentValues) AddGeneric(value ArgumentValue) {
	cav.generic = append(cav.generic, value)
}

// Indexed returns the argument bound to the given index.
func (cav *ConstructorArgumentValues) Indexed(index int) (ArgumentValue, bool) {
	value, ok := cav.indexed[index]
	return value, ok
}

// Generic returns the first generic argument declared with the given type
// name. An empty requiredType matches any argument.
func (cav *ConstructorArgumentValues) Generic(requiredType string) (ArgumentValue, bool) {
	for _, value := range cav.generic {
		if requiredType == "" || value.Type == requiredType {
			return value, true
		}
	}
	return ArgumentValue{}, false
}

// Count returns the total number of arguments.
func (cav *ConstructorArgumentValues) Count() int {
	return len(cav.indexed) + len(cav.generic)
}

// Empty returns true if no argument was added.
func (cav *ConstructorArgumentValues) Empty() bool {
	return cav.Count() == 0
}

// ManagedList is an ordered list value of a definition.
// MergeEnabled allows the list to be combined with a parent value.
type ManagedList struct {
	Values       []interface{}
	MergeEnabled bool
}

// Merge returns the parent values followed by the list values.
// If merging is disabled, the list values are returned alone.
func (l ManagedList) Merge(parent ManagedList) ManagedList {
	if !l.MergeEnabled {
		return l
	}
	merged := make([]interface{}, 0, len(parent.Values)+len(l.Values))
	merged = append(merged, parent.Values...)
	merged = append(merged, l.Values...)
	return ManagedList{Values: merged, MergeEnabled: l.MergeEnabled}
}

// ManagedSet is a set value of a definition.
// Insertion order is preserved, duplicates are ignored.
type ManagedSet struct {
	Values       []interface{}
	MergeEnabled bool
}

// Add appends the value if it is not already in the set.
func (s *ManagedSet) Add(value interface{}) {
	for _, v := range s.Values {
		if v == value {
			return
		}
	}
	s.Values = append(s.Values, value)
}

// Merge returns the parent values followed by the set values,
// without duplicates. If merging is disabled, the set values
// are returned alone.
func (s ManagedSet) Merge(parent ManagedSet) ManagedSet {
	if !s.MergeEnabled {
		return s
	}
	merged := ManagedSet{MergeEnabled: s.MergeEnabled}
	for _, v := range parent.Values {
		merged.Add(v)
	}
	for _, v := range s.Values {
		merged.Add(v)
	}
	return merged
}

// ManagedMap is a map value of a definition.
type ManagedMap struct {
	Values       map[interface{}]interface{}
	MergeEnabled bool
}

// Merge returns the parent entries overridden by the map entries.
// If merging is disabled, the map entries are returned alone.
func (m ManagedMap) Merge(parent ManagedMap) ManagedMap {
	if !m.MergeEnabled {
		return m
	}
	merged := make(map[interface{}]interface{}, len(parent.Values)+len(m.Values))
	for k, v := range parent.Values {
		merged[k] = v
	}
	for k, v := range m.Values {
		merged[k] = v
	}
	return ManagedMap{Values: merged, MergeEnabled: m.MergeEnabled}
}

// PropertyValue is one named property of a definition.
type PropertyValue struct {
	Name  string
	Value interface{}
}

// PropertyValues is an ordered collection of properties.
// Adding a property under an already used name replaces
// the previous value in place.
type PropertyValues struct {
	values []PropertyValue
}

// Add inserts or replaces a property.
func (pvs *PropertyValues) Add(name string, value interface{}) {
	for i, pv := range pvs.values {
		if pv.Name == name {
			pvs.values[i].Value = value
			return
		}
	}
	pvs.values = append(pvs.values, PropertyValue{Name: name, Value: value})
}

// Get returns the value of the named property.
func (pvs *PropertyValues) Get(name string) (interface{}, bool) {
	for _, pv := range pvs.values {
		if pv.Name == name {
			return pv.Value, true
		}
	}
	return nil, false
}

// Contains returns true if the named property was added.
func (pvs *PropertyValues) Contains(name string) bool {
	_, ok := pvs.Get(name)
	return ok
}

// Names returns the property names in insertion order.
func (pvs *PropertyValues) Names() []string {
	names := make([]string, len(pvs.values))
	for i, pv := range pvs.values {
		names[i] = pv.Name
	}
	return names
}

// Len returns the number of properties.
func (pvs *PropertyValues) Len() int {
	return len(pvs.values)
}
