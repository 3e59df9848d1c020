package debugui

import (
	"reflect"
	"sync"
)

// inspectField is an exported field the inspector can show, including
// fields promoted from embedded structs.
type inspectField struct {
	Name    string
	Index   []int
	Type    reflect.Type
	Pointer bool
}

// fieldCache remembers the inspectable fields of each struct type.
type fieldCache struct {
	types sync.Map // reflect.Type -> []inspectField
}

func (c *fieldCache) Fields(t reflect.Type) []inspectField {
	if cached, ok := c.types.Load(t); ok {
		return cached.([]inspectField)
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []inspectField
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		field := inspectField{Name: f.Name, Index: f.Index, Type: f.Type}
		if f.Type.Kind() == reflect.Pointer {
			field.Type, field.Pointer = f.Type.Elem(), true
		}
		fields = append(fields, field)
	}

	actual, _ := c.types.LoadOrStore(t, fields)
	return actual.([]inspectField)
}

var inspectFields fieldCache
