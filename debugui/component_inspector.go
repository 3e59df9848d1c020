package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/redback/ecs"
)

const maxInspectDepth = 4

// ComponentInspector shows and edits the components of one entity. Edits
// write straight into the component storage.
type ComponentInspector struct{}

func (ci *ComponentInspector) Render(storage *ecs.Storage, selected ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if selected == 0 || !storage.Alive(selected) {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %s", selected))
	imgui.Separator()

	for _, compType := range storage.ComponentTypes(selected) {
		component := storage.GetComponent(selected, compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderValue(compType.Name(), reflect.ValueOf(component).Elem(), 0)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderValue(name string, val reflect.Value, depth int) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		val = val.Elem()
	}

	label := fmt.Sprintf("##%s%d", name, depth)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		ci.fieldLabel(name, 150)
		if imgui.InputInt(label, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		ci.fieldLabel(name, 150)
		if imgui.InputInt(label, &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		ci.fieldLabel(name, 150)
		if imgui.InputFloat(label, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		ci.fieldLabel(name, 200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if depth >= maxInspectDepth {
			imgui.Text(fmt.Sprintf("%s: {...}", name))
			return
		}
		if imgui.TreeNodeStr(name) {
			for _, field := range inspectFields.Fields(val.Type()) {
				fv, err := val.FieldByIndexErr(field.Index)
				if err != nil {
					continue
				}
				ci.renderValue(field.Name, fv, depth+1)
			}
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Array:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		if imgui.TreeNodeStr(fmt.Sprintf("%s: map[%d items]", name, val.Len())) {
			iter := val.MapRange()
			for iter.Next() {
				imgui.BulletText(fmt.Sprintf("%v: %v", iter.Key().Interface(), iter.Value().Interface()))
			}
			imgui.TreePop()
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

func (ci *ComponentInspector) fieldLabel(name string, width float32) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}
