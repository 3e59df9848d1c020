package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/world"
)

type EntityInfo struct {
	ID             ecs.EntityId
	Label          string
	ArchetypeID    uint32
	ComponentTypes []string
}

// EntityBrowser lists the entities of a world. The list is rebuilt every
// frame since a scene switch can reuse the same entity handles.
type EntityBrowser struct {
	entities      []EntityInfo
	sortColumn    int
	sortAscending bool

	selected           ecs.EntityId
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		sortAscending:      true,
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Selected() ecs.EntityId {
	return eb.selected
}

func (eb *EntityBrowser) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Rebuild(storage)
	if eb.selected != 0 && !storage.Alive(eb.selected) {
		eb.selected = 0
	}

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	filtered := eb.Filtered()
	if maxPage := max(0, (len(filtered)-1)/eb.maxEntitiesPerPage); eb.currentPage > maxPage {
		eb.currentPage = maxPage
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Label")
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			filtered = eb.Filtered()
			sortSpecs.SetSpecsDirty(false)
		}

		start := eb.currentPage * eb.maxEntitiesPerPage
		end := min(start+eb.maxEntitiesPerPage, len(filtered))
		for _, entity := range filtered[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(entity.ID.String(), eb.selected == entity.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Label)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", entity.ArchetypeID))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))
		}

		imgui.EndTable()
	}

	if len(filtered) > eb.maxEntitiesPerPage {
		totalPages := (len(filtered) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

// Rebuild refreshes the entity list from storage.
func (eb *EntityBrowser) Rebuild(storage *ecs.Storage) {
	eb.entities = eb.entities[:0]

	for archetype := range storage.Archetypes() {
		componentTypes := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			componentTypes[i] = t.String()
		}

		for id := range archetype.Iter() {
			info := EntityInfo{
				ID:             id,
				ArchetypeID:    archetype.ID(),
				ComponentTypes: componentTypes,
			}
			if label := ecs.ReadComponent[world.Label](storage, id); label != nil {
				info.Label = string(*label)
			} else if light := ecs.ReadComponent[world.Light](storage, id); light != nil {
				info.Label = light.Label
			}
			eb.entities = append(eb.entities, info)
		}
	}

	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.SliceStable(eb.entities, func(i, j int) bool {
		a, b := eb.entities[i], eb.entities[j]
		var less bool

		switch eb.sortColumn {
		case 1:
			less = a.Label < b.Label
		case 2:
			less = a.ArchetypeID < b.ArchetypeID
		case 3:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		default:
			less = a.ID < b.ID
		}

		if !eb.sortAscending {
			return !less
		}
		return less
	})
}

// Filtered returns the entities matching the search text by id, label or
// component type.
func (eb *EntityBrowser) Filtered() []EntityInfo {
	if eb.filterText == "" {
		return eb.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.entities {
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))
		if strings.Contains(entity.ID.String(), filterLower) ||
			strings.Contains(strings.ToLower(entity.Label), filterLower) ||
			strings.Contains(componentsStr, filterLower) {
			filtered = append(filtered, entity)
		}
	}

	return filtered
}

// SetFilter replaces the search text.
func (eb *EntityBrowser) SetFilter(text string) {
	eb.filterText = text
	eb.currentPage = 0
}
