package coastline

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"time"
)

// IDSource produces layer ids. Implementations must not repeat an id within
// one editor session.
type IDSource interface {
	GroupID() string
	StampID() string
}

// clockIDs builds ids from the wall clock in milliseconds plus a counter, so
// ids minted within the same millisecond stay distinct.
type clockIDs struct {
	now func() time.Time
	n   uint64
}

func (c *clockIDs) next() string {
	c.n++
	return strconv.FormatInt(c.now().UnixMilli(), 10) + "-" + strconv.FormatUint(c.n, 10)
}

func (c *clockIDs) GroupID() string { return "group-" + c.next() }
func (c *clockIDs) StampID() string { return c.next() }

// LayerManager owns the layer tree and the selection. Every mutation
// replaces the tree with a rebuilt copy, so a slice returned by [Layers]
// never changes afterwards.
type LayerManager struct {
	layers      []Layer
	selected    []string
	lastClicked string
	clipboard   *Stamp
	ids         IDSource
}

// NewLayerManager creates an empty manager. A nil ids uses clock-based ids.
func NewLayerManager(ids IDSource) *LayerManager {
	if ids == nil {
		ids = &clockIDs{now: time.Now}
	}
	return &LayerManager{ids: ids}
}

// SetIDSource replaces the id generator. A nil ids is ignored.
func (m *LayerManager) SetIDSource(ids IDSource) {
	if ids != nil {
		m.ids = ids
	}
}

// Layers returns a deep copy of the root list.
func (m *LayerManager) Layers() []Layer { return cloneLayers(m.layers) }

// SetLayers replaces the tree and clears the selection and range anchor.
func (m *LayerManager) SetLayers(layers []Layer) {
	m.layers = cloneLayers(layers)
	m.selected = nil
	m.lastClicked = ""
}

// Len returns the number of root layers.
func (m *LayerManager) Len() int { return len(m.layers) }

// Flatten yields every stamp in document (paint) order. The sequence reads
// the tree as it is when iteration starts and may be ranged over repeatedly.
func (m *LayerManager) Flatten() iter.Seq[Stamp] {
	return func(yield func(Stamp) bool) {
		walkStamps(m.layers, yield)
	}
}

// Find returns the layer with the given id.
func (m *LayerManager) Find(id string) (Layer, bool) {
	l, ok := findLayer(m.layers, id)
	if !ok {
		return nil, false
	}
	return cloneLayers([]Layer{l})[0], true
}

// --- Selection ---

// Selection returns the selected ids in selection order.
func (m *LayerManager) Selection() []string { return slices.Clone(m.selected) }

// IsSelected reports whether id is selected.
func (m *LayerManager) IsSelected(id string) bool { return slices.Contains(m.selected, id) }

// LastClicked returns the anchor used by range selection.
func (m *LayerManager) LastClicked() string { return m.lastClicked }

// SetSelection replaces the selection. Unknown ids are dropped.
func (m *LayerManager) SetSelection(ids []string) {
	m.selected = nil
	m.AddToSelection(ids)
}

// AddToSelection appends ids not already selected. Unknown ids are dropped.
func (m *LayerManager) AddToSelection(ids []string) {
	for _, id := range ids {
		if !slices.Contains(m.selected, id) && containsLayer(m.layers, id) {
			m.selected = append(m.selected, id)
		}
	}
}

// ClearSelection deselects everything.
func (m *LayerManager) ClearSelection() { m.selected = nil }

// Select applies a click on a layer row or a stamp:
//   - Shift with an anchor selects the range between the anchor and id in
//     [LayerManager.VisibleOrder];
//   - Ctrl or Meta toggles id and moves the anchor to it;
//   - otherwise id becomes the only selection and the anchor.
//
// Shift without an anchor behaves like a plain click. It reports false when
// nothing was applied: an unknown id, or a range end that is not visible.
func (m *LayerManager) Select(id string, mods KeyModifiers) bool {
	if !containsLayer(m.layers, id) {
		return false
	}
	switch {
	case mods&ModShift != 0 && m.lastClicked != "":
		order := m.VisibleOrder()
		from := slices.Index(order, m.lastClicked)
		to := slices.Index(order, id)
		if from < 0 || to < 0 {
			return false
		}
		if from > to {
			from, to = to, from
		}
		m.selected = slices.Clone(order[from : to+1])
	case mods.Additive():
		if i := slices.Index(m.selected, id); i >= 0 {
			m.selected = slices.Delete(slices.Clone(m.selected), i, i+1)
		} else {
			m.selected = append(slices.Clone(m.selected), id)
		}
		m.lastClicked = id
	default:
		m.selected = []string{id}
		m.lastClicked = id
	}
	return true
}

// VisibleOrder returns the ids shown in the layer list from top to bottom:
// each list in reverse paint order, descending into expanded groups only.
func (m *LayerManager) VisibleOrder() []string {
	var out []string
	var walk func([]Layer)
	walk = func(layers []Layer) {
		for _, l := range slices.Backward(layers) {
			out = append(out, l.LayerID())
			if g, ok := l.(Group); ok && !g.Collapsed {
				walk(g.Children)
			}
		}
	}
	walk(m.layers)
	return out
}

// SelectStampsIn selects the stamps whose centre lies inside r (design
// pixels). With additive set the matches are merged into the current
// selection. It returns the number of stamps matched.
func (m *LayerManager) SelectStampsIn(r Rect, additive bool) int {
	var ids []string
	for st := range m.Flatten() {
		c := st.Center()
		if r.Contains(c.X, c.Y) {
			ids = append(ids, st.ID)
		}
	}
	if additive {
		m.AddToSelection(ids)
	} else {
		m.SetSelection(ids)
	}
	return len(ids)
}

// SelectedStamp returns the stamp when exactly one stamp is selected.
func (m *LayerManager) SelectedStamp() (Stamp, bool) {
	if len(m.selected) != 1 {
		return Stamp{}, false
	}
	l, ok := findLayer(m.layers, m.selected[0])
	if !ok {
		return Stamp{}, false
	}
	st, ok := l.(Stamp)
	return st, ok
}

// pruneSelection drops selected ids that are no longer in the tree.
func (m *LayerManager) pruneSelection() {
	m.selected = slices.DeleteFunc(slices.Clone(m.selected), func(id string) bool {
		return !containsLayer(m.layers, id)
	})
	if m.lastClicked != "" && !containsLayer(m.layers, m.lastClicked) {
		m.lastClicked = ""
	}
}

// --- Structure ---

// AddStamp appends st to the root list, on top of everything else. An empty
// id is replaced with a fresh one. The stored stamp is returned.
func (m *LayerManager) AddStamp(st Stamp) Stamp {
	if st.ID == "" || containsLayer(m.layers, st.ID) {
		st.ID = m.ids.StampID()
	}
	m.layers = append(cloneLayers(m.layers), st)
	return st
}

// CreateEmptyGroup prepends a new empty group and selects it.
func (m *LayerManager) CreateEmptyGroup() Group {
	g := Group{ID: m.ids.GroupID(), Name: "New Group", Children: []Layer{}}
	m.layers = append([]Layer{g}, cloneLayers(m.layers)...)
	m.selected = []string{g.ID}
	return g
}

// Group wraps the selected layers in a new group placed where the first
// selected layer (in document order) was. Layers keep their relative order.
// A selected group is moved whole, together with any selected descendants.
// Fewer than two selected ids is a no-op.
func (m *LayerManager) Group() (Group, bool) {
	if len(m.selected) < 2 {
		return Group{}, false
	}
	sel := make(map[string]bool, len(m.selected))
	for _, id := range m.selected {
		sel[id] = true
	}

	var (
		collected []Layer
		insertAt  []int
	)
	var extract func(layers []Layer, path []int) []Layer
	extract = func(layers []Layer, path []int) []Layer {
		out := make([]Layer, 0, len(layers))
		for _, l := range layers {
			if sel[l.LayerID()] {
				if insertAt == nil {
					insertAt = append(slices.Clone(path), len(out))
				}
				collected = append(collected, cloneLayers([]Layer{l})[0])
				continue
			}
			if g, ok := l.(Group); ok {
				g.Children = extract(g.Children, append(slices.Clone(path), len(out)))
				l = g
			}
			out = append(out, l)
		}
		return out
	}
	rest := extract(m.layers, nil)
	if len(collected) < 2 {
		return Group{}, false
	}

	g := Group{ID: m.ids.GroupID(), Name: "New Group", Children: collected}
	m.layers = insertAtPath(rest, insertAt, g)
	m.selected = []string{g.ID}
	m.lastClicked = g.ID
	return g, true
}

// insertAtPath inserts l into the nested list addressed by path. All but the
// last element index groups; the last is the insertion index.
func insertAtPath(layers []Layer, path []int, l Layer) []Layer {
	if len(path) == 1 {
		return slices.Insert(slices.Clone(layers), path[0], l)
	}
	out := slices.Clone(layers)
	g := out[path[0]].(Group)
	g.Children = insertAtPath(g.Children, path[1:], l)
	out[path[0]] = g
	return out
}

// Ungroup replaces the single selected group with its children and selects
// them. Any other selection is a no-op.
func (m *LayerManager) Ungroup() bool {
	if len(m.selected) != 1 {
		return false
	}
	target := m.selected[0]
	l, ok := findLayer(m.layers, target)
	if !ok {
		return false
	}
	grp, ok := l.(Group)
	if !ok {
		return false
	}

	var splice func([]Layer) []Layer
	splice = func(layers []Layer) []Layer {
		out := make([]Layer, 0, len(layers))
		for _, l := range layers {
			g, ok := l.(Group)
			switch {
			case ok && g.ID == target:
				out = append(out, g.Children...)
			case ok:
				g.Children = splice(g.Children)
				out = append(out, g)
			default:
				out = append(out, l)
			}
		}
		return out
	}
	m.layers = splice(cloneLayers(m.layers))

	m.selected = make([]string, 0, len(grp.Children))
	for _, c := range grp.Children {
		m.selected = append(m.selected, c.LayerID())
	}
	m.lastClicked = ""
	return true
}

// Delete removes every selected layer wherever it is and clears the
// selection. It reports whether anything was selected.
func (m *LayerManager) Delete() bool {
	if len(m.selected) == 0 {
		return false
	}
	ids := make(map[string]bool, len(m.selected))
	for _, id := range m.selected {
		ids[id] = true
	}
	m.layers = removeLayers(m.layers, ids)
	m.selected = nil
	m.pruneSelection()
	return true
}

// Reorder moves the single selected layer one step within its containing
// list. Forward moves it later in paint order, so it draws above its next
// sibling. Moving past either end is a no-op.
func (m *LayerManager) Reorder(forward bool) bool {
	if len(m.selected) != 1 {
		return false
	}
	id := m.selected[0]
	moved := false
	var walk func([]Layer) []Layer
	walk = func(layers []Layer) []Layer {
		out := slices.Clone(layers)
		if i := slices.IndexFunc(out, func(l Layer) bool { return l.LayerID() == id }); i >= 0 {
			j := i - 1
			if forward {
				j = i + 1
			}
			if j >= 0 && j < len(out) {
				out[i], out[j] = out[j], out[i]
				moved = true
			}
			return out
		}
		for i, l := range out {
			if g, ok := l.(Group); ok {
				g.Children = walk(g.Children)
				out[i] = g
			}
		}
		return out
	}
	m.layers = walk(cloneLayers(m.layers))
	return moved
}

// MoveInto detaches the layer dragID and inserts it at the front of group
// targetID's children, expanding the target. Dropping a layer onto itself or
// into one of its own descendants returns [ErrIllegalTreeOp] and leaves the
// tree unchanged, as does a target that is not a group.
func (m *LayerManager) MoveInto(dragID, targetID string) error {
	dragged, ok := findLayer(m.layers, dragID)
	if !ok {
		return fmt.Errorf("move %q: %w: no such layer", dragID, ErrIllegalTreeOp)
	}
	if dragID == targetID {
		return fmt.Errorf("move %q into itself: %w", dragID, ErrIllegalTreeOp)
	}
	if g, ok := dragged.(Group); ok && containsLayer(g.Children, targetID) {
		return fmt.Errorf("move %q into descendant %q: %w", dragID, targetID, ErrIllegalTreeOp)
	}
	target, ok := findLayer(m.layers, targetID)
	if !ok {
		return fmt.Errorf("move %q: %w: no such target %q", dragID, ErrIllegalTreeOp, targetID)
	}
	if _, ok := target.(Group); !ok {
		return fmt.Errorf("move %q: %w: target %q is not a group", dragID, ErrIllegalTreeOp, targetID)
	}

	rest := removeLayers(m.layers, map[string]bool{dragID: true})
	m.layers = mapLayers(rest, func(l Layer) Layer {
		g, ok := l.(Group)
		if !ok || g.ID != targetID {
			return l
		}
		g.Children = append([]Layer{cloneLayers([]Layer{dragged})[0]}, g.Children...)
		g.Collapsed = false
		return g
	})
	return nil
}

// Rename sets a group's name and ends its rename mode.
func (m *LayerManager) Rename(id, name string) bool {
	return m.updateGroup(id, func(g Group) Group {
		g.Name = name
		g.Renaming = false
		return g
	})
}

// ToggleCollapse flips a group's collapsed flag.
func (m *LayerManager) ToggleCollapse(id string) bool {
	return m.updateGroup(id, func(g Group) Group {
		g.Collapsed = !g.Collapsed
		return g
	})
}

// ToggleRenaming flips a group's rename mode.
func (m *LayerManager) ToggleRenaming(id string) bool {
	return m.updateGroup(id, func(g Group) Group {
		g.Renaming = !g.Renaming
		return g
	})
}

func (m *LayerManager) updateGroup(id string, fn func(Group) Group) bool {
	found := false
	m.layers = mapLayers(m.layers, func(l Layer) Layer {
		if g, ok := l.(Group); ok && g.ID == id {
			found = true
			return fn(g)
		}
		return l
	})
	return found
}

// --- Stamp edits ---

// UpdateSelectedStamp replaces the single selected stamp with fn's result.
// The id is kept whatever fn returns.
func (m *LayerManager) UpdateSelectedStamp(fn func(Stamp) Stamp) bool {
	st, ok := m.SelectedStamp()
	if !ok {
		return false
	}
	m.layers = mapLayers(m.layers, func(l Layer) Layer {
		if s, ok := l.(Stamp); ok && s.ID == st.ID {
			next := fn(s)
			next.ID = s.ID
			return next
		}
		return l
	})
	return true
}

// SetSelectedStampWidth resizes the single selected stamp to a drawn width
// of px design pixels about its centre.
func (m *LayerManager) SetSelectedStampWidth(px float64) bool {
	if px <= 0 {
		return false
	}
	return m.UpdateSelectedStamp(func(s Stamp) Stamp { return s.WithWidth(px) })
}

// TranslateSelected moves every stamp that is selected, directly or through
// a selected ancestor group, by (dx, dy) design pixels.
func (m *LayerManager) TranslateSelected(dx, dy float64) int {
	if len(m.selected) == 0 || (dx == 0 && dy == 0) {
		return 0
	}
	sel := make(map[string]bool, len(m.selected))
	for _, id := range m.selected {
		sel[id] = true
	}
	n := 0
	var walk func(layers []Layer, inherited bool) []Layer
	walk = func(layers []Layer, inherited bool) []Layer {
		out := make([]Layer, len(layers))
		for i, l := range layers {
			hit := inherited || sel[l.LayerID()]
			switch v := l.(type) {
			case Stamp:
				if hit {
					v.X += dx
					v.Y += dy
					n++
				}
				out[i] = v
			case Group:
				v.Children = walk(v.Children, hit)
				out[i] = v
			}
		}
		return out
	}
	m.layers = walk(m.layers, false)
	return n
}

// CopySelected stores the single selected stamp on the clipboard.
func (m *LayerManager) CopySelected() bool {
	st, ok := m.SelectedStamp()
	if !ok {
		return false
	}
	m.clipboard = &st
	return true
}

// HasClipboard reports whether a stamp has been copied.
func (m *LayerManager) HasClipboard() bool { return m.clipboard != nil }

// Paste adds a copy of the clipboard stamp centred on at, with a new id,
// on top of the root list, and selects it.
func (m *LayerManager) Paste(at Vec2) (Stamp, bool) {
	if m.clipboard == nil {
		return Stamp{}, false
	}
	st := *m.clipboard
	w, h := st.Size()
	st.ID = ""
	st.X = at.X - w/2
	st.Y = at.Y - h/2
	st = m.AddStamp(st)
	m.selected = []string{st.ID}
	m.lastClicked = st.ID
	return st, true
}

// Depth returns the nesting depth of the tree; a flat list has depth 1.
func (m *LayerManager) Depth() int { return treeDepth(m.layers) }
