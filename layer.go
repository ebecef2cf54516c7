package coastline

import (
	"encoding/json"
	"fmt"
	"math"
)

// Layer is a node of the layer tree: either a [Stamp] or a [Group].
// The set of implementations is closed; tree walks switch on the concrete
// type.
type Layer interface {
	LayerID() string
	isLayer()
}

// Stamp is a placed decorative image. X and Y are the top-left corner of the
// unrotated box in design pixels; the drawn size is Width*Scale by
// Height*Scale and rotation is about the box centre, in degrees clockwise.
type Stamp struct {
	ID         string  `json:"id"`
	Src        string  `json:"src"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Scale      float64 `json:"scale"`
	Rotation   float64 `json:"rotation"`
	Opacity    float64 `json:"opacity"`
	FlipH      bool    `json:"flipH"`
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
}

// NewStamp returns a stamp of the given natural size with neutral colour
// adjustments, full opacity and scale 1.
func NewStamp(id, src string, x, y, width, height float64) Stamp {
	return Stamp{
		ID: id, Src: src,
		X: x, Y: y,
		Width: width, Height: height,
		Scale:      1,
		Opacity:    1,
		Saturation: 100,
	}
}

func (s Stamp) LayerID() string { return s.ID }
func (Stamp) isLayer()          {}

// Size returns the drawn size in design pixels.
func (s Stamp) Size() (w, h float64) {
	return s.Width * s.Scale, s.Height * s.Scale
}

// Center returns the rotation centre in design pixels.
func (s Stamp) Center() Vec2 {
	w, h := s.Size()
	return Vec2{X: s.X + w/2, Y: s.Y + h/2}
}

// Bounds returns the unrotated box in design pixels.
func (s Stamp) Bounds() Rect {
	w, h := s.Size()
	return Rect{X: s.X, Y: s.Y, Width: w, Height: h}
}

// Corners returns the rotated box corners in design pixels, clockwise from
// the top-left of the unrotated box.
func (s Stamp) Corners() [4]Vec2 {
	w, h := s.Size()
	c := s.Center()
	sin, cos := math.Sincos(s.Rotation * math.Pi / 180)
	var out [4]Vec2
	for i, d := range [4]Vec2{{-w / 2, -h / 2}, {w / 2, -h / 2}, {w / 2, h / 2}, {-w / 2, h / 2}} {
		out[i] = Vec2{X: c.X + d.X*cos - d.Y*sin, Y: c.Y + d.X*sin + d.Y*cos}
	}
	return out
}

// WithWidth returns s scaled so its drawn width is px, keeping the centre
// fixed. The aspect ratio is preserved.
func (s Stamp) WithWidth(px float64) Stamp {
	if s.Width <= 0 {
		return s
	}
	return s.WithScale(px / s.Width)
}

// WithScale returns s at the given scale, keeping the centre fixed.
func (s Stamp) WithScale(scale float64) Stamp {
	oldW, oldH := s.Size()
	s.Scale = scale
	newW, newH := s.Size()
	s.X += (oldW - newW) / 2
	s.Y += (oldH - newH) / 2
	return s
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	type plain Stamp
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{"stamp", plain(s)})
}

func (s *Stamp) UnmarshalJSON(b []byte) error {
	type plain Stamp
	// Older documents omit the colour fields; start from their neutral values.
	v := plain{Scale: 1, Opacity: 1, Saturation: 100}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Stamp(v)
	return nil
}

// Group is an ordered container of layers. Children are in paint order:
// later children are drawn above earlier ones.
type Group struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Children  []Layer `json:"children"`
	Collapsed bool    `json:"isCollapsed"`
	Renaming  bool    `json:"isRenaming"`
}

func (g Group) LayerID() string { return g.ID }
func (Group) isLayer()          {}

func (g Group) MarshalJSON() ([]byte, error) {
	children, err := LayerList(g.Children).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", g.ID, err)
	}
	return json.Marshal(struct {
		ID        string          `json:"id"`
		Type      string          `json:"type"`
		Name      string          `json:"name"`
		Children  json.RawMessage `json:"children"`
		Collapsed bool            `json:"isCollapsed"`
		Renaming  bool            `json:"isRenaming"`
	}{
		ID:        g.ID,
		Type:      "group",
		Name:      g.Name,
		Children:  children,
		Collapsed: g.Collapsed,
		Renaming:  g.Renaming,
	})
}

func (g *Group) UnmarshalJSON(b []byte) error {
	var v struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Children  json.RawMessage `json:"children"`
		Collapsed bool            `json:"isCollapsed"`
		Renaming  bool            `json:"isRenaming"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	var children []Layer
	if len(v.Children) > 0 {
		var err error
		if children, err = UnmarshalLayers(v.Children); err != nil {
			return fmt.Errorf("group %q: %w", v.ID, err)
		}
	}
	*g = Group{ID: v.ID, Name: v.Name, Children: children, Collapsed: v.Collapsed, Renaming: v.Renaming}
	return nil
}

// MarshalLayers encodes a layer list as a JSON array of tagged objects.
func MarshalLayers(layers []Layer) ([]byte, error) {
	items := make([]json.RawMessage, 0, len(layers))
	for _, l := range layers {
		var (
			b   []byte
			err error
		)
		switch v := l.(type) {
		case Stamp:
			b, err = v.MarshalJSON()
		case Group:
			b, err = v.MarshalJSON()
		default:
			return nil, fmt.Errorf("marshal layers: unknown layer type %T", l)
		}
		if err != nil {
			return nil, fmt.Errorf("marshal layer %q: %w", l.LayerID(), err)
		}
		items = append(items, b)
	}
	return json.Marshal(items)
}

// UnmarshalLayers decodes a JSON array produced by [MarshalLayers].
func UnmarshalLayers(b []byte) ([]Layer, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("unmarshal layers: %w", err)
	}
	layers := make([]Layer, 0, len(items))
	for i, raw := range items {
		var tag struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, fmt.Errorf("unmarshal layer %d: %w", i, err)
		}
		switch tag.Type {
		case "stamp":
			var s Stamp
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("unmarshal layer %d: %w", i, err)
			}
			layers = append(layers, s)
		case "group":
			var g Group
			if err := json.Unmarshal(raw, &g); err != nil {
				return nil, fmt.Errorf("unmarshal layer %d: %w", i, err)
			}
			layers = append(layers, g)
		default:
			return nil, fmt.Errorf("unmarshal layer %d: unknown type %q", i, tag.Type)
		}
	}
	return layers, nil
}

// LayerList is a layer slice with JSON support, for embedding in documents.
type LayerList []Layer

func (l LayerList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return MarshalLayers(l)
}

func (l *LayerList) UnmarshalJSON(b []byte) error {
	layers, err := UnmarshalLayers(b)
	if err != nil {
		return err
	}
	*l = layers
	return nil
}

// --- Tree helpers ---
// All helpers return new slices; inputs are never modified.

// cloneLayers deep-copies a layer list.
func cloneLayers(layers []Layer) []Layer {
	if layers == nil {
		return nil
	}
	out := make([]Layer, len(layers))
	for i, l := range layers {
		switch v := l.(type) {
		case Stamp:
			out[i] = v
		case Group:
			v.Children = cloneLayers(v.Children)
			out[i] = v
		}
	}
	return out
}

// walkStamps calls yield for every stamp in document order, descending into
// all groups regardless of collapse state. It reports false once yield does.
func walkStamps(layers []Layer, yield func(Stamp) bool) bool {
	for _, l := range layers {
		switch v := l.(type) {
		case Stamp:
			if !yield(v) {
				return false
			}
		case Group:
			if !walkStamps(v.Children, yield) {
				return false
			}
		}
	}
	return true
}

// findLayer returns the layer with the given id anywhere in the tree.
func findLayer(layers []Layer, id string) (Layer, bool) {
	for _, l := range layers {
		if l.LayerID() == id {
			return l, true
		}
		if g, ok := l.(Group); ok {
			if found, ok := findLayer(g.Children, id); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// containsLayer reports whether id appears in the tree.
func containsLayer(layers []Layer, id string) bool {
	_, ok := findLayer(layers, id)
	return ok
}

// removeLayers drops every layer whose id is in ids, at any depth.
func removeLayers(layers []Layer, ids map[string]bool) []Layer {
	out := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if ids[l.LayerID()] {
			continue
		}
		if g, ok := l.(Group); ok {
			g.Children = removeLayers(g.Children, ids)
			l = g
		}
		out = append(out, l)
	}
	return out
}

// mapLayers rebuilds the tree, replacing each layer with fn's result.
// fn sees groups after their children have been mapped.
func mapLayers(layers []Layer, fn func(Layer) Layer) []Layer {
	out := make([]Layer, len(layers))
	for i, l := range layers {
		if g, ok := l.(Group); ok {
			g.Children = mapLayers(g.Children, fn)
			l = g
		}
		out[i] = fn(l)
	}
	return out
}

// treeDepth returns the deepest nesting level; a flat list has depth 1.
func treeDepth(layers []Layer) int {
	depth := 0
	for _, l := range layers {
		d := 1
		if g, ok := l.(Group); ok {
			d += treeDepth(g.Children)
		}
		depth = max(depth, d)
	}
	return depth
}
