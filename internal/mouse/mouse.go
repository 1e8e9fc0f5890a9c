// Package mouse provides terminal hit-testing and pointer capture for the
// grid view.
package mouse

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Point is a terminal cell coordinate.
type Point struct {
	X, Y int
}

// Rect is a rectangle in terminal cells. The right and bottom edges are
// exclusive.
type Rect struct {
	X, Y, W, H int
}

// RectFromPoints returns the smallest rect covering both corners.
func RectFromPoints(a, b Point) Rect {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Region is a named, clickable area.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions of the last render. Later regions win on
// overlap.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region.
func (h *HitMap) Add(id string, r Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: r, Data: data})
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Intersecting returns every region with the given id overlapping r, in
// insertion order.
func (h *HitMap) Intersecting(id string, r Rect) []Region {
	var out []Region
	for _, region := range h.regions {
		if region.ID == id && region.Rect.Intersects(r) {
			out = append(out, region)
		}
	}
	return out
}

// Clear removes all regions.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// ActionType classifies a mouse message.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionPress
	ActionDrag
	ActionHover
	ActionRelease
	ActionScrollUp
	ActionScrollDown
)

// Action is a decoded mouse message.
type Action struct {
	Type   ActionType
	Point  Point
	Region *Region
	Shift  bool
	Ctrl   bool
	Alt    bool
}

// Handler decodes bubbletea mouse messages against a HitMap and routes
// motion to the capture holder.
type Handler struct {
	HitMap  *HitMap
	Capture *Capture
}

// NewHandler returns a Handler with an empty HitMap and free capture.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), Capture: &Capture{}}
}

// HandleMouse converts msg into an Action. Motion is reported as a drag
// while the pointer is captured and as a hover otherwise.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	a := Action{
		Point: Point{X: msg.X, Y: msg.Y},
		Shift: msg.Shift,
		Ctrl:  msg.Ctrl,
		Alt:   msg.Alt,
	}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			a.Type = ActionPress
			a.Region = h.HitMap.Test(msg.X, msg.Y)
		case tea.MouseButtonWheelUp:
			a.Type = ActionScrollUp
		case tea.MouseButtonWheelDown:
			a.Type = ActionScrollDown
		}
	case tea.MouseActionMotion:
		if h.Capture.Held() {
			a.Type = ActionDrag
		} else {
			a.Type = ActionHover
		}
		a.Region = h.HitMap.Test(msg.X, msg.Y)
	case tea.MouseActionRelease:
		a.Type = ActionRelease
		a.Region = h.HitMap.Test(msg.X, msg.Y)
	}
	return a
}
