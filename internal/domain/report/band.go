package report

import "github.com/bandkit/bandkit/internal/domain/values"

// Band is a named report section as authored in a definition. Child bands
// nest inline in YAML; at run time the tree is flattened into an Arena so
// traversal depth is bounded regardless of nesting depth.
type Band struct {
	Name string          `yaml:"name" json:"name"`
	Kind values.BandKind `yaml:"kind" json:"kind"`

	// GroupLevel binds group_header/group_footer bands to a grouping
	// level. Nil for bands that are not group-bound.
	GroupLevel *int `yaml:"group_level,omitempty" json:"group_level,omitempty"`

	// Height is a layout hint used by the cursor for pagination
	// bookkeeping; the visual layout algorithm lives elsewhere.
	Height   float64   `yaml:"height,omitempty" json:"height,omitempty"`
	Elements []Element `yaml:"elements,omitempty" json:"elements,omitempty"`
	Children []Band    `yaml:"children,omitempty" json:"children,omitempty"`
}

// BandID is a handle into a band arena.
type BandID int

// BandNode is a band stored in a flat arena, with children referenced by
// handle instead of pointer.
type BandNode struct {
	ID         BandID
	Name       string
	Kind       values.BandKind
	GroupLevel int // -1 when not group-bound
	Height     float64
	Elements   []Element
	Children   []BandID
}

// Arena stores the band tree flat. Every traversal over it is explicit
// stack based, never call-recursive, so the engine's current position is
// inspectable and stack depth stays bounded.
type Arena struct {
	Nodes []BandNode
	Roots []BandID
}

// Flatten builds the arena form of the report's band tree in document
// (pre-order) order.
func (r *Report) Flatten() *Arena {
	arena := &Arena{}

	type frame struct {
		band   *Band
		parent BandID // -1 for roots
	}

	// Seed the stack with roots in reverse so pop order matches
	// document order.
	stack := make([]frame, 0, len(r.Bands))
	for i := len(r.Bands) - 1; i >= 0; i-- {
		stack = append(stack, frame{band: &r.Bands[i], parent: -1})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := BandID(len(arena.Nodes))
		level := -1
		if top.band.GroupLevel != nil {
			level = *top.band.GroupLevel
		}
		arena.Nodes = append(arena.Nodes, BandNode{
			ID:         id,
			Name:       top.band.Name,
			Kind:       top.band.Kind,
			GroupLevel: level,
			Height:     top.band.Height,
			Elements:   top.band.Elements,
		})

		if top.parent < 0 {
			arena.Roots = append(arena.Roots, id)
		} else {
			arena.Nodes[top.parent].Children = append(arena.Nodes[top.parent].Children, id)
		}

		for i := len(top.band.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{band: &top.band.Children[i], parent: id})
		}
	}

	return arena
}

// Walk visits every node in document order using an explicit stack.
// Returning false from visit stops the walk.
func (a *Arena) Walk(visit func(*BandNode) bool) {
	stack := make([]BandID, 0, len(a.Roots))
	for i := len(a.Roots) - 1; i >= 0; i-- {
		stack = append(stack, a.Roots[i])
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &a.Nodes[id]
		if !visit(node) {
			return
		}

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
}

// ByKind returns the IDs of all bands of a kind, in document order.
func (a *Arena) ByKind(kind values.BandKind) []BandID {
	var ids []BandID
	a.Walk(func(node *BandNode) bool {
		if node.Kind == kind {
			ids = append(ids, node.ID)
		}
		return true
	})
	return ids
}

// GroupHeader returns the group header band for a level, if declared.
func (a *Arena) GroupHeader(level int) (*BandNode, bool) {
	return a.groupBand(values.BandGroupHeader, level)
}

// GroupFooter returns the group footer band for a level, if declared.
func (a *Arena) GroupFooter(level int) (*BandNode, bool) {
	return a.groupBand(values.BandGroupFooter, level)
}

func (a *Arena) groupBand(kind values.BandKind, level int) (*BandNode, bool) {
	var found *BandNode
	a.Walk(func(node *BandNode) bool {
		if node.Kind == kind && node.GroupLevel == level {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}

// Node returns the node for a handle.
func (a *Arena) Node(id BandID) *BandNode {
	return &a.Nodes[id]
}
