package world

import "github.com/talgya/eos-server/internal/hexgrid"

// Body is a celestial object holding non-overlapping spaces arranged in
// hex-spiral order from its own origin.
type Body struct {
	ID       string
	SystemID string
	Name     string

	// Origin on the system plane.
	Q int
	R int

	Spaces []*Space
}

// NextSpaceCoords returns the next free relative coordinate in spiral
// expansion order: center first, then ring 1, ring 2, and so on.
func (b *Body) NextSpaceCoords() (int, int) {
	used := make(map[hexgrid.Coord]bool, len(b.Spaces))
	for _, s := range b.Spaces {
		used[s.RelCoord()] = true
	}
	for _, c := range hexgrid.FirstN(len(b.Spaces) + 1) {
		if !used[c] {
			return c.Q, c.R
		}
	}
	// FirstN(n+1) over n used slots always has a free cell.
	return 0, 0
}

// AddSpace attaches a space to the body and fixes its absolute coordinates.
func (b *Body) AddSpace(s *Space) {
	s.SetOrigin(b.Q, b.R)
	b.Spaces = append(b.Spaces, s)
}

// SpaceAt returns the space at the given relative coordinates, or nil.
func (b *Body) SpaceAt(relQ, relR int) *Space {
	for _, s := range b.Spaces {
		if s.RelQ == relQ && s.RelR == relR {
			return s
		}
	}
	return nil
}

// Snapshot returns the serialized view of the body.
func (b *Body) Snapshot(st *GameState) map[string]any {
	spaces := make([]map[string]any, 0, len(b.Spaces))
	for _, s := range b.Spaces {
		spaces = append(spaces, s.Snapshot(st))
	}
	return map[string]any{
		"id":        b.ID,
		"system_id": b.SystemID,
		"name":      b.Name,
		"q":         b.Q,
		"r":         b.R,
		"spaces":    spaces,
	}
}
