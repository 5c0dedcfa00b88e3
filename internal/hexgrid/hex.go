// Package hexgrid provides pure axial-coordinate hex math: distance,
// adjacency, ring and spiral enumeration, and body radius estimation.
// Uses axial coordinates (q, r) with the implicit cube coordinate s = -q - r.
package hexgrid

// Coord is a position on the hex plane in axial coordinates.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int {
	return -c.Q - c.R
}

// Add returns c+d in axial space.
func (c Coord) Add(d Coord) Coord {
	return Coord{Q: c.Q + d.Q, R: c.R + d.R}
}

// Scale returns c scaled by k.
func (c Coord) Scale(k int) Coord {
	return Coord{Q: c.Q * k, R: c.R * k}
}

// Directions lists the six axial neighbor offsets in fixed order:
// E, NE, NW, W, SW, SE.
var Directions = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent coordinates of c.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i, d := range Directions {
		out[i] = c.Add(d)
	}
	return out
}

// Distance returns the hex distance between two axial coordinates:
// the max of the absolute cube-coordinate differences.
func Distance(a, b Coord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// Adjacent reports whether two coordinates are exactly one step apart.
func Adjacent(a, b Coord) bool {
	return Distance(a, b) == 1
}

// Ring returns the 6*k coordinates at exact distance k from center,
// starting k steps out in direction 4 (SW) and walking the six sides.
// Ring(c, 0) returns [c].
func Ring(center Coord, k int) []Coord {
	if k == 0 {
		return []Coord{center}
	}
	out := make([]Coord, 0, 6*k)
	cur := center.Add(Directions[4].Scale(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			out = append(out, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return out
}

// Spiral returns the center followed by rings 1..radius, concatenated.
// This is the canonical placement order for auto-assigned coordinates.
func Spiral(center Coord, radius int) []Coord {
	out := []Coord{center}
	for k := 1; k <= radius; k++ {
		out = append(out, Ring(center, k)...)
	}
	return out
}

// FirstN returns the first n coordinates of the infinite spiral from the
// origin. Used to find the next free slot on a body.
func FirstN(n int) []Coord {
	out := make([]Coord, 0, n)
	for k := 0; len(out) < n; k++ {
		out = append(out, Ring(Coord{}, k)...)
	}
	return out[:n]
}

// DiskSize returns the number of cells in a filled hex disk of radius r.
func DiskSize(r int) int {
	if r <= 0 {
		return 1
	}
	return 1 + 3*r*(r+1)
}

// EstimateBodyRadius returns the smallest radius r whose capacity
// 1 + 3r(r-1) holds at least spaceCount cells. The capacity is deliberately
// conservative so reserved placement disks always cover the spiral.
func EstimateBodyRadius(spaceCount int) int {
	r := 0
	for estimateCapacity(r) < spaceCount {
		r++
	}
	return r
}

func estimateCapacity(r int) int {
	if r <= 0 {
		return 1
	}
	return 1 + 3*r*(r-1)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
