package layout

import "sort"

// Combo is a firmware chord: several physical keys pressed together
// producing one logical output.
type Combo struct {
	ID     string
	Output string
	Keys   []*Key
}

// NewCombo builds a combo with its keys sorted by physical position so
// derived queries and identities are deterministic.
func NewCombo(id, output string, keys []*Key) *Combo {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i].Physical, keys[j].Physical
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.Row < b.Row
	})
	return &Combo{ID: id, Output: output, Keys: keys}
}

// Fingers returns the set of finger assignments the combo uses.
func (c *Combo) Fingers() map[FingerAssignment]struct{} {
	set := make(map[FingerAssignment]struct{}, len(c.Keys))
	for _, key := range c.Keys {
		set[key.Physical.Finger] = struct{}{}
	}
	return set
}

// Positions returns the set of physical positions the combo occupies.
func (c *Combo) Positions() map[Pos]struct{} {
	set := make(map[Pos]struct{}, len(c.Keys))
	for _, key := range c.Keys {
		set[key.Physical.Pos()] = struct{}{}
	}
	return set
}

// ContainsPos reports whether any combo key sits at pos.
func (c *Combo) ContainsPos(pos Pos) bool {
	for _, key := range c.Keys {
		if key.Physical.Pos() == pos {
			return true
		}
	}
	return false
}

// ContainsFinger reports whether any combo key uses the assignment.
func (c *Combo) ContainsFinger(fa FingerAssignment) bool {
	for _, key := range c.Keys {
		if key.Physical.Finger == fa {
			return true
		}
	}
	return false
}

// ContainsKeyID reports whether the combo is triggered by the given key.
func (c *Combo) ContainsKeyID(id string) bool {
	for _, key := range c.Keys {
		if string(key.ID) == id {
			return true
		}
	}
	return false
}

// IsKeySFB reports whether pressing key adjacent to this combo forms a
// same-finger bigram: the key must not be part of the combo, but its
// finger must be.
func (c *Combo) IsKeySFB(key *Key) bool {
	if c.ContainsPos(key.Physical.Pos()) {
		return false
	}
	return c.ContainsFinger(key.Physical.Finger)
}

// IsComboSFB reports whether two adjacent combos form a same-finger
// bigram: disjoint positions but at least one shared finger.
func (c *Combo) IsComboSFB(other *Combo) bool {
	for pos := range other.Positions() {
		if c.ContainsPos(pos) {
			return false
		}
	}
	for fa := range other.Fingers() {
		if c.ContainsFinger(fa) {
			return true
		}
	}
	return false
}

// IsHorizontalNeighbour reports whether the combo is two side-by-side
// keys on the same row.
func (c *Combo) IsHorizontalNeighbour() bool {
	if len(c.Keys) != 2 {
		return false
	}
	a, b := c.Keys[0].Physical, c.Keys[1].Physical
	return a.Row == b.Row && abs(a.Col-b.Col) == 1
}

// IsVerticalNeighbour reports whether the combo is two stacked keys in
// the same column.
func (c *Combo) IsVerticalNeighbour() bool {
	if len(c.Keys) != 2 {
		return false
	}
	a, b := c.Keys[0].Physical, c.Keys[1].Physical
	return a.Col == b.Col && abs(a.Row-b.Row) == 1
}

// IsMidTriple reports whether the combo is three consecutive keys on
// one row.
func (c *Combo) IsMidTriple() bool {
	if len(c.Keys) != 3 {
		return false
	}
	a, b, d := c.Keys[0].Physical, c.Keys[1].Physical, c.Keys[2].Physical
	return a.Row == b.Row && b.Row == d.Row &&
		d.Col-b.Col == 1 && b.Col-a.Col == 1
}

// MinX is the smallest x coordinate among the combo keys.
func (c *Combo) MinX() float64 {
	v := c.Keys[0].X
	for _, key := range c.Keys[1:] {
		if key.X < v {
			v = key.X
		}
	}
	return v
}

// MaxX is the largest x coordinate among the combo keys.
func (c *Combo) MaxX() float64 {
	v := c.Keys[0].X
	for _, key := range c.Keys[1:] {
		if key.X > v {
			v = key.X
		}
	}
	return v
}

// MinY is the smallest y coordinate among the combo keys.
func (c *Combo) MinY() float64 {
	v := c.Keys[0].Y
	for _, key := range c.Keys[1:] {
		if key.Y < v {
			v = key.Y
		}
	}
	return v
}

// MaxY is the largest y coordinate among the combo keys.
func (c *Combo) MaxY() float64 {
	v := c.Keys[0].Y
	for _, key := range c.Keys[1:] {
		if key.Y > v {
			v = key.Y
		}
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
