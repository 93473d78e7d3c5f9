package layout

// KeyID is the firmware symbol for a key, e.g. "SE_A" or "MT_SPC".
type KeyID string

// MatrixPos is the firmware's native (row, column) switch address.
type MatrixPos struct {
	Row int
	Col int
}

// Pos is a visual (column, row) position in the physical layout grid.
type Pos struct {
	Col int
	Row int
}

// PhysicalPos describes where a key sits on the board and which finger
// operates it.
type PhysicalPos struct {
	Col    int
	Row    int
	Finger FingerAssignment
	Effort int
}

// Pos returns the (column, row) grid position.
func (p PhysicalPos) Pos() Pos {
	return Pos{Col: p.Col, Row: p.Row}
}

// IsSFB reports whether typing this position directly after other (or
// vice versa) forces the same finger to travel. The same position
// repeated is not an SFB.
func (p PhysicalPos) IsSFB(other PhysicalPos) bool {
	return p.Pos() != other.Pos() && p.Finger == other.Finger
}

// Key is one slot on a layer. Keys are built once by the parser and
// shared by pointer; they are never mutated afterwards.
type Key struct {
	ID       KeyID
	X        float64
	Y        float64
	Physical PhysicalPos
	Matrix   MatrixPos
}

// IsSFB reports whether k and other form a same-finger bigram.
func (k *Key) IsSFB(other *Key) bool {
	return k.Physical.IsSFB(other.Physical)
}
