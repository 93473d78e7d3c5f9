package layout

import "fmt"

// LayerID names a keymap layer, e.g. "_BASE".
type LayerID string

// Layer is one firmware layer: a flat list of keys in layout order.
type Layer struct {
	ID   LayerID
	Keys []*Key
}

// FindKeyByID returns the first key with the given id, or nil.
func (l *Layer) FindKeyByID(id string) *Key {
	for _, key := range l.Keys {
		if string(key.ID) == id {
			return key
		}
	}
	return nil
}

// FindKeyByMatrix returns the key at the matrix position, or nil.
func (l *Layer) FindKeyByMatrix(pos MatrixPos) *Key {
	for _, key := range l.Keys {
		if key.Matrix == pos {
			return key
		}
	}
	return nil
}

// FindKeyByPos returns the key at the physical grid position, or nil.
func (l *Layer) FindKeyByPos(pos Pos) *Key {
	for _, key := range l.Keys {
		if key.Physical.Pos() == pos {
			return key
		}
	}
	return nil
}

// Keymap is the full layout model: all layers plus combo definitions.
type Keymap struct {
	Layers []*Layer
	Combos []*Combo
}

// IsTransparent reports whether id is a placeholder slot that falls
// through to lower layers.
func IsTransparent(id KeyID) bool {
	return id == "_______" || id == "xxxxxxx"
}

// ResolveKey finds the effective key for a matrix position, scanning
// from layerIndex down to the base layer and skipping transparent
// slots. A missing layer or an unmapped position is a LookupError.
func (k *Keymap) ResolveKey(layerIndex int, pos MatrixPos) (*Key, error) {
	if layerIndex < 0 || layerIndex >= len(k.Layers) {
		return nil, &LookupError{
			Element: "layer",
			Ref:     fmt.Sprintf("index %d of %d", layerIndex, len(k.Layers)),
		}
	}
	for i := layerIndex; i >= 0; i-- {
		key := k.Layers[i].FindKeyByMatrix(pos)
		if key != nil && !IsTransparent(key.ID) {
			return key, nil
		}
	}
	return nil, &LookupError{
		Element: "key",
		Ref:     fmt.Sprintf("matrix %d,%d reachable from layer %d", pos.Row, pos.Col, layerIndex),
	}
}

// LayerIDAt returns the id of the layer at index i.
func (k *Keymap) LayerIDAt(i int) (LayerID, error) {
	if i < 0 || i >= len(k.Layers) {
		return "", &LookupError{
			Element: "layer",
			Ref:     fmt.Sprintf("index %d of %d", i, len(k.Layers)),
		}
	}
	return k.Layers[i].ID, nil
}

// ComboAt returns the combo at index i.
func (k *Keymap) ComboAt(i int) (*Combo, error) {
	if i < 0 || i >= len(k.Combos) {
		return nil, &LookupError{
			Element: "combo",
			Ref:     fmt.Sprintf("index %d of %d", i, len(k.Combos)),
		}
	}
	return k.Combos[i], nil
}

// BaseLayer returns the bottom layer.
func (k *Keymap) BaseLayer() *Layer {
	return k.Layers[0]
}
