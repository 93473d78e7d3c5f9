package layout

import (
	"fmt"
	"regexp"
	"strings"
)

// RenderOpts carries everything the renderers and the keymap builder
// need beyond the firmware sources: per-key display overrides, legend
// and colors, and the physical layout / finger assignment grids.
type RenderOpts struct {
	ID      string
	Legend  []LegendEntry
	Colors  map[string]string
	Outputs OutputOpts

	positions   []PhysicalPos
	defaultKeys map[string]partialKeyOpts
	layerKeys   map[string]map[string]partialKeyOpts
	basicTitle  *regexp.Regexp
}

// LegendEntry is one legend item: a css class and its description.
type LegendEntry struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

// OutputOpts selects what the render command produces.
type OutputOpts struct {
	Effort                     bool
	Layers                     bool
	Legend                     bool
	Combos                     bool
	ComboKeysWithSeparateImgs  map[string]struct{}
	ComboBackgroundLayerClass  string
	ActiveClassInSeparateLayer string
}

// KeyOpts is the resolved display info for one key on one layer.
type KeyOpts struct {
	ID        string
	Title     string
	HoldTitle string
	Class     string
}

type partialKeyOpts struct {
	id        string
	title     *string
	holdTitle *string
	class     *string
}

// Get resolves display options for a key on a layer: defaults first,
// then the "default" overrides, then layer-specific overrides.
func (o *RenderOpts) Get(layerID, keyID string) KeyOpts {
	res := KeyOpts{
		ID:    keyID,
		Title: o.keyTitle(keyID),
		Class: "default",
	}
	if opts, ok := o.defaultKeys[keyID]; ok {
		res.merge(opts)
	}
	if keys, ok := o.layerKeys[layerID]; ok {
		if opts, ok := keys[keyID]; ok {
			res.merge(opts)
		}
	}
	return res
}

func (k *KeyOpts) merge(opts partialKeyOpts) {
	if opts.title != nil {
		k.Title = *opts.title
	}
	if opts.holdTitle != nil {
		k.HoldTitle = *opts.holdTitle
	}
	if opts.class != nil {
		k.Class = *opts.class
	}
}

// PosAt returns the physical position for a layout index.
func (o *RenderOpts) PosAt(index int) (PhysicalPos, error) {
	if index < 0 || index >= len(o.positions) {
		return PhysicalPos{}, &LookupError{
			Element: "position",
			Ref:     fmt.Sprintf("layout index %d of %d", index, len(o.positions)),
		}
	}
	return o.positions[index], nil
}

// NumPositions is the number of physical positions in the layout grid.
func (o *RenderOpts) NumPositions() int {
	return len(o.positions)
}

func (o *RenderOpts) keyTitle(id string) string {
	if m := o.basicTitle.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	if title, ok := keyTitles[id]; ok {
		return title
	}
	return id
}

var keyTitles = map[string]string{
	"SE_DOT":  ".",
	"SE_COMM": ",",
	"SE_SLSH": "/",
	"SE_LPRN": "(",
	"SE_RPRN": ")",
	"SE_UNDS": "_",
	"SE_TILD": "~",
	"TILD":    "~",
	"SE_PLUS": "+",
	"SE_ASTR": "*",
	"SE_EXLM": "!",
	"SE_PIPE": "|",
	"SE_HASH": "#",
	"SE_COLN": ":",
	"SE_AT":   "@",
	"SE_CIRC": "^",
	"CIRC":    "^",
	"SE_LCBR": "{",
	"SE_RCBR": "}",
	"SE_MINS": "-",
	"SE_BSLS": "\\",
	"SE_GRV":  "`",
	"GRV":     "`",
	"SE_QUES": "?",
	"SE_LBRC": "[",
	"SE_RBRC": "]",
	"SE_LABK": "<",
	"SE_RABK": ">",
	"SE_PERC": "%",
	"SE_AMPR": "&",
	"SE_ARNG": "Å",
	"SE_ADIA": "Ä",
	"SE_ODIA": "Ö",
	"SE_ACUT": "´",
	"SE_DIAE": "¨",
	"SE_EQL":  "=",
	"SE_DLR":  "$",
	"SE_QUOT": "'",
	"SE_DQUO": "\"",
	"SE_SCLN": ";",
	"KC_UP":   "↑",
	"KC_DOWN": "↓",
	"KC_LEFT": "←",
	"KC_RGHT": "→",
	"KC_HOME": "Home",
	"KC_END":  "End",
	"KC_ESC":  "Esc",
	"KC_TAB":  "Tab",
	"KC_PGUP": "PgUp",
	"KC_PGDN": "PgDn",
	"KC_BSPC": "Bspc",
	"KC_DEL":  "Del",
	"KC_ENT":  "Enter",
	"KC_LSFT": "Shift",
	"KC_RSFT": "Shift",
}

// gridCell is one digit in a physical_layout or finger_assignments row.
type gridCell struct {
	col   int
	row   int
	half  Half
	value int
}

// parseGrid reads rows of digits where a run of four spaces splits the
// left and right halves. Columns advance per character; the separator
// itself is not counted.
func parseGrid(rows []string, what string) ([]gridCell, error) {
	var cells []gridCell
	for row, line := range rows {
		halves := strings.Split(strings.TrimRight(line, " "), "    ")
		if len(halves) > 2 {
			return nil, fmt.Errorf("%s row %d: more than two halves", what, row)
		}
		col := 0
		for i, half := range halves {
			side := Left
			if i == 1 {
				side = Right
			}
			for _, ch := range half {
				if ch != ' ' {
					if ch < '0' || ch > '9' {
						return nil, fmt.Errorf("%s row %d: %q is not a digit", what, row, ch)
					}
					cells = append(cells, gridCell{
						col:   col,
						row:   row,
						half:  side,
						value: int(ch - '0'),
					})
				}
				col++
			}
		}
	}
	return cells, nil
}

// buildPositions zips the effort grid with the finger grid into the
// per-index physical positions.
func buildPositions(effortRows, fingerRows []string) ([]PhysicalPos, error) {
	efforts, err := parseGrid(effortRows, "physical_layout")
	if err != nil {
		return nil, err
	}
	fingers, err := parseGrid(fingerRows, "finger_assignments")
	if err != nil {
		return nil, err
	}
	if len(efforts) != len(fingers) {
		return nil, fmt.Errorf("physical_layout has %d positions but finger_assignments has %d",
			len(efforts), len(fingers))
	}

	positions := make([]PhysicalPos, len(efforts))
	for i, e := range efforts {
		f := fingers[i]
		if e.col != f.col || e.row != f.row || e.half != f.half {
			return nil, fmt.Errorf("grid mismatch at index %d: %d,%d vs %d,%d",
				i, e.col, e.row, f.col, f.row)
		}
		if f.value > int(Thumb) {
			return nil, fmt.Errorf("finger value %d at index %d unknown", f.value, i)
		}
		positions[i] = PhysicalPos{
			Col:    e.col,
			Row:    e.row,
			Effort: e.value,
			Finger: FingerAssignment{Finger: Finger(f.value), Half: e.half},
		}
	}
	return positions, nil
}
