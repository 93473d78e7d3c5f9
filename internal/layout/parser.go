package layout

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Parser holds the compiled expressions used to pull layers and combos
// out of QMK sources. Construct one per run and pass it around; there
// is no package-level parsing state.
type Parser struct {
	keymaps    *regexp.Regexp
	layer      *regexp.Regexp
	comboLine  *regexp.Regexp
	quoted     *regexp.Regexp
	basicTitle *regexp.Regexp
}

// NewParser compiles the keymap source expressions.
func NewParser() *Parser {
	return &Parser{
		keymaps: regexp.MustCompile(
			`(?ms)const\s+uint16_t\s+PROGMEM\s+keymaps\[\]\[\w+\]\[\w+\]\s*=\s*\{(.+)\};`),
		layer:      regexp.MustCompile(`(?ms)\[(\w+)\]\s*=\s*(\w+)\((.+?)^\s*\),?$`),
		comboLine:  regexp.MustCompile(`^\s*(COMB|SUBS)\((.+)\)\s*$`),
		quoted:     regexp.MustCompile(`^"([^"]+)"$`),
		basicTitle: regexp.MustCompile(`^(?:SE|KC)_(\w|\d+|F\d+)$`),
	}
}

// ParseRenderOpts decodes a render options JSON document.
func (p *Parser) ParseRenderOpts(id, src string) (*RenderOpts, error) {
	var spec renderSpec
	if err := json.Unmarshal([]byte(src), &spec); err != nil {
		return nil, fmt.Errorf("failed to decode render options: %w", err)
	}

	positions, err := buildPositions(spec.PhysicalLayout, spec.FingerAssignments)
	if err != nil {
		return nil, err
	}

	defaultKeys := map[string]partialKeyOpts{}
	layerKeys := map[string]map[string]partialKeyOpts{}
	for layerID, specs := range spec.Layers {
		for _, keySpec := range specs {
			for _, key := range keySpec.Keys {
				opts := partialKeyOpts{
					id:        key,
					title:     keySpec.Title,
					holdTitle: keySpec.HoldTitle,
					class:     keySpec.Class,
				}
				if layerID == "default" {
					defaultKeys[key] = opts
					continue
				}
				if layerKeys[layerID] == nil {
					layerKeys[layerID] = map[string]partialKeyOpts{}
				}
				layerKeys[layerID][key] = opts
			}
		}
	}

	separate := make(map[string]struct{}, len(spec.Outputs.ComboKeysWithSeparateImgs))
	for _, key := range spec.Outputs.ComboKeysWithSeparateImgs {
		separate[key] = struct{}{}
	}

	return &RenderOpts{
		ID:     id,
		Legend: spec.Legend,
		Colors: spec.Colors,
		Outputs: OutputOpts{
			Effort:                     spec.Outputs.Effort,
			Layers:                     boolOr(spec.Outputs.Layers, true),
			Legend:                     boolOr(spec.Outputs.Legend, true),
			Combos:                     boolOr(spec.Outputs.Combos, true),
			ComboKeysWithSeparateImgs:  separate,
			ComboBackgroundLayerClass:  spec.Outputs.ComboBackgroundLayerClass,
			ActiveClassInSeparateLayer: spec.Outputs.ActiveClassInSeparateLayer,
		},
		positions:   positions,
		defaultKeys: defaultKeys,
		layerKeys:   layerKeys,
		basicTitle:  p.basicTitle,
	}, nil
}

// ParseKeymap builds the layout model from keymap.c, the keyboard (or
// info) JSON, and the combos.def sources.
func (p *Parser) ParseKeymap(keymapC, keyboardJSON, combosDef string, opts *RenderOpts) (*Keymap, error) {
	defs := p.parseLayerDefs(keymapC)
	if len(defs) == 0 {
		return nil, fmt.Errorf("no keymaps block found in keymap source")
	}

	var spec keyboardSpec
	if err := json.Unmarshal([]byte(keyboardJSON), &spec); err != nil {
		return nil, fmt.Errorf("failed to decode keyboard spec: %w", err)
	}

	layers := make([]*Layer, 0, len(defs))
	for _, def := range defs {
		layer, err := buildLayer(def, &spec, opts)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}

	combos, err := p.parseCombos(combosDef, layers[0])
	if err != nil {
		return nil, err
	}

	return &Keymap{Layers: layers, Combos: combos}, nil
}

type layerDef struct {
	layerID  LayerID
	layoutID string
	keys     []KeyID
}

func (p *Parser) parseLayerDefs(src string) []layerDef {
	block := p.keymaps.FindStringSubmatch(src)
	if block == nil {
		return nil
	}
	var defs []layerDef
	for _, m := range p.layer.FindAllStringSubmatch(strings.TrimSpace(block[1]), -1) {
		var keys []KeyID
		for _, part := range strings.Split(m[3], ",") {
			keys = append(keys, KeyID(strings.TrimSpace(part)))
		}
		defs = append(defs, layerDef{
			layerID:  LayerID(m[1]),
			layoutID: m[2],
			keys:     keys,
		})
	}
	return defs
}

func buildLayer(def layerDef, spec *keyboardSpec, opts *RenderOpts) (*Layer, error) {
	layoutSpec := spec.getLayout(def.layoutID)
	if layoutSpec == nil {
		return nil, fmt.Errorf("failed to find layout spec for %s", def.layoutID)
	}
	if len(def.keys) != len(layoutSpec.Layout) {
		return nil, fmt.Errorf("layer %s has %d keys but layout %s expects %d",
			def.layerID, len(def.keys), def.layoutID, len(layoutSpec.Layout))
	}

	keys := make([]*Key, len(def.keys))
	for i, id := range def.keys {
		keySpec := layoutSpec.Layout[i]
		pos, err := opts.PosAt(i)
		if err != nil {
			return nil, err
		}
		keys[i] = &Key{
			ID:       id,
			X:        keySpec.X,
			Y:        keySpec.Y,
			Matrix:   MatrixPos{Row: keySpec.Matrix[0], Col: keySpec.Matrix[1]},
			Physical: pos,
		}
	}
	return &Layer{ID: def.layerID, Keys: keys}, nil
}

func (p *Parser) parseCombos(src string, base *Layer) ([]*Combo, error) {
	lookup := make(map[string]*Key, len(base.Keys))
	for _, key := range base.Keys {
		lookup[string(key.ID)] = key
	}

	var combos []*Combo
	for _, line := range strings.Split(src, "\n") {
		m := p.comboLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		args := strings.Split(m[2], ",")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
		if len(args) < 3 {
			return nil, fmt.Errorf("combo definition %q needs an id, an output, and keys", line)
		}
		id := args[0]
		output := args[1]
		if m[1] == "SUBS" {
			if q := p.quoted.FindStringSubmatch(output); q != nil {
				output = q[1]
			}
		}

		keys := make([]*Key, 0, len(args)-2)
		for _, keyID := range args[2:] {
			key, ok := lookup[keyID]
			if !ok {
				return nil, fmt.Errorf("combo %s references %q which is not on the base layer", id, keyID)
			}
			keys = append(keys, key)
		}
		combos = append(combos, NewCombo(id, output, keys))
	}
	return combos, nil
}

type keyboardSpec struct {
	Layouts       map[string]layoutSpec `json:"layouts"`
	LayoutAliases map[string]string     `json:"layout_aliases"`
}

func (s *keyboardSpec) getLayout(id string) *layoutSpec {
	for {
		if layout, ok := s.Layouts[id]; ok {
			return &layout
		}
		alias, ok := s.LayoutAliases[id]
		if !ok {
			return nil
		}
		id = alias
	}
}

type layoutSpec struct {
	Layout []keySpec `json:"layout"`
}

type keySpec struct {
	Matrix [2]int  `json:"matrix"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type renderSpec struct {
	Layers            map[string][]keyOptSpec `json:"layers"`
	Legend            []LegendEntry           `json:"legend"`
	Colors            map[string]string       `json:"colors"`
	PhysicalLayout    []string                `json:"physical_layout"`
	FingerAssignments []string                `json:"finger_assignments"`
	Outputs           outputSpec              `json:"outputs"`
}

type keyOptSpec struct {
	Keys      []string `json:"keys"`
	Title     *string  `json:"title"`
	HoldTitle *string  `json:"hold_title"`
	Class     *string  `json:"class"`
}

// Layers, legend, and combos render unless explicitly disabled; the
// effort map is opt-in.
type outputSpec struct {
	Effort                     bool     `json:"effort"`
	Layers                     *bool    `json:"layers"`
	Legend                     *bool    `json:"legend"`
	Combos                     *bool    `json:"combos"`
	ComboKeysWithSeparateImgs  []string `json:"combo_keys_with_separate_imgs"`
	ComboBackgroundLayerClass  string   `json:"combo_background_layer_class"`
	ActiveClassInSeparateLayer string   `json:"active_class_in_separate_layer"`
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
