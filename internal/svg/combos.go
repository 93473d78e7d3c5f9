package svg

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"sort"

	"keytrace/internal/layout"
)

// renderCombos splits the combos into display groups: neighbours and
// mid triples drawn as overlays on a muted base layer, configured keys
// with their own per-key image, and everything else as one image per
// combo.
func (r *Renderer) renderCombos(outputDir string) error {
	base := r.Keymap.BaseLayer()

	var midTriples, neighbours, others []*layout.Combo
	separate := map[string][]*layout.Combo{}

	for _, combo := range r.Keymap.Combos {
		handled := false
		if len(combo.Keys) == 2 {
			for _, key := range combo.Keys {
				id := string(key.ID)
				if _, ok := r.Opts.Outputs.ComboKeysWithSeparateImgs[id]; ok {
					separate[id] = append(separate[id], combo)
					handled = true
				}
			}
		}
		if handled {
			continue
		}
		switch {
		case combo.IsMidTriple():
			midTriples = append(midTriples, combo)
		case combo.IsHorizontalNeighbour() || combo.IsVerticalNeighbour():
			neighbours = append(neighbours, combo)
		default:
			others = append(others, combo)
		}
	}

	if err := r.renderCombosOnLayer(neighbours, base, filepath.Join(outputDir, "neighbour_combos.svg")); err != nil {
		return err
	}
	if err := r.renderCombosOnLayer(midTriples, base, filepath.Join(outputDir, "mid_triple_combos.svg")); err != nil {
		return err
	}

	activeKeys := make([]string, 0, len(separate))
	for id := range separate {
		activeKeys = append(activeKeys, id)
	}
	sort.Strings(activeKeys)
	for _, id := range activeKeys {
		path := filepath.Join(outputDir, fmt.Sprintf("%s.svg", id))
		if err := r.renderSeparateKeyCombos(id, separate[id], base, path); err != nil {
			return err
		}
	}

	for _, combo := range others {
		path := filepath.Join(outputDir, fmt.Sprintf("%s.svg", combo.ID))
		if err := r.renderSingleCombo(combo, base, path); err != nil {
			return err
		}
	}
	return nil
}

// renderCombosOnLayer draws the base layer muted with small combo keys
// overlaid between their trigger keys.
func (r *Renderer) renderCombosOnLayer(combos []*layout.Combo, base *layout.Layer, path string) error {
	var buf bytes.Buffer
	maxX, maxY := layerExtent(base)
	writeSVGHeader(&buf, maxX, maxY)
	writeComboStyle(&buf)

	r.writeLayerKeys(&buf, base, layerKeyOverrides{
		class: r.Opts.Outputs.ComboBackgroundLayerClass,
	})

	buf.WriteString("<g class=\"combos\">\n")
	for _, combo := range combos {
		r.writeComboOverlay(&buf, base, combo)
	}
	buf.WriteString("</g>\n</svg>")

	return writeFile(path, buf.Bytes())
}

func (r *Renderer) writeComboOverlay(buf *bytes.Buffer, base *layout.Layer, combo *layout.Combo) {
	outputOpts := r.Opts.Get(string(base.ID), combo.Output)
	title := outputOpts.Title
	const (
		comboCharW  = 5.0
		textPadding = 10.0
		comboKeyH   = 16.0
	)
	calcW := func(minW float64) float64 {
		w := float64(len([]rune(title)))*comboCharW + textPadding
		if w < minW {
			w = minW
		}
		return w
	}

	var x, y, w float64
	switch {
	case combo.IsVerticalNeighbour():
		w = calcW(28)
		a, b := combo.Keys[0], combo.Keys[1]
		x = keymapBorder + a.X*keySide + keySide/2 - w/2
		y = keymapBorder + (1+minF(a.Y, b.Y))*keySide - comboKeyH/2
	case combo.IsHorizontalNeighbour():
		w = calcW(28)
		a, b := combo.Keys[0], combo.Keys[1]
		topEdge := maxF(a.Y, b.Y) * keySide
		bottomEdge := minF(a.Y, b.Y)*keySide + keySide
		midY := topEdge + (bottomEdge-topEdge)/2
		y = keymapBorder + midY - comboKeyH/2
		x = keymapBorder + maxF(a.X, b.X)*keySide - w/2
	case combo.IsMidTriple():
		w = calcW(80)
		a, b, c := combo.Keys[0], combo.Keys[1], combo.Keys[2]
		topEdge := maxF(a.Y, maxF(b.Y, c.Y)) * keySide
		bottomEdge := minF(a.Y, minF(b.Y, c.Y))*keySide + keySide
		midY := topEdge + (bottomEdge-topEdge)/2
		y = keymapBorder + midY - comboKeyH/2
		x = keymapBorder + (1.5+a.X)*keySide - w/2
	default:
		return
	}

	keyRender{
		x:            x,
		y:            y,
		w:            w,
		h:            comboKeyH,
		rx:           4,
		class:        outputOpts.Class,
		outerColor:   r.classColor(outputOpts.Class),
		title:        title,
		textH:        comboTextH,
		borderLeft:   1.5,
		borderRight:  1.5,
		borderTop:    1,
		borderBottom: 2.5,
	}.write(buf)
}

// renderSeparateKeyCombos draws all combos sharing one trigger key in
// a single image: the active key highlighted, the partner keys
// relabeled with each combo output.
func (r *Renderer) renderSeparateKeyCombos(activeKey string, combos []*layout.Combo, base *layout.Layer, path string) error {
	classByKey := map[string]string{
		activeKey: r.Opts.Outputs.ActiveClassInSeparateLayer,
	}
	titleByKey := map[string]string{}
	for _, combo := range combos {
		outputOpts := r.Opts.Get(string(base.ID), combo.Output)
		for _, key := range combo.Keys {
			id := string(key.ID)
			if id == activeKey {
				continue
			}
			classByKey[id] = outputOpts.Class
			titleByKey[id] = outputOpts.Title
		}
	}

	var buf bytes.Buffer
	maxX, maxY := layerExtent(base)
	writeSVGHeader(&buf, maxX, maxY)
	writeComboStyle(&buf)

	background := r.Opts.Outputs.ComboBackgroundLayerClass
	r.writeLayerKeys(&buf, base, layerKeyOverrides{
		class:      background,
		classByKey: classByKey,
		titleByKey: titleByKey,
		blankClass: background,
	})
	buf.WriteString("</svg>")

	return writeFile(path, buf.Bytes())
}

// renderSingleCombo draws one combo on a muted base layer with its
// trigger keys highlighted and the output printed at the top.
func (r *Renderer) renderSingleCombo(combo *layout.Combo, base *layout.Layer, path string) error {
	outputOpts := r.Opts.Get(string(base.ID), combo.Output)
	classByKey := map[string]string{}
	for _, key := range combo.Keys {
		classByKey[string(key.ID)] = outputOpts.Class
	}

	var buf bytes.Buffer
	maxX, maxY := layerExtent(base)
	writeSVGHeader(&buf, maxX, maxY)
	buf.WriteString(` <style type='text/css'>
    .keycap .border { stroke: black; stroke-width: 1; }
    .keycap .inner.border { stroke: rgba(0,0,0,.1); }
    .keycap { font-family: sans-serif; font-size: 11px}
    .combo-output { font-family: sans-serif; font-size: 16px}
    .combos .keycap { font-size: 8px}
  </style>
`)

	r.writeLayerKeys(&buf, base, layerKeyOverrides{
		class:      r.Opts.Outputs.ComboBackgroundLayerClass,
		classByKey: classByKey,
	})

	fmt.Fprintf(&buf, "<text x=\"%v\" y=\"12\" text-anchor=\"middle\" dominant-baseline=\"middle\" class=\"combo-output\">%s</text>\n",
		maxX/2, html.EscapeString(combo.Output))
	buf.WriteString("</svg>")

	return writeFile(path, buf.Bytes())
}

func writeComboStyle(buf *bytes.Buffer) {
	buf.WriteString(` <style type='text/css'>
    .keycap .border { stroke: black; stroke-width: 1; }
    .keycap .inner.border { stroke: rgba(0,0,0,.1); }
    .keycap { font-family: sans-serif; font-size: 11px}
    .combos .keycap { font-size: 8px}
  </style>
`)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
