// Package svg renders keymap layers, the legend, and combo diagrams as
// SVG files.
package svg

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"keytrace/internal/layout"
)

const (
	keySide      = 54.0
	keymapBorder = 10.0
	comboTextH   = 8.0
)

// Renderer writes one SVG per layer plus legend and combo images into
// an output directory.
type Renderer struct {
	Keymap *layout.Keymap
	Opts   *layout.RenderOpts
}

// RenderAll writes everything the output options select.
func (r *Renderer) RenderAll(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	if r.Opts.Outputs.Layers {
		for _, layer := range r.Keymap.Layers {
			if err := r.renderLayer(layer, outputDir); err != nil {
				return err
			}
		}
	}
	if r.Opts.Outputs.Effort {
		if err := r.renderEffort(outputDir); err != nil {
			return err
		}
	}
	if r.Opts.Outputs.Legend {
		if err := r.renderLegend(outputDir); err != nil {
			return err
		}
	}
	if r.Opts.Outputs.Combos {
		if err := r.renderCombos(outputDir); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderLayer(layer *layout.Layer, outputDir string) error {
	var buf bytes.Buffer
	maxX, maxY := layerExtent(layer)
	writeSVGHeader(&buf, maxX, maxY)
	buf.WriteString(` <style type='text/css'>
    .keycap .border { stroke: black; stroke-width: 1; }
    .keycap .inner.border { stroke: rgba(0,0,0,.1); }
    .keycap { font-family: sans-serif; font-size: 11px}
    .keycap .sub { font-size: 9px}
  </style>
`)
	r.writeLayerKeys(&buf, layer, layerKeyOverrides{})
	buf.WriteString("</svg>")

	path := filepath.Join(outputDir, fmt.Sprintf("%s.svg", layer.ID))
	return writeFile(path, buf.Bytes())
}

// renderEffort draws the base layer with every key titled by its
// effort value.
func (r *Renderer) renderEffort(outputDir string) error {
	layer := r.Keymap.BaseLayer()
	titles := make(map[string]string, len(layer.Keys))
	for _, key := range layer.Keys {
		titles[string(key.ID)] = strconv.Itoa(key.Physical.Effort)
	}

	var buf bytes.Buffer
	maxX, maxY := layerExtent(layer)
	writeSVGHeader(&buf, maxX, maxY)
	buf.WriteString(` <style type='text/css'>
    .keycap .border { stroke: black; stroke-width: 1; }
    .keycap .inner.border { stroke: rgba(0,0,0,.1); }
    .keycap { font-family: sans-serif; font-size: 11px}
    .keycap .sub { font-size: 9px}
  </style>
`)
	r.writeLayerKeys(&buf, layer, layerKeyOverrides{titleByKey: titles})
	buf.WriteString("</svg>")

	return writeFile(filepath.Join(outputDir, "effort.svg"), buf.Bytes())
}

func (r *Renderer) renderLegend(outputDir string) error {
	itemCount := len(r.Opts.Legend)
	if itemCount == 0 {
		return nil
	}
	columns := itemCount
	if columns > 4 {
		columns = 4
	}
	rows := itemCount / columns

	keyW := 4 * keySide
	keyH := keySide
	maxX := float64(columns)*keyW + keymapBorder*2
	maxY := float64(rows)*keyH + keymapBorder*2

	var buf bytes.Buffer
	writeSVGHeader(&buf, maxX, maxY)
	buf.WriteString(` <style type='text/css'>
    .legend .border { stroke: black; stroke-width: 1; }
    .legend .inner.border { stroke: rgba(0,0,0,.1); }
    .legend { font-family: sans-serif; font-size: 11px}
  </style>
`)

	for i, item := range r.Opts.Legend {
		row := i / columns
		col := i - row*columns
		keyRender{
			x:            keymapBorder + float64(col)*keyW,
			y:            keymapBorder + float64(row)*keyH,
			w:            keyW,
			h:            keyH,
			rx:           5,
			class:        item.Class,
			outerColor:   r.classColor(item.Class),
			title:        item.Title,
			textH:        11,
			borderLeft:   6,
			borderRight:  6,
			borderTop:    4,
			borderBottom: 8,
		}.write(&buf)
	}
	buf.WriteString("</svg>")

	return writeFile(filepath.Join(outputDir, "legend.svg"), buf.Bytes())
}

// layerKeyOverrides adjusts how keys of one layer are drawn when they
// serve as a combo background.
type layerKeyOverrides struct {
	// class replaces every key class when set.
	class string
	// classByKey replaces the class for specific key ids.
	classByKey map[string]string
	// titleByKey replaces the title for specific key ids.
	titleByKey map[string]string
	// blankClass suppresses titles on keys left with this class.
	blankClass string
}

func (r *Renderer) writeLayerKeys(buf *bytes.Buffer, layer *layout.Layer, ov layerKeyOverrides) {
	for _, key := range layer.Keys {
		keyOpts := r.Opts.Get(string(layer.ID), string(key.ID))
		class := keyOpts.Class
		if ov.class != "" {
			class = ov.class
		}
		if c, ok := ov.classByKey[string(key.ID)]; ok {
			class = c
		}

		title := keyOpts.Title
		holdTitle := keyOpts.HoldTitle
		if t, ok := ov.titleByKey[string(key.ID)]; ok {
			title = t
			holdTitle = ""
		}
		if ov.blankClass != "" && class == ov.blankClass {
			title = ""
			holdTitle = ""
		}

		keyRender{
			x:            keymapBorder + key.X*keySide,
			y:            keymapBorder + key.Y*keySide,
			w:            keySide,
			h:            keySide,
			rx:           5,
			class:        class,
			outerColor:   r.classColor(class),
			title:        title,
			holdTitle:    holdTitle,
			textH:        11,
			borderLeft:   6,
			borderRight:  6,
			borderTop:    4,
			borderBottom: 8,
		}.write(buf)
	}
}

func (r *Renderer) classColor(class string) string {
	if color, ok := r.Opts.Colors[class]; ok {
		return color
	}
	return fallbackColor
}

func layerExtent(layer *layout.Layer) (maxX, maxY float64) {
	for _, key := range layer.Keys {
		if x := (1 + key.X) * keySide; x > maxX {
			maxX = x
		}
		if y := (1 + key.Y) * keySide; y > maxY {
			maxY = y
		}
	}
	return maxX + keymapBorder*2, maxY + keymapBorder*2
}

func writeSVGHeader(buf *bytes.Buffer, maxX, maxY float64) {
	fmt.Fprintf(buf, `<svg width='%vpx'
       height='%vpx'
       viewBox='0 0 %v %v'
       xmlns='http://www.w3.org/2000/svg'
       xmlns:xlink="http://www.w3.org/1999/xlink">
`, maxX, maxY, maxX, maxY)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
