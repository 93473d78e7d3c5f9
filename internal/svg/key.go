package svg

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const fallbackColor = "#e5c494"

// keyRender draws one keycap: an outer rect in the class color with a
// lightened inner rect, the title centered, and an optional hold title
// below.
type keyRender struct {
	x, y, w, h float64
	rx         float64
	class      string
	outerColor string
	title      string
	holdTitle  string
	textH      float64

	borderLeft   float64
	borderRight  float64
	borderTop    float64
	borderBottom float64
}

func (k keyRender) write(w io.Writer) {
	innerW := k.w - (k.borderLeft + k.borderRight)
	innerH := k.h - (k.borderTop + k.borderBottom)
	innerX := k.x + k.borderLeft
	innerY := k.y + k.borderTop

	fmt.Fprintf(w, `    <g class="keycap %s">
      <rect x="%v" y="%v"
            width="%v" height="%v"
            rx="%v" fill="%s" class="outer border"/>
      <rect x="%v" y="%v"
            width="%v" height="%v"
            rx="%v" fill="%s" class="inner border"/>
`,
		k.class,
		k.x, k.y, k.w, k.h, k.rx, k.outerColor,
		innerX, innerY, innerW, innerH, k.rx, lightenColor(k.outerColor, 0.1))

	if k.title != "" {
		lines := strings.Split(k.title, "\n")
		yOffset := float64(len(lines)-1) * k.textH / 2
		textX := innerX + innerW/2
		textY := innerY + innerH/2 - yOffset

		fmt.Fprintf(w, "<text x=\"%v\" y=\"%v\" text-anchor=\"middle\" dominant-baseline=\"middle\" class=\"main\">\n", textX, textY)
		for i, line := range lines {
			dy := k.textH
			if i == 0 {
				dy = 0
			}
			fmt.Fprintf(w, "<tspan x=\"%v\" dy=\"%v\">%s</tspan>\n", textX, dy, html.EscapeString(line))
		}
		fmt.Fprintln(w, "</text>")
	}

	if k.holdTitle != "" {
		textX := innerX + innerW/2
		textY := innerY + innerW + 6.2
		fmt.Fprintf(w, "<text x=\"%v\" y=\"%v\" text-anchor=\"middle\" class=\"sub\">%s</text>\n",
			textX, textY, html.EscapeString(k.holdTitle))
	}
	fmt.Fprintln(w, "</g>")
}

// lightenColor raises the HSV value of a hex color, keeping hue and
// saturation.
func lightenColor(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, v := c.Hsv()
	v += amount
	if v > 1 {
		v = 1
	}
	return colorful.Hsv(h, s, v).Clamped().Hex()
}
