package services

import (
	"fmt"
	"html"
	"strconv"
)

const badgeTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20" role="img" aria-label="%s: %s">
  <linearGradient id="s" x2="0" y2="100%%"><stop offset="0" stop-color="#bbb" stop-opacity=".1"/><stop offset="1" stop-opacity=".1"/></linearGradient>
  <rect width="%d" height="20" fill="#2b2d5c"/>
  <rect x="%d" width="%d" height="20" fill="#f5c542"/>
  <rect width="%d" height="20" fill="url(#s)"/>
  <g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" font-size="11">
    <text x="%d" y="14">%s</text>
    <text x="%d" y="14" fill="#2b2d5c">%s</text>
  </g>
</svg>`

// RenderBadge returns an SVG badge showing label and total
func RenderBadge(total int, label string) string {
	label = html.EscapeString(label)
	value := "★ " + strconv.Itoa(total)

	labelWidth := 10 + 7*len([]rune(label))
	valueWidth := 10 + 7*len([]rune(value))
	width := labelWidth + valueWidth

	return fmt.Sprintf(badgeTemplate,
		width, label, value,
		labelWidth,
		labelWidth, valueWidth,
		width,
		labelWidth/2, label,
		labelWidth+valueWidth/2, value,
	)
}
