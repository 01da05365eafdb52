// Package directive formats the conky display directives that place the
// rendered artifacts. The grammar is consumed verbatim by conky, so every
// function here is byte-exact.
package directive

import (
	"fmt"
	"strings"
)

// Image places a pure image.
func Image(path string, x, y, w, h int) string {
	return fmt.Sprintf("${image %s -p %d,%d -s %dx%d}", path, x, y, w, h)
}

// TextRun places one run of text at column x. color and font are
// directives from Color and Font.
func TextRun(x int, color, font, text string) string {
	return fmt.Sprintf("${goto %d}%s%s%s${font}", x, color, font, text)
}

// Color returns a color directive. A missing leading '#' is added.
func Color(hex string) string {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	return "${color " + hex + "}"
}

// Font returns a font directive.
func Font(name string, size int) string {
	return fmt.Sprintf("${font %s:size=%d}", name, size)
}
