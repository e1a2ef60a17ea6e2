package ui

import (
	"strings"

	figure "github.com/common-nighthawk/go-figure"
)

// Banner renders the program name in block letters.
func Banner() string {
	art := figure.NewFigure("macbear", "slant", true).String()
	return bannerStyle.Render(strings.TrimRight(art, "\n")) + "\n"
}
