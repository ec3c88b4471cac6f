// Package theme holds the overlay chrome palette and its file format.
package theme

import (
	"image/color"
)

// Theme defines the colours of the capture overlay. Annotation colours come
// from the style settings, not from the theme.
type Theme struct {
	Name string

	// Overlay
	Dim             color.RGBA // shade over the frame outside the selection
	SelectionBorder color.RGBA
	HandleFill      color.RGBA
	HandleBorder    color.RGBA
	Highlight       color.RGBA // border of the window under the pointer
	HighlightFill   color.RGBA
	ElementOutline  color.RGBA // dashed box around the selected annotation
	Caret           color.RGBA

	// Toolbar
	ToolbarBackground color.RGBA
	ToolbarText       color.RGBA
	ButtonActive      color.RGBA
	ButtonDisabled    color.RGBA

	// Busy tints the selection while text recognition runs.
	Busy color.RGBA
}

// Default returns the built-in dark overlay theme.
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Dim:               color.RGBA{0, 0, 0, 120},
		SelectionBorder:   color.RGBA{0, 120, 215, 255},
		HandleFill:        color.RGBA{255, 255, 255, 255},
		HandleBorder:      color.RGBA{0, 120, 215, 255},
		Highlight:         color.RGBA{0, 170, 255, 255},
		HighlightFill:     color.RGBA{0, 170, 255, 40},
		ElementOutline:    color.RGBA{255, 255, 255, 200},
		Caret:             color.RGBA{255, 255, 255, 255},
		ToolbarBackground: color.RGBA{32, 32, 32, 230},
		ToolbarText:       color.RGBA{235, 235, 235, 255},
		ButtonActive:      color.RGBA{0, 120, 215, 255},
		ButtonDisabled:    color.RGBA{110, 110, 110, 255},
		Busy:              color.RGBA{0, 0, 0, 90},
	}
}
