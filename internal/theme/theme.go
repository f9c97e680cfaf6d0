package theme

import (
	"image/color"
)

// Theme defines the colours of the drawing window chrome.
type Theme struct {
	Name string

	// Window area around the canvas
	Background color.RGBA
	Foreground color.RGBA

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA
	Selection             color.RGBA // outline of the active swatch or brush

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	PromptText       color.RGBA
	ErrorText        color.RGBA
	BusyIndicator    color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{229, 231, 235, 255},
		Foreground:            color.RGBA{17, 24, 39, 255},
		ToolbarBackground:     color.RGBA{243, 244, 246, 255},
		ButtonBackground:      color.RGBA{255, 255, 255, 255},
		ButtonBackgroundHover: color.RGBA{219, 234, 254, 255},
		ButtonBackgroundPress: color.RGBA{191, 219, 254, 255},
		ButtonText:            color.RGBA{17, 24, 39, 255},
		ButtonBorder:          color.RGBA{156, 163, 175, 255},
		Selection:             color.RGBA{37, 99, 235, 255},
		StatusBackground:      color.RGBA{243, 244, 246, 255},
		StatusText:            color.RGBA{55, 65, 81, 255},
		PromptText:            color.RGBA{17, 24, 39, 255},
		ErrorText:             color.RGBA{220, 38, 38, 255},
		BusyIndicator:         color.RGBA{37, 99, 235, 255},
	}
}
