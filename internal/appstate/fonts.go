package appstate

import (
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const statusFontSize = 13

// statusFace renders the status bar. It falls back to basicfont when the
// embedded Go font cannot be parsed.
var statusFace font.Face = basicfont.Face7x13

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("parse font: %v", err)
		return
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: statusFontSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("font face: %v", err)
		return
	}
	statusFace = face
}
