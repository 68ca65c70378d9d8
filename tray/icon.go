package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"runtime"
	"sync"

	ico "github.com/sergeymakinen/go-ico"
)

const iconSize = 32

var (
	iconOnce  sync.Once
	iconBytes []byte
)

// Icon returns the tray icon in the format the platform tray expects:
// ICO on Windows, PNG elsewhere.
func Icon() []byte {
	iconOnce.Do(func() {
		if runtime.GOOS == "windows" {
			iconBytes = iconICO()
		} else {
			iconBytes = iconPNG()
		}
	})
	return iconBytes
}

// drawSpeaker draws a speaker with two sound waves.
func drawSpeaker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	fg := color.NRGBA{0xee, 0xee, 0xee, 0xff}
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			dy := math.Abs(fy - 16)
			switch {
			// body
			case x >= 4 && x < 10 && dy < 4:
				img.SetNRGBA(x, y, fg)
			// cone widens from 4 to 10 between x=10 and x=16
			case x >= 10 && x < 16 && dy < 4+fx-10:
				img.SetNRGBA(x, y, fg)
			// waves
			default:
				r := math.Hypot(fx-14, fy-16)
				if fx > 18 && ((r > 6 && r < 8) || (r > 11 && r < 13)) && dy < r*0.75 {
					img.SetNRGBA(x, y, fg)
				}
			}
		}
	}
	return img
}

func iconPNG() []byte {
	var buf bytes.Buffer
	// encoding an in-memory NRGBA can't fail
	_ = png.Encode(&buf, drawSpeaker())
	return buf.Bytes()
}

func iconICO() []byte {
	var buf bytes.Buffer
	// only fails on images larger than 256px
	_ = ico.Encode(&buf, drawSpeaker())
	return buf.Bytes()
}
