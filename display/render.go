// go-mfrc522
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-mfrc522.
//
// go-mfrc522 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-mfrc522 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-mfrc522; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package display presents card records on an OLED panel, a text console,
// a binary link or a status LED.
package display

import (
	"fmt"
	"image"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Panel geometry of the usual 0.96" SSD1306 module
const (
	Width  = 128
	Height = 64
)

// DefaultTitle is drawn on the top line of every frame
const DefaultTitle = "Access Control System"

// line baselines, top to bottom
var baselines = [...]int{11, 28, 46}

// Lines returns the three text lines shown for rec
func Lines(title string, rec mfrc522.CardRecord) [3]string {
	if rec.Status == mfrc522.StatusDetected {
		return [3]string{
			title,
			fmt.Sprintf("Tag/Card: %s", rec.UIDHex()),
			"Status: Success",
		}
	}
	return [3]string{
		title,
		"Tag/Card: Not Detected",
		"Status: Unsuccessful",
	}
}

// Renderer draws card records into grayscale frames
type Renderer struct {
	face   font.Face
	title  string
	width  int
	height int
}

// NewRenderer creates a renderer for a Width x Height panel. An empty title
// uses DefaultTitle.
func NewRenderer(title string) *Renderer {
	if title == "" {
		title = DefaultTitle
	}
	return &Renderer{
		face:   basicfont.Face7x13,
		title:  title,
		width:  Width,
		height: Height,
	}
}

// Render returns a new frame for rec: white text on black
func (r *Renderer) Render(rec mfrc522.CardRecord) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.width, r.height))
	for i, text := range Lines(r.title, rec) {
		r.drawLine(img, text, baselines[i])
	}
	return img
}

// drawLine draws text with its baseline at y. Lines wider than the frame
// are squeezed horizontally to fit rather than clipped.
func (r *Renderer) drawLine(dst *image.Gray, text string, y int) {
	m := r.face.Metrics()
	ascent, height := m.Ascent.Ceil(), m.Height.Ceil()
	advance := font.MeasureString(r.face, text).Ceil()
	if advance == 0 {
		return
	}

	line := image.NewGray(image.Rect(0, 0, advance, height))
	d := font.Drawer{
		Dst:  line,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	top := y - ascent
	if advance <= r.width {
		draw.Copy(dst, image.Pt(0, top), line, line.Bounds(), draw.Over, nil)
		return
	}
	target := image.Rect(0, top, r.width, top+height)
	draw.ApproxBiLinear.Scale(dst, target, line, line.Bounds(), draw.Over, nil)
}
