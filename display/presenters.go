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

package display

import (
	"fmt"
	"io"
	"strings"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
)

// Panel accepts packed SSD1306 frames
type Panel interface {
	WriteFrame(frame []byte) error
}

// FramePresenter renders each record and pushes it to a panel
type FramePresenter struct {
	renderer *Renderer
	panel    Panel
}

// NewFramePresenter creates a presenter drawing with renderer onto panel
func NewFramePresenter(renderer *Renderer, panel Panel) *FramePresenter {
	if renderer == nil {
		renderer = NewRenderer("")
	}
	return &FramePresenter{renderer: renderer, panel: panel}
}

// Present implements polling.Presentation
func (p *FramePresenter) Present(rec mfrc522.CardRecord) error {
	if err := p.panel.WriteFrame(PackPages(p.renderer.Render(rec))); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// TextPresenter writes the display lines of each record to a writer, for
// headless operation
type TextPresenter struct {
	w     io.Writer
	title string
}

// NewTextPresenter creates a presenter writing to w. An empty title uses
// DefaultTitle.
func NewTextPresenter(w io.Writer, title string) *TextPresenter {
	if title == "" {
		title = DefaultTitle
	}
	return &TextPresenter{w: w, title: title}
}

// Present implements polling.Presentation
func (p *TextPresenter) Present(rec mfrc522.CardRecord) error {
	lines := Lines(p.title, rec)
	_, err := io.WriteString(p.w, strings.Join(lines[:], " | ")+"\n")
	return err
}

// Multi fans one record out to several presentations. Every presentation
// is called; the first error is returned.
type Multi []interface {
	Present(rec mfrc522.CardRecord) error
}

// Present implements polling.Presentation
func (m Multi) Present(rec mfrc522.CardRecord) error {
	var first error
	for _, p := range m {
		if err := p.Present(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
