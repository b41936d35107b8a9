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
	"errors"
	"fmt"
	"image"
	"io"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// FrameSize is the number of bytes in one packed frame
const FrameSize = Width * Height / 8

// DefaultAddress is the I2C address of most SSD1306 modules
const DefaultAddress = 0x3C

// pixels at or above this level are lit
const litThreshold = 0x80

const (
	ctrlCommand = 0x00
	ctrlData    = 0x40
)

// ssd1306Init configures a 128x64 panel for horizontal addressing
var ssd1306Init = []byte{
	// display off, clock divide, multiplex 64, display offset 0
	0xAE, 0xD5, 0x80, 0xA8, 0x3F, 0xD3, 0x00,
	// start line 0, charge pump on, horizontal addressing
	0x40, 0x8D, 0x14, 0x20, 0x00,
	// segment remap, COM scan decrement, COM pins
	0xA1, 0xC8, 0xDA, 0x12,
	// contrast, pre-charge, VCOMH deselect
	0x81, 0xCF, 0xD9, 0xF1, 0xDB, 0x40,
	// follow RAM, normal polarity, display on
	0xA4, 0xA6, 0xAF,
}

// PackPages converts a frame into SSD1306 page order: 8 pages of Width
// columns, one byte per column with the topmost pixel in bit 0.
func PackPages(img *image.Gray) []byte {
	buf := make([]byte, FrameSize)
	b := img.Bounds()
	for y := 0; y < Height && y < b.Dy(); y++ {
		for x := 0; x < Width && x < b.Dx(); x++ {
			if img.GrayAt(b.Min.X+x, b.Min.Y+y).Y >= litThreshold {
				buf[(y/8)*Width+x] |= 1 << (y % 8)
			}
		}
	}
	return buf
}

// Bus is the part of a periph i2c.Dev the panel driver uses
type Bus interface {
	Tx(w, r []byte) error
}

// SSD1306 drives a 128x64 monochrome OLED over I2C
type SSD1306 struct {
	bus    Bus
	closer io.Closer
}

// OpenSSD1306 opens the periph I2C bus by name and initialises the panel at
// addr. periph must already be initialised.
func OpenSSD1306(busName string, addr uint16) (*SSD1306, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}
	panel, err := NewSSD1306(&i2c.Dev{Addr: addr, Bus: bus})
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	panel.closer = bus
	return panel, nil
}

// NewSSD1306 initialises a panel on bus
func NewSSD1306(bus Bus) (*SSD1306, error) {
	if bus == nil {
		return nil, errors.New("ssd1306: nil bus")
	}
	s := &SSD1306{bus: bus}
	if err := s.command(ssd1306Init...); err != nil {
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	return s, nil
}

// WriteFrame sends a packed frame to display RAM
func (s *SSD1306) WriteFrame(frame []byte) error {
	if len(frame) != FrameSize {
		return fmt.Errorf("ssd1306: frame is %d bytes, want %d", len(frame), FrameSize)
	}
	if err := s.command(0x21, 0, Width-1, 0x22, 0, Height/8-1); err != nil {
		return err
	}
	for page := 0; page < Height/8; page++ {
		w := make([]byte, 0, Width+1)
		w = append(w, ctrlData)
		w = append(w, frame[page*Width:(page+1)*Width]...)
		if err := s.bus.Tx(w, nil); err != nil {
			return fmt.Errorf("ssd1306 page %d: %w", page, err)
		}
	}
	return nil
}

// Close turns the panel off and releases the bus if this driver opened it
func (s *SSD1306) Close() error {
	err := s.command(0xAE)
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil {
			return cerr
		}
	}
	return err
}

func (s *SSD1306) command(cmds ...byte) error {
	w := make([]byte, 0, len(cmds)+1)
	w = append(w, ctrlCommand)
	w = append(w, cmds...)
	if err := s.bus.Tx(w, nil); err != nil {
		return fmt.Errorf("ssd1306 command: %w", err)
	}
	return nil
}
