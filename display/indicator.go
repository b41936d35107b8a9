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

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// PinIndicator drives a status LED from a GPIO pin
type PinIndicator struct {
	pin       gpio.PinOut
	activeLow bool
}

// NewPinIndicator wraps pin and switches it off
func NewPinIndicator(pin gpio.PinOut, activeLow bool) (*PinIndicator, error) {
	ind := &PinIndicator{pin: pin, activeLow: activeLow}
	if err := ind.SetIndicator(false); err != nil {
		return nil, err
	}
	return ind, nil
}

// OpenPinIndicator looks up a GPIO by name. periph must already be initialised.
func OpenPinIndicator(name string, activeLow bool) (*PinIndicator, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("indicator pin %q not found", name)
	}
	return NewPinIndicator(pin, activeLow)
}

// SetIndicator implements polling.Indicator
func (p *PinIndicator) SetIndicator(on bool) error {
	level := gpio.Level(on != p.activeLow)
	if err := p.pin.Out(level); err != nil {
		return fmt.Errorf("indicator %s: %w", p.pin, err)
	}
	return nil
}
