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

package mfrc522

import "fmt"

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithConfig replaces the whole device configuration
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return fmt.Errorf("nil config: %w", ErrInvalidParameter)
		}
		cfg := *config
		d.config = &cfg
		return nil
	}
}

// WithCommandBudget sets the number of ComIrqReg polls before a command times out
func WithCommandBudget(polls int) Option {
	return func(d *Device) error {
		d.config.CommandBudget = polls
		return nil
	}
}

// WithCRCBudget sets the number of DivIrqReg polls before a CRC result is stale
func WithCRCBudget(polls int) Option {
	return func(d *Device) error {
		d.config.CRCBudget = polls
		return nil
	}
}

// WithTimerReload sets the chip timer reload value used to detect an absent card
func WithTimerReload(reload uint16) Option {
	return func(d *Device) error {
		if reload == 0 {
			return fmt.Errorf("timer reload must be non-zero: %w", ErrInvalidParameter)
		}
		d.config.TimerReload = reload
		return nil
	}
}

// WithAntennaGain sets the receiver gain applied during Init
func WithAntennaGain(gain byte) Option {
	return func(d *Device) error {
		d.config.AntennaGain = gain
		return nil
	}
}
