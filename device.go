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

import (
	"fmt"

	"github.com/ZaparooProject/go-mfrc522/internal/spin"
)

// Default poll budgets, counted in register reads
const (
	// DefaultCommandBudget bounds the wait for a command to finish. At the
	// usual SPI clocks it covers the ~25ms a MIFARE card may take to answer.
	DefaultCommandBudget = 2000
	// DefaultCRCBudget bounds the wait for the CRC coprocessor.
	DefaultCRCBudget = 255
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// CommandBudget is the number of ComIrqReg polls before a command times out
	CommandBudget int
	// CRCBudget is the number of DivIrqReg polls before a CRC result is stale
	CRCBudget int
	// TimerReload is the chip timer reload value written during Init
	TimerReload uint16
	// AntennaGain is written to the RxGain field of RFCfgReg when non-zero
	AntennaGain byte
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		CommandBudget: DefaultCommandBudget,
		CRCBudget:     DefaultCRCBudget,
		TimerReload:   tReloadDefault,
	}
}

// Validate checks the configuration for values the chip cannot use
func (c *DeviceConfig) Validate() error {
	if err := spin.Budget(c.CommandBudget).Validate(); err != nil {
		return fmt.Errorf("command budget: %w", ErrInvalidParameter)
	}
	if err := spin.Budget(c.CRCBudget).Validate(); err != nil {
		return fmt.Errorf("crc budget: %w", ErrInvalidParameter)
	}
	if c.AntennaGain&^RxGainMask != 0 {
		return fmt.Errorf("antenna gain %#02x outside RxGain field: %w", c.AntennaGain, ErrInvalidParameter)
	}
	return nil
}

// Device represents an MFRC522 reader chip
//
// Thread Safety: Device is NOT thread-safe. Register helpers perform
// read-modify-write sequences, so a Device must be owned by exactly one
// goroutine. The acquisition loop in package polling is that owner.
type Device struct {
	transport Transport
	config    *DeviceConfig
	port      string
}

// New creates a new MFRC522 device with the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport is nil: %w", ErrInvalidParameter)
	}

	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
		port:      portName(transport),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	if err := device.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device config: %w", err)
	}

	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Port returns the name of the bus the device is attached to
func (d *Device) Port() string {
	return d.port
}

// Config returns a copy of the active configuration
func (d *Device) Config() DeviceConfig {
	return *d.config
}

// Init resets the chip and configures timer, modulation and CRC preset,
// then switches the antenna on.
func (d *Device) Init() error {
	if err := d.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	if err := d.writeRegs(
		// TPrescaler*TReload/6.78MHz before TimerIRq fires
		regVal{RegTMode, tModeAuto},
		regVal{RegTPrescaler, tPrescaler},
		regVal{RegTReloadL, byte(d.config.TimerReload)},
		regVal{RegTReloadH, byte(d.config.TimerReload >> 8)},
		regVal{RegTxAuto, BitForce100ASK},
		regVal{RegMode, modeCRCPreset},
	); err != nil {
		return fmt.Errorf("configure: %w", err)
	}

	if d.config.AntennaGain != 0 {
		if err := d.SetAntennaGain(d.config.AntennaGain); err != nil {
			return err
		}
	}

	if err := d.AntennaOn(); err != nil {
		return fmt.Errorf("antenna on: %w", err)
	}

	debugf("initialised on %s (timer reload %d)", d.port, d.config.TimerReload)
	return nil
}

// Reset issues a soft reset
func (d *Device) Reset() error {
	debugln("soft reset on", d.port)
	return d.WriteRegister(RegCommand, byte(CmdSoftReset))
}

// AntennaOn enables both antenna drivers if they are not already on
func (d *Device) AntennaOn() error {
	val, err := d.ReadRegister(RegTxControl)
	if err != nil {
		return err
	}
	if val&antennaBits == antennaBits {
		return nil
	}
	return d.WriteRegister(RegTxControl, val|antennaBits)
}

// AntennaOff disables both antenna drivers
func (d *Device) AntennaOff() error {
	return d.ClearBits(RegTxControl, antennaBits)
}

// SetAntennaGain writes the receiver gain field (one of 0x00..0x70)
func (d *Device) SetAntennaGain(gain byte) error {
	if gain&^RxGainMask != 0 {
		return fmt.Errorf("gain %#02x: %w", gain, ErrInvalidParameter)
	}
	if err := d.ClearBits(RegRFCfg, RxGainMask); err != nil {
		return err
	}
	return d.SetBits(RegRFCfg, gain)
}

// Version returns the content of VersionReg (0x91 for v1.0, 0x92 for v2.0)
func (d *Device) Version() (byte, error) {
	return d.ReadRegister(RegVersion)
}

// Close closes the device connection
func (d *Device) Close() error {
	if d.transport != nil {
		if err := d.transport.Close(); err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	return nil
}

type regVal struct {
	reg Register
	val byte
}

// writeRegs writes a list of (register, value) pairs in order
func (d *Device) writeRegs(vals ...regVal) error {
	for _, rv := range vals {
		if err := d.WriteRegister(rv.reg, rv.val); err != nil {
			return fmt.Errorf("write %s: %w", rv.reg, err)
		}
	}
	return nil
}
