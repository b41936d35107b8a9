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

// Package spi provides an SPI transport for the MFRC522 using periph.io
package spi

import (
	"errors"
	"fmt"
	"io"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// DefaultFrequency is well below the 10 MHz the chip accepts, so
	// breadboard wiring still works.
	DefaultFrequency = 4 * physic.MegaHertz

	maxFrequency = 10 * physic.MegaHertz

	// hard reset low time and oscillator start-up after release
	resetPulse   = 10 * time.Microsecond
	resetStartup = 50 * time.Millisecond
)

// ErrPinNotFound is returned when a configured GPIO name is unknown to periph
var ErrPinNotFound = errors.New("gpio pin not found")

// Config holds the bus and pin names used to reach the reader
type Config struct {
	// Port is the periph SPI port name; empty selects the first one
	Port string
	// ChipSelect is the GPIO driven as the active-low select line
	ChipSelect string
	// Reset is the GPIO wired to NRSTPD; empty skips the hard reset
	Reset string
	// Frequency is the SPI clock
	Frequency physic.Frequency
}

// DefaultConfig returns the usual Raspberry Pi wiring: CE0 as chip select
// and GPIO25 as reset.
func DefaultConfig() Config {
	return Config{
		ChipSelect: "GPIO8",
		Reset:      "GPIO25",
		Frequency:  DefaultFrequency,
	}
}

// Validate checks the configuration before any hardware is touched
func (c Config) Validate() error {
	if c.ChipSelect == "" {
		return fmt.Errorf("chip select pin is required: %w", mfrc522.ErrInvalidParameter)
	}
	if c.Frequency <= 0 || c.Frequency > maxFrequency {
		return fmt.Errorf("frequency %s outside (0, %s]: %w", c.Frequency, maxFrequency, mfrc522.ErrInvalidParameter)
	}
	return nil
}

// Conn is the part of a periph spi.Conn the transport uses
type Conn interface {
	Tx(w, r []byte) error
	String() string
}

// Transport implements the mfrc522.Transport interface over SPI with a
// software driven chip-select line
type Transport struct {
	conn     Conn
	cs       gpio.PinOut
	closer   io.Closer
	name     string
	w        [1]byte
	r        [1]byte
	selected bool
}

// New initialises periph, opens the SPI port and claims the pins in cfg
func New(cfg Config) (*Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, mfrc522.NewTransportError("open", cfg.Port, err, mfrc522.ErrorTypePermanent)
	}

	// The select line must stay low across both bytes of an access, so the
	// controller's own CS is disabled.
	conn, err := port.Connect(cfg.Frequency, spi.Mode0|spi.NoCS, 8)
	if err != nil {
		_ = port.Close()
		return nil, mfrc522.NewTransportError("connect", port.String(), err, mfrc522.ErrorTypePermanent)
	}

	cs := gpioreg.ByName(cfg.ChipSelect)
	if cs == nil {
		_ = port.Close()
		return nil, fmt.Errorf("chip select %q: %w", cfg.ChipSelect, ErrPinNotFound)
	}

	if cfg.Reset != "" {
		if err := hardReset(cfg.Reset); err != nil {
			_ = port.Close()
			return nil, err
		}
	}

	t, err := NewWithConn(conn, cs, port)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return t, nil
}

// NewWithConn builds a transport on an already connected bus. closer, if
// non-nil, is closed by Close.
func NewWithConn(conn Conn, cs gpio.PinOut, closer io.Closer) (*Transport, error) {
	if conn == nil || cs == nil {
		return nil, fmt.Errorf("conn and chip select are required: %w", mfrc522.ErrInvalidParameter)
	}
	if err := cs.Out(gpio.High); err != nil {
		return nil, mfrc522.NewTransportError("deselect", cs.String(), err, mfrc522.ErrorTypePermanent)
	}
	return &Transport{
		conn:   conn,
		cs:     cs,
		closer: closer,
		name:   conn.String(),
	}, nil
}

func hardReset(name string) error {
	rst := gpioreg.ByName(name)
	if rst == nil {
		return fmt.Errorf("reset %q: %w", name, ErrPinNotFound)
	}
	if err := rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("reset low: %w", err)
	}
	time.Sleep(resetPulse)
	if err := rst.Out(gpio.High); err != nil {
		return fmt.Errorf("reset high: %w", err)
	}
	time.Sleep(resetStartup)
	return nil
}

// Select drives the chip-select line low
func (t *Transport) Select() error {
	if err := t.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("chip select: %w", err)
	}
	t.selected = true
	return nil
}

// Deselect drives the chip-select line high
func (t *Transport) Deselect() error {
	t.selected = false
	if err := t.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("chip deselect: %w", err)
	}
	return nil
}

// ExchangeByte clocks one byte out while reading one byte in
func (t *Transport) ExchangeByte(b byte) (byte, error) {
	if !t.selected {
		return 0, errors.New("exchange without chip select")
	}
	t.w[0] = b
	if err := t.conn.Tx(t.w[:], t.r[:]); err != nil {
		return 0, fmt.Errorf("spi tx: %w", err)
	}
	return t.r[0], nil
}

// Close releases the chip-select line and the SPI port
func (t *Transport) Close() error {
	_ = t.cs.Out(gpio.High)
	if t.closer == nil {
		return nil
	}
	if err := t.closer.Close(); err != nil {
		return fmt.Errorf("failed to close SPI port: %w", err)
	}
	return nil
}

// Port returns the connection name reported by periph
func (t *Transport) Port() string {
	return t.name
}

// Type returns the transport type
func (*Transport) Type() mfrc522.TransportType {
	return mfrc522.TransportSPI
}

// Ensure Transport implements mfrc522.Transport
var _ mfrc522.Transport = (*Transport)(nil)
