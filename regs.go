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

const (
	addrMask byte = 0x7E
	addrRead byte = 0x80
)

// AddressByte returns the first byte of a register access: the address
// shifted into bits 6..1, with bit 7 set for a read.
func AddressByte(reg Register, read bool) byte {
	b := (byte(reg) << 1) & addrMask
	if read {
		b |= addrRead
	}
	return b
}

// transfer performs one framed two-byte access and returns the byte
// received during the second exchange.
func (d *Device) transfer(op string, first, second byte) (byte, error) {
	if err := d.transport.Select(); err != nil {
		return 0, newBusError(op, d.port, err)
	}

	if _, err := d.transport.ExchangeByte(first); err != nil {
		_ = d.transport.Deselect()
		return 0, newBusError(op, d.port, err)
	}
	val, err := d.transport.ExchangeByte(second)
	if err != nil {
		_ = d.transport.Deselect()
		return 0, newBusError(op, d.port, err)
	}

	if err := d.transport.Deselect(); err != nil {
		return 0, newBusError(op, d.port, err)
	}
	return val, nil
}

// WriteRegister writes val to reg
func (d *Device) WriteRegister(reg Register, val byte) error {
	_, err := d.transfer("WriteRegister", AddressByte(reg, false), val)
	return err
}

// ReadRegister reads the current value of reg
func (d *Device) ReadRegister(reg Register) (byte, error) {
	return d.transfer("ReadRegister", AddressByte(reg, true), 0x00)
}

// SetBits sets the bits of mask in reg.
//
// This is a read-modify-write and is not atomic; the Device must be owned by
// a single goroutine.
func (d *Device) SetBits(reg Register, mask byte) error {
	val, err := d.ReadRegister(reg)
	if err != nil {
		return err
	}
	return d.WriteRegister(reg, val|mask)
}

// ClearBits clears the bits of mask in reg
func (d *Device) ClearBits(reg Register, mask byte) error {
	val, err := d.ReadRegister(reg)
	if err != nil {
		return err
	}
	return d.WriteRegister(reg, val&^mask)
}

// writeFIFO writes data into the chip FIFO one byte per access
func (d *Device) writeFIFO(data []byte) error {
	for _, b := range data {
		if err := d.WriteRegister(RegFIFOData, b); err != nil {
			return err
		}
	}
	return nil
}

// flushFIFO clears the FIFO pointers
func (d *Device) flushFIFO() error {
	return d.SetBits(RegFIFOLevel, BitFlushBuffer)
}
