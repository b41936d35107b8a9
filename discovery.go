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

// RequestMode selects which cards answer a Request
type RequestMode byte

const (
	// ReqIdle wakes only cards in the IDLE state (REQA)
	ReqIdle RequestMode = PICCReqIdle
	// ReqAll also wakes halted cards (WUPA)
	ReqAll RequestMode = PICCReqAll
)

// Request sends REQA or WUPA as a 7-bit short frame and returns the
// card's ATQA. Anything other than a 16-bit answer is an error.
func (d *Device) Request(mode RequestMode) (TagType, error) {
	var tagType TagType

	if err := d.WriteRegister(RegBitFraming, 0x07); err != nil {
		return tagType, fmt.Errorf("request: %w", err)
	}

	resp, err := d.ExecuteCommand(CmdTransceive, []byte{byte(mode)}, MaxLen)
	if err != nil {
		return tagType, fmt.Errorf("request: %w", err)
	}
	if resp.Bits != requestBits {
		return tagType, fmt.Errorf("request: %w: got %d bits, want %d", ErrBitCount, resp.Bits, requestBits)
	}

	copy(tagType[:], resp.Data)
	return tagType, nil
}

// Anticollision runs cascade level 1 anticollision and returns the four
// UID bytes followed by their BCC. Only single size (4-byte) UIDs are
// handled.
func (d *Device) Anticollision() (Serial, error) {
	var serial Serial

	if err := d.WriteRegister(RegBitFraming, 0x00); err != nil {
		return serial, fmt.Errorf("anticollision: %w", err)
	}

	resp, err := d.ExecuteCommand(CmdTransceive, []byte{PICCAnticollCL, nvbAnticoll}, MaxLen)
	if err != nil {
		return serial, fmt.Errorf("anticollision: %w", err)
	}

	copy(serial[:], resp.Data)
	if !ValidSerial(serial) {
		return serial, fmt.Errorf("anticollision: %w: % X", ErrChecksumMismatch, serial)
	}
	return serial, nil
}

// SelectTag selects the card with the given serial and returns the SAK
// byte, which callers commonly read as the card's capacity code. It
// returns 0 with an error when the card does not answer with 24 bits.
func (d *Device) SelectTag(serial Serial) (byte, error) {
	frame := make([]byte, 0, 9)
	frame = append(frame, PICCSelectCL, nvbSelect)
	frame = append(frame, serial[:]...)

	frame, err := d.appendCRC(frame)
	if err != nil {
		return 0, fmt.Errorf("select: %w", err)
	}

	resp, err := d.ExecuteCommand(CmdTransceive, frame, MaxLen)
	if err != nil {
		return 0, fmt.Errorf("select: %w", err)
	}
	if resp.Bits != selectBits {
		return 0, fmt.Errorf("select: %w: got %d bits, want %d", ErrBitCount, resp.Bits, selectBits)
	}
	return resp.Data[0], nil
}
