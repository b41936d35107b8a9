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
	"errors"
	"fmt"
)

// AuthMode selects which sector key Authenticate uses
type AuthMode byte

const (
	// AuthKeyA authenticates with key A
	AuthKeyA AuthMode = PICCAuthKeyA
	// AuthKeyB authenticates with key B
	AuthKeyB AuthMode = PICCAuthKeyB
)

// DefaultKey is the factory transport key of blank MIFARE Classic cards
var DefaultKey = [KeySize]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// Authenticate runs MFAuthent for block using key and the card's UID.
// Success requires the crypto unit to report MFCrypto1On afterwards.
func (d *Device) Authenticate(mode AuthMode, block byte, key [KeySize]byte, uid [4]byte) error {
	if mode != AuthKeyA && mode != AuthKeyB {
		return fmt.Errorf("authenticate: mode %#02x: %w", byte(mode), ErrInvalidParameter)
	}

	frame := make([]byte, 0, 12)
	frame = append(frame, byte(mode), block)
	frame = append(frame, key[:]...)
	frame = append(frame, uid[:]...)

	// The key copy in the frame is cleared once the chip has it.
	defer clear(frame)

	if _, err := d.ExecuteCommand(CmdAuthent, frame, 0); err != nil {
		return fmt.Errorf("authenticate block %d: %w", block, err)
	}

	status, err := d.ReadRegister(RegStatus2)
	if err != nil {
		return fmt.Errorf("authenticate block %d: %w", block, err)
	}
	if status&BitMFCrypto1On == 0 {
		return fmt.Errorf("authenticate block %d: %w", block, ErrAuthFailed)
	}
	return nil
}

// StopCrypto1 leaves the authenticated state so a new card can be addressed
func (d *Device) StopCrypto1() error {
	return d.ClearBits(RegStatus2, BitMFCrypto1On)
}

// ReadBlock reads one 16-byte block. The answer must be exactly 16 data
// bytes plus CRC.
func (d *Device) ReadBlock(block byte) ([BlockSize]byte, error) {
	var data [BlockSize]byte

	frame, err := d.appendCRC([]byte{PICCRead, block})
	if err != nil {
		return data, fmt.Errorf("read block %d: %w", block, err)
	}

	resp, err := d.ExecuteCommand(CmdTransceive, frame, MaxLen)
	if err != nil {
		return data, fmt.Errorf("read block %d: %w", block, err)
	}
	if resp.Bits != readBits {
		return data, fmt.Errorf("read block %d: %w: got %d bits, want %d", block, ErrBitCount, resp.Bits, readBits)
	}

	copy(data[:], resp.Data)
	return data, nil
}

// WriteBlock writes one 16-byte block in the two MIFARE write phases.
// Each phase must be answered with the 4-bit ACK.
func (d *Device) WriteBlock(block byte, data [BlockSize]byte) error {
	frame, err := d.appendCRC([]byte{PICCWrite, block})
	if err != nil {
		return fmt.Errorf("write block %d: %w", block, err)
	}
	if err := d.expectAck(frame); err != nil {
		return fmt.Errorf("write block %d: %w", block, err)
	}

	payload, err := d.appendCRC(append(make([]byte, 0, BlockSize+2), data[:]...))
	if err != nil {
		return fmt.Errorf("write block %d data: %w", block, err)
	}
	if err := d.expectAck(payload); err != nil {
		return fmt.Errorf("write block %d data: %w", block, err)
	}
	return nil
}

func (d *Device) expectAck(frame []byte) error {
	resp, err := d.ExecuteCommand(CmdTransceive, frame, MaxLen)
	if err != nil {
		return err
	}
	if resp.Bits != ackBits || resp.Data[0]&ackNibbleMsk != ackNibble {
		return fmt.Errorf("%w: %d bits %#02x", ErrNAK, resp.Bits, resp.Data[0])
	}
	return nil
}

// Halt sends HLTA. A halted card does not answer, so a timer expiry is the
// expected result and is not reported as an error.
func (d *Device) Halt() error {
	frame, err := d.appendCRC([]byte{PICCHalt, 0x00})
	if err != nil {
		return fmt.Errorf("halt: %w", err)
	}

	_, err = d.ExecuteCommand(CmdTransceive, frame, MaxLen)
	if err != nil && !errors.Is(err, ErrNoCard) {
		return fmt.Errorf("halt: %w", err)
	}
	return nil
}
