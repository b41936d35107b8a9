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

	"github.com/ZaparooProject/go-mfrc522/internal/spin"
)

// CalculateCRC runs the chip's CRC coprocessor over data and returns the
// CRC_A as {low, high}, the order it is appended to a frame.
//
// If the coprocessor does not signal completion within CRCBudget polls the
// registers are still read but ErrCRCTimeout is returned; the value must not
// be used.
func (d *Device) CalculateCRC(data []byte) ([2]byte, error) {
	var crc [2]byte

	// Set2 cleared: the written bits are cleared
	if err := d.WriteRegister(RegDivIrq, DivIrqCRC); err != nil {
		return crc, err
	}
	if err := d.flushFIFO(); err != nil {
		return crc, err
	}
	if err := d.writeFIFO(data); err != nil {
		return crc, err
	}
	if err := d.WriteRegister(RegCommand, byte(CmdCalcCRC)); err != nil {
		return crc, err
	}

	_, polls, pollErr := spin.Poll(spin.Budget(d.config.CRCBudget), func() (byte, bool, error) {
		n, err := d.ReadRegister(RegDivIrq)
		if err != nil {
			return 0, false, err
		}
		return n, n&DivIrqCRC != 0, nil
	})
	if pollErr != nil && !errors.Is(pollErr, spin.ErrBudgetExhausted) {
		return crc, pollErr
	}

	var err error
	if crc[0], err = d.ReadRegister(RegCRCResultL); err != nil {
		return crc, err
	}
	if crc[1], err = d.ReadRegister(RegCRCResultH); err != nil {
		return crc, err
	}

	if pollErr != nil {
		debugf("crc: no completion after %d polls", polls)
		return crc, fmt.Errorf("%w after %d polls", ErrCRCTimeout, polls)
	}
	return crc, nil
}

// appendCRC returns frame with its CRC_A appended
func (d *Device) appendCRC(frame []byte) ([]byte, error) {
	crc, err := d.CalculateCRC(frame)
	if err != nil {
		return nil, err
	}
	return append(frame, crc[0], crc[1]), nil
}
