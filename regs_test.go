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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressByte(t *testing.T) {
	t.Parallel()

	for a := Register(0); a <= maxRegister; a++ {
		w := AddressByte(a, false)
		r := AddressByte(a, true)

		if w != byte(a)<<1 {
			t.Errorf("write address for %#02x = %#02x", byte(a), w)
		}
		if r != byte(a)<<1|0x80 {
			t.Errorf("read address for %#02x = %#02x", byte(a), r)
		}
		if w&0x81 != 0 || r&0x01 != 0 {
			t.Errorf("reserved bits set for %#02x: %#02x %#02x", byte(a), w, r)
		}
	}
}

func TestRegisterFraming(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t, nil)
	chip.RecordTransactions(true)

	require.NoError(t, device.WriteRegister(RegTPrescaler, 0x3E))
	val, err := device.ReadRegister(RegTPrescaler)
	require.NoError(t, err)
	assert.Equal(t, byte(0x3E), val)

	assert.Equal(t, [][]byte{
		{0x56, 0x3E},
		{0xD6, 0x00},
	}, chip.Transactions())
}

func TestSetClearBits(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t, nil)
	chip.SetRegister(byte(RegRFCfg), 0x48)

	require.NoError(t, device.SetBits(RegRFCfg, 0x21))
	assert.Equal(t, byte(0x69), chip.Register(byte(RegRFCfg)))

	require.NoError(t, device.ClearBits(RegRFCfg, 0x41))
	assert.Equal(t, byte(0x28), chip.Register(byte(RegRFCfg)))
}

func TestBusFault(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t, nil)
	wire := errors.New("spi: short transfer")
	chip.SetExchangeError(wire)

	_, err := device.ReadRegister(RegVersion)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrBusFault)
	require.ErrorIs(t, err, wire)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "virtual", te.Port)
	assert.True(t, te.Retryable)
	assert.Equal(t, OutcomeError, OutcomeOf(err))

	// the select line was released despite the failure
	chip.SetExchangeError(nil)
	_, err = device.ReadRegister(RegVersion)
	require.NoError(t, err)
}
