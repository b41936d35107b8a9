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
	"testing"

	testutil "github.com/ZaparooProject/go-mfrc522/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t, testutil.NewVirtualClassic1K(testutil.TestClassicUID))

	tagType, err := device.Request(ReqIdle)
	require.NoError(t, err)
	assert.Equal(t, TagTypeClassic1K, tagType)
	assert.Equal(t, "MIFARE Classic 1K", tagType.Name())
}

func TestRequest_NoCard(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t, nil)

	_, err := device.Request(ReqIdle)
	require.ErrorIs(t, err, ErrNoCard)
}

func TestRequest_WrongBitCount(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t, nil)
	chip.SetResponder(func([]byte) ([]byte, byte, bool) {
		return []byte{0x04, 0x00, 0x00}, 0, true
	})

	_, err := device.Request(ReqIdle)
	require.ErrorIs(t, err, ErrBitCount)
	assert.Equal(t, OutcomeError, OutcomeOf(err))
}

func TestAnticollision(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t, testutil.NewVirtualClassic1K(testutil.TestClassicUID))
	_, err := device.Request(ReqIdle)
	require.NoError(t, err)

	serial, err := device.Anticollision()
	require.NoError(t, err)
	assert.Equal(t, Serial{0x12, 0x34, 0x56, 0x78, 0x08}, serial)
	assert.Equal(t, [4]byte{0x12, 0x34, 0x56, 0x78}, serial.UID())
}

func TestAnticollision_ChecksumMismatch(t *testing.T) {
	t.Parallel()

	card := testutil.NewVirtualClassic1K(testutil.TestClassicUID)
	card.CorruptBCC = true
	device, _ := newTestDevice(t, card)
	_, err := device.Request(ReqIdle)
	require.NoError(t, err)

	_, err = device.Anticollision()
	require.ErrorIs(t, err, ErrChecksumMismatch)
	assert.Equal(t, OutcomeError, OutcomeOf(err))
}

func TestAnticollision_ClearsShortFrameBits(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t, testutil.NewVirtualClassic1K(testutil.TestClassicUID))
	_, err := device.Request(ReqIdle)
	require.NoError(t, err)
	assert.Equal(t, byte(0x07), chip.Register(byte(RegBitFraming))&TxLastBitsMask)

	_, err = device.Anticollision()
	require.NoError(t, err)
	assert.Zero(t, chip.Register(byte(RegBitFraming))&TxLastBitsMask)
}

func TestSelectTag(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t, testutil.NewVirtualClassic1K(testutil.TestClassicUID))
	_, err := device.Request(ReqIdle)
	require.NoError(t, err)
	serial, err := device.Anticollision()
	require.NoError(t, err)

	sak, err := device.SelectTag(serial)
	require.NoError(t, err)
	assert.Equal(t, byte(0x08), sak)
}

func TestSelectTag_WrongSerial(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t, testutil.NewVirtualClassic1K(testutil.TestClassicUID))

	sak, err := device.SelectTag(Serial{0xDE, 0xAD, 0xBE, 0xEF, 0x22})
	require.ErrorIs(t, err, ErrNoCard)
	assert.Zero(t, sak)
}
