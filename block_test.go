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

func TestAuthenticateReadWrite(t *testing.T) {
	t.Parallel()

	card := testutil.NewVirtualClassic1K(testutil.TestClassicUID)
	card.SetBlock(4, []byte("hello, block 4!!"))
	device, chip := newTestDevice(t, card)
	serial := selectCard(t, device)

	require.NoError(t, device.Authenticate(AuthKeyA, 4, DefaultKey, serial.UID()))
	assert.NotZero(t, chip.Register(byte(RegStatus2))&BitMFCrypto1On)

	data, err := device.ReadBlock(4)
	require.NoError(t, err)
	assert.Equal(t, "hello, block 4!!", string(data[:]))

	var payload [BlockSize]byte
	copy(payload[:], "written by test.")
	require.NoError(t, device.WriteBlock(5, payload))
	assert.Equal(t, payload, card.Blocks[5])

	data, err = device.ReadBlock(5)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	require.NoError(t, device.StopCrypto1())
	assert.Zero(t, chip.Register(byte(RegStatus2))&BitMFCrypto1On)
}

func TestAuthenticate_WrongKey(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t, testutil.NewVirtualClassic1K(testutil.TestClassicUID))
	serial := selectCard(t, device)

	key := [KeySize]byte{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5}
	err := device.Authenticate(AuthKeyA, 4, key, serial.UID())
	require.ErrorIs(t, err, ErrAuthFailed)
	assert.False(t, IsRetryable(err))
}

func TestAuthenticate_InvalidMode(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t, nil)
	err := device.Authenticate(AuthMode(0x30), 4, DefaultKey, [4]byte{})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestReadBlock_NotAuthenticated(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t, testutil.NewVirtualClassic1K(testutil.TestClassicUID))
	selectCard(t, device)

	_, err := device.ReadBlock(4)
	require.ErrorIs(t, err, ErrNoCard)
}

func TestWriteBlock_NAK(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t, nil)
	chip.SetResponder(func([]byte) ([]byte, byte, bool) {
		return []byte{0x04}, 4, true
	})

	err := device.WriteBlock(4, [BlockSize]byte{})
	require.ErrorIs(t, err, ErrNAK)
}

func TestHalt(t *testing.T) {
	t.Parallel()

	card := testutil.NewVirtualClassic1K(testutil.TestClassicUID)
	device, _ := newTestDevice(t, card)
	selectCard(t, device)

	require.NoError(t, device.Halt())
	assert.True(t, card.Halted())

	_, err := device.Request(ReqIdle)
	require.ErrorIs(t, err, ErrNoCard)

	tagType, err := device.Request(ReqAll)
	require.NoError(t, err)
	assert.Equal(t, TagTypeClassic1K, tagType)
}
