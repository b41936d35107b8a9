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
	"github.com/stretchr/testify/require"
)

// chipTransport exposes a VirtualChip as a Transport
type chipTransport struct {
	*testutil.VirtualChip
}

func (chipTransport) Type() TransportType {
	return TransportMock
}

// newTestDevice returns a Device on a fresh virtual chip holding card (may be nil)
func newTestDevice(t *testing.T, card *testutil.VirtualCard, opts ...Option) (*Device, *testutil.VirtualChip) {
	t.Helper()

	chip := testutil.NewVirtualChip()
	chip.SetCard(card)

	device, err := New(chipTransport{chip}, opts...)
	require.NoError(t, err)
	require.NoError(t, device.Init())
	return device, chip
}

// selectCard runs request, anticollision and select against the card in the field
func selectCard(t *testing.T, device *Device) Serial {
	t.Helper()

	_, err := device.Request(ReqIdle)
	require.NoError(t, err)
	serial, err := device.Anticollision()
	require.NoError(t, err)
	_, err = device.SelectTag(serial)
	require.NoError(t, err)
	return serial
}
