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
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: the debug logger is package state.
func TestDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	SetDebugOutput(&buf)
	SetDebugEnabled(true)
	t.Cleanup(func() {
		SetDebugEnabled(false)
		SetDebugOutput(os.Stderr)
	})

	device, chip := newTestDevice(t, nil)
	assert.Equal(t, "virtual", device.Port())

	chip.SetSilent(true)
	require.NoError(t, device.Reset())
	_, err := device.ExecuteCommand(CmdTransceive, []byte{PICCReqIdle}, MaxLen)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "[MFRC522] ")
	assert.Contains(t, out, "soft reset on virtual")
	assert.Contains(t, out, "no completion after 2000 polls")

	SetDebugEnabled(false)
	buf.Reset()
	require.NoError(t, device.Reset())
	assert.Empty(t, buf.String())
}
