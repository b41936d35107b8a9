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

package tagops

import (
	"strings"
	"testing"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	testutil "github.com/ZaparooProject/go-mfrc522/internal/testing"
	"github.com/hsanjuan/go-ndef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chipTransport struct {
	*testutil.VirtualChip
}

func (chipTransport) Type() mfrc522.TransportType {
	return mfrc522.TransportMock
}

func newTestOps(t *testing.T, card *testutil.VirtualCard) *TagOperations {
	t.Helper()

	chip := testutil.NewVirtualChip()
	chip.SetCard(card)
	device, err := mfrc522.New(chipTransport{chip})
	require.NoError(t, err)
	require.NoError(t, device.Init())
	return New(device)
}

// layout writes data over the data blocks of sectors 1 and up
func layout(card *testutil.VirtualCard, data []byte) {
	for sector := 1; len(data) > 0; sector++ {
		first := SectorFirstBlock(sector)
		for i := 0; i < SectorDataBlocks(sector) && len(data) > 0; i++ {
			n := min(len(data), mfrc522.BlockSize)
			card.SetBlock(first+byte(i), data[:n])
			data = data[n:]
		}
	}
}

func ndefTLV(t *testing.T, msg *ndef.Message) []byte {
	t.Helper()

	raw, err := msg.Marshal()
	require.NoError(t, err)
	tlv := []byte{tlvNDEF}
	if len(raw) < 0xFF {
		tlv = append(tlv, byte(len(raw)))
	} else {
		tlv = append(tlv, 0xFF, byte(len(raw)>>8), byte(len(raw)))
	}
	tlv = append(tlv, raw...)
	return append(tlv, tlvTerminator)
}

func TestDetectTag(t *testing.T) {
	t.Parallel()

	ops := newTestOps(t, testutil.NewVirtualClassic1K(testutil.TestClassicUID))

	info, err := ops.DetectTag()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, info.UID)
	assert.Equal(t, "MIFARE Classic 1K", info.TypeName)
	assert.Equal(t, 16, info.Sectors)
	assert.Equal(t, mfrc522.TagTypeClassic1K, info.TagType)
	assert.True(t, info.IsClassic())

	got, err := ops.GetTagInfo()
	require.NoError(t, err)
	assert.Same(t, info, got)
}

func TestDetectTag_NoCard(t *testing.T) {
	t.Parallel()

	ops := newTestOps(t, nil)
	_, err := ops.DetectTag()
	require.ErrorIs(t, err, ErrNoTag)
	require.ErrorIs(t, err, mfrc522.ErrNoCard)

	_, err = ops.GetTagInfo()
	require.ErrorIs(t, err, ErrNoTag)
}

func TestReadNDEF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		key  [mfrc522.KeySize]byte
	}{
		{name: "short text, NDEF key", text: "door 4", key: KeyNDEF},
		{name: "spans sectors", text: strings.Repeat("access ", 12), key: KeyNDEF},
		{name: "transport key fallback", text: "blank card", key: mfrc522.DefaultKey},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			want := ndef.NewTextMessage(tt.text, "en")
			card := testutil.NewVirtualClassic1K(testutil.TestClassicUID)
			card.Key = tt.key
			layout(card, append([]byte{tlvNull, tlvNull}, ndefTLV(t, want)...))

			ops := newTestOps(t, card)
			_, err := ops.DetectTag()
			require.NoError(t, err)

			got, err := ops.ReadNDEF()
			require.NoError(t, err)
			assert.Equal(t, want.String(), got.String())
		})
	}
}

func TestReadNDEF_WrongKey(t *testing.T) {
	t.Parallel()

	card := testutil.NewVirtualClassic1K(testutil.TestClassicUID)
	card.Key = [mfrc522.KeySize]byte{1, 2, 3, 4, 5, 6}
	ops := newTestOps(t, card)
	_, err := ops.DetectTag()
	require.NoError(t, err)

	_, err = ops.ReadNDEF()
	require.ErrorIs(t, err, mfrc522.ErrAuthFailed)
}

func TestReadNDEF_Empty(t *testing.T) {
	t.Parallel()

	card := testutil.NewVirtualClassic1K(testutil.TestClassicUID)
	card.Key = KeyNDEF
	layout(card, []byte{tlvNDEF, 0x00, tlvTerminator})
	ops := newTestOps(t, card)
	_, err := ops.DetectTag()
	require.NoError(t, err)

	_, err = ops.ReadNDEF()
	require.ErrorIs(t, err, ErrNoNDEF)
}

func TestReadNDEF_NotClassic(t *testing.T) {
	t.Parallel()

	card := testutil.NewVirtualClassic1K(testutil.TestClassicUID)
	card.SAK = 0x00
	card.ATQA = [2]byte{0x44, 0x00}
	ops := newTestOps(t, card)

	info, err := ops.DetectTag()
	require.NoError(t, err)
	assert.Equal(t, "MIFARE Ultralight", info.TypeName)

	_, err = ops.ReadNDEF()
	require.ErrorIs(t, err, ErrNotClassic)
}

func TestReadSector_OutOfRange(t *testing.T) {
	t.Parallel()

	ops := newTestOps(t, testutil.NewVirtualClassic1K(testutil.TestClassicUID))
	_, err := ops.DetectTag()
	require.NoError(t, err)

	_, err = ops.ReadSector(16)
	require.ErrorIs(t, err, mfrc522.ErrInvalidParameter)
}

func TestHalt(t *testing.T) {
	t.Parallel()

	card := testutil.NewVirtualClassic1K(testutil.TestClassicUID)
	ops := newTestOps(t, card)
	_, err := ops.DetectTag()
	require.NoError(t, err)

	require.NoError(t, ops.Halt())
	assert.True(t, card.Halted())
	_, err = ops.GetTagInfo()
	require.ErrorIs(t, err, ErrNoTag)
}

func TestFindNDEF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        []byte
		wantPayload []byte
		wantDone    bool
		wantErr     error
	}{
		{name: "simple", data: []byte{0x03, 0x02, 0xAA, 0xBB, 0xFE}, wantPayload: []byte{0xAA, 0xBB}, wantDone: true},
		{name: "nulls first", data: []byte{0x00, 0x00, 0x03, 0x01, 0xAA}, wantPayload: []byte{0xAA}, wantDone: true},
		{name: "lock control skipped", data: []byte{0x01, 0x03, 0xA0, 0x10, 0x44, 0x03, 0x01, 0xCC}, wantPayload: []byte{0xCC}, wantDone: true},
		{name: "three byte length", data: append([]byte{0x03, 0xFF, 0x00, 0x02}, 0xD1, 0xD2), wantPayload: []byte{0xD1, 0xD2}, wantDone: true},
		{name: "incomplete value", data: []byte{0x03, 0x05, 0xAA}},
		{name: "incomplete length", data: []byte{0x03, 0xFF, 0x00}},
		{name: "all nulls", data: make([]byte, 48)},
		{name: "terminator", data: []byte{0x00, 0xFE, 0x03, 0x01, 0xAA}, wantErr: ErrNoNDEF},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload, done, err := findNDEF(tt.data)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDone, done)
			assert.Equal(t, tt.wantPayload, payload)
		})
	}
}

func TestSectorLayout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, byte(4), SectorFirstBlock(1))
	assert.Equal(t, byte(124), SectorFirstBlock(31))
	assert.Equal(t, byte(128), SectorFirstBlock(32))
	assert.Equal(t, byte(240), SectorFirstBlock(39))
	assert.Equal(t, 3, SectorDataBlocks(15))
	assert.Equal(t, 15, SectorDataBlocks(32))
}
