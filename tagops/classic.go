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
	"errors"
	"fmt"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
)

// Well known MIFARE Classic keys
var (
	// KeyMAD is key A of the MIFARE Application Directory sector
	KeyMAD = [mfrc522.KeySize]byte{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5}
	// KeyNDEF is key A of NFC Forum formatted data sectors
	KeyNDEF = [mfrc522.KeySize]byte{0xD3, 0xF7, 0xD3, 0xF7, 0xD3, 0xF7}
)

// DefaultKeys are tried in order when a sector is read without a key
var DefaultKeys = [][mfrc522.KeySize]byte{KeyNDEF, mfrc522.DefaultKey, KeyMAD}

// SectorFirstBlock returns the first block of a sector. Sectors 32 and up
// on a 4K card hold 16 blocks.
func SectorFirstBlock(sector int) byte {
	if sector < 32 {
		return byte(sector * 4)
	}
	return byte(128 + (sector-32)*16)
}

// SectorDataBlocks returns the number of data blocks (excluding the trailer)
func SectorDataBlocks(sector int) int {
	if sector < 32 {
		return 3
	}
	return 15
}

// ReadSector authenticates sector with the first working key from keys
// and returns its data blocks concatenated
func (t *TagOperations) ReadSector(sector int, keys ...[mfrc522.KeySize]byte) ([]byte, error) {
	if t.tag == nil {
		return nil, ErrNoTag
	}
	if !t.tag.IsClassic() {
		return nil, ErrNotClassic
	}
	if sector < 0 || sector >= t.tag.Sectors {
		return nil, fmt.Errorf("sector %d outside 0..%d: %w", sector, t.tag.Sectors-1, mfrc522.ErrInvalidParameter)
	}
	if len(keys) == 0 {
		keys = DefaultKeys
	}

	first := SectorFirstBlock(sector)
	if err := t.authenticate(first, keys); err != nil {
		return nil, fmt.Errorf("sector %d: %w", sector, err)
	}

	n := SectorDataBlocks(sector)
	data := make([]byte, 0, n*mfrc522.BlockSize)
	for i := 0; i < n; i++ {
		block, err := t.device.ReadBlock(first + byte(i))
		if err != nil {
			return nil, fmt.Errorf("sector %d: %w", sector, err)
		}
		data = append(data, block[:]...)
	}
	return data, nil
}

// authenticate tries each key A in turn, re-selecting the card after every
// failure because a failed authentication drops it out of ACTIVE
func (t *TagOperations) authenticate(block byte, keys [][mfrc522.KeySize]byte) error {
	var lastErr error
	for i, key := range keys {
		err := t.device.Authenticate(mfrc522.AuthKeyA, block, key, t.serial.UID())
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, mfrc522.ErrAuthFailed) && !errors.Is(err, mfrc522.ErrNoCard) {
			return err
		}
		if i < len(keys)-1 {
			if err := t.reselect(); err != nil {
				return err
			}
		}
	}
	return lastErr
}
