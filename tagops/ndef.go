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
	"fmt"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/hsanjuan/go-ndef"
)

// TLV tags in the data area of an NFC Forum formatted card
const (
	tlvNull       = 0x00
	tlvNDEF       = 0x03
	tlvTerminator = 0xFE
)

// ReadNDEF reads NDEF data sectors in order starting at sector 1 until a
// complete NDEF TLV is found, and decodes the message
func (t *TagOperations) ReadNDEF() (*ndef.Message, error) {
	if t.tag == nil {
		return nil, ErrNoTag
	}
	if !t.tag.IsClassic() {
		return nil, ErrNotClassic
	}

	var data []byte
	for sector := 1; sector < t.tag.Sectors; sector++ {
		chunk, err := t.ReadSector(sector, KeyNDEF, mfrc522.DefaultKey)
		if err != nil {
			return nil, err
		}
		data = append(data, chunk...)

		payload, done, err := findNDEF(data)
		if err != nil {
			return nil, err
		}
		if done {
			msg := &ndef.Message{}
			if _, err := msg.Unmarshal(payload); err != nil {
				return nil, fmt.Errorf("decode NDEF: %w", err)
			}
			return msg, nil
		}
	}
	return nil, ErrNDEFTruncated
}

// findNDEF walks the TLV blocks in data. done is false when more data is
// needed to finish the walk.
func findNDEF(data []byte) (payload []byte, done bool, err error) {
	i := 0
	for i < len(data) {
		tag := data[i]
		switch tag {
		case tlvNull:
			i++
			continue
		case tlvTerminator:
			return nil, false, ErrNoNDEF
		}

		length, hdr, ok := tlvLength(data[i+1:])
		if !ok {
			return nil, false, nil
		}
		start := i + 1 + hdr
		end := start + length
		if end > len(data) {
			return nil, false, nil
		}
		if tag == tlvNDEF {
			if length == 0 {
				return nil, false, ErrNoNDEF
			}
			return data[start:end], true, nil
		}
		i = end
	}
	return nil, false, nil
}

// tlvLength decodes a one or three byte TLV length field
func tlvLength(b []byte) (length, size int, ok bool) {
	if len(b) < 1 {
		return 0, 0, false
	}
	if b[0] != 0xFF {
		return int(b[0]), 1, true
	}
	if len(b) < 3 {
		return 0, 0, false
	}
	return int(b[1])<<8 | int(b[2]), 3, true
}
