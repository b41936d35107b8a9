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
	"encoding/hex"
	"fmt"
	"strings"
)

// MaxUIDLength is the longest ISO14443A UID (triple size)
const MaxUIDLength = 10

// SingleUIDLength is the UID length retrieved by one anticollision level
const SingleUIDLength = 4

// Status is the published result of one acquisition cycle
type Status int

const (
	// StatusNotDetected means no card was identified this cycle
	StatusNotDetected Status = iota
	// StatusDetected means a card answered request and anticollision
	StatusDetected
)

func (s Status) String() string {
	if s == StatusDetected {
		return "detected"
	}
	return "not detected"
}

// TagType is the two-byte ATQA reported by Request, in receive order
type TagType [2]byte

// Known tag types, as received (ATQA byte 0 first)
var (
	TagTypeUltralight = TagType{0x44, 0x00}
	TagTypeClassic1K  = TagType{0x04, 0x00}
	TagTypeClassic4K  = TagType{0x02, 0x00}
	TagTypeProX       = TagType{0x08, 0x00}
	TagTypeDESFire    = TagType{0x44, 0x03}
)

// Name returns a human readable card family
func (t TagType) Name() string {
	switch t {
	case TagTypeUltralight:
		return "MIFARE Ultralight"
	case TagTypeClassic1K:
		return "MIFARE Classic 1K"
	case TagTypeClassic4K:
		return "MIFARE Classic 4K"
	case TagTypeProX:
		return "MIFARE Pro(X)"
	case TagTypeDESFire:
		return "MIFARE DESFire"
	default:
		return "unknown"
	}
}

func (t TagType) String() string {
	return fmt.Sprintf("%02X%02X", t[0], t[1])
}

// Serial is a cascade level 1 serial number: four UID bytes and the BCC
type Serial [5]byte

// UID returns the four UID bytes
func (s Serial) UID() [4]byte {
	return [4]byte{s[0], s[1], s[2], s[3]}
}

// ValidSerial reports whether the BCC equals the XOR of the four UID bytes
func ValidSerial(s Serial) bool {
	return s[0]^s[1]^s[2]^s[3] == s[4]
}

// CardRecord is the value handed from acquisition to presentation.
//
// It is built once per cycle and never modified afterwards. UID bytes past
// UIDLength are unspecified.
type CardRecord struct {
	Status    Status
	UID       [MaxUIDLength]byte
	UIDLength int
	TagType   TagType
}

// NotDetected returns the record published when a cycle fails
func NotDetected() CardRecord {
	return CardRecord{Status: StatusNotDetected}
}

// Detected returns the record for a card identified by one anticollision level
func Detected(tagType TagType, serial Serial) CardRecord {
	rec := CardRecord{
		Status:    StatusDetected,
		UIDLength: SingleUIDLength,
		TagType:   tagType,
	}
	copy(rec.UID[:], serial[:SingleUIDLength])
	return rec
}

// TagTypeName returns the card family decoded from TagType
func (r CardRecord) TagTypeName() string {
	return r.TagType.Name()
}

// UIDBytes returns a copy of the valid UID bytes
func (r CardRecord) UIDBytes() []byte {
	n := r.UIDLength
	if n < 0 || n > MaxUIDLength {
		n = 0
	}
	return append([]byte(nil), r.UID[:n]...)
}

// UIDHex returns the valid UID bytes as upper-case hex
func (r CardRecord) UIDHex() string {
	return strings.ToUpper(hex.EncodeToString(r.UIDBytes()))
}

func (r CardRecord) String() string {
	if r.Status != StatusDetected {
		return "card not detected"
	}
	return fmt.Sprintf("card %s type %s (%s)", r.UIDHex(), r.TagType, r.TagType.Name())
}
