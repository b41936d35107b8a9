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

// Package tagops provides card level operations on top of the MFRC522
// engine: full discovery and NDEF reading from MIFARE Classic cards.
package tagops

import (
	"errors"
	"fmt"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
)

// Device is the part of *mfrc522.Device used by TagOperations
type Device interface {
	Request(mode mfrc522.RequestMode) (mfrc522.TagType, error)
	Anticollision() (mfrc522.Serial, error)
	SelectTag(serial mfrc522.Serial) (byte, error)
	Authenticate(mode mfrc522.AuthMode, block byte, key [mfrc522.KeySize]byte, uid [4]byte) error
	ReadBlock(block byte) ([mfrc522.BlockSize]byte, error)
	StopCrypto1() error
	Halt() error
}

// Common errors
var (
	ErrNoTag         = errors.New("no tag detected")
	ErrNotClassic    = errors.New("tag is not a MIFARE Classic")
	ErrNoNDEF        = errors.New("no NDEF message on tag")
	ErrNDEFTruncated = errors.New("NDEF message runs past the last sector")
)

// TagInfo describes a selected card
type TagInfo struct {
	TypeName    string
	UID         []byte
	Sectors     int
	TotalMemory int
	TagType     mfrc522.TagType
	SAK         byte
}

// IsClassic reports whether the card uses MIFARE Classic sector layout
func (i *TagInfo) IsClassic() bool {
	return i.Sectors > 0
}

// TagOperations runs multi-step operations against one card at a time
type TagOperations struct {
	device Device
	tag    *TagInfo
	serial mfrc522.Serial
	mode   mfrc522.RequestMode
}

// New creates a TagOperations on device
func New(device Device) *TagOperations {
	return &TagOperations{device: device, mode: mfrc522.ReqAll}
}

// DetectTag runs request, anticollision and select and records the card
func (t *TagOperations) DetectTag() (*TagInfo, error) {
	t.tag = nil

	tagType, err := t.device.Request(t.mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTag, err)
	}
	serial, err := t.device.Anticollision()
	if err != nil {
		return nil, err
	}
	sak, err := t.device.SelectTag(serial)
	if err != nil {
		return nil, err
	}

	uid := serial.UID()
	info := &TagInfo{
		UID:     uid[:],
		TagType: tagType,
		SAK:     sak,
	}
	describe(info)

	t.tag = info
	t.serial = serial
	return info, nil
}

// describe fills the layout fields from the SAK
func describe(info *TagInfo) {
	switch info.SAK &^ 0x20 {
	case 0x08:
		info.TypeName = "MIFARE Classic 1K"
		info.Sectors = 16
		info.TotalMemory = 1024
	case 0x18:
		info.TypeName = "MIFARE Classic 4K"
		info.Sectors = 40
		info.TotalMemory = 4096
	case 0x09:
		info.TypeName = "MIFARE Mini"
		info.Sectors = 5
		info.TotalMemory = 320
	case 0x00:
		info.TypeName = info.TagType.Name()
	default:
		info.TypeName = fmt.Sprintf("unknown (SAK %#02x)", info.SAK)
	}
}

// GetTagInfo returns the card found by the last DetectTag
func (t *TagOperations) GetTagInfo() (*TagInfo, error) {
	if t.tag == nil {
		return nil, ErrNoTag
	}
	return t.tag, nil
}

// reselect brings the card back to ACTIVE after a failed authentication
func (t *TagOperations) reselect() error {
	if err := t.device.StopCrypto1(); err != nil {
		return err
	}
	if _, err := t.device.Request(mfrc522.ReqAll); err != nil {
		return err
	}
	serial, err := t.device.Anticollision()
	if err != nil {
		return err
	}
	if serial != t.serial {
		return fmt.Errorf("%w: a different card answered", ErrNoTag)
	}
	_, err = t.device.SelectTag(serial)
	return err
}

// Halt stops crypto and sends the selected card to HALT
func (t *TagOperations) Halt() error {
	if err := t.device.StopCrypto1(); err != nil {
		return err
	}
	t.tag = nil
	return t.device.Halt()
}
