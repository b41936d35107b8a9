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

package testing

import "bytes"

// Sample values for tests
var (
	// TestClassicUID is a sample MIFARE Classic 1K UID
	TestClassicUID = [4]byte{0x12, 0x34, 0x56, 0x78}

	// TestClassicATQA is the ATQA of a MIFARE Classic 1K as received
	TestClassicATQA = [2]byte{0x04, 0x00}

	// TestDefaultKey is the factory transport key
	TestDefaultKey = [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
)

const (
	piccReqIdle  = 0x26
	piccReqAll   = 0x52
	piccCL1      = 0x93
	piccRead     = 0x30
	piccWrite    = 0xA0
	piccHalt     = 0x50
	nvbAnticoll  = 0x20
	nvbSelect    = 0x70
	mifareAck    = 0x0A
	blockSize    = 16
	classic1KSAK = 0x08
)

// VirtualCard is a simulated ISO14443A card in the reader field
type VirtualCard struct {
	Blocks map[byte][blockSize]byte
	ATQA   [2]byte
	UID    [4]byte
	Key    [6]byte
	SAK    byte
	// CorruptBCC makes anticollision answer with a wrong check byte
	CorruptBCC bool

	halted       bool
	selected     bool
	pendingWrite int
}

// NewVirtualClassic1K creates a virtual MIFARE Classic 1K card
func NewVirtualClassic1K(uid [4]byte) *VirtualCard {
	return &VirtualCard{
		Blocks:       make(map[byte][blockSize]byte),
		ATQA:         TestClassicATQA,
		UID:          uid,
		Key:          TestDefaultKey,
		SAK:          classic1KSAK,
		pendingWrite: -1,
	}
}

// BCC returns the check byte the card sends after its UID
func (c *VirtualCard) BCC() byte {
	bcc := c.UID[0] ^ c.UID[1] ^ c.UID[2] ^ c.UID[3]
	if c.CorruptBCC {
		bcc ^= 0xFF
	}
	return bcc
}

// Halted reports whether the card received HLTA
func (c *VirtualCard) Halted() bool {
	return c.halted
}

// SetBlock stores data in block
func (c *VirtualCard) SetBlock(block byte, data []byte) {
	var b [blockSize]byte
	copy(b[:], data)
	c.Blocks[block] = b
}

// respond returns the card answer to frame and the number of valid bits in
// the last answer byte (0 for whole bytes). A nil answer means silence.
func (c *VirtualCard) respond(frame []byte, txLastBits byte, authenticated bool) ([]byte, byte) {
	switch {
	case len(frame) == 1 && txLastBits == 7 && frame[0] == piccReqIdle:
		if c.halted {
			return nil, 0
		}
		return c.ATQA[:], 0

	case len(frame) == 1 && txLastBits == 7 && frame[0] == piccReqAll:
		c.halted = false
		return c.ATQA[:], 0

	case len(frame) == 2 && frame[0] == piccCL1 && frame[1] == nvbAnticoll:
		if c.halted {
			return nil, 0
		}
		return []byte{c.UID[0], c.UID[1], c.UID[2], c.UID[3], c.BCC()}, 0

	case len(frame) == 9 && frame[0] == piccCL1 && frame[1] == nvbSelect:
		if !checkCRC(frame) || !bytes.Equal(frame[2:6], c.UID[:]) {
			return nil, 0
		}
		c.selected = true
		return withCRC([]byte{c.SAK}), 0

	case len(frame) == 4 && frame[0] == piccRead:
		if !checkCRC(frame) || !authenticated {
			return nil, 0
		}
		data := c.Blocks[frame[1]]
		return withCRC(data[:]), 0

	case len(frame) == 4 && frame[0] == piccWrite:
		if !checkCRC(frame) || !authenticated {
			return nil, 0
		}
		c.pendingWrite = int(frame[1])
		return []byte{mifareAck}, 4

	case len(frame) == blockSize+2 && c.pendingWrite >= 0:
		if !checkCRC(frame) {
			return nil, 0
		}
		c.SetBlock(byte(c.pendingWrite), frame[:blockSize])
		c.pendingWrite = -1
		return []byte{mifareAck}, 4

	case len(frame) == 4 && frame[0] == piccHalt && frame[1] == 0x00:
		if checkCRC(frame) {
			c.halted = true
			c.selected = false
		}
		return nil, 0
	}

	return nil, 0
}

func (c *VirtualCard) authenticate(key, uid []byte) bool {
	return bytes.Equal(key, c.Key[:]) && bytes.Equal(uid, c.UID[:])
}

func withCRC(data []byte) []byte {
	crc := CRCA(data)
	out := append([]byte(nil), data...)
	return append(out, crc[0], crc[1])
}

func checkCRC(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}
	crc := CRCA(frame[:len(frame)-2])
	return crc[0] == frame[len(frame)-2] && crc[1] == frame[len(frame)-1]
}

// CRCA computes the ISO14443-3 type A CRC with preset 0x6363, returned
// low byte first, as the MFRC522 coprocessor does with ModeReg 0x3D.
func CRCA(data []byte) [2]byte {
	crc := uint16(0x6363)
	for _, b := range data {
		ch := b ^ byte(crc)
		ch ^= ch << 4
		crc = (crc >> 8) ^ uint16(ch)<<8 ^ uint16(ch)<<3 ^ uint16(ch)>>4
	}
	return [2]byte{byte(crc), byte(crc >> 8)}
}
