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

import (
	"errors"
	"fmt"
	"sync"
)

// Register addresses and bits the simulator acts on
const (
	regCommand    = 0x01
	regComIrq     = 0x04
	regDivIrq     = 0x05
	regError      = 0x06
	regStatus2    = 0x08
	regFIFOData   = 0x09
	regFIFOLevel  = 0x0A
	regControl    = 0x0C
	regBitFraming = 0x0D
	regTxControl  = 0x14
	regCRCResultH = 0x21
	regCRCResultL = 0x22
	regVersion    = 0x37

	cmdIdle       = 0x00
	cmdCalcCRC    = 0x03
	cmdTransceive = 0x0C
	cmdAuthent    = 0x0E
	cmdSoftReset  = 0x0F

	irqTimer = 0x01
	irqErr   = 0x02
	irqIdle  = 0x10
	irqRx    = 0x20
	irqTx    = 0x40
	irqSet   = 0x80
	divCRC   = 0x04

	crypto1On  = 0x08
	startSend  = 0x80
	flushBit   = 0x80
	fifoSize   = 64
	numRegs    = 64
	txControl0 = 0x80
)

// ChipVersion is the VersionReg value of the simulated chip (MFRC522 v2.0)
const ChipVersion = 0x92

// ErrBusClosed is returned by a VirtualChip after Close
var ErrBusClosed = errors.New("virtual bus closed")

// Responder intercepts a transmitted frame before the card sees it. When
// handled is true the answer (possibly nil for silence) is used instead.
type Responder func(frame []byte) (answer []byte, lastBits byte, handled bool)

// VirtualChip simulates an MFRC522 behind a select-framed byte bus.
//
// It models the registers, FIFO, CRC coprocessor and interrupt flags the
// driver uses, and forwards transmitted frames to the VirtualCard in its
// field. It is safe for use from multiple goroutines.
type VirtualChip struct {
	card        *VirtualCard
	responder   Responder
	exchangeErr error

	transactions [][]byte
	current      []byte
	fifo         []byte
	reads        [numRegs]int
	regs         [numRegs]byte
	faultBits    byte
	resets       int
	mu           sync.Mutex
	selected     bool
	silent       bool
	crcStuck     bool
	closed       bool
	logFrames    bool
}

// NewVirtualChip creates a chip in its power-on state with no card in the field
func NewVirtualChip() *VirtualChip {
	c := &VirtualChip{}
	c.reset()
	return c
}

func (c *VirtualChip) reset() {
	c.regs = [numRegs]byte{}
	c.regs[regCommand] = 0x20
	c.regs[regTxControl] = txControl0
	c.regs[regVersion] = ChipVersion
	c.fifo = c.fifo[:0]
}

// SetCard places card in the field; nil empties the field
func (c *VirtualChip) SetCard(card *VirtualCard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card = card
}

// Card returns the card currently in the field
func (c *VirtualChip) Card() *VirtualCard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.card
}

// SetResponder installs a frame interceptor; nil removes it
func (c *VirtualChip) SetResponder(r Responder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responder = r
}

// SetSilent makes commands never raise a completion or timer flag
func (c *VirtualChip) SetSilent(silent bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.silent = silent
}

// SetFaultBits makes every Transceive report bits in ErrorReg
func (c *VirtualChip) SetFaultBits(bits byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faultBits = bits
}

// SetCRCStuck makes the CRC coprocessor never signal completion
func (c *VirtualChip) SetCRCStuck(stuck bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.crcStuck = stuck
}

// SetExchangeError makes every byte exchange fail with err; nil restores the bus
func (c *VirtualChip) SetExchangeError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exchangeErr = err
}

// RecordTransactions turns the per-select byte log on or off
func (c *VirtualChip) RecordTransactions(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logFrames = on
	c.transactions = nil
}

// Transactions returns the bytes exchanged under each select, in order
func (c *VirtualChip) Transactions() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.transactions))
	for i, tx := range c.transactions {
		out[i] = append([]byte(nil), tx...)
	}
	return out
}

// Register returns the raw content of reg without side effects
func (c *VirtualChip) Register(reg byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[reg&0x3F]
}

// SetRegister overwrites reg without side effects
func (c *VirtualChip) SetRegister(reg, val byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[reg&0x3F] = val
}

// Reads returns how many times reg was read over the bus
func (c *VirtualChip) Reads(reg byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads[reg&0x3F]
}

// Resets returns the number of soft resets received
func (c *VirtualChip) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}

// Select asserts the chip select line
func (c *VirtualChip) Select() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrBusClosed
	}
	if c.selected {
		return errors.New("select while already selected")
	}
	c.selected = true
	c.current = c.current[:0]
	return nil
}

// Deselect de-asserts the chip select line
func (c *VirtualChip) Deselect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.selected {
		return errors.New("deselect without select")
	}
	c.selected = false
	if c.logFrames {
		c.transactions = append(c.transactions, append([]byte(nil), c.current...))
	}
	return nil
}

// ExchangeByte clocks one byte in each direction. The first byte of a
// transaction is the address, the second the data.
func (c *VirtualChip) ExchangeByte(b byte) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrBusClosed
	}
	if c.exchangeErr != nil {
		return 0, c.exchangeErr
	}
	if !c.selected {
		return 0, errors.New("exchange without select")
	}

	c.current = append(c.current, b)
	switch len(c.current) {
	case 1:
		return 0, nil
	case 2:
		addr := c.current[0]
		if addr&0x01 != 0 {
			return 0, fmt.Errorf("address byte %#02x has bit 0 set", addr)
		}
		reg := (addr >> 1) & 0x3F
		if addr&0x80 != 0 {
			return c.readReg(reg), nil
		}
		c.writeReg(reg, b)
		return 0, nil
	default:
		return 0, fmt.Errorf("byte %d in one transaction", len(c.current))
	}
}

// Close releases the virtual bus
func (c *VirtualChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close was called
func (c *VirtualChip) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Port returns the virtual bus name
func (*VirtualChip) Port() string {
	return "virtual"
}

func (c *VirtualChip) readReg(reg byte) byte {
	c.reads[reg]++
	switch reg {
	case regFIFOData:
		if len(c.fifo) == 0 {
			return 0
		}
		b := c.fifo[0]
		c.fifo = c.fifo[1:]
		return b
	case regFIFOLevel:
		return byte(len(c.fifo))
	default:
		return c.regs[reg]
	}
}

func (c *VirtualChip) writeReg(reg, val byte) {
	switch reg {
	case regComIrq, regDivIrq:
		if val&irqSet != 0 {
			c.regs[reg] |= val &^ irqSet
		} else {
			c.regs[reg] &^= val
		}
	case regFIFOLevel:
		if val&flushBit != 0 {
			c.fifo = c.fifo[:0]
		}
	case regFIFOData:
		if len(c.fifo) < fifoSize {
			c.fifo = append(c.fifo, val)
		}
	case regCommand:
		c.regs[regCommand] = c.regs[regCommand]&^0x0F | val&0x0F
		c.execute(val & 0x0F)
	case regBitFraming:
		prev := c.regs[regBitFraming]
		c.regs[regBitFraming] = val
		if val&startSend != 0 && prev&startSend == 0 && c.regs[regCommand]&0x0F == cmdTransceive {
			c.transceive()
		}
	default:
		c.regs[reg] = val
	}
}

func (c *VirtualChip) execute(cmd byte) {
	switch cmd {
	case cmdSoftReset:
		c.resets++
		c.reset()
	case cmdCalcCRC:
		if c.crcStuck {
			return
		}
		crc := CRCA(c.fifo)
		c.fifo = c.fifo[:0]
		c.regs[regCRCResultL] = crc[0]
		c.regs[regCRCResultH] = crc[1]
		c.regs[regDivIrq] |= divCRC
		c.idle()
	case cmdAuthent:
		c.authent()
	}
}

func (c *VirtualChip) idle() {
	c.regs[regCommand] = c.regs[regCommand]&^0x0F | cmdIdle
}

func (c *VirtualChip) authent() {
	frame := append([]byte(nil), c.fifo...)
	c.fifo = c.fifo[:0]
	c.regs[regError] = 0
	c.regs[regStatus2] &^= crypto1On
	if c.silent {
		return
	}
	if c.card == nil || c.card.halted || !c.card.selected || len(frame) != 12 {
		c.regs[regComIrq] |= irqTimer
		return
	}
	if c.card.authenticate(frame[2:8], frame[8:12]) {
		c.regs[regStatus2] |= crypto1On
	}
	c.regs[regComIrq] |= irqIdle
	c.idle()
}

func (c *VirtualChip) transceive() {
	frame := append([]byte(nil), c.fifo...)
	c.fifo = c.fifo[:0]
	c.regs[regError] = 0
	if c.silent {
		return
	}
	c.regs[regComIrq] |= irqTx

	if c.faultBits != 0 {
		c.regs[regError] = c.faultBits
		c.regs[regComIrq] |= irqErr | irqRx | irqIdle
		return
	}

	txLastBits := c.regs[regBitFraming] & 0x07
	var (
		answer   []byte
		lastBits byte
		handled  bool
	)
	if c.responder != nil {
		answer, lastBits, handled = c.responder(frame)
	}
	if !handled && c.card != nil {
		answer, lastBits = c.card.respond(frame, txLastBits, c.regs[regStatus2]&crypto1On != 0)
	}

	if answer == nil {
		c.regs[regComIrq] |= irqTimer
		return
	}

	c.fifo = append(c.fifo, answer...)
	c.regs[regControl] = c.regs[regControl]&^0x07 | lastBits&0x07
	c.regs[regComIrq] |= irqRx | irqIdle
}
