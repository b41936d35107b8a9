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
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-mfrc522/internal/spin"
)

// Response is the card answer drained from the FIFO after a Transceive
type Response struct {
	// Data holds the bytes read from the FIFO
	Data []byte
	// Bits is the number of valid bits the chip reported receiving
	Bits int
}

// irqProfile is the interrupt configuration for one command kind
type irqProfile struct {
	enable byte // written to ComIEnReg
	wait   byte // completion bits awaited in ComIrqReg
}

var irqProfiles = map[Command]irqProfile{
	CmdAuthent:    {enable: IrqIdle | IrqErr, wait: IrqIdle},
	CmdTransceive: {enable: IrqTx | IrqRx | IrqIdle | IrqLoAlert | IrqErr | IrqTimer, wait: IrqRx | IrqIdle},
}

// allIrqs clears every ComIrqReg flag when written with Set1 cleared
const allIrqs byte = 0x7F

// ExecuteCommand runs a FIFO command (Authent or Transceive) and waits for it
// to complete by polling ComIrqReg, at most CommandBudget times.
//
// For Transceive at most recvCap bytes of the answer are drained; Bits always
// reports what the chip counted. A timer expiry returns ErrNoCard, a fault in
// ErrorReg returns ErrProtocol and an exhausted budget returns ErrTimeout.
func (d *Device) ExecuteCommand(cmd Command, send []byte, recvCap int) (Response, error) {
	profile, ok := irqProfiles[cmd]
	if !ok {
		return Response{}, &CommandError{Op: "ExecuteCommand", Cmd: cmd, Err: ErrInvalidParameter}
	}
	if cmd == CmdTransceive && recvCap < 1 {
		return Response{}, &CommandError{Op: "ExecuteCommand", Cmd: cmd, Err: ErrInvalidParameter}
	}

	irq, err := d.startCommand(cmd, profile, send)
	if err != nil {
		return Response{}, &CommandError{Op: "ExecuteCommand", Cmd: cmd, Err: err}
	}

	if err := d.checkErrors(); err != nil {
		return Response{}, &CommandError{Op: "ExecuteCommand", Cmd: cmd, Err: err}
	}

	if irq&profile.enable&IrqTimer != 0 {
		debugf("%s: timer expired, no card", cmd)
		return Response{}, &CommandError{Op: "ExecuteCommand", Cmd: cmd, Err: ErrNoCard}
	}

	if cmd != CmdTransceive {
		return Response{}, nil
	}

	resp, err := d.drainFIFO(recvCap)
	if err != nil {
		return Response{}, &CommandError{Op: "ExecuteCommand", Cmd: cmd, Err: err}
	}
	debugf("%s: received %d bits % X", cmd, resp.Bits, resp.Data)
	return resp, nil
}

// startCommand loads the FIFO, issues cmd and spins until a completion or
// timer flag shows up. It returns the last ComIrqReg value.
func (d *Device) startCommand(cmd Command, profile irqProfile, send []byte) (byte, error) {
	if err := d.writeRegs(
		regVal{RegCommIEn, profile.enable | IrqInvert},
		regVal{RegCommIrq, allIrqs},
	); err != nil {
		return 0, err
	}
	if err := d.flushFIFO(); err != nil {
		return 0, err
	}
	if err := d.WriteRegister(RegCommand, byte(CmdIdle)); err != nil {
		return 0, err
	}
	if err := d.writeFIFO(send); err != nil {
		return 0, err
	}
	if err := d.WriteRegister(RegCommand, byte(cmd)); err != nil {
		return 0, err
	}
	if cmd == CmdTransceive {
		if err := d.SetBits(RegBitFraming, BitStartSend); err != nil {
			return 0, err
		}
	}

	irq, polls, pollErr := spin.Poll(spin.Budget(d.config.CommandBudget), func() (byte, bool, error) {
		n, err := d.ReadRegister(RegCommIrq)
		if err != nil {
			return 0, false, err
		}
		return n, n&IrqTimer != 0 || n&profile.wait != 0, nil
	})

	// StartSend is cleared whatever the poll outcome
	if err := d.ClearBits(RegBitFraming, BitStartSend); err != nil && pollErr == nil {
		return irq, err
	}

	if errors.Is(pollErr, spin.ErrBudgetExhausted) {
		debugf("%s: no completion after %d polls", cmd, polls)
		return irq, NewTimeoutError(fmt.Sprintf("%s after %d polls", cmd, polls), d.port)
	}
	return irq, pollErr
}

// checkErrors reads ErrorReg and reports any fault bit
func (d *Device) checkErrors() error {
	faults, err := d.ReadRegister(RegError)
	if err != nil {
		return err
	}
	if faults&errorFaultMask != 0 {
		debugf("error register %#02x", faults)
		return fmt.Errorf("%w: ErrorReg=%#02x", ErrProtocol, faults)
	}
	return nil
}

// drainFIFO reads the FIFO level and last-bits count, then the bytes
func (d *Device) drainFIFO(recvCap int) (Response, error) {
	level, err := d.ReadRegister(RegFIFOLevel)
	if err != nil {
		return Response{}, err
	}
	control, err := d.ReadRegister(RegControl)
	if err != nil {
		return Response{}, err
	}

	n := int(level &^ BitFlushBuffer)
	lastBits := int(control & RxLastBitsMask)
	bits := n * 8
	if lastBits != 0 {
		bits = (n-1)*8 + lastBits
	}

	if n == 0 {
		n = 1
	}
	if n > recvCap {
		n = recvCap
	}

	data := make([]byte, n)
	for i := range data {
		if data[i], err = d.ReadRegister(RegFIFOData); err != nil {
			return Response{}, err
		}
	}

	return Response{Data: data, Bits: bits}, nil
}
