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

import "fmt"

// Register is a 6-bit MFRC522 register address
type Register byte

// MFRC522 registers used by this package
const (
	RegCommand    Register = 0x01
	RegCommIEn    Register = 0x02
	RegDivIEn     Register = 0x03
	RegCommIrq    Register = 0x04
	RegDivIrq     Register = 0x05
	RegError      Register = 0x06
	RegStatus1    Register = 0x07
	RegStatus2    Register = 0x08
	RegFIFOData   Register = 0x09
	RegFIFOLevel  Register = 0x0A
	RegWaterLevel Register = 0x0B
	RegControl    Register = 0x0C
	RegBitFraming Register = 0x0D
	RegColl       Register = 0x0E
	RegMode       Register = 0x11
	RegTxMode     Register = 0x12
	RegRxMode     Register = 0x13
	RegTxControl  Register = 0x14
	RegTxAuto     Register = 0x15
	RegCRCResultH Register = 0x21
	RegCRCResultL Register = 0x22
	RegModWidth   Register = 0x24
	RegRFCfg      Register = 0x26
	RegTMode      Register = 0x2A
	RegTPrescaler Register = 0x2B
	RegTReloadH   Register = 0x2C
	RegTReloadL   Register = 0x2D
	RegVersion    Register = 0x37
	maxRegister   Register = 0x3F
)

func (r Register) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Register(%#02x)", byte(r))
}

var registerNames = map[Register]string{
	RegCommand:    "CommandReg",
	RegCommIEn:    "ComIEnReg",
	RegDivIEn:     "DivIEnReg",
	RegCommIrq:    "ComIrqReg",
	RegDivIrq:     "DivIrqReg",
	RegError:      "ErrorReg",
	RegStatus1:    "Status1Reg",
	RegStatus2:    "Status2Reg",
	RegFIFOData:   "FIFODataReg",
	RegFIFOLevel:  "FIFOLevelReg",
	RegWaterLevel: "WaterLevelReg",
	RegControl:    "ControlReg",
	RegBitFraming: "BitFramingReg",
	RegColl:       "CollReg",
	RegMode:       "ModeReg",
	RegTxMode:     "TxModeReg",
	RegRxMode:     "RxModeReg",
	RegTxControl:  "TxControlReg",
	RegTxAuto:     "TxASKReg",
	RegCRCResultH: "CRCResultRegH",
	RegCRCResultL: "CRCResultRegL",
	RegModWidth:   "ModWidthReg",
	RegRFCfg:      "RFCfgReg",
	RegTMode:      "TModeReg",
	RegTPrescaler: "TPrescalerReg",
	RegTReloadH:   "TReloadRegH",
	RegTReloadL:   "TReloadRegL",
	RegVersion:    "VersionReg",
}

// Command is a PCD command written to CommandReg
type Command byte

// PCD commands
const (
	CmdIdle       Command = 0x00
	CmdMem        Command = 0x01
	CmdCalcCRC    Command = 0x03
	CmdTransmit   Command = 0x04
	CmdReceive    Command = 0x08
	CmdTransceive Command = 0x0C
	CmdAuthent    Command = 0x0E
	CmdSoftReset  Command = 0x0F
)

func (c Command) String() string {
	switch c {
	case CmdIdle:
		return "Idle"
	case CmdMem:
		return "Mem"
	case CmdCalcCRC:
		return "CalcCRC"
	case CmdTransmit:
		return "Transmit"
	case CmdReceive:
		return "Receive"
	case CmdTransceive:
		return "Transceive"
	case CmdAuthent:
		return "MFAuthent"
	case CmdSoftReset:
		return "SoftReset"
	default:
		return fmt.Sprintf("Command(%#02x)", byte(c))
	}
}

// PICC commands sent over the air
const (
	PICCReqIdle    = 0x26
	PICCReqAll     = 0x52
	PICCAnticollCL = 0x93
	PICCSelectCL   = 0x93
	PICCAuthKeyA   = 0x60
	PICCAuthKeyB   = 0x61
	PICCRead       = 0x30
	PICCWrite      = 0xA0
	PICCHalt       = 0x50

	// NVB values for cascade level 1
	nvbAnticoll = 0x20
	nvbSelect   = 0x70
)

// ComIEnReg / ComIrqReg bits
const (
	IrqTimer   byte = 0x01
	IrqErr     byte = 0x02
	IrqLoAlert byte = 0x04
	IrqHiAlert byte = 0x08
	IrqIdle    byte = 0x10
	IrqRx      byte = 0x20
	IrqTx      byte = 0x40
	// IrqSet1 selects whether writes to ComIrqReg set or clear the marked bits.
	IrqSet1 byte = 0x80
	// IrqInvert inverts the IRQ pin polarity when written to ComIEnReg.
	IrqInvert byte = 0x80
)

// DivIrqReg bits
const (
	DivIrqCRC byte = 0x04
)

// ErrorReg bits
const (
	FaultProtocol   byte = 0x01
	FaultParity     byte = 0x02
	FaultCRC        byte = 0x04
	FaultCollision  byte = 0x08
	FaultBufferOvfl byte = 0x10
	FaultTemp       byte = 0x40
	FaultWrite      byte = 0x80

	// errorFaultMask is checked after every command.
	errorFaultMask = FaultBufferOvfl | FaultCollision | FaultParity | FaultProtocol
)

// Remaining named bitfields
const (
	// BitFlushBuffer in FIFOLevelReg clears the FIFO read and write pointers.
	BitFlushBuffer byte = 0x80
	// BitStartSend in BitFramingReg starts a Transceive transmission.
	BitStartSend byte = 0x80
	// TxLastBitsMask in BitFramingReg is the number of valid bits of the last sent byte.
	TxLastBitsMask byte = 0x07
	// RxLastBitsMask in ControlReg is the number of valid bits of the last received byte.
	RxLastBitsMask byte = 0x07
	// BitTx1RFEn and BitTx2RFEn in TxControlReg drive the antenna pins.
	BitTx1RFEn  byte = 0x01
	BitTx2RFEn  byte = 0x02
	antennaBits      = BitTx1RFEn | BitTx2RFEn
	// BitMFCrypto1On in Status2Reg is set after a successful Authent.
	BitMFCrypto1On byte = 0x08
	// BitForce100ASK in TxASKReg forces 100% ASK modulation.
	BitForce100ASK byte = 0x40
	// RxGainMask covers the receiver gain field of RFCfgReg.
	RxGainMask byte = 0x70
)

// Chip init values
const (
	tModeAuto      byte = 0x8D // TAuto=1, prescaler high nibble 0xD
	tPrescaler     byte = 0x3E // 6.78 MHz / 3390 ≈ 2 kHz timer
	tReloadDefault      = 30   // ≈ 15 ms before TimerIRq
	modeCRCPreset  byte = 0x3D // CRC preset 0x6363, MSBFirst off
)

// frame sizes
const (
	// MaxLen is the largest response the engine drains from the FIFO.
	MaxLen = 16
	// BlockSize is the number of data bytes in a MIFARE Classic block.
	BlockSize = 16
	// KeySize is the number of bytes in a MIFARE Classic sector key.
	KeySize = 6

	requestBits  = 16
	selectBits   = 24
	readBits     = (BlockSize + 2) * 8
	ackBits      = 4
	ackNibble    = 0x0A
	ackNibbleMsk = 0x0F
)
