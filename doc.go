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

/*
Package mfrc522 provides a pure Go driver for the NXP MFRC522 contactless
reader chip.

The MFRC522 is a 13.56 MHz transceiver for ISO14443A cards. This library
drives it over SPI one register at a time and implements the card
discovery subset of ISO14443A: Request, Anticollision and Select for
4-byte UIDs, plus MIFARE Classic authentication and block access.

Features:
  - Register access with set-bits and clear-bits helpers
  - Generic command execution with bounded interrupt polling
  - CRC_A calculation on the chip's coprocessor
  - Request, Anticollision and Select
  - MIFARE Classic authentication, block read and write, halt

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-mfrc522"
	    "github.com/ZaparooProject/go-mfrc522/transport/spi"
	)

	transport, err := spi.New(spi.DefaultConfig())
	if err != nil {
	    log.Fatal(err)
	}

	device, err := mfrc522.New(transport)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	if err := device.Init(); err != nil {
	    log.Fatal(err)
	}

	tagType, err := device.Request(mfrc522.ReqIdle)
	if err != nil {
	    return err
	}
	serial, err := device.Anticollision()
	if err != nil {
	    return err
	}
	fmt.Printf("%s card % X\n", tagType.Name(), serial.UID())

Periodic acquisition and result presentation live in package polling.
Package tagops builds full discovery and NDEF reading on top of Device.

Error Handling:

Every operation returns an error that maps onto an Outcome:

	switch mfrc522.OutcomeOf(err) {
	case mfrc522.OutcomeNoCard:
	    // field is empty
	case mfrc522.OutcomeTimeout, mfrc522.OutcomeError:
	    // try again next cycle
	}

Bus failures are reported as *TransportError and match ErrBusFault.

Thread Safety:

Device operations are not thread-safe. A Device must be owned by a single
goroutine.
*/
package mfrc522
