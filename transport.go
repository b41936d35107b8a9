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

// Transport is the byte-level bus to an MFRC522.
//
// A register access asserts the select line, exchanges exactly two bytes and
// de-asserts it again. Implementations do not retry; a garbled exchange is
// only noticed by the protocol checks above this layer.
type Transport interface {
	// Select asserts the bus select (chip select) line
	Select() error

	// Deselect de-asserts the bus select line
	Deselect() error

	// ExchangeByte clocks one byte out and returns the byte clocked in
	ExchangeByte(b byte) (byte, error)

	// Close releases the bus
	Close() error

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportSPI represents SPI bus transport.
	TransportSPI TransportType = "spi"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// Porter is implemented by transports that can name the bus they are attached to.
type Porter interface {
	Port() string
}

func portName(t Transport) string {
	if p, ok := t.(Porter); ok {
		return p.Port()
	}
	return string(t.Type())
}
