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
)

// Engine errors
var (
	// ErrBusFault indicates the byte transport failed to complete an exchange.
	ErrBusFault = errors.New("bus fault")
	// ErrProtocol indicates the chip reported a fault in its error register.
	ErrProtocol = errors.New("protocol error")
	// ErrTimeout indicates a polling budget was exhausted before completion.
	ErrTimeout = errors.New("command timeout")
	// ErrNoCard indicates the chip timer expired without a card answering.
	ErrNoCard = errors.New("no card detected")
	// ErrChecksumMismatch indicates the anticollision serial number failed its XOR check.
	ErrChecksumMismatch = errors.New("serial number checksum mismatch")
	// ErrBitCount indicates the card answered with an unexpected number of bits.
	ErrBitCount = errors.New("unexpected response length")
	// ErrCRCTimeout indicates the CRC coprocessor did not finish; its result is stale.
	ErrCRCTimeout = errors.New("crc calculation timeout")
	// ErrAuthFailed indicates the crypto unit did not switch on after Authent.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrNAK indicates the card did not acknowledge a write.
	ErrNAK = errors.New("card did not acknowledge")
	// ErrInvalidParameter indicates an argument outside its allowed range.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrorType classifies errors for retry decisions
type ErrorType int

const (
	// ErrorTypeTransient indicates the condition may clear on its own.
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent indicates retrying will not help.
	ErrorTypePermanent
	// ErrorTypeTimeout indicates an operation ran out of budget.
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypePermanent:
		return "permanent"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// TransportError wraps a failure of the byte transport
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error of the given type
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Err:       err,
		Op:        op,
		Port:      port,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewTimeoutError creates a retryable timeout error
func NewTimeoutError(op, port string) *TransportError {
	return &TransportError{
		Err:       ErrTimeout,
		Op:        op,
		Port:      port,
		Type:      ErrorTypeTimeout,
		Retryable: true,
	}
}

// newBusError wraps a raw transport failure so it matches ErrBusFault
func newBusError(op, port string, err error) *TransportError {
	return &TransportError{
		Err:       fmt.Errorf("%w: %w", ErrBusFault, err),
		Op:        op,
		Port:      port,
		Type:      ErrorTypeTransient,
		Retryable: true,
	}
}

// CommandError records which chip command failed and why
type CommandError struct {
	Err error
	Op  string
	Cmd Command
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Cmd, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the next acquisition cycle can be expected to succeed
// where this one failed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrNoCard),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrCRCTimeout),
		errors.Is(err, ErrProtocol),
		errors.Is(err, ErrChecksumMismatch),
		errors.Is(err, ErrBitCount):
		return true
	default:
		return false
	}
}

// GetErrorType returns the classification of err
func GetErrorType(err error) ErrorType {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrCRCTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrInvalidParameter), errors.Is(err, ErrAuthFailed):
		return ErrorTypePermanent
	default:
		return ErrorTypeTransient
	}
}
