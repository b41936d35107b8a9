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

import "errors"

// Outcome is the coarse result of a protocol exchange.
type Outcome int

const (
	// OutcomeOK means the exchange completed and passed its checks.
	OutcomeOK Outcome = iota
	// OutcomeError covers chip-reported faults, bus faults and failed success predicates.
	OutcomeError
	// OutcomeNoCard means the chip timer expired with no card answering.
	OutcomeNoCard
	// OutcomeTimeout means a polling budget ran out. Callers treat it as OutcomeError.
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeError:
		return "error"
	case OutcomeNoCard:
		return "no card"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// OutcomeOf maps an error returned by the engine to its Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNoCard):
		return OutcomeNoCard
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
