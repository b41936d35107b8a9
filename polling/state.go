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

package polling

import "fmt"

// CycleState is the position of the acquirer within one cycle
type CycleState int32

const (
	// StateIdle is the pause between cycles
	StateIdle CycleState = iota
	// StateRequesting is waiting for an ATQA
	StateRequesting
	// StateAntiCollide is reading the serial number
	StateAntiCollide
	// StateDetected is publishing a detected card
	StateDetected
	// StateNotDetected is publishing an empty record
	StateNotDetected
)

func (s CycleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateAntiCollide:
		return "anticollide"
	case StateDetected:
		return "detected"
	case StateNotDetected:
		return "not detected"
	default:
		return fmt.Sprintf("CycleState(%d)", int32(s))
	}
}

// FailureStage names the step a not-detected cycle stopped at
type FailureStage int

const (
	// FailureNone means the cycle detected a card
	FailureNone FailureStage = iota
	// FailureRequest means no card answered the request
	FailureRequest
	// FailureAnticollision means the serial number could not be read
	FailureAnticollision
)

func (f FailureStage) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureRequest:
		return "request"
	case FailureAnticollision:
		return "anticollision"
	default:
		return fmt.Sprintf("FailureStage(%d)", int(f))
	}
}
