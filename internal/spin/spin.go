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

// Package spin provides bounded busy-polling for register status bits
package spin

import (
	"errors"
	"fmt"
)

// ErrBudgetExhausted is returned when an operation never reported done
var ErrBudgetExhausted = errors.New("poll budget exhausted")

// Operation represents one poll of a status source
// Returns: value, done, error
// - value: the last value observed
// - done: true once polling can stop
// - error: a permanent failure that stops polling immediately
type Operation[T any] func() (T, bool, error)

// Budget is a fixed number of poll iterations.
//
// It is counted in bus accesses, not wall time, so the real duration scales
// with the bus clock.
type Budget int

// Validate checks that the budget allows at least one poll
func (b Budget) Validate() error {
	if b <= 0 {
		return fmt.Errorf("poll budget must be positive, got %d", int(b))
	}
	return nil
}

// Poll calls op until it reports done, fails, or the budget runs out.
// It never sleeps or yields. The returned count is the number of polls made.
//
// On exhaustion the last observed value is returned together with
// ErrBudgetExhausted so callers may inspect it, but they must not treat it
// as a completed result.
func Poll[T any](budget Budget, op Operation[T]) (T, int, error) {
	var last T
	if err := budget.Validate(); err != nil {
		return last, 0, err
	}

	for i := 1; i <= int(budget); i++ {
		val, done, err := op()
		if err != nil {
			return val, i, err
		}
		last = val
		if done {
			return val, i, nil
		}
	}

	return last, int(budget), ErrBudgetExhausted
}
