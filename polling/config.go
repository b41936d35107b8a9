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

import (
	"errors"
	"fmt"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
)

const (
	// DefaultPeriod is the pause between acquisition cycles
	DefaultPeriod = 2000 * time.Millisecond
	// DefaultQueueSize is the result channel capacity
	DefaultQueueSize = 3
)

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid polling config")

// Config holds configuration for the acquisition and presentation tasks
type Config struct {
	// Period between the start of two acquisition cycles
	Period time.Duration
	// QueueSize is the capacity of the result channel
	QueueSize int
	// RequestMode is sent at the start of every cycle; ReqIdle leaves halted
	// cards alone
	RequestMode mfrc522.RequestMode
}

// DefaultConfig returns the default polling configuration
func DefaultConfig() *Config {
	return &Config{
		Period:      DefaultPeriod,
		QueueSize:   DefaultQueueSize,
		RequestMode: mfrc522.ReqIdle,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %v", ErrInvalidConfig, c.Period)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue size must be at least 1, got %d", ErrInvalidConfig, c.QueueSize)
	}
	if c.RequestMode != mfrc522.ReqIdle && c.RequestMode != mfrc522.ReqAll {
		return fmt.Errorf("%w: unknown request mode %#02x", ErrInvalidConfig, byte(c.RequestMode))
	}
	return nil
}
