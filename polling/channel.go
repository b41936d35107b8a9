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
	"context"
	"fmt"
	"sync/atomic"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
)

// Channel is the bounded FIFO between the acquisition and presentation
// tasks.
//
// Publishing never blocks: a record offered while the channel is full is
// discarded and counted, and records already queued are never overwritten.
// Receiving blocks until a record is available.
type Channel struct {
	records chan mfrc522.CardRecord
	dropped atomic.Int64
}

// NewChannel creates a channel holding at most size records
func NewChannel(size int) (*Channel, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: channel size %d", ErrInvalidConfig, size)
	}
	return &Channel{records: make(chan mfrc522.CardRecord, size)}, nil
}

// TryPut enqueues rec if there is room and reports whether it did
func (c *Channel) TryPut(rec mfrc522.CardRecord) bool {
	select {
	case c.records <- rec:
		return true
	default:
		c.dropped.Add(1)
		return false
	}
}

// Receive blocks for the next record. ctx only exists to unblock the
// consumer at teardown.
func (c *Channel) Receive(ctx context.Context) (mfrc522.CardRecord, error) {
	select {
	case rec := <-c.records:
		return rec, nil
	case <-ctx.Done():
		return mfrc522.CardRecord{}, ctx.Err()
	}
}

// Dropped returns how many records were discarded because the channel was full
func (c *Channel) Dropped() int64 {
	return c.dropped.Load()
}

// Len returns the number of queued records
func (c *Channel) Len() int {
	return len(c.records)
}

// Cap returns the channel capacity
func (c *Channel) Cap() int {
	return cap(c.records)
}
