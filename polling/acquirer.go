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
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
)

// Reader is the part of the chip driver the acquirer needs.
// *mfrc522.Device implements it.
type Reader interface {
	Init() error
	Request(mode mfrc522.RequestMode) (mfrc522.TagType, error)
	Anticollision() (mfrc522.Serial, error)
}

// Reporter receives human readable diagnostics lines. Report must not block.
type Reporter interface {
	Report(msg string)
}

// Acquirer errors
var (
	ErrInitFailed     = errors.New("reader initialisation failed")
	ErrAlreadyRunning = errors.New("acquirer is already running")
)

// AcquirerMetrics tracks operational metrics for the Acquirer
type AcquirerMetrics struct {
	Cycles                int64         // Total number of acquisition cycles
	Detected              int64         // Cycles that published a detected card
	NotDetected           int64         // Cycles that published an empty record
	RequestFailures       int64         // Cycles that stopped at the request
	AnticollisionFailures int64         // Cycles that stopped at anticollision
	Dropped               int64         // Records discarded because the channel was full
	LastCycleLatency      time.Duration // Duration of the last cycle
}

// Acquirer is the acquisition task. It owns the reader exclusively and
// publishes one CardRecord per cycle.
//
// Every cycle starts from scratch: nothing learned in one cycle affects the
// next, so an empty field always yields the same NotDetected record.
type Acquirer struct {
	reader   Reader
	out      *Channel
	config   *Config
	reporter Reporter

	state                 atomic.Int32
	cycles                atomic.Int64
	detected              atomic.Int64
	notDetected           atomic.Int64
	requestFailures       atomic.Int64
	anticollisionFailures atomic.Int64
	dropped               atomic.Int64
	lastCycleLatency      atomic.Int64 // in nanoseconds
	running               atomic.Bool
}

// NewAcquirer creates an acquisition task publishing to out. reporter may be nil.
func NewAcquirer(reader Reader, out *Channel, config *Config, reporter Reporter) (*Acquirer, error) {
	if reader == nil || out == nil {
		return nil, fmt.Errorf("%w: reader and channel are required", ErrInvalidConfig)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Acquirer{
		reader:   reader,
		out:      out,
		config:   config,
		reporter: reporter,
	}, nil
}

// Run initialises the reader once, then runs a cycle every Period until ctx
// is done. An initialisation failure is returned immediately.
func (a *Acquirer) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := a.reader.Init(); err != nil {
		a.report(fmt.Sprintf("reader init failed: %v", err))
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	ticker := time.NewTicker(a.config.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		a.Cycle()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Cycle performs one acquisition, publishes the record and returns it
func (a *Acquirer) Cycle() mfrc522.CardRecord {
	start := time.Now()
	rec, stage := a.acquire()

	a.cycles.Add(1)
	switch stage {
	case FailureNone:
		a.detected.Add(1)
	case FailureRequest:
		a.notDetected.Add(1)
		a.requestFailures.Add(1)
	case FailureAnticollision:
		a.notDetected.Add(1)
		a.anticollisionFailures.Add(1)
	}

	if !a.out.TryPut(rec) {
		a.dropped.Add(1)
	}

	a.lastCycleLatency.Store(time.Since(start).Nanoseconds())
	a.state.Store(int32(StateIdle))
	return rec
}

// acquire runs request then anticollision. Only when both succeed is the
// card reported as detected.
func (a *Acquirer) acquire() (mfrc522.CardRecord, FailureStage) {
	a.state.Store(int32(StateRequesting))
	tagType, err := a.reader.Request(a.config.RequestMode)
	a.report(fmt.Sprintf("request: %s, tag type %s", mfrc522.OutcomeOf(err), tagType))
	if err != nil {
		a.state.Store(int32(StateNotDetected))
		a.report("no card detected")
		return mfrc522.NotDetected(), FailureRequest
	}

	a.state.Store(int32(StateAntiCollide))
	serial, err := a.reader.Anticollision()
	a.report(fmt.Sprintf("anticollision: %s, serial % X", mfrc522.OutcomeOf(err), serial[:]))
	if err != nil {
		a.state.Store(int32(StateNotDetected))
		a.report("no valid card or serial number")
		return mfrc522.NotDetected(), FailureAnticollision
	}

	rec := mfrc522.Detected(tagType, serial)
	a.state.Store(int32(StateDetected))
	a.report(fmt.Sprintf("card detected: uid %s, tag type %s", rec.UIDHex(), rec.TagType))
	return rec, FailureNone
}

func (a *Acquirer) report(msg string) {
	if a.reporter != nil {
		a.reporter.Report(msg)
	}
}

// State returns the current cycle state
func (a *Acquirer) State() CycleState {
	return CycleState(a.state.Load())
}

// IsRunning returns whether Run is active
func (a *Acquirer) IsRunning() bool {
	return a.running.Load()
}

// GetMetrics returns current operational metrics
func (a *Acquirer) GetMetrics() AcquirerMetrics {
	return AcquirerMetrics{
		Cycles:                a.cycles.Load(),
		Detected:              a.detected.Load(),
		NotDetected:           a.notDetected.Load(),
		RequestFailures:       a.requestFailures.Load(),
		AnticollisionFailures: a.anticollisionFailures.Load(),
		Dropped:               a.dropped.Load(),
		LastCycleLatency:      time.Duration(a.lastCycleLatency.Load()),
	}
}
