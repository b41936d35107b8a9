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

// Presentation renders a card record for the user
type Presentation interface {
	Present(rec mfrc522.CardRecord) error
}

// Indicator drives a single on/off status output
type Indicator interface {
	SetIndicator(on bool) error
}

// PresenterMetrics tracks operational metrics for the Presenter
type PresenterMetrics struct {
	Presented int64 // Records taken from the channel
	Failures  int64 // Collaborator calls that returned an error
}

// Presenter is the presentation task: a pure consumer of the channel
type Presenter struct {
	in           *Channel
	presentation Presentation
	indicator    Indicator
	reporter     Reporter
	presented    atomic.Int64
	failures     atomic.Int64
}

// NewPresenter creates a presentation task. Any collaborator may be nil.
func NewPresenter(in *Channel, presentation Presentation, indicator Indicator, reporter Reporter) (*Presenter, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: channel is required", ErrInvalidConfig)
	}
	return &Presenter{
		in:           in,
		presentation: presentation,
		indicator:    indicator,
		reporter:     reporter,
	}, nil
}

// Run presents records as they arrive until ctx is done
func (p *Presenter) Run(ctx context.Context) error {
	for {
		rec, err := p.in.Receive(ctx)
		if err != nil {
			return err
		}
		p.Handle(rec)
	}
}

// Handle presents one record and sets the indicator from its status.
// Collaborator errors are counted and reported, never fatal.
func (p *Presenter) Handle(rec mfrc522.CardRecord) {
	p.presented.Add(1)

	if p.presentation != nil {
		if err := p.presentation.Present(rec); err != nil {
			p.fail(fmt.Sprintf("present: %v", err))
		}
	}
	if p.indicator != nil {
		if err := p.indicator.SetIndicator(rec.Status == mfrc522.StatusDetected); err != nil {
			p.fail(fmt.Sprintf("indicator: %v", err))
		}
	}
}

func (p *Presenter) fail(msg string) {
	p.failures.Add(1)
	if p.reporter != nil {
		p.reporter.Report(msg)
	}
}

// GetMetrics returns current operational metrics
func (p *Presenter) GetMetrics() PresenterMetrics {
	return PresenterMetrics{
		Presented: p.presented.Load(),
		Failures:  p.failures.Load(),
	}
}
