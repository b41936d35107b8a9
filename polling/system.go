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
	"sync"
)

// System wires one reader to its presentation through a result channel
type System struct {
	channel   *Channel
	acquirer  *Acquirer
	presenter *Presenter
}

// SystemOption configures optional collaborators of a System
type SystemOption func(*systemOptions)

type systemOptions struct {
	presentation Presentation
	indicator    Indicator
	reporter     Reporter
}

// WithPresentation sets the collaborator that renders each record
func WithPresentation(p Presentation) SystemOption {
	return func(o *systemOptions) { o.presentation = p }
}

// WithIndicator sets the status output driven from each record
func WithIndicator(i Indicator) SystemOption {
	return func(o *systemOptions) { o.indicator = i }
}

// WithReporter sets the diagnostics sink shared by both tasks
func WithReporter(r Reporter) SystemOption {
	return func(o *systemOptions) { o.reporter = r }
}

// NewSystem builds the channel and both tasks. config may be nil for defaults.
func NewSystem(reader Reader, config *Config, opts ...SystemOption) (*System, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var o systemOptions
	for _, opt := range opts {
		opt(&o)
	}

	ch, err := NewChannel(config.QueueSize)
	if err != nil {
		return nil, err
	}
	acquirer, err := NewAcquirer(reader, ch, config, o.reporter)
	if err != nil {
		return nil, err
	}
	presenter, err := NewPresenter(ch, o.presentation, o.indicator, o.reporter)
	if err != nil {
		return nil, err
	}

	return &System{channel: ch, acquirer: acquirer, presenter: presenter}, nil
}

// Run starts the presentation task and runs acquisition on the calling
// goroutine until ctx is done. It returns the reader initialisation error,
// if any; cancellation is not an error.
func (s *System) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.presenter.Run(ctx)
	}()

	err := s.acquirer.Run(ctx)
	cancel()
	wg.Wait()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Channel returns the result channel
func (s *System) Channel() *Channel {
	return s.channel
}

// Acquirer returns the acquisition task
func (s *System) Acquirer() *Acquirer {
	return s.acquirer
}

// Presenter returns the presentation task
func (s *System) Presenter() *Presenter {
	return s.presenter
}
