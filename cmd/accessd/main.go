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

// Command accessd runs the card acquisition loop of an access-control
// reader and presents each result on an SSD1306 panel or stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/diag"
	"github.com/ZaparooProject/go-mfrc522/display"
	"github.com/ZaparooProject/go-mfrc522/polling"
	"github.com/ZaparooProject/go-mfrc522/transport/spi"
	"golang.org/x/sys/unix"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "accessd: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseFlags(flag.NewFlagSet("accessd", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	sink, err := openDiag(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	mfrc522.SetDebugOutput(sink)
	if cfg.debug {
		mfrc522.SetDebugEnabled(true)
	}

	transport, err := spi.New(cfg.spi)
	if err != nil {
		return fmt.Errorf("open reader: %w", err)
	}
	device, err := mfrc522.New(transport, cfg.deviceOptions()...)
	if err != nil {
		_ = transport.Close()
		return fmt.Errorf("create device: %w", err)
	}
	defer func() { _ = device.Close() }()

	presentation, closers, err := buildPresentation(cfg)
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	if err != nil {
		return err
	}

	opts := []polling.SystemOption{
		polling.WithPresentation(presentation),
		polling.WithReporter(sink),
	}
	if cfg.led != "" {
		indicator, err := display.OpenPinIndicator(cfg.led, cfg.ledLowOn)
		if err != nil {
			return fmt.Errorf("indicator: %w", err)
		}
		opts = append(opts, polling.WithIndicator(indicator))
	}

	system, err := polling.NewSystem(device, cfg.pollingConfig(), opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	sink.Reportf("accessd: polling %s every %s", transport.Port(), cfg.period)
	if err := system.Run(ctx); err != nil {
		return err
	}
	sink.Report("accessd: stopped")
	return nil
}

func openDiag(cfg *config) (*diag.Sink, error) {
	if cfg.diag.Port == "" {
		return diag.NewSink(os.Stderr, diag.DefaultBacklog), nil
	}
	sink, err := diag.OpenSerial(cfg.diag)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: %w", err)
	}
	return sink, nil
}

// buildPresentation returns the presentations selected by cfg and the
// resources to release on exit
func buildPresentation(cfg *config) (polling.Presentation, []io.Closer, error) {
	var (
		multi   display.Multi
		closers []io.Closer
	)

	if cfg.oledBus != "" {
		panel, err := display.OpenSSD1306(cfg.oledBus, uint16(cfg.oledAddr))
		if err != nil {
			return nil, closers, fmt.Errorf("display: %w", err)
		}
		closers = append(closers, panel)
		multi = append(multi, display.NewFramePresenter(display.NewRenderer(cfg.title), panel))
	} else {
		multi = append(multi, display.NewTextPresenter(os.Stdout, cfg.title))
	}

	if cfg.linkPath != "" {
		f, err := os.OpenFile(cfg.linkPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, closers, fmt.Errorf("link: %w", err)
		}
		closers = append(closers, f)
		multi = append(multi, display.NewLinkPresenter(f))
	}

	return multi, closers, nil
}
