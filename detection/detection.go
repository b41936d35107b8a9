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

// Package detection finds SPI ports that may carry an MFRC522 reader.
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"periph.io/x/conn/v3/spi/spireg"
)

// Mode controls how thoroughly ports are examined
type Mode int

const (
	// Passive only lists the registered ports
	Passive Mode = iota
	// Probe talks to each port and keeps those where a reader answers
	Probe
)

func (m Mode) String() string {
	switch m {
	case Passive:
		return "passive"
	case Probe:
		return "probe"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Detection errors
var (
	ErrNoDevicesFound = errors.New("no SPI ports found")
	ErrNoProbe        = errors.New("probe mode needs a probe function")
)

// DeviceInfo describes one SPI port
type DeviceInfo struct {
	Metadata  map[string]string
	Transport string
	Name      string
	Aliases   []string
	Number    int
}

func (d DeviceInfo) String() string {
	if len(d.Aliases) > 0 {
		return fmt.Sprintf("%s %s %v", d.Transport, d.Name, d.Aliases)
	}
	return d.Transport + " " + d.Name
}

// ProbeFunc checks a single port. It returns metadata to attach to the
// port, or an error when no reader answered.
type ProbeFunc func(ctx context.Context, info DeviceInfo) (map[string]string, error)

// Options configures Detect
type Options struct {
	Probe       ProbeFunc
	IgnorePaths []string
	Timeout     time.Duration
	Mode        Mode
}

// DefaultOptions returns passive detection with a 5 second deadline
func DefaultOptions() Options {
	return Options{
		Mode:    Passive,
		Timeout: 5 * time.Second,
	}
}

// Detect lists the SPI ports known to periph, minus the ignored ones. The
// host drivers must already be loaded with host.Init.
func Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	if opts.Mode == Probe && opts.Probe == nil {
		return nil, ErrNoProbe
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	refs := spireg.All()
	devices := make([]DeviceInfo, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return devices, err
		}
		if isRefIgnored(ref, opts.IgnorePaths) {
			continue
		}

		info := DeviceInfo{
			Transport: "spi",
			Name:      ref.Name,
			Aliases:   append([]string(nil), ref.Aliases...),
			Number:    ref.Number,
			Metadata:  map[string]string{},
		}
		if opts.Mode == Probe {
			meta, err := opts.Probe(ctx, info)
			if err != nil {
				continue
			}
			for k, v := range meta {
				info.Metadata[k] = v
			}
		}
		devices = append(devices, info)
	}

	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Number < devices[j].Number
	})
	return devices, nil
}

func isRefIgnored(ref *spireg.Ref, ignorePaths []string) bool {
	if IsPathIgnored(ref.Name, ignorePaths) {
		return true
	}
	for _, alias := range ref.Aliases {
		if IsPathIgnored(alias, ignorePaths) {
			return true
		}
	}
	return false
}
