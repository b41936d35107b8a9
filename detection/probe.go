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

package detection

import (
	"context"
	"errors"
	"fmt"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	spitransport "github.com/ZaparooProject/go-mfrc522/transport/spi"
)

// ErrUnknownChip means a port answered with a VersionReg value that is not
// an MFRC522
var ErrUnknownChip = errors.New("unknown chip version")

// Known VersionReg values
const (
	VersionV1    = 0x91
	VersionV2    = 0x92
	VersionClone = 0x88
)

// ProbeMFRC522 returns a ProbeFunc that opens each port with chipSelect and
// reads VersionReg. Ports answering with an unknown version are rejected.
func ProbeMFRC522(chipSelect string) ProbeFunc {
	return func(ctx context.Context, info DeviceInfo) (map[string]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cfg := spitransport.DefaultConfig()
		cfg.Port = info.Name
		cfg.ChipSelect = chipSelect
		cfg.Reset = ""
		transport, err := spitransport.New(cfg)
		if err != nil {
			return nil, err
		}
		return probeTransport(transport, info.Name)
	}
}

func probeTransport(transport mfrc522.Transport, port string) (map[string]string, error) {
	device, err := mfrc522.New(transport)
	if err != nil {
		_ = transport.Close()
		return nil, err
	}
	defer func() { _ = device.Close() }()

	version, err := device.Version()
	if err != nil {
		return nil, err
	}
	name, ok := versionName(version)
	if !ok {
		return nil, fmt.Errorf("unexpected version %#02x on %s: %w", version, port, ErrUnknownChip)
	}
	return map[string]string{
		"version": fmt.Sprintf("%#02x", version),
		"chip":    name,
	}, nil
}

func versionName(v byte) (string, bool) {
	switch v {
	case VersionV1:
		return "MFRC522 v1.0", true
	case VersionV2:
		return "MFRC522 v2.0", true
	case VersionClone:
		return "FM17522", true
	default:
		return "", false
	}
}
