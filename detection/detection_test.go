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
	"os"
	"testing"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	testutil "github.com/ZaparooProject/go-mfrc522/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

var errNoHardware = errors.New("no hardware in tests")

func failOpen() (spi.PortCloser, error) {
	return nil, errNoHardware
}

// TestMain registers fake ports; host drivers are never loaded in tests so
// these are the only ports spireg knows.
func TestMain(m *testing.M) {
	ports := []struct {
		name    string
		aliases []string
		number  int
	}{
		{name: "/dev/spidev1.0", aliases: []string{"SPI1.0"}, number: 10},
		{name: "/dev/spidev0.0", aliases: []string{"SPI0.0"}, number: 0},
		{name: "/dev/spidev0.1", aliases: []string{"SPI0.1"}, number: 1},
	}
	for _, p := range ports {
		if err := spireg.Register(p.name, p.aliases, p.number, failOpen); err != nil {
			panic(err)
		}
	}
	os.Exit(m.Run())
}

func names(devices []DeviceInfo) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.Name)
	}
	return out
}

func TestDetect_Passive(t *testing.T) {
	t.Parallel()

	devices, err := Detect(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/dev/spidev0.0", "/dev/spidev0.1", "/dev/spidev1.0"}, names(devices))
	assert.Equal(t, "spi", devices[0].Transport)
	assert.Equal(t, []string{"SPI0.0"}, devices[0].Aliases)
	assert.Equal(t, "spi /dev/spidev0.0 [SPI0.0]", devices[0].String())
}

func TestDetect_IgnorePaths(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.IgnorePaths = []string{"spi0.1", "/dev/spidev1.0"}
	devices, err := Detect(context.Background(), &opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"/dev/spidev0.0"}, names(devices))

	opts.IgnorePaths = []string{"SPI0.0", "SPI0.1", "SPI1.0"}
	_, err = Detect(context.Background(), &opts)
	require.ErrorIs(t, err, ErrNoDevicesFound)
}

func TestDetect_Probe(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Mode = Probe
	opts.Probe = func(_ context.Context, info DeviceInfo) (map[string]string, error) {
		if info.Number != 1 {
			return nil, errNoHardware
		}
		return map[string]string{"chip": "MFRC522 v2.0"}, nil
	}

	devices, err := Detect(context.Background(), &opts)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "/dev/spidev0.1", devices[0].Name)
	assert.Equal(t, "MFRC522 v2.0", devices[0].Metadata["chip"])
}

func TestDetect_ProbeWithoutFunc(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Mode = Probe
	_, err := Detect(context.Background(), &opts)
	require.ErrorIs(t, err, ErrNoProbe)
}

func TestDetect_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Detect(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

type chipTransport struct {
	*testutil.VirtualChip
}

func (chipTransport) Type() mfrc522.TransportType {
	return mfrc522.TransportMock
}

func TestProbeTransport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  byte
		wantChip string
		wantErr  bool
	}{
		{name: "v2", version: VersionV2, wantChip: "MFRC522 v2.0"},
		{name: "v1", version: VersionV1, wantChip: "MFRC522 v1.0"},
		{name: "clone", version: VersionClone, wantChip: "FM17522"},
		{name: "floating bus", version: 0xFF, wantErr: true},
		{name: "nothing", version: 0x00, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chip := testutil.NewVirtualChip()
			chip.SetRegister(byte(mfrc522.RegVersion), tt.version)

			meta, err := probeTransport(chipTransport{chip}, "/dev/spidev0.0")
			assert.True(t, chip.Closed())
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownChip)
				assert.Contains(t, err.Error(), "/dev/spidev0.0")
				assert.Nil(t, meta)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChip, meta["chip"])
		})
	}
}
