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
	"testing"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	testutil "github.com/ZaparooProject/go-mfrc522/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAcquirer(t *testing.T, reader Reader, reporter Reporter) (*Acquirer, *Channel) {
	t.Helper()

	ch, err := NewChannel(DefaultQueueSize)
	require.NoError(t, err)
	a, err := NewAcquirer(reader, ch, nil, reporter)
	require.NoError(t, err)
	return a, ch
}

func TestAcquirer_Cycle(t *testing.T) {
	t.Parallel()

	serial := mfrc522.Serial{0xDE, 0xAD, 0xBE, 0xEF, 0x22}

	tests := []struct {
		reader        *fakeReader
		name          string
		wantStatus    mfrc522.Status
		wantUIDLength int
		wantAnticolls int
	}{
		{
			name:          "card present",
			reader:        &fakeReader{tagType: mfrc522.TagTypeClassic1K, serial: serial},
			wantStatus:    mfrc522.StatusDetected,
			wantUIDLength: 4,
			wantAnticolls: 1,
		},
		{
			name:          "no card skips anticollision",
			reader:        &fakeReader{requestErr: fmt.Errorf("request: %w", mfrc522.ErrNoCard)},
			wantStatus:    mfrc522.StatusNotDetected,
			wantAnticolls: 0,
		},
		{
			name:          "request timeout",
			reader:        &fakeReader{requestErr: mfrc522.ErrTimeout},
			wantStatus:    mfrc522.StatusNotDetected,
			wantAnticolls: 0,
		},
		{
			name: "checksum mismatch",
			reader: &fakeReader{
				tagType:    mfrc522.TagTypeClassic1K,
				serial:     mfrc522.Serial{0xDE, 0xAD, 0xBE, 0xEF, 0x00},
				anticolErr: mfrc522.ErrChecksumMismatch,
			},
			wantStatus:    mfrc522.StatusNotDetected,
			wantAnticolls: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, ch := newTestAcquirer(t, tt.reader, nil)
			rec := a.Cycle()

			assert.Equal(t, tt.wantStatus, rec.Status)
			assert.Equal(t, tt.wantUIDLength, rec.UIDLength)
			_, _, anticolls := tt.reader.calls()
			assert.Equal(t, tt.wantAnticolls, anticolls)
			assert.Equal(t, StateIdle, a.State())

			published, err := ch.Receive(context.Background())
			require.NoError(t, err)
			assert.Equal(t, rec, published)
		})
	}
}

func TestAcquirer_DetectedRecord(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		tagType: mfrc522.TagTypeClassic1K,
		serial:  mfrc522.Serial{0xDE, 0xAD, 0xBE, 0xEF, 0x22},
	}
	a, _ := newTestAcquirer(t, reader, nil)

	rec := a.Cycle()
	assert.Equal(t, "DEADBEEF", rec.UIDHex())
	assert.Equal(t, mfrc522.TagTypeClassic1K, rec.TagType)
}

func TestAcquirer_IdleCyclesIdentical(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{requestErr: mfrc522.ErrNoCard}
	a, ch := newTestAcquirer(t, reader, nil)

	first := a.Cycle()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.Cycle())
	}
	assert.Equal(t, mfrc522.NotDetected(), first)

	m := a.GetMetrics()
	assert.Equal(t, int64(6), m.Cycles)
	assert.Equal(t, int64(6), m.NotDetected)
	assert.Equal(t, int64(6), m.RequestFailures)
	assert.Equal(t, int64(3), m.Dropped)
	assert.Equal(t, int64(3), ch.Dropped())
}

func TestAcquirer_Reports(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		tagType: mfrc522.TagTypeClassic1K,
		serial:  mfrc522.Serial{0x12, 0x34, 0x56, 0x78, 0x08},
	}
	rec := &recorder{}
	a, _ := newTestAcquirer(t, reader, rec)
	a.Cycle()

	assert.Equal(t, []string{
		"request: ok, tag type 0400",
		"anticollision: ok, serial 12 34 56 78 08",
		"card detected: uid 12345678, tag type 0400",
	}, rec.reported())
}

func TestAcquirer_VirtualChip(t *testing.T) {
	t.Parallel()

	chip := testutil.NewVirtualChip()
	device, err := mfrc522.New(chipTransport{chip})
	require.NoError(t, err)
	a, _ := newTestAcquirer(t, device, nil)
	require.NoError(t, device.Init())

	rec := a.Cycle()
	assert.Equal(t, mfrc522.StatusNotDetected, rec.Status)

	chip.SetCard(testutil.NewVirtualClassic1K(testutil.TestClassicUID))
	rec = a.Cycle()
	assert.Equal(t, mfrc522.StatusDetected, rec.Status)
	assert.Equal(t, "12345678", rec.UIDHex())
	assert.Equal(t, mfrc522.TagTypeClassic1K, rec.TagType)

	corrupt := testutil.NewVirtualClassic1K(testutil.TestClassicUID)
	corrupt.CorruptBCC = true
	chip.SetCard(corrupt)
	rec = a.Cycle()
	assert.Equal(t, mfrc522.StatusNotDetected, rec.Status)
	assert.Zero(t, rec.UIDLength)
}

func TestAcquirer_RunInitFailure(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{initErr: errors.New("no chip")}
	a, ch := newTestAcquirer(t, reader, nil)

	err := a.Run(context.Background())
	require.ErrorIs(t, err, ErrInitFailed)
	_, requests, _ := reader.calls()
	assert.Zero(t, requests)
	assert.Zero(t, ch.Len())
}

func TestAcquirer_RunPeriodic(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{requestErr: mfrc522.ErrNoCard}
	ch, err := NewChannel(10)
	require.NoError(t, err)
	a, err := NewAcquirer(reader, ch, &Config{
		Period:      5 * time.Millisecond,
		QueueSize:   10,
		RequestMode: mfrc522.ReqIdle,
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return ch.Len() >= 3 }, time.Second, time.Millisecond)
	assert.True(t, a.IsRunning())
	require.ErrorIs(t, a.Run(ctx), ErrAlreadyRunning)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	inits, _, _ := reader.calls()
	assert.Equal(t, 1, inits)
}

func TestNewAcquirer_Invalid(t *testing.T) {
	t.Parallel()

	ch, err := NewChannel(1)
	require.NoError(t, err)

	_, err = NewAcquirer(nil, ch, nil, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewAcquirer(&fakeReader{}, ch, &Config{Period: 0, QueueSize: 3}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "default", config: *DefaultConfig()},
		{name: "wake all", config: Config{Period: time.Second, QueueSize: 1, RequestMode: mfrc522.ReqAll}},
		{name: "zero period", config: Config{QueueSize: 3, RequestMode: mfrc522.ReqIdle}, wantErr: true},
		{name: "zero queue", config: Config{Period: time.Second, RequestMode: mfrc522.ReqIdle}, wantErr: true},
		{name: "bad mode", config: Config{Period: time.Second, QueueSize: 3, RequestMode: 0x30}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.config.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}
