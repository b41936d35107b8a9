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
	"sync"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	testutil "github.com/ZaparooProject/go-mfrc522/internal/testing"
)

// fakeReader returns scripted results and counts calls
type fakeReader struct {
	initErr    error
	requestErr error
	anticolErr error
	tagType    mfrc522.TagType
	serial     mfrc522.Serial
	mu         sync.Mutex
	inits      int
	requests   int
	anticolls  int
}

func (r *fakeReader) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inits++
	return r.initErr
}

func (r *fakeReader) Request(mfrc522.RequestMode) (mfrc522.TagType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests++
	if r.requestErr != nil {
		return mfrc522.TagType{}, r.requestErr
	}
	return r.tagType, nil
}

func (r *fakeReader) Anticollision() (mfrc522.Serial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anticolls++
	return r.serial, r.anticolErr
}

func (r *fakeReader) calls() (inits, requests, anticolls int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inits, r.requests, r.anticolls
}

// recorder collects everything the presenter and acquirer emit
type recorder struct {
	presentErr error
	records    []mfrc522.CardRecord
	indicator  []bool
	lines      []string
	mu         sync.Mutex
}

func (r *recorder) Present(rec mfrc522.CardRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.presentErr
}

func (r *recorder) SetIndicator(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indicator = append(r.indicator, on)
	return nil
}

func (r *recorder) Report(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, msg)
}

func (r *recorder) presented() []mfrc522.CardRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mfrc522.CardRecord(nil), r.records...)
}

func (r *recorder) reported() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// chipTransport exposes a VirtualChip as an mfrc522.Transport
type chipTransport struct {
	*testutil.VirtualChip
}

func (chipTransport) Type() mfrc522.TransportType {
	return mfrc522.TransportMock
}
