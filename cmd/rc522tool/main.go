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

// Command rc522tool runs one-shot operations against an MFRC522 reader.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/detection"
	"github.com/ZaparooProject/go-mfrc522/tagops"
	"github.com/ZaparooProject/go-mfrc522/transport/spi"
	"periph.io/x/host/v3"
)

const usage = `usage: rc522tool [flags] <command> [args]

commands:
  ports           list SPI ports, probing each with -probe
  version         print the chip version
  discover        select the card in the field and describe it
  dump <block>    read one block using key A (-key)
  ndef            read the NDEF message of a MIFARE Classic card
`

var errUsage = errors.New("bad usage")

type options struct {
	spi     spi.Config
	key     string
	timeout time.Duration
	probe   bool
	debug   bool
}

func main() {
	err := run(os.Args[1:], os.Stdout)
	switch {
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	case err != nil:
		_, _ = fmt.Fprintf(os.Stderr, "rc522tool: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	opts := options{spi: spi.DefaultConfig()}
	fs := flag.NewFlagSet("rc522tool", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.spi.Port, "spi", "", "SPI port name")
	fs.StringVar(&opts.spi.ChipSelect, "cs", opts.spi.ChipSelect, "chip select GPIO")
	fs.StringVar(&opts.spi.Reset, "reset", opts.spi.Reset, "reset GPIO (empty to skip)")
	fs.StringVar(&opts.key, "key", hex.EncodeToString(mfrc522.DefaultKey[:]), "key A as 12 hex digits")
	fs.DurationVar(&opts.timeout, "timeout", 5*time.Second, "how long to wait for a card")
	fs.BoolVar(&opts.probe, "probe", false, "probe ports for a reader")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug output")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() == 0 {
		return errUsage
	}
	mfrc522.SetDebugEnabled(opts.debug)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd == "ports" {
		return listPorts(out, &opts)
	}

	device, err := openDevice(&opts)
	if err != nil {
		return err
	}
	defer func() { _ = device.Close() }()

	switch cmd {
	case "version":
		return printVersion(out, device)
	case "discover":
		ops, info, err := waitForCard(device, opts.timeout)
		if err != nil {
			return err
		}
		defer func() { _ = ops.Halt() }()
		printTag(out, info)
		return nil
	case "dump":
		if len(rest) != 1 {
			return errUsage
		}
		return dumpBlock(out, device, &opts, rest[0])
	case "ndef":
		return readNDEF(out, device, opts.timeout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func listPorts(out io.Writer, opts *options) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph host: %w", err)
	}
	detectOpts := detection.DefaultOptions()
	if opts.probe {
		detectOpts.Mode = detection.Probe
		detectOpts.Probe = detection.ProbeMFRC522(opts.spi.ChipSelect)
	}

	devices, err := detection.Detect(context.Background(), &detectOpts)
	if err != nil {
		return err
	}
	for _, d := range devices {
		if chip, ok := d.Metadata["chip"]; ok {
			_, _ = fmt.Fprintf(out, "%s\t%s (%s)\n", d, chip, d.Metadata["version"])
			continue
		}
		_, _ = fmt.Fprintln(out, d)
	}
	return nil
}

func openDevice(opts *options) (*mfrc522.Device, error) {
	transport, err := spi.New(opts.spi)
	if err != nil {
		return nil, fmt.Errorf("open reader: %w", err)
	}
	device, err := mfrc522.New(transport)
	if err != nil {
		_ = transport.Close()
		return nil, err
	}
	if err := device.Init(); err != nil {
		_ = device.Close()
		return nil, fmt.Errorf("init reader: %w", err)
	}
	return device, nil
}

func printVersion(out io.Writer, device *mfrc522.Device) error {
	version, err := device.Version()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "VersionReg %#02x on %s\n", version, device.Port())
	return nil
}

// waitForCard retries discovery until a card answers or timeout passes
func waitForCard(device *mfrc522.Device, timeout time.Duration) (*tagops.TagOperations, *tagops.TagInfo, error) {
	ops := tagops.New(device)
	deadline := time.Now().Add(timeout)
	for {
		info, err := ops.DetectTag()
		if err == nil {
			return ops, info, nil
		}
		if !mfrc522.IsRetryable(err) || time.Now().After(deadline) {
			return nil, nil, err
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func printTag(out io.Writer, info *tagops.TagInfo) {
	_, _ = fmt.Fprintf(out, "UID:  % X\n", info.UID)
	_, _ = fmt.Fprintf(out, "ATQA: %s\n", info.TagType)
	_, _ = fmt.Fprintf(out, "SAK:  %#02x\n", info.SAK)
	_, _ = fmt.Fprintf(out, "Type: %s\n", info.TypeName)
	if info.IsClassic() {
		_, _ = fmt.Fprintf(out, "Size: %d bytes in %d sectors\n", info.TotalMemory, info.Sectors)
	}
}

func parseKey(s string) ([mfrc522.KeySize]byte, error) {
	var key [mfrc522.KeySize]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != mfrc522.KeySize {
		return key, fmt.Errorf("%w: key must be %d hex bytes", errUsage, mfrc522.KeySize)
	}
	copy(key[:], raw)
	return key, nil
}

func dumpBlock(out io.Writer, device *mfrc522.Device, opts *options, arg string) error {
	n, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return fmt.Errorf("%w: block %q", errUsage, arg)
	}
	block := byte(n)
	key, err := parseKey(opts.key)
	if err != nil {
		return err
	}

	ops, info, err := waitForCard(device, opts.timeout)
	if err != nil {
		return err
	}
	defer func() { _ = ops.Halt() }()

	uid := [4]byte(info.UID)
	if err := device.Authenticate(mfrc522.AuthKeyA, block, key, uid); err != nil {
		return err
	}
	data, err := device.ReadBlock(block)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "block %3d: % X\n", block, data)
	return nil
}

func readNDEF(out io.Writer, device *mfrc522.Device, timeout time.Duration) error {
	ops, _, err := waitForCard(device, timeout)
	if err != nil {
		return err
	}
	defer func() { _ = ops.Halt() }()

	msg, err := ops.ReadNDEF()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, msg.String())
	return nil
}
