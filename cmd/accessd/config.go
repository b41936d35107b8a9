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

package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/diag"
	"github.com/ZaparooProject/go-mfrc522/display"
	"github.com/ZaparooProject/go-mfrc522/polling"
	"github.com/ZaparooProject/go-mfrc522/transport/spi"
	"periph.io/x/conn/v3/physic"
)

type config struct {
	spi         spi.Config
	diag        diag.Config
	title       string
	oledBus     string
	linkPath    string
	led         string
	period      time.Duration
	queueSize   int
	frequencyHz int64
	oledAddr    uint
	gain        uint
	wakeHalted  bool
	ledLowOn    bool
	debug       bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*config, error) {
	cfg := &config{spi: spi.DefaultConfig()}

	fs.StringVar(&cfg.spi.Port, "spi", "", "SPI port name (empty selects the first port)")
	fs.StringVar(&cfg.spi.ChipSelect, "cs", cfg.spi.ChipSelect, "GPIO driving the reader's SDA/NSS line")
	fs.StringVar(&cfg.spi.Reset, "reset", cfg.spi.Reset, "GPIO driving the reader's RST line (empty to skip)")
	fs.Int64Var(&cfg.frequencyHz, "spi-hz", int64(cfg.spi.Frequency/physic.Hertz), "SPI clock in Hz")
	fs.UintVar(&cfg.gain, "gain", 0, "receiver gain written to RFCfgReg bits 4-6 (0 keeps the reset value)")

	fs.DurationVar(&cfg.period, "period", polling.DefaultPeriod, "acquisition period")
	fs.IntVar(&cfg.queueSize, "queue", polling.DefaultQueueSize, "result queue capacity")
	fs.BoolVar(&cfg.wakeHalted, "wake-halted", false, "use WUPA so halted cards are reported too")

	fs.StringVar(&cfg.title, "title", display.DefaultTitle, "display title line")
	fs.StringVar(&cfg.oledBus, "oled", "", "I2C bus of an SSD1306 panel (empty prints to stdout)")
	fs.UintVar(&cfg.oledAddr, "oled-addr", display.DefaultAddress, "SSD1306 I2C address")
	fs.StringVar(&cfg.linkPath, "link", "", "file or FIFO receiving CBOR result frames")
	fs.StringVar(&cfg.led, "led", "", "GPIO of the card-present indicator")
	fs.BoolVar(&cfg.ledLowOn, "led-active-low", false, "indicator lights when the pin is low")

	fs.StringVar(&cfg.diag.Port, "diag", "", "serial port for diagnostics (empty uses stderr)")
	fs.IntVar(&cfg.diag.BaudRate, "diag-baud", diag.DefaultBaudRate, "diagnostics baud rate")
	fs.BoolVar(&cfg.debug, "debug", false, "enable engine debug output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.spi.Frequency = physic.Frequency(cfg.frequencyHz) * physic.Hertz

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if err := c.spi.Validate(); err != nil {
		return fmt.Errorf("spi: %w", err)
	}
	if c.gain > 0xFF {
		return errors.New("gain must fit in one byte")
	}
	if c.oledAddr > 0x7F {
		return errors.New("oled-addr must be a 7-bit address")
	}
	if err := c.pollingConfig().Validate(); err != nil {
		return fmt.Errorf("polling: %w", err)
	}
	return nil
}

func (c *config) pollingConfig() *polling.Config {
	pc := polling.DefaultConfig()
	pc.Period = c.period
	pc.QueueSize = c.queueSize
	if c.wakeHalted {
		pc.RequestMode = mfrc522.ReqAll
	}
	return pc
}

func (c *config) deviceOptions() []mfrc522.Option {
	var opts []mfrc522.Option
	if c.gain != 0 {
		opts = append(opts, mfrc522.WithAntennaGain(byte(c.gain)))
	}
	return opts
}
