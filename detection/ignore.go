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
	"path/filepath"
	"strings"
)

// IsPathIgnored checks if a port name or device path should be ignored.
// Supports exact matching and normalized path comparison.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" || len(ignorePaths) == 0 {
		return false
	}

	normalizedDevice := normalizedPath(devicePath)
	for _, ignorePath := range ignorePaths {
		if ignorePath == "" {
			continue
		}
		if devicePath == ignorePath || normalizedDevice == normalizedPath(ignorePath) {
			return true
		}
	}
	return false
}

// normalizedPath cleans the path and folds case, so "SPI0.0" and "spi0.0"
// name the same port
func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
