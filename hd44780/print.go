// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import "strings"

// line2Addr is the DDRAM address of the first cell of the second line.
const line2Addr byte = 0x40

// Print writes s at the current DDRAM address. Each '\n' moves the address
// to the start of the second line.
//
// Errors of the underlying writer that don't come from this package are
// wrapped in an IOError.
func Print(c Controller, s string) error {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			if err := SetDDRAMAddr(c, line2Addr); err != nil {
				return err
			}
		}
		if len(line) == 0 {
			continue
		}
		if _, err := c.Write([]byte(line)); err != nil {
			return wrapIO(err)
		}
	}
	return nil
}
