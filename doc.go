// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcd is a container for character LCD drivers.
//
// See the hd44780 package for the Hitachi HD44780 driven over GPIO, and
// cmd/hd44780 for a command line demo.
package lcd
