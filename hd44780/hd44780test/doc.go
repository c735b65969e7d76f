// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780test contains test doubles for the hd44780 package.
//
// Spy is a Controller that records what the command set asks of it. Bus is a
// set of recording GPIO pins that decodes the enable strobes back into the
// bytes the controller would have latched.
package hd44780test
