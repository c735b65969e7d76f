// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls the Hitachi LCD display chipset HD-44780 through
// its instruction set, and drives it directly over a 4 or 8 bit GPIO bus.
//
// The instruction set is implemented as functions over a Commander, the
// single primitive a bus backend has to supply. GPIODriver is the bit-bang
// backend; it is a transparent protocol translator and keeps no copy of the
// display content.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"fmt"
	"io"
	"time"
)

// CommandDelay is the base time the controller needs to execute an
// instruction: 37µs at 270kHz plus 10%.
const CommandDelay = 41 * time.Microsecond

// Clear and home take 1.52ms. 42*41µs leaves some margin.
const longCommandFactor = 42

const (
	cmdClearDisplay   byte = 0x01
	cmdReturnHome     byte = 0x02
	cmdEntryModeSet   byte = 0x04
	cmdDisplayControl byte = 0x08
	cmdCursorShift    byte = 0x10
	cmdFunctionSet    byte = 0x20
	cmdSetCGRAMAddr   byte = 0x40
	cmdSetDDRAMAddr   byte = 0x80

	cgRAMAddrMask byte = 0x3f
	ddRAMAddrMask byte = 0x7f
)

// Commander sends one instruction to the controller and holds the bus for
// delay so the controller can finish executing it.
//
// Backends on a bus slower than the instruction time may ignore delay for
// short instructions, but not for clear and home.
type Commander interface {
	Command(cmd byte, delay time.Duration) error
}

// CommandDelayer is implemented by backends that need a base instruction
// delay other than CommandDelay. A zero value selects CommandDelay.
type CommandDelayer interface {
	CommandDelay() time.Duration
}

// Controller is a complete HD44780 backend. Write pushes bytes into the
// display or character generator RAM selected by the last address
// instruction.
type Controller interface {
	Commander
	io.Writer
	// Init forces the controller into a known state. It can be called again
	// at any time to resynchronize.
	Init(opts ...InitOption) error
}

// ClearDisplay clears the display and sets the DDRAM address to 0.
func ClearDisplay(c Commander) error {
	return c.Command(cmdClearDisplay, baseDelay(c)*longCommandFactor)
}

// ReturnHome sets the DDRAM address to 0 and unshifts the display. The
// content of the DDRAM is left untouched.
func ReturnHome(c Commander) error {
	return c.Command(cmdReturnHome, baseDelay(c)*longCommandFactor)
}

// EntryModeSet sets the cursor direction and whether the display shifts
// on each write.
func EntryModeSet(c Commander, mode EntryMode) error {
	return c.Command(cmdEntryModeSet|byte(mode), baseDelay(c))
}

// DisplayControl turns the display, the cursor and the cursor blink on
// or off.
func DisplayControl(c Commander, mode DisplayMode) error {
	return c.Command(cmdDisplayControl|byte(mode), baseDelay(c))
}

// CursorShift moves the cursor or shifts the display without changing the
// DDRAM content.
func CursorShift(c Commander, mode ShiftMode) error {
	return c.Command(cmdCursorShift|byte(mode), baseDelay(c))
}

// FunctionSet selects the interface width, the number of lines and the
// font. An invalid mode is rejected before anything is sent.
func FunctionSet(c Commander, mode FunctionMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	return c.Command(cmdFunctionSet|byte(mode), baseDelay(c))
}

// SetCGRAMAddr selects the character generator RAM address used by the
// following writes. Only the low 6 bits of addr are used.
func SetCGRAMAddr(c Commander, addr byte) error {
	return c.Command(cmdSetCGRAMAddr|addr&cgRAMAddrMask, baseDelay(c))
}

// SetDDRAMAddr selects the display data RAM address used by the following
// writes. Only the low 7 bits of addr are used.
//
// On 2 line displays the second line starts at 0x40.
func SetDDRAMAddr(c Commander, addr byte) error {
	return c.Command(cmdSetDDRAMAddr|addr&ddRAMAddrMask, baseDelay(c))
}

func baseDelay(c Commander) time.Duration {
	if cd, ok := c.(CommandDelayer); ok {
		if d := cd.CommandDelay(); d > 0 {
			return d
		}
	}
	return CommandDelay
}

// InitConfig holds the modes sent by the last phase of Init.
type InitConfig struct {
	Function FunctionMode
	Display  DisplayMode
	Entry    EntryMode
}

// InitOption overrides one of the modes used by Init.
type InitOption func(*InitConfig)

// WithFunctionMode sets the function mode sent by Init.
func WithFunctionMode(m FunctionMode) InitOption {
	return func(c *InitConfig) { c.Function = m }
}

// WithDisplayMode sets the display mode sent by Init.
func WithDisplayMode(m DisplayMode) InitOption {
	return func(c *InitConfig) { c.Display = m }
}

// WithEntryMode sets the entry mode sent by Init.
func WithEntryMode(m EntryMode) InitOption {
	return func(c *InitConfig) { c.Entry = m }
}

// NewInitConfig returns the modes Init uses on a bus of width data pins
// once opts are applied. The default function mode matches the bus width,
// with 1 line and the 5x8 font; the display is left off.
func NewInitConfig(width int, opts ...InitOption) InitConfig {
	cfg := InitConfig{Entry: DefaultEntryMode}
	if width == 8 {
		cfg.Function = Bits8
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Validate checks the configuration against a bus of width data pins. The
// interface width of the function mode must match the bus: a 4 bit mode on
// 8 pins would leave the controller reading D0-D3 that are never driven.
func (c InitConfig) Validate(width int) error {
	if err := c.Function.Validate(); err != nil {
		return err
	}
	switch width {
	case 4:
		if c.Function.Has(Bits8) {
			return fmt.Errorf("%w: 8 bit function mode on a 4 pin bus", ErrInvalidDataBusLength)
		}
	case 8:
		if !c.Function.Has(Bits8) {
			return fmt.Errorf("%w: 4 bit function mode on an 8 pin bus", ErrInvalidDataBusLength)
		}
	default:
		return fmt.Errorf("%w: got %d", ErrInvalidDataBusLength, width)
	}
	return nil
}
