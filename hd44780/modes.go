// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import "strings"

// DisplayMode holds the option bits of the display control instruction.
type DisplayMode byte

const (
	BlinkOff   DisplayMode = 0x00
	BlinkOn    DisplayMode = 0x01
	CursorOff  DisplayMode = 0x00
	CursorOn   DisplayMode = 0x02
	DisplayOff DisplayMode = 0x00
	DisplayOn  DisplayMode = 0x04
)

// Has reports whether all bits of f are set in m.
func (m DisplayMode) Has(f DisplayMode) bool {
	return m&f == f
}

func (m DisplayMode) String() string {
	return joinFlags(
		pick(m.Has(DisplayOn), "DisplayOn", "DisplayOff"),
		pick(m.Has(CursorOn), "CursorOn", "CursorOff"),
		pick(m.Has(BlinkOn), "BlinkOn", "BlinkOff"),
	)
}

// EntryMode holds the option bits of the entry mode set instruction.
type EntryMode byte

const (
	EntryRight        EntryMode = 0x00
	EntryLeft         EntryMode = 0x02
	EntryShiftCursor  EntryMode = 0x00
	EntryShiftDisplay EntryMode = 0x01

	// DefaultEntryMode advances the cursor to the right and never shifts
	// the display.
	DefaultEntryMode = EntryLeft | EntryShiftCursor
)

// Has reports whether all bits of f are set in m.
func (m EntryMode) Has(f EntryMode) bool {
	return m&f == f
}

func (m EntryMode) String() string {
	return joinFlags(
		pick(m.Has(EntryLeft), "EntryLeft", "EntryRight"),
		pick(m.Has(EntryShiftDisplay), "EntryShiftDisplay", "EntryShiftCursor"),
	)
}

// FunctionMode holds the option bits of the function set instruction.
type FunctionMode byte

const (
	Bits4    FunctionMode = 0x00
	Bits8    FunctionMode = 0x10
	Lines1   FunctionMode = 0x00
	Lines2   FunctionMode = 0x08
	Dots5x8  FunctionMode = 0x00
	Dots5x10 FunctionMode = 0x04
)

// Has reports whether all bits of f are set in m.
func (m FunctionMode) Has(f FunctionMode) bool {
	return m&f == f
}

// Validate returns ErrInvalidConfiguration when m asks for 2 lines with the
// 5x10 font. The controller would silently fall back to 5x8.
func (m FunctionMode) Validate() error {
	if m.Has(Lines2) && m.Has(Dots5x10) {
		return ErrInvalidConfiguration
	}
	return nil
}

func (m FunctionMode) String() string {
	return joinFlags(
		pick(m.Has(Bits8), "Bits8", "Bits4"),
		pick(m.Has(Lines2), "Lines2", "Lines1"),
		pick(m.Has(Dots5x10), "Dots5x10", "Dots5x8"),
	)
}

// ShiftMode holds the option bits of the cursor or display shift
// instruction.
type ShiftMode byte

const (
	CursorMove  ShiftMode = 0x00
	DisplayMove ShiftMode = 0x08
	MoveLeft    ShiftMode = 0x00
	MoveRight   ShiftMode = 0x04

	// DefaultShiftMode moves the cursor one position to the right.
	DefaultShiftMode = CursorMove | MoveRight
)

// Has reports whether all bits of f are set in m.
func (m ShiftMode) Has(f ShiftMode) bool {
	return m&f == f
}

func (m ShiftMode) String() string {
	return joinFlags(
		pick(m.Has(DisplayMove), "DisplayMove", "CursorMove"),
		pick(m.Has(MoveRight), "MoveRight", "MoveLeft"),
	)
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

func joinFlags(names ...string) string {
	return strings.Join(names, "|")
}
