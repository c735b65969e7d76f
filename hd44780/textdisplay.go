// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"periph.io/x/conn/v3/display"
)

// TextDisplay exposes a Controller as a display.TextDisplay of rows by cols
// characters. Rows and columns are numbered from 1.
//
// The Controller must already be initialized with the display on and the
// cursor hidden, which is the state TextDisplay assumes. The display
// control bits are the only state kept; the content is never cached.
type TextDisplay struct {
	c    Controller
	rows int
	cols int
	mode DisplayMode
}

// NewTextDisplay wraps c. rows must be 1, 2 or 4, and the display cannot
// hold more than 80 characters.
func NewTextDisplay(c Controller, rows, cols int) (*TextDisplay, error) {
	if rows != 1 && rows != 2 && rows != 4 {
		return nil, fmt.Errorf("hd44780: invalid number of rows %d", rows)
	}
	if cols < 1 || rows*cols > maxWriteLength {
		return nil, fmt.Errorf("hd44780: invalid display size %dx%d", rows, cols)
	}
	return &TextDisplay{c: c, rows: rows, cols: cols, mode: DisplayOn}, nil
}

// AutoScroll makes each write shift the display instead of the cursor.
func (t *TextDisplay) AutoScroll(enabled bool) error {
	mode := DefaultEntryMode
	if enabled {
		mode |= EntryShiftDisplay
	}
	return EntryModeSet(t.c, mode)
}

// Clear clears the display and moves the cursor home.
func (t *TextDisplay) Clear() error {
	return ClearDisplay(t.c)
}

// Home moves the cursor to (1, 1) and unshifts the display.
func (t *TextDisplay) Home() error {
	return ReturnHome(t.c)
}

// Cursor sets the cursor style. The controller has an underline cursor and
// a blinking block, which can be combined; CursorBlock and CursorBlink both
// select the blinking block.
func (t *TextDisplay) Cursor(modes ...display.CursorMode) error {
	mode := t.mode &^ (CursorOn | BlinkOn)
	for _, m := range modes {
		switch m {
		case display.CursorOff:
			mode &^= CursorOn | BlinkOn
		case display.CursorUnderline:
			mode |= CursorOn
		case display.CursorBlock, display.CursorBlink:
			mode |= BlinkOn
		default:
			return fmt.Errorf("hd44780: %w: cursor mode %d", display.ErrInvalidCommand, m)
		}
	}
	return t.setMode(mode)
}

// Display turns the display on or off. The content and cursor are kept.
func (t *TextDisplay) Display(on bool) error {
	mode := t.mode &^ DisplayOn
	if on {
		mode |= DisplayOn
	}
	return t.setMode(mode)
}

// Move moves the cursor one position forward or backward. Up and Down are
// not implemented.
func (t *TextDisplay) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Backward:
		return CursorShift(t.c, CursorMove|MoveLeft)
	case display.Forward:
		return CursorShift(t.c, CursorMove|MoveRight)
	case display.Up, display.Down:
		return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
	}
	return fmt.Errorf("hd44780: %w: direction %d", display.ErrInvalidCommand, dir)
}

// MoveTo moves the cursor to row, col.
func (t *TextDisplay) MoveTo(row, col int) error {
	if row < t.MinRow() || row > t.rows || col < t.MinCol() || col > t.cols {
		return fmt.Errorf("hd44780: position (%d, %d) out of range for %dx%d", row, col, t.rows, t.cols)
	}
	return SetDDRAMAddr(t.c, t.rowOffset(row)+byte(col-1))
}

// rowOffset returns the DDRAM address of the first cell of row. Rows 3 and
// 4 continue rows 1 and 2 in memory.
func (t *TextDisplay) rowOffset(row int) byte {
	offset := byte(0)
	if row%2 == 0 {
		offset = line2Addr
	}
	if row > 2 {
		offset += byte(t.cols)
	}
	return offset
}

// MinRow returns 1.
func (t *TextDisplay) MinRow() int {
	return 1
}

// MinCol returns 1.
func (t *TextDisplay) MinCol() int {
	return 1
}

func (t *TextDisplay) Rows() int {
	return t.rows
}

func (t *TextDisplay) Cols() int {
	return t.cols
}

// Write writes p at the cursor.
func (t *TextDisplay) Write(p []byte) (int, error) {
	return t.c.Write(p)
}

// WriteString writes text at the cursor.
func (t *TextDisplay) WriteString(text string) (int, error) {
	return t.c.Write([]byte(text))
}

// Halt clears the display and turns it off.
func (t *TextDisplay) Halt() error {
	if err := ClearDisplay(t.c); err != nil {
		return err
	}
	return t.Display(false)
}

func (t *TextDisplay) String() string {
	return fmt.Sprintf("HD44780 Rows: %d Cols: %d", t.rows, t.cols)
}

func (t *TextDisplay) setMode(mode DisplayMode) error {
	if err := DisplayControl(t.c, mode); err != nil {
		return err
	}
	t.mode = mode
	return nil
}

var _ display.TextDisplay = &TextDisplay{}
