// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/GermanBionicSystems/lcd/hd44780"
	"github.com/GermanBionicSystems/lcd/hd44780/hd44780test"
)

func TestCommandSet(t *testing.T) {
	base := hd44780.CommandDelay
	long := 42 * base
	tests := []struct {
		name  string
		op    func(c hd44780.Commander) error
		cmd   byte
		delay time.Duration
	}{
		{"ClearDisplay", hd44780.ClearDisplay, 0x01, long},
		{"ReturnHome", hd44780.ReturnHome, 0x02, long},
		{"EntryModeSet", func(c hd44780.Commander) error {
			return hd44780.EntryModeSet(c, hd44780.DefaultEntryMode)
		}, 0x06, base},
		{"EntryModeSetShift", func(c hd44780.Commander) error {
			return hd44780.EntryModeSet(c, hd44780.EntryRight|hd44780.EntryShiftDisplay)
		}, 0x05, base},
		{"DisplayControl", func(c hd44780.Commander) error {
			return hd44780.DisplayControl(c, hd44780.DisplayOn|hd44780.CursorOn|hd44780.BlinkOn)
		}, 0x0f, base},
		{"CursorShift", func(c hd44780.Commander) error {
			return hd44780.CursorShift(c, hd44780.DefaultShiftMode)
		}, 0x14, base},
		{"CursorShiftDisplayLeft", func(c hd44780.Commander) error {
			return hd44780.CursorShift(c, hd44780.DisplayMove|hd44780.MoveLeft)
		}, 0x18, base},
		{"FunctionSet", func(c hd44780.Commander) error {
			return hd44780.FunctionSet(c, hd44780.Bits8|hd44780.Lines2)
		}, 0x38, base},
		{"FunctionSet5x10", func(c hd44780.Commander) error {
			return hd44780.FunctionSet(c, hd44780.Lines1|hd44780.Dots5x10)
		}, 0x24, base},
		{"SetCGRAMAddr", func(c hd44780.Commander) error {
			return hd44780.SetCGRAMAddr(c, 0xff)
		}, 0x7f, base},
		{"SetCGRAMAddrLow", func(c hd44780.Commander) error {
			return hd44780.SetCGRAMAddr(c, 0x09)
		}, 0x49, base},
		{"SetDDRAMAddr", func(c hd44780.Commander) error {
			return hd44780.SetDDRAMAddr(c, 0xff)
		}, 0xff, base},
		{"SetDDRAMAddrLine2", func(c hd44780.Commander) error {
			return hd44780.SetDDRAMAddr(c, 0x40)
		}, 0xc0, base},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spy := &hd44780test.Spy{}
			if err := tc.op(spy); err != nil {
				t.Fatal(err)
			}
			cmds := spy.Commands()
			if len(cmds) != 1 {
				t.Fatalf("expected 1 command, got %v", cmds)
			}
			if cmds[0].Cmd != tc.cmd {
				t.Errorf("expected opcode 0x%02x, got 0x%02x", tc.cmd, cmds[0].Cmd)
			}
			if cmds[0].Delay != tc.delay {
				t.Errorf("expected delay %s, got %s", tc.delay, cmds[0].Delay)
			}
		})
	}
}

func TestCommandDelayOverride(t *testing.T) {
	spy := &hd44780test.Spy{BaseDelay: 10 * time.Microsecond}
	_ = hd44780.ClearDisplay(spy)
	_ = hd44780.ReturnHome(spy)
	_ = hd44780.DisplayControl(spy, hd44780.DisplayOn)
	cmds := spy.Commands()
	for _, c := range cmds[:2] {
		if c.Delay < 40*spy.BaseDelay {
			t.Errorf("0x%02x: delay %s is shorter than 40x base", c.Cmd, c.Delay)
		}
	}
	if cmds[2].Delay != spy.BaseDelay {
		t.Errorf("expected %s, got %s", spy.BaseDelay, cmds[2].Delay)
	}
}

func TestFunctionSetInvalid(t *testing.T) {
	spy := &hd44780test.Spy{}
	for m := range 256 {
		mode := hd44780.FunctionMode(m)
		if !mode.Has(hd44780.Lines2 | hd44780.Dots5x10) {
			continue
		}
		if err := hd44780.FunctionSet(spy, mode); !errors.Is(err, hd44780.ErrInvalidConfiguration) {
			t.Errorf("%s: expected ErrInvalidConfiguration, got %v", mode, err)
		}
	}
	if ops := spy.Opcodes(); len(ops) != 0 {
		t.Errorf("invalid modes reached the controller: %x", ops)
	}
}

func TestCommandError(t *testing.T) {
	boom := errors.New("boom")
	spy := &hd44780test.Spy{CommandErr: boom}
	if err := hd44780.ClearDisplay(spy); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}

func TestNewInitConfig(t *testing.T) {
	cfg := hd44780.NewInitConfig(4)
	if cfg.Function != hd44780.Bits4|hd44780.Lines1|hd44780.Dots5x8 {
		t.Errorf("unexpected function mode %s", cfg.Function)
	}
	if cfg.Display != hd44780.DisplayOff {
		t.Errorf("unexpected display mode %s", cfg.Display)
	}
	if cfg.Entry != hd44780.DefaultEntryMode {
		t.Errorf("unexpected entry mode %s", cfg.Entry)
	}
	if cfg := hd44780.NewInitConfig(8); !cfg.Function.Has(hd44780.Bits8) {
		t.Errorf("8 bit bus default should be Bits8, got %s", cfg.Function)
	}
	cfg = hd44780.NewInitConfig(4,
		hd44780.WithFunctionMode(hd44780.Lines2),
		hd44780.WithDisplayMode(hd44780.DisplayOn),
		hd44780.WithEntryMode(hd44780.EntryRight))
	expected := hd44780.InitConfig{Function: hd44780.Lines2, Display: hd44780.DisplayOn, Entry: hd44780.EntryRight}
	if cfg != expected {
		t.Errorf("expected %+v, got %+v", expected, cfg)
	}
}

func TestInitConfigValidate(t *testing.T) {
	tests := []struct {
		cfg   hd44780.InitConfig
		width int
		err   error
	}{
		{hd44780.NewInitConfig(4), 4, nil},
		{hd44780.NewInitConfig(8), 8, nil},
		{hd44780.NewInitConfig(8), 4, hd44780.ErrInvalidDataBusLength},
		{hd44780.NewInitConfig(4), 6, hd44780.ErrInvalidDataBusLength},
		{hd44780.NewInitConfig(4), 8, hd44780.ErrInvalidDataBusLength},
		{hd44780.NewInitConfig(8, hd44780.WithFunctionMode(hd44780.Lines2)), 8, hd44780.ErrInvalidDataBusLength},
		{hd44780.NewInitConfig(8, hd44780.WithFunctionMode(hd44780.Bits8|hd44780.Lines2)), 8, nil},
		{hd44780.InitConfig{Function: hd44780.Lines2 | hd44780.Dots5x10}, 4, hd44780.ErrInvalidConfiguration},
	}
	for _, tc := range tests {
		err := tc.cfg.Validate(tc.width)
		if tc.err == nil && err != nil {
			t.Errorf("%+v on %d pins: unexpected error %v", tc.cfg, tc.width, err)
		}
		if tc.err != nil && !errors.Is(err, tc.err) {
			t.Errorf("%+v on %d pins: expected %v, got %v", tc.cfg, tc.width, tc.err, err)
		}
	}
}

func TestSpyInit(t *testing.T) {
	spy := &hd44780test.Spy{}
	err := spy.Init(hd44780.WithFunctionMode(hd44780.Bits8))
	if !errors.Is(err, hd44780.ErrInvalidDataBusLength) {
		t.Errorf("expected ErrInvalidDataBusLength, got %v", err)
	}
	if err := spy.Init(); err != nil {
		t.Fatal(err)
	}
	if inits := spy.Inits(); len(inits) != 1 || inits[0] != hd44780.NewInitConfig(4) {
		t.Errorf("unexpected inits %+v", inits)
	}
}

func TestPrint(t *testing.T) {
	spy := &hd44780test.Spy{}
	if err := hd44780.Print(spy, "May the Go ...\n... be with you"); err != nil {
		t.Fatal(err)
	}
	writes := spy.Writes()
	if len(writes) != 2 || string(writes[0]) != "May the Go ..." || string(writes[1]) != "... be with you" {
		t.Errorf("unexpected writes %q", writes)
	}
	if ops := spy.Opcodes(); len(ops) != 1 || ops[0] != 0xc0 {
		t.Errorf("expected a single 0xc0, got %x", ops)
	}

	spy.Reset()
	if err := hd44780.Print(spy, "\n"); err != nil {
		t.Fatal(err)
	}
	if len(spy.Writes()) != 0 {
		t.Errorf("empty lines should not be written: %q", spy.Writes())
	}
}

func TestPrintErrors(t *testing.T) {
	spy := &hd44780test.Spy{WriteErr: io.ErrClosedPipe}
	err := hd44780.Print(spy, "x")
	var ioErr *hd44780.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected an IOError, got %v", err)
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("IOError should unwrap to the writer error, got %v", ioErr.Err)
	}

	pinErr := &hd44780.PinError{Role: hd44780.RoleData, Pin: "D4", Err: io.ErrUnexpectedEOF}
	spy = &hd44780test.Spy{WriteErr: pinErr}
	if err := hd44780.Print(spy, "x"); err != pinErr {
		t.Errorf("pin errors should pass through unchanged, got %v", err)
	}

	boom := errors.New("boom")
	spy = &hd44780test.Spy{CommandErr: boom}
	if err := hd44780.Print(spy, "a\nb"); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}

func TestErrorStrings(t *testing.T) {
	errs := []error{
		&hd44780.PinError{Role: hd44780.RoleEnable, Pin: "GPIO22", Err: io.EOF},
		&hd44780.PinError{Role: hd44780.RoleRegisterSelect, Err: io.EOF},
		&hd44780.IOError{Err: io.EOF},
		&hd44780.ShortWriteError{Written: 80, Unwritten: 1},
	}
	for _, err := range errs {
		if err.Error() == "" {
			t.Errorf("%T has an empty message", err)
		}
	}
	if s := hd44780.PinRole(42).String(); s != "PinRole(42)" {
		t.Errorf("unexpected role name %q", s)
	}
	if !errors.Is(&hd44780.ShortWriteError{}, io.ErrShortWrite) {
		t.Error("ShortWriteError should match io.ErrShortWrite")
	}
}
