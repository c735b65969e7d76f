// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hd44780 writes messages to an HD44780 display wired directly to GPIO
// pins, in 4 or 8 bit mode depending on the number of data pins given.
//
// The R/W input of the display must be tied to ground.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/GermanBionicSystems/lcd/hd44780"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var log = logrus.New()

func setupLog(verbose bool) {
	log.SetOutput(colorable.NewColorableStderr())
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()),
		FullTimestamp: true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
}

// claim looks up a pin and drives it low, which configures it as an output.
func claim(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

// release drives the pins low and switches them back to inputs.
func release(pins []gpio.PinIO) {
	for _, p := range pins {
		if err := p.Out(gpio.Low); err != nil {
			log.WithError(err).WithField("pin", p.Name()).Warn("could not drive pin low")
		}
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			log.WithError(err).WithField("pin", p.Name()).Warn("could not release pin")
		}
	}
}

// functionMode returns the function set mode for a display of lines lines
// on a bus of width data pins.
func functionMode(lines, width int) (hd44780.FunctionMode, error) {
	var fm hd44780.FunctionMode
	switch lines {
	case 1:
		fm = hd44780.Lines1
	case 2:
		fm = hd44780.Lines2
	default:
		return 0, fmt.Errorf("-lines must be 1 or 2, got %d", lines)
	}
	if width == 8 {
		fm |= hd44780.Bits8
	}
	return fm, nil
}

func mainImpl() error {
	rsName := flag.String("rs", "GPIO27", "register select pin")
	eName := flag.String("e", "GPIO22", "enable pin")
	dataNames := flag.String("data", "GPIO25,GPIO24,GPIO23,GPIO18", "data pins, D0 (8 bit) or D4 (4 bit) first")
	blName := flag.String("bl", "", "backlight pin, if any")
	lines := flag.Int("lines", 2, "number of display lines, 1 or 2")
	cursor := flag.Bool("cursor", false, "show a blinking cursor")
	msg := flag.String("msg", "May the Go ...\n... be with you!", "message, \\n moves to line 2")
	loop := flag.Int("loop", 1, "number of times to show the message")
	pause := flag.Duration("pause", 2*time.Second, "time each message stays on")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	fm, err := functionMode(*lines, len(strings.Split(*dataNames, ",")))
	if err != nil {
		return err
	}
	setupLog(*verbose)

	if _, err := host.Init(); err != nil {
		return err
	}

	var claimed []gpio.PinIO
	defer func() { release(claimed) }()
	get := func(name string) (gpio.PinIO, error) {
		p, err := claim(strings.TrimSpace(name))
		if err == nil {
			claimed = append(claimed, p)
		}
		return p, err
	}
	rs, err := get(*rsName)
	if err != nil {
		return err
	}
	e, err := get(*eName)
	if err != nil {
		return err
	}
	var data []gpio.PinOut
	for _, name := range strings.Split(*dataNames, ",") {
		p, err := get(name)
		if err != nil {
			return err
		}
		data = append(data, p)
	}
	var bl *hd44780.GPIOMonoBacklight
	if *blName != "" {
		p, err := get(*blName)
		if err != nil {
			return err
		}
		bl = hd44780.NewBacklight(p)
	}

	lcd, err := hd44780.NewGPIO(rs, e, data, &hd44780.Opts{Logger: log})
	if err != nil {
		return err
	}
	log.WithField("lcd", lcd).Info("driver ready")

	dm := hd44780.DisplayOn
	if *cursor {
		dm |= hd44780.CursorOn | hd44780.BlinkOn
	}
	err = lcd.Init(
		hd44780.WithFunctionMode(fm),
		hd44780.WithDisplayMode(dm),
		hd44780.WithEntryMode(hd44780.DefaultEntryMode))
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	if bl != nil {
		if err := bl.Backlight(0xff); err != nil {
			return err
		}
		defer func() { _ = bl.Backlight(0) }()
	}

	text := strings.ReplaceAll(*msg, `\n`, "\n")
	for i := range *loop {
		if err := hd44780.ClearDisplay(lcd); err != nil {
			return fmt.Errorf("failed to clear the display: %w", err)
		}
		log.WithField("iteration", i).Infof("%q", text)
		if err := hd44780.Print(lcd, text); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
		time.Sleep(*pause)
	}
	if err := hd44780.ReturnHome(lcd); err != nil {
		return fmt.Errorf("failed to home the display: %w", err)
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "hd44780: %s.\n", err)
		os.Exit(1)
	}
}
