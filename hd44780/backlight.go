// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

// GPIOMonoBacklight switches the LED backlight of a module with a single
// GPIO pin. It is not part of the controller, so it is kept apart from
// GPIODriver.
type GPIOMonoBacklight struct {
	blPin     gpio.PinOut
	activeLow bool
}

// NewBacklight returns a backlight driven high to turn it on.
func NewBacklight(blPin gpio.PinOut) *GPIOMonoBacklight {
	return &GPIOMonoBacklight{blPin: blPin}
}

// NewBacklightActiveLow returns a backlight driven low to turn it on, as
// wired through a PNP transistor on many modules.
func NewBacklightActiveLow(blPin gpio.PinOut) *GPIOMonoBacklight {
	return &GPIOMonoBacklight{blPin: blPin, activeLow: true}
}

// Backlight turns the backlight off for a zero intensity and on otherwise.
func (bl *GPIOMonoBacklight) Backlight(intensity display.Intensity) error {
	on := intensity != 0
	if err := bl.blPin.Out(gpio.Level(on != bl.activeLow)); err != nil {
		return &PinError{Role: RoleBacklight, Pin: bl.blPin.Name(), Err: err}
	}
	return nil
}

var _ display.DisplayBacklight = &GPIOMonoBacklight{}
