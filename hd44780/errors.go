// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidDataBusLength is returned when the data bus is not 4 or 8
	// pins wide, or when the interface width of the function mode does not
	// match the number of data pins.
	ErrInvalidDataBusLength = errors.New("hd44780: data bus must be 4 or 8 pins")
	// ErrInvalidConfiguration is returned for a 2 line, 5x10 font function
	// mode, which the controller does not support.
	ErrInvalidConfiguration = errors.New("hd44780: 2 line mode does not support the 5x10 font")
)

// PinRole names the function of a pin wired to the controller.
type PinRole int

const (
	RoleRegisterSelect PinRole = iota
	RoleEnable
	RoleData
	RoleBacklight
)

func (r PinRole) String() string {
	switch r {
	case RoleRegisterSelect:
		return "register select"
	case RoleEnable:
		return "enable"
	case RoleData:
		return "data"
	case RoleBacklight:
		return "backlight"
	}
	return fmt.Sprintf("PinRole(%d)", int(r))
}

// PinError is returned when setting the level of an output pin failed.
type PinError struct {
	Role PinRole
	// Pin is the name of the pin, or of the group for a group write.
	Pin string
	Err error
}

func (e *PinError) Error() string {
	if e.Pin == "" {
		return fmt.Sprintf("hd44780: could not set %s pin: %v", e.Role, e.Err)
	}
	return fmt.Sprintf("hd44780: could not set %s pin %s: %v", e.Role, e.Pin, e.Err)
}

func (e *PinError) Unwrap() error {
	return e.Err
}

// IOError wraps a failure of the underlying byte sink.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return "hd44780: write failed: " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ShortWriteError is returned by Write when the input exceeded the per call
// cap. Only the first Written bytes reached the controller.
type ShortWriteError struct {
	Written   int
	Unwritten int
}

func (e *ShortWriteError) Error() string {
	return fmt.Sprintf("hd44780: write capped at %d bytes, %d not written", e.Written, e.Unwritten)
}

// Is makes errors.Is(err, io.ErrShortWrite) hold.
func (e *ShortWriteError) Is(target error) bool {
	return target == io.ErrShortWrite
}

// wrapIO returns err unchanged when it already belongs to this package and
// wraps it in an IOError otherwise.
func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	var pe *PinError
	var se *ShortWriteError
	var ie *IOError
	switch {
	case errors.As(err, &pe), errors.As(err, &se), errors.As(err, &ie):
		return err
	case errors.Is(err, ErrInvalidDataBusLength), errors.Is(err, ErrInvalidConfiguration):
		return err
	}
	return &IOError{Err: err}
}
