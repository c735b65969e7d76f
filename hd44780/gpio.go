// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

type writeMode bool

const (
	modeCommand writeMode = false
	modeData    writeMode = true
)

const (
	// maxWriteLength caps a single Write. It is larger than any line of a
	// real display.
	maxWriteLength = 80

	strobeHold   = time.Microsecond
	powerOnDelay = 44 * time.Millisecond

	handshake1Factor = 200 // >= 4.1ms
	handshake2Factor = 3   // >= 100µs

	cmdInit8Bit byte = 0x33
	cmdInit4Bit byte = 0x32
)

// Sleeper blocks the calling goroutine for at least d.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(d time.Duration)

// Sleep calls f(d).
func (f SleeperFunc) Sleep(d time.Duration) {
	f(d)
}

// Opts holds the optional collaborators of a GPIODriver.
type Opts struct {
	// Sleeper is used for every protocol delay. Defaults to time.Sleep.
	Sleeper Sleeper
	// Logger receives the init state transitions at debug level. Defaults
	// to the logrus standard logger.
	Logger logrus.FieldLogger
}

// DefaultOpts is used when nil is passed to NewGPIO or NewGPIOGroup.
var DefaultOpts = Opts{}

// InitState is the stage of the power-on handshake reached by Init.
type InitState int

const (
	StatePoweredUnknown InitState = iota
	StateSettling
	StateModeHandshake1
	StateModeHandshake2
	StateConfigured
)

func (s InitState) String() string {
	switch s {
	case StatePoweredUnknown:
		return "PoweredUnknown"
	case StateSettling:
		return "Settling"
	case StateModeHandshake1:
		return "ModeHandshake1"
	case StateModeHandshake2:
		return "ModeHandshake2"
	case StateConfigured:
		return "Configured"
	}
	return fmt.Sprintf("InitState(%d)", int(s))
}

// dataBus sets the data lines D0-D7, or D4-D7 on a 4 bit bus.
type dataBus interface {
	width() int
	// out drives the low width() bits of v onto the bus.
	out(v byte) error
	String() string
}

// pinBus is a data bus of discrete pins, index 0 being the least
// significant bit.
type pinBus []gpio.PinOut

func (b pinBus) width() int {
	return len(b)
}

func (b pinBus) out(v byte) error {
	for i, p := range b {
		if err := p.Out(gpio.Level(v&(1<<i) != 0)); err != nil {
			return &PinError{Role: RoleData, Pin: p.Name(), Err: err}
		}
	}
	return nil
}

func (b pinBus) String() string {
	names := make([]string, len(b))
	for i, p := range b {
		names[i] = p.Name()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// groupBus writes the data lines with a single masked gpio.Group write, so
// the first n pins of the group must be the data lines.
type groupBus struct {
	g gpio.Group
	n int
}

func (b *groupBus) width() int {
	return b.n
}

func (b *groupBus) out(v byte) error {
	mask := gpio.GPIOValue(1)<<b.n - 1
	if err := b.g.Out(gpio.GPIOValue(v)&mask, mask); err != nil {
		return &PinError{Role: RoleData, Pin: b.g.String(), Err: err}
	}
	return nil
}

func (b *groupBus) String() string {
	return b.g.String()
}

// GPIODriver drives an HD44780 over a 4 or 8 bit parallel bus by toggling
// GPIO pins.
//
// The R/W input of the display must be tied to ground; the busy flag is
// never read and the documented execution times are waited out instead.
//
// The pins must already be configured as outputs. The driver does not
// release them. A GPIODriver is not safe for concurrent use.
type GPIODriver struct {
	rs    gpio.PinOut
	e     gpio.PinOut
	data  dataBus
	sleep Sleeper
	log   logrus.FieldLogger
	state InitState
}

// NewGPIO returns a driver using rs as the register select line, e as the
// enable line and data as the data bus. Pass 4 pins wired to D4-D7 for the
// 4 bit interface, or 8 pins wired to D0-D7.
//
// No pin is touched. Call Init before sending anything else.
func NewGPIO(rs, e gpio.PinOut, data []gpio.PinOut, opts *Opts) (*GPIODriver, error) {
	if len(data) != 4 && len(data) != 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDataBusLength, len(data))
	}
	bus := make(pinBus, len(data))
	copy(bus, data)
	return newDriver(rs, e, bus, opts), nil
}

// NewGPIOGroup returns a driver whose data bus is the first width pins of
// group, written with one group write per strobe. This suits I/O chips
// where each write is a bus transaction.
func NewGPIOGroup(rs, e gpio.PinOut, group gpio.Group, width int, opts *Opts) (*GPIODriver, error) {
	if width != 4 && width != 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDataBusLength, width)
	}
	if n := len(group.Pins()); n < width {
		return nil, fmt.Errorf("%w: group %s has %d pins", ErrInvalidDataBusLength, group, n)
	}
	return newDriver(rs, e, &groupBus{g: group, n: width}, opts), nil
}

func newDriver(rs, e gpio.PinOut, data dataBus, opts *Opts) *GPIODriver {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &GPIODriver{
		rs:    rs,
		e:     e,
		data:  data,
		sleep: opts.Sleeper,
		log:   opts.Logger,
	}
	if d.sleep == nil {
		d.sleep = SleeperFunc(time.Sleep)
	}
	if d.log == nil {
		d.log = logrus.StandardLogger()
	}
	return d
}

// Width returns the number of data lines, 4 or 8.
func (d *GPIODriver) Width() int {
	return d.data.width()
}

// State returns the handshake stage reached by the last Init.
func (d *GPIODriver) State() InitState {
	return d.state
}

// Command sends an instruction and waits delay before handing the bus back
// in data mode.
func (d *GPIODriver) Command(cmd byte, delay time.Duration) error {
	if err := d.registerSelect(modeCommand); err != nil {
		return err
	}
	if err := d.writeByte(cmd); err != nil {
		return err
	}
	d.sleep.Sleep(delay)
	return d.registerSelect(modeData)
}

// Init runs the power-on handshake documented in the datasheet, which
// brings the controller to the bus width of this driver whatever mode it
// was left in, then sends the function set, display control and entry
// mode instructions and clears the display.
//
// Modes not given in opts default to NewInitConfig. Invalid modes are
// rejected before any pin is touched.
func (d *GPIODriver) Init(opts ...InitOption) error {
	width := d.data.width()
	cfg := NewInitConfig(width, opts...)
	if err := cfg.Validate(width); err != nil {
		return err
	}
	d.setState(StatePoweredUnknown)

	// 15 to 40ms depending on the supply voltage.
	d.setState(StateSettling)
	d.sleep.Sleep(powerOnDelay)

	// 0x33 is understood in 8 bit mode and as two nibbles in both 4 bit
	// phases, so it works from any of the three states the controller can
	// be in.
	if err := d.Command(cmdInit8Bit, CommandDelay*handshake1Factor); err != nil {
		return err
	}
	d.setState(StateModeHandshake1)

	cmd := cmdInit8Bit
	if width == 4 {
		cmd = cmdInit4Bit
	}
	if err := d.Command(cmd, CommandDelay*handshake2Factor); err != nil {
		return err
	}
	d.setState(StateModeHandshake2)

	steps := []func() error{
		func() error { return FunctionSet(d, cfg.Function) },
		func() error { return DisplayControl(d, cfg.Display) },
		func() error { return EntryModeSet(d, cfg.Entry) },
		func() error { return ClearDisplay(d) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	d.setState(StateConfigured)
	d.log.WithFields(logrus.Fields{
		"function": cfg.Function,
		"display":  cfg.Display,
		"entry":    cfg.Entry,
	}).Debug("hd44780: configured")
	return nil
}

// Write sends p to the RAM selected by the last address instruction, one
// byte per strobe (two on a 4 bit bus).
//
// At most 80 bytes are sent per call. When p is longer, the first 80 bytes
// are sent and a *ShortWriteError reports the rest.
func (d *GPIODriver) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	chunk := p
	if len(chunk) > maxWriteLength {
		chunk = chunk[:maxWriteLength]
	}
	if err = d.registerSelect(modeData); err != nil {
		return 0, err
	}
	for _, b := range chunk {
		if err = d.writeByte(b); err != nil {
			return n, err
		}
		n++
		d.sleep.Sleep(CommandDelay)
	}
	if n < len(p) {
		return n, &ShortWriteError{Written: n, Unwritten: len(p) - n}
	}
	return n, nil
}

// WriteString is Write for a string.
func (d *GPIODriver) WriteString(s string) (int, error) {
	return d.Write([]byte(s))
}

// Halt clears the display and turns it off. The pins are left to the
// caller.
func (d *GPIODriver) Halt() error {
	if err := ClearDisplay(d); err != nil {
		return err
	}
	return DisplayControl(d, DisplayOff)
}

// Return info about the driver.
func (d *GPIODriver) String() string {
	return fmt.Sprintf("HD44780::GPIO%dBit{RS: %s, E: %s, Data: %s}", d.data.width(), d.rs, d.e, d.data)
}

func (d *GPIODriver) setState(s InitState) {
	d.state = s
	d.log.WithField("state", s).Debug("hd44780: init")
}

func (d *GPIODriver) registerSelect(mode writeMode) error {
	if err := d.rs.Out(gpio.Level(mode)); err != nil {
		return &PinError{Role: RoleRegisterSelect, Pin: d.rs.Name(), Err: err}
	}
	return nil
}

func (d *GPIODriver) writeByte(b byte) error {
	switch d.data.width() {
	case 4:
		if err := d.writeBits(b >> 4); err != nil {
			return err
		}
		return d.writeBits(b & 0x0f)
	case 8:
		return d.writeBits(b)
	}
	return fmt.Errorf("%w: got %d", ErrInvalidDataBusLength, d.data.width())
}

func (d *GPIODriver) writeBits(v byte) error {
	if err := d.data.out(v); err != nil {
		return err
	}
	return d.pulseEnable()
}

// pulseEnable strobes E low-high-low, holding each level for the 1µs
// minimum pulse width.
func (d *GPIODriver) pulseEnable() error {
	for _, l := range []gpio.Level{gpio.Low, gpio.High, gpio.Low} {
		if err := d.e.Out(l); err != nil {
			return &PinError{Role: RoleEnable, Pin: d.e.Name(), Err: err}
		}
		d.sleep.Sleep(strobeHold)
	}
	return nil
}

var _ Controller = &GPIODriver{}
var _ conn.Resource = &GPIODriver{}
