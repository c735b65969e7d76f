// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780test

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/lcd/hd44780"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/pin"
)

// Pin is a gpiotest.Pin that reports its writes to the Bus it belongs to.
type Pin struct {
	*gpiotest.Pin
	// Err is returned by Out when set, without changing the level.
	Err error

	bus  *Bus
	role hd44780.PinRole
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	if p.Err != nil {
		return p.Err
	}
	prev := p.Pin.Read()
	if err := p.Pin.Out(l); err != nil {
		return err
	}
	if p.bus == nil {
		return nil
	}
	p.bus.record(Event{Pin: p.Name(), Level: l})
	if p.role == hd44780.RoleEnable && prev == gpio.Low && l == gpio.High {
		p.bus.latch()
	}
	return nil
}

// Event is a pin write or a sleep, in the order the driver issued them.
type Event struct {
	// Pin is the name of the pin written, empty for a sleep.
	Pin   string
	Level gpio.Level
	Delay time.Duration
}

func (e Event) String() string {
	if e.Pin == "" {
		return fmt.Sprintf("sleep(%s)", e.Delay)
	}
	return fmt.Sprintf("%s=%s", e.Pin, e.Level)
}

// Strobe is the state of the bus sampled on a rising edge of E.
type Strobe struct {
	RS gpio.Level
	// Value holds the data lines, D0 (or D4 on a 4 bit bus) in bit 0.
	Value byte
}

// Frame is a byte as seen by the controller: one strobe on an 8 bit bus,
// two on a 4 bit bus.
type Frame struct {
	RS    gpio.Level
	Value byte
}

func (f Frame) String() string {
	if f.RS == gpio.Low {
		return fmt.Sprintf("cmd(0x%02X)", f.Value)
	}
	return fmt.Sprintf("data(0x%02X)", f.Value)
}

// Bus is a recording set of register select, enable and data pins.
type Bus struct {
	RS *Pin
	E  *Pin
	D  []*Pin
	// Sleeper records the delays requested by a driver built with Opts.
	Sleeper *Sleeper

	mu      sync.Mutex
	strobes []Strobe
	trace   []Event
}

// NewBus returns a bus with width data pins, all low.
func NewBus(width int) *Bus {
	b := &Bus{}
	b.Sleeper = &Sleeper{bus: b}
	b.RS = b.newPin("RS", 0, hd44780.RoleRegisterSelect)
	b.E = b.newPin("E", 1, hd44780.RoleEnable)
	first := 0
	if width == 4 {
		first = 4
	}
	for i := range width {
		b.D = append(b.D, b.newPin(fmt.Sprintf("D%d", first+i), 2+i, hd44780.RoleData))
	}
	return b
}

func (b *Bus) newPin(name string, num int, role hd44780.PinRole) *Pin {
	return &Pin{Pin: &gpiotest.Pin{N: name, Num: num, Fn: "Out"}, bus: b, role: role}
}

// DataPins returns the data pins for hd44780.NewGPIO.
func (b *Bus) DataPins() []gpio.PinOut {
	out := make([]gpio.PinOut, len(b.D))
	for i, p := range b.D {
		out[i] = p
	}
	return out
}

// Group returns the data pins as a gpio.Group for hd44780.NewGPIOGroup.
func (b *Bus) Group() *Group {
	return &Group{pins: b.D}
}

// Opts returns driver options that sleep through b.Sleeper.
func (b *Bus) Opts() *hd44780.Opts {
	return &hd44780.Opts{Sleeper: b.Sleeper}
}

// Strobes returns every strobe seen so far.
func (b *Bus) Strobes() []Strobe {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Strobe(nil), b.strobes...)
}

// Frames pairs the strobes into bytes. On a 4 bit bus the high nibble is
// expected first; a trailing lone nibble is dropped.
func (b *Bus) Frames() []Frame {
	strobes := b.Strobes()
	var out []Frame
	if len(b.D) != 4 {
		for _, s := range strobes {
			out = append(out, Frame(s))
		}
		return out
	}
	for i := 0; i+1 < len(strobes); i += 2 {
		out = append(out, Frame{
			RS:    strobes[i].RS,
			Value: strobes[i].Value<<4 | strobes[i+1].Value&0x0f,
		})
	}
	return out
}

// Commands returns the bytes sent with register select low.
func (b *Bus) Commands() []byte {
	return b.filter(gpio.Low)
}

// Written returns the bytes sent with register select high.
func (b *Bus) Written() []byte {
	return b.filter(gpio.High)
}

// Trace returns every pin write and sleep seen so far.
func (b *Bus) Trace() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.trace...)
}

// Reset forgets the strobes, trace and delays recorded so far.
func (b *Bus) Reset() {
	b.mu.Lock()
	b.strobes = nil
	b.trace = nil
	b.mu.Unlock()
	b.Sleeper.Reset()
}

func (b *Bus) filter(rs gpio.Level) []byte {
	var out []byte
	for _, f := range b.Frames() {
		if f.RS == rs {
			out = append(out, f.Value)
		}
	}
	return out
}

func (b *Bus) record(e Event) {
	b.mu.Lock()
	b.trace = append(b.trace, e)
	b.mu.Unlock()
}

func (b *Bus) latch() {
	s := Strobe{RS: b.RS.Pin.Read()}
	for i, p := range b.D {
		if p.Pin.Read() == gpio.High {
			s.Value |= 1 << i
		}
	}
	b.mu.Lock()
	b.strobes = append(b.strobes, s)
	b.mu.Unlock()
}

// Group is a gpio.Group over the data pins of a Bus.
type Group struct {
	pins []*Pin
}

// Pins implements gpio.Group.
func (g *Group) Pins() []pin.Pin {
	out := make([]pin.Pin, len(g.pins))
	for i, p := range g.pins {
		out[i] = p
	}
	return out
}

// ByOffset implements gpio.Group.
func (g *Group) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(g.pins) {
		return nil
	}
	return g.pins[offset]
}

// ByName implements gpio.Group.
func (g *Group) ByName(name string) pin.Pin {
	for _, p := range g.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// ByNumber implements gpio.Group.
func (g *Group) ByNumber(number int) pin.Pin {
	for _, p := range g.pins {
		if p.Number() == number {
			return p
		}
	}
	return nil
}

// Out sets the pins selected by mask to the matching bits of value.
func (g *Group) Out(value, mask gpio.GPIOValue) error {
	for i, p := range g.pins {
		bit := gpio.GPIOValue(1) << i
		if mask&bit == 0 {
			continue
		}
		if err := p.Out(gpio.Level(value&bit != 0)); err != nil {
			return err
		}
	}
	return nil
}

// Read returns the levels of the pins selected by mask.
func (g *Group) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	var v gpio.GPIOValue
	for i, p := range g.pins {
		bit := gpio.GPIOValue(1) << i
		if mask&bit != 0 && p.Pin.Read() == gpio.High {
			v |= bit
		}
	}
	return v, nil
}

// WaitForEdge is not supported and returns immediately.
func (g *Group) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, nil
}

// Halt implements conn.Resource.
func (g *Group) Halt() error {
	return nil
}

func (g *Group) String() string {
	return fmt.Sprintf("hd44780test.Group(%d)", len(g.pins))
}

// Sleeper records requested delays instead of sleeping. The Sleeper of a
// Bus also adds them to the bus trace.
type Sleeper struct {
	mu     sync.Mutex
	delays []time.Duration
	bus    *Bus
}

// Sleep implements hd44780.Sleeper.
func (s *Sleeper) Sleep(d time.Duration) {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	if s.bus != nil {
		s.bus.record(Event{Delay: d})
	}
}

// Delays returns the requested delays in order.
func (s *Sleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// Total returns the sum of the requested delays.
func (s *Sleeper) Total() time.Duration {
	var t time.Duration
	for _, d := range s.Delays() {
		t += d
	}
	return t
}

// Reset forgets the recorded delays.
func (s *Sleeper) Reset() {
	s.mu.Lock()
	s.delays = nil
	s.mu.Unlock()
}

var _ gpio.PinOut = &Pin{}
var _ gpio.Group = &Group{}
var _ hd44780.Sleeper = &Sleeper{}
