// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780test

import (
	"sync"
	"time"

	"github.com/GermanBionicSystems/lcd/hd44780"
)

// Command is an instruction received by Spy.
type Command struct {
	Cmd   byte
	Delay time.Duration
}

// Spy implements hd44780.Controller by recording every call instead of
// driving a display.
type Spy struct {
	// BaseDelay is returned by CommandDelay. Zero selects
	// hd44780.CommandDelay.
	BaseDelay time.Duration
	// Width is the bus width used to resolve Init defaults. Zero means 4.
	Width int
	// CommandErr and WriteErr are returned by Command and Write when set.
	CommandErr error
	WriteErr   error

	mu       sync.Mutex
	commands []Command
	inits    []hd44780.InitConfig
	writes   [][]byte
}

// Command implements hd44780.Commander.
func (s *Spy) Command(cmd byte, delay time.Duration) error {
	if s.CommandErr != nil {
		return s.CommandErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, Command{Cmd: cmd, Delay: delay})
	return nil
}

// CommandDelay implements hd44780.CommandDelayer.
func (s *Spy) CommandDelay() time.Duration {
	return s.BaseDelay
}

// Init records the configuration Init would send. Nothing is sent.
func (s *Spy) Init(opts ...hd44780.InitOption) error {
	width := s.Width
	if width == 0 {
		width = 4
	}
	cfg := hd44780.NewInitConfig(width, opts...)
	if err := cfg.Validate(width); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inits = append(s.inits, cfg)
	return nil
}

// Write records a copy of p.
func (s *Spy) Write(p []byte) (int, error) {
	if s.WriteErr != nil {
		return 0, s.WriteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, append([]byte(nil), p...))
	return len(p), nil
}

// Commands returns the instructions received so far.
func (s *Spy) Commands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.commands...)
}

// Opcodes returns the instruction bytes received so far.
func (s *Spy) Opcodes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.commands))
	for i, c := range s.commands {
		out[i] = c.Cmd
	}
	return out
}

// Inits returns the resolved configuration of every Init call.
func (s *Spy) Inits() []hd44780.InitConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hd44780.InitConfig(nil), s.inits...)
}

// Writes returns the buffers passed to Write.
func (s *Spy) Writes() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.writes...)
}

// Reset forgets everything recorded.
func (s *Spy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = nil
	s.inits = nil
	s.writes = nil
}

var _ hd44780.Controller = &Spy{}
var _ hd44780.CommandDelayer = &Spy{}
