package main

import (
	"io"
	"os"
	"time"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// Debounce delays watch-mode rebuilds after the last change.
	Debounce time.Duration
}

// DefaultEnv returns the process environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		Environ:  os.Environ,
		Debounce: 150 * time.Millisecond,
	}
}
