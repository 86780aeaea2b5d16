//go:build !linux

package ibus

import (
	"context"
	"errors"
	"log/slog"
)

// Frontend is unavailable off Linux; IBus is a Linux input framework.
type Frontend struct{}

// New returns a stub frontend.
func New(core Core, cfg Config, log *slog.Logger) *Frontend {
	return &Frontend{}
}

// Start reports that IBus is unsupported on this platform.
func (f *Frontend) Start(ctx context.Context) error {
	return errors.New("ibus frontend requires linux")
}

// Stop is a no-op.
func (f *Frontend) Stop() error {
	return nil
}
