package gcp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Mode selects the GCS endpoint recipe images are written to.
type Mode string

const (
	ModeGCS      Mode = "gcs"
	ModeEmulator Mode = "gcs_emulator"
)

var (
	ErrUnknownMode          = errors.New("unknown object storage mode")
	ErrEmulatorHostRequired = errors.New("gcs_emulator mode requires STORAGE_EMULATOR_HOST")
	ErrEmulatorHostInvalid  = errors.New("STORAGE_EMULATOR_HOST must be an absolute URL such as http://fake-gcs:4443")
)

// Target is a checked storage endpoint.
type Target struct {
	Mode         Mode
	EmulatorHost string
}

// ParseTarget normalizes mode and host and validates the pair.
func ParseTarget(mode, emulatorHost string) (Target, error) {
	t := Target{
		Mode:         Mode(strings.ToLower(strings.TrimSpace(mode))),
		EmulatorHost: strings.TrimRight(strings.TrimSpace(emulatorHost), "/"),
	}
	return t, t.Validate()
}

func (t Target) Emulated() bool { return t.Mode == ModeEmulator }

func (t Target) Validate() error {
	switch t.Mode {
	case ModeGCS:
		return nil
	case ModeEmulator:
	default:
		return fmt.Errorf("%w %q (allowed: %s, %s)", ErrUnknownMode, t.Mode, ModeGCS, ModeEmulator)
	}
	if t.EmulatorHost == "" {
		return ErrEmulatorHostRequired
	}
	u, err := url.Parse(t.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: got %q", ErrEmulatorHostInvalid, t.EmulatorHost)
	}
	return nil
}
