package gcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget(" GCS ", "http://fake-gcs:4443")
	require.NoError(t, err)
	assert.Equal(t, ModeGCS, target.Mode)
	assert.False(t, target.Emulated())

	target, err = ParseTarget("gcs_emulator", "http://fake-gcs:4443/")
	require.NoError(t, err)
	assert.True(t, target.Emulated())
	assert.Equal(t, "http://fake-gcs:4443", target.EmulatorHost)
}

func TestParseTargetErrors(t *testing.T) {
	cases := []struct {
		name         string
		mode         string
		emulatorHost string
		want         error
	}{
		{"unknown mode", "s3", "", ErrUnknownMode},
		{"blank mode", "", "http://fake-gcs:4443", ErrUnknownMode},
		{"emulator without host", "gcs_emulator", "", ErrEmulatorHostRequired},
		{"emulator with relative host", "gcs_emulator", "fake-gcs:4443/path", ErrEmulatorHostInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTarget(tc.mode, tc.emulatorHost)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
