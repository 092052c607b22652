package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scnp"
	"scnp/internal/config"
)

type recordingHandle struct {
	sent   [][]byte
	closed bool
}

func (h *recordingHandle) ControlTransfer(requestType, request byte, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	h.sent = append(h.sent, append([]byte(nil), data...))
	return len(data), nil
}

func (h *recordingHandle) Close() error {
	h.closed = true
	return nil
}

type stubRef struct {
	desc   scnp.DeviceDescriptor
	handle *recordingHandle
}

func (r *stubRef) Descriptor() scnp.DeviceDescriptor { return r.desc }
func (r *stubRef) Open() (scnp.Handle, error)        { return r.handle, nil }

type stubBus struct {
	refs   []scnp.DeviceRef
	closed bool
}

func (b *stubBus) Devices() ([]scnp.DeviceRef, error) { return b.refs, nil }
func (b *stubBus) Close() error {
	b.closed = true
	return nil
}

func newTestApp(productIDs ...uint16) (*app, *stubBus) {
	bus := &stubBus{}
	for _, id := range productIDs {
		bus.refs = append(bus.refs, &stubRef{
			desc:   scnp.DeviceDescriptor{Bus: 2, Address: 7, VendorID: scnp.IDVendorSoundcraft, ProductID: id, Firmware: 0x0100},
			handle: &recordingHandle{},
		})
	}
	logger, _ := test.NewNullLogger()
	a := &app{
		cfg:        &config.Config{DryRunValue: scnp.DefaultDryRunValue},
		logger:     logger,
		openBus:    func() (scnp.Bus, error) { return bus, nil },
		isTerminal: func() bool { return false },
	}
	return a, bus
}

func sent(bus *stubBus) [][]byte {
	return bus.refs[0].(*stubRef).handle.sent
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []byte
	}{
		{"audio routing", []string{"audio-routing", "2"}, []byte{0, 0, 0x04, 0x00, 0x02, 0, 0, 0}},
		{"ducker off", []string{"ducker-off"}, []byte{0, 0, 0x02, 0x80, 0, 0, 0, 0}},
		{"ducker on", []string{"ducker-on", "0b0101", "1234ms"}, []byte{0, 0, 0x02, 0x80, 0x01, 0x05, 0x04, 0xD2}},
		{"ducker range dB", []string{"ducker-range", "90dB"}, []byte{0, 0, 0x02, 0x81, 0, 0, 0x42, 0x51}},
		{"ducker threshold raw", []string{"ducker-threshold", "0x7fffff"}, []byte{0, 0, 0x02, 0x82, 0, 0x7F, 0xFF, 0xFF}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, bus := newTestApp(scnp.IDProductNotepad12FX)
			var out bytes.Buffer
			err := newApp(a, &out).Run(append([]string{"scnp-cli"}, tc.args...))
			require.NoError(t, err)
			require.Len(t, sent(bus), 1)
			assert.Equal(t, tc.expected, sent(bus)[0])
			assert.True(t, bus.refs[0].(*stubRef).handle.closed)
			assert.True(t, bus.closed)
		})
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		devices []uint16
		args    []string
		target  error
	}{
		{"no device", nil, []string{"ducker-off"}, scnp.ErrDeviceCount},
		{"two devices", []uint16{scnp.IDProductNotepad5, scnp.IDProductNotepad8FX}, []string{"ducker-off"}, scnp.ErrDeviceCount},
		{"no ducker", []uint16{scnp.IDProductNotepad5}, []string{"ducker-on", "1", "10ms"}, scnp.ErrUnsupportedOperation},
		{"bad release unit", []uint16{scnp.IDProductNotepad8FX}, []string{"ducker-on", "1", "10"}, ErrArgumentSyntax},
		{"missing argument", []uint16{scnp.IDProductNotepad8FX}, []string{"audio-routing"}, ErrArgumentSyntax},
		{"range out of domain", []uint16{scnp.IDProductNotepad8FX}, []string{"ducker-range", "100dB"}, scnp.ErrParameterOutOfRange},
		{"meter needs terminal", []uint16{scnp.IDProductNotepad8FX}, []string{"meter"}, scnp.ErrNotTerminal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, bus := newTestApp(tc.devices...)
			var out bytes.Buffer
			err := newApp(a, &out).Run(append([]string{"scnp-cli"}, tc.args...))
			assert.ErrorIs(t, err, tc.target)
			for _, ref := range bus.refs {
				assert.Empty(t, ref.(*stubRef).handle.sent)
			}
		})
	}
}

func TestDryRunCommand(t *testing.T) {
	a, bus := newTestApp(scnp.IDProductNotepad8FX)
	a.cfg.DryRun = true

	var out bytes.Buffer
	require.NoError(t, newApp(a, &out).Run([]string{"scnp-cli", "ducker-off"}))
	assert.Empty(t, sent(bus))
	assert.True(t, bus.closed)
}

func TestListAndTables(t *testing.T) {
	a, _ := newTestApp(scnp.IDProductNotepad8FX)
	var out bytes.Buffer
	require.NoError(t, newApp(a, &out).Run([]string{"scnp-cli", "list"}))
	assert.Equal(t, "Bus 002 Device 007: ID 05fc:0031 NOTEPAD-8FX (firmware 1.00)\n", out.String())

	out.Reset()
	require.NoError(t, newApp(a, &out).Run([]string{"scnp-cli", "dump-tables"}))
	assert.Contains(t, out.String(), "### value table for ducker threshold ###")
}

func TestListDeviceStrings(t *testing.T) {
	a, bus := newTestApp(scnp.IDProductNotepad12FX)
	ref := bus.refs[0].(*stubRef)
	ref.desc.Manufacturer = "Soundcraft"
	ref.desc.Product = "Notepad-12FX"

	var out bytes.Buffer
	require.NoError(t, newApp(a, &out).Run([]string{"scnp-cli", "list"}))
	assert.Equal(t, "Bus 002 Device 007: ID 05fc:0032 Soundcraft Notepad-12FX (firmware 1.00)\n", out.String())
	assert.True(t, bus.closed)
}

func TestVersion(t *testing.T) {
	a, _ := newTestApp()
	var out bytes.Buffer
	require.NoError(t, newApp(a, &out).Run([]string{"scnp-cli", "--version"}))
	assert.Contains(t, out.String(), version)
}
