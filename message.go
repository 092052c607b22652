package scnp

import (
	"encoding/binary"
	"fmt"
)

// Opcodes carried big-endian in bytes 2-3 of every command message.
const (
	opAudioRouting    = uint16(0x0400)
	opDucker          = uint16(0x0280)
	opDuckerRange     = uint16(0x0281)
	opDuckerThreshold = uint16(0x0282)
)

// Ducker limits enforced before anything is sent.
const (
	MaxDuckerInputs  = uint8(0x0F)
	MaxReleaseMillis = uint16(5000)
)

// Message is the fixed 8 byte buffer of every control transfer.
type Message [messageSize]byte

func (m Message) String() string {
	return fmt.Sprintf("{%02x %02x %02x %02x %02x %02x %02x %02x}",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7])
}

// Command is one outbound operation. Implementations carry only the fields
// their own message needs.
type Command interface {
	Name() string
	Validate() error
	needsDucker() bool
	payload(m *Message)
}

// AudioRouting selects the source fed to the USB capture device.
type AudioRouting struct {
	Source uint8
}

// DuckerOff disables the ducker.
type DuckerOff struct{}

// DuckerOn enables the ducker.
type DuckerOn struct {
	Inputs        uint8 // bitmap of watched inputs, 0b0000..0b1111
	ReleaseMillis uint16
}

// DuckerRange sets the duck range register.
type DuckerRange struct {
	Value uint32
}

// DuckerThreshold sets the duck threshold register.
type DuckerThreshold struct {
	Value uint32
}

func (AudioRouting) Name() string    { return "audio-routing" }
func (DuckerOff) Name() string       { return "ducker-off" }
func (DuckerOn) Name() string        { return "ducker-on" }
func (DuckerRange) Name() string     { return "ducker-range" }
func (DuckerThreshold) Name() string { return "ducker-threshold" }

func (AudioRouting) needsDucker() bool    { return false }
func (DuckerOff) needsDucker() bool       { return true }
func (DuckerOn) needsDucker() bool        { return true }
func (DuckerRange) needsDucker() bool     { return true }
func (DuckerThreshold) needsDucker() bool { return true }

// Validate only checks the protocol limit. The profile specific source count
// is checked by the session.
func (c AudioRouting) Validate() error {
	if c.Source >= MaxSources {
		return fmt.Errorf("%s: source index %d not below %d: %w", c.Name(), c.Source, MaxSources, ErrParameterOutOfRange)
	}
	return nil
}

func (DuckerOff) Validate() error { return nil }

func (c DuckerOn) Validate() error {
	if c.Inputs > MaxDuckerInputs {
		return fmt.Errorf("%s: inputs bitmap 0x%x out of range (0b0000 to 0b1111): %w", c.Name(), c.Inputs, ErrParameterOutOfRange)
	}
	if c.ReleaseMillis > MaxReleaseMillis {
		return fmt.Errorf("%s: release %dms out of range (0 to %dms): %w", c.Name(), c.ReleaseMillis, MaxReleaseMillis, ErrParameterOutOfRange)
	}
	return nil
}

func (c DuckerRange) Validate() error {
	if c.Value > RefRange {
		return fmt.Errorf("%s: 0x%08x above 0x%08x: %w", c.Name(), c.Value, RefRange, ErrParameterOutOfRange)
	}
	return nil
}

func (c DuckerThreshold) Validate() error {
	if c.Value > RefThreshold {
		return fmt.Errorf("%s: 0x%08x above 0x%08x: %w", c.Name(), c.Value, RefThreshold, ErrParameterOutOfRange)
	}
	return nil
}

func (c AudioRouting) payload(m *Message) {
	binary.BigEndian.PutUint16(m[2:], opAudioRouting)
	m[4] = c.Source
}

func (DuckerOff) payload(m *Message) {
	binary.BigEndian.PutUint16(m[2:], opDucker)
}

func (c DuckerOn) payload(m *Message) {
	binary.BigEndian.PutUint16(m[2:], opDucker)
	m[4] = 0x01
	m[5] = c.Inputs
	binary.BigEndian.PutUint16(m[6:], c.ReleaseMillis)
}

func (c DuckerRange) payload(m *Message) {
	binary.BigEndian.PutUint16(m[2:], opDuckerRange)
	binary.BigEndian.PutUint32(m[4:], c.Value)
}

func (c DuckerThreshold) payload(m *Message) {
	binary.BigEndian.PutUint16(m[2:], opDuckerThreshold)
	binary.BigEndian.PutUint32(m[4:], c.Value)
}

// Encode validates the command and builds its message.
func Encode(cmd Command) (m Message, err error) {
	if err = cmd.Validate(); err != nil {
		return
	}
	cmd.payload(&m)
	return
}

// ParseMeterResponse extracts the level from a meter response.
// Bytes 4-7 are unused by the firmware.
func ParseMeterResponse(buf []byte) (level uint32, err error) {
	if len(buf) != messageSize {
		err = fmt.Errorf("ParseMeterResponse(): got %d bytes, want %d: %w", len(buf), messageSize, ErrTransport)
		return
	}
	level = binary.LittleEndian.Uint32(buf[0:])
	return
}
