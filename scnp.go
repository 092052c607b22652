// Package scnp talks to the Soundcraft Notepad series of USB mixers through
// vendor control transfers: audio routing, ducker settings and the level meter.
package scnp

import (
	"errors"
	"time"
)

// USB vendor identifier of all supported mixers
const IDVendorSoundcraft = uint16(0x05FC)

// Control transfer parameters shared by every known Notepad message.
// They stay untyped: libusb takes the request type and request as its own
// byte types.
const (
	VendorRequestOutput = 0x40 // host-to-device, vendor, device recipient
	VendorRequestInput  = 0xC0 // device-to-host, vendor, device recipient
	vendorRequest       = 16
	messageSize         = 8
)

// maxDelayUSB is the timeout of a single control transfer.
const maxDelayUSB = 10 * time.Second

var (
	ErrParameterOutOfRange  = errors.New("parameter out of range")
	ErrUnknownDevice        = errors.New("unknown device")
	ErrDeviceCount          = errors.New("exactly one supported device must be attached")
	ErrUnsupportedOperation = errors.New("operation not supported by device")
	ErrTransport            = errors.New("usb transfer failed")
	ErrSessionClosed        = errors.New("session is not open")
	ErrBarIndex             = errors.New("meter bar index out of range")
	ErrNotTerminal          = errors.New("the interactive meter only works inside a TTY")
)
