package scnp

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

type sessionState int

const (
	stateUnopened sessionState = iota
	stateOpened
	stateClosed
)

// Session is one opened connection to one supported mixer.
// It is used for a single operation and then closed.
type Session struct {
	state   sessionState
	profile *DeviceProfile
	handle  Handle
	logger  log.FieldLogger

	dryRun      bool
	dryRunLevel uint32
}

// SessionOption configures Open.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger log.FieldLogger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithDryRun makes the session skip all transfers. Meter reads return level.
func WithDryRun(level uint32) SessionOption {
	return func(s *Session) {
		s.dryRun = true
		s.dryRunLevel = level
	}
}

func discardLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

// FindDevice returns the single supported device on the bus. Zero or several
// matches fail with ErrDeviceCount.
func FindDevice(bus Bus, logger log.FieldLogger) (DeviceRef, error) {
	matches, err := SupportedDevices(bus, logger)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no Notepad device found: %w", ErrDeviceCount)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("found %d Notepad devices, cannot handle more than one: %w", len(matches), ErrDeviceCount)
	}
}

// SupportedDevices lists every attached device present in the catalog.
func SupportedDevices(bus Bus, logger log.FieldLogger) (matches []DeviceRef, err error) {
	if logger == nil {
		logger = discardLogger()
	}
	refs, err := bus.Devices()
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		d := ref.Descriptor()
		if d.VendorID != IDVendorSoundcraft {
			continue
		}
		p, ok := LookupProfile(d.ProductID)
		if !ok {
			logger.Debugf("ignoring unsupported device %04x:%04x", d.VendorID, d.ProductID)
			continue
		}
		logger.Info(d.Listing(p.Name))
		matches = append(matches, ref)
	}
	return
}

// Open resolves the device profile and opens the device.
func Open(ref DeviceRef, opts ...SessionOption) (*Session, error) {
	s := &Session{state: stateUnopened}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = discardLogger()
	}

	d := ref.Descriptor()
	profile, ok := LookupProfile(d.ProductID)
	if !ok || d.VendorID != IDVendorSoundcraft {
		return nil, fmt.Errorf("Open(): %04x:%04x: %w", d.VendorID, d.ProductID, ErrUnknownDevice)
	}
	s.profile = profile

	handle, err := ref.Open()
	if err != nil {
		return nil, fmt.Errorf("Open(): %s: %w", profile.Name, err)
	}
	if s.dryRun {
		handle = &dryRunHandle{inner: handle, level: s.dryRunLevel}
	}
	s.handle = handle
	s.state = stateOpened
	s.logger = s.logger.WithField("device", profile.Name)
	return s, nil
}

// Run finds the single supported device, opens it, calls fn and releases
// everything afterwards, whatever fn returns.
func Run(bus Bus, logger log.FieldLogger, fn func(*Session) error, opts ...SessionOption) (err error) {
	defer func() {
		if cerr := bus.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing usb bus: %v: %w", cerr, ErrTransport)
		}
	}()

	ref, err := FindDevice(bus, logger)
	if err != nil {
		return err
	}
	if logger != nil {
		opts = append([]SessionOption{WithLogger(logger)}, opts...)
	}
	s, err := Open(ref, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Profile is the catalog entry of the opened device.
func (s *Session) Profile() *DeviceProfile { return s.profile }

// Close releases the device handle. Further operations fail.
func (s *Session) Close() error {
	if s == nil || s.state != stateOpened {
		return nil
	}
	s.state = stateClosed
	err := s.handle.Close()
	s.handle = nil
	if err != nil {
		return fmt.Errorf("Session.Close(): %v: %w", err, ErrTransport)
	}
	return nil
}

func (s *Session) opened() bool {
	return s != nil && s.state == stateOpened
}

func (s *Session) check(op string, needsDucker bool) error {
	if !s.opened() {
		return fmt.Errorf("%s: %w", op, ErrSessionClosed)
	}
	if needsDucker && !s.profile.HasDucker {
		return fmt.Errorf("%s: %s has no ducker: %w", op, s.profile.Name, ErrUnsupportedOperation)
	}
	return nil
}

/////////////////////OPERATIONS/////////////////////

// Send validates and transmits one command.
func (s *Session) Send(cmd Command) (err error) {
	if err = s.check(cmd.Name(), cmd.needsDucker()); err != nil {
		return
	}
	if r, ok := cmd.(AudioRouting); ok && int(r.Source) >= s.profile.NumSources() {
		return fmt.Errorf("%s: source index %d, %s has %d sources: %w",
			cmd.Name(), r.Source, s.profile.Name, s.profile.NumSources(), ErrParameterOutOfRange)
	}
	msg, err := Encode(cmd)
	if err != nil {
		return
	}
	s.describe(cmd)
	return s.sendMessage(msg)
}

// AudioRouting selects the USB capture source by index into the profile's sources.
func (s *Session) AudioRouting(source uint8) error {
	return s.Send(AudioRouting{Source: source})
}

// DuckerOff turns the ducker off.
func (s *Session) DuckerOff() error {
	return s.Send(DuckerOff{})
}

// DuckerOn turns the ducker on watching the inputs bitmap, with the given
// release time.
func (s *Session) DuckerOn(inputs uint8, releaseMillis uint16) error {
	return s.Send(DuckerOn{Inputs: inputs, ReleaseMillis: releaseMillis})
}

// DuckerRange sets the raw duck range register.
func (s *Session) DuckerRange(value uint32) error {
	return s.Send(DuckerRange{Value: value})
}

// DuckerRangeDB sets the duck range in dB (0..90).
func (s *Session) DuckerRangeDB(dB float64) error {
	if err := s.check("ducker-range", true); err != nil {
		return err
	}
	v, err := RangeFamily.ToRaw(dB)
	if err != nil {
		return err
	}
	return s.DuckerRange(v)
}

// DuckerThreshold sets the raw duck threshold register.
func (s *Session) DuckerThreshold(value uint32) error {
	return s.Send(DuckerThreshold{Value: value})
}

// DuckerThresholdDB sets the duck threshold in dB (-60..0).
func (s *Session) DuckerThresholdDB(dB float64) error {
	if err := s.check("ducker-threshold", true); err != nil {
		return err
	}
	v, err := ThresholdFamily.ToRaw(dB)
	if err != nil {
		return err
	}
	return s.DuckerThreshold(v)
}

// ReadMeter reads the current raw level.
func (s *Session) ReadMeter() (level uint32, err error) {
	if err = s.check("meter", true); err != nil {
		return
	}
	buf := make([]byte, messageSize)
	n, err := s.handle.ControlTransfer(VendorRequestInput, vendorRequest, 0, 0, buf, maxDelayUSB)
	if err != nil {
		err = fmt.Errorf("Session.ReadMeter(): %v: %w", err, ErrTransport)
		return
	}
	if n != messageSize {
		err = fmt.Errorf("Session.ReadMeter(): read %d bytes, want %d: %w", n, messageSize, ErrTransport)
		return
	}
	return ParseMeterResponse(buf)
}

func (s *Session) sendMessage(msg Message) error {
	suffix := ""
	if s.dryRun {
		suffix = " (dry-run)"
	}
	s.logger.Infof("device_send_ctrl_message(device, %s)%s", msg, suffix)

	n, err := s.handle.ControlTransfer(VendorRequestOutput, vendorRequest, 0, 0, msg[:], maxDelayUSB)
	if err != nil {
		return fmt.Errorf("Session.sendMessage(): %v: %w", err, ErrTransport)
	}
	if n != messageSize {
		return fmt.Errorf("Session.sendMessage(): wrote %d bytes, want %d: %w", n, messageSize, ErrTransport)
	}
	return nil
}

func (s *Session) describe(cmd Command) {
	name := s.profile.Name
	switch c := cmd.(type) {
	case AudioRouting:
		s.logger.Infof("Setting USB audio source to %d (%s) for device %s", c.Source, s.profile.Sources[c.Source], name)
	case DuckerOff:
		s.logger.Infof("ducker-off %s", name)
	case DuckerOn:
		s.logger.Infof("ducker-on inputs=%d release_ms=%d %s", c.Inputs, c.ReleaseMillis, name)
	case DuckerRange:
		s.logger.Infof("ducker-range range=0x%x=%d (%.1fdB) %s", c.Value, c.Value, RangeFamily.ToDB(c.Value), name)
	case DuckerThreshold:
		s.logger.Infof("ducker-threshold thresh=0x%x=%d (%.1fdB) %s", c.Value, c.Value, ThresholdFamily.ToDB(c.Value), name)
	}
}
