package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"scnp"
)

// ErrArgumentSyntax reports malformed numbers or units on the command line.
var ErrArgumentSyntax = errors.New("invalid argument")

func numError(arg string, err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
		return fmt.Errorf("%q: number too large: %w", arg, scnp.ErrParameterOutOfRange)
	}
	return fmt.Errorf("%q: error converting number: %w", arg, ErrArgumentSyntax)
}

func requireValue(arg string) error {
	if arg == "" {
		return fmt.Errorf("looking for number, got empty string: %w", ErrArgumentSyntax)
	}
	return nil
}

// parseSourceIndex parses the decimal audio-routing source number.
func parseSourceIndex(arg string) (uint8, error) {
	if err := requireValue(arg); err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return 0, numError(arg, err)
	}
	if v >= scnp.MaxSources {
		return 0, fmt.Errorf("sources index must be less than %d: %w", scnp.MaxSources, scnp.ErrParameterOutOfRange)
	}
	return uint8(v), nil
}

// parseInputs parses the ducker inputs bitmap. 0b, 0x and 0 prefixes select
// the base.
func parseInputs(arg string) (uint8, error) {
	if err := requireValue(arg); err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, numError(arg, err)
	}
	if v > uint64(scnp.MaxDuckerInputs) {
		return 0, fmt.Errorf("inputs %d outside valid range 0..%d: %w", v, scnp.MaxDuckerInputs, scnp.ErrParameterOutOfRange)
	}
	return uint8(v), nil
}

// parseRelease parses a release time such as "1234ms".
func parseRelease(arg string) (uint16, error) {
	if err := requireValue(arg); err != nil {
		return 0, err
	}
	num, ok := strings.CutSuffix(arg, "ms")
	if !ok {
		return 0, fmt.Errorf("%q: missing unit (ms): %w", arg, ErrArgumentSyntax)
	}
	v, err := strconv.ParseUint(num, 10, 16)
	if err != nil {
		return 0, numError(arg, err)
	}
	if v > uint64(scnp.MaxReleaseMillis) {
		return 0, fmt.Errorf("release %dms outside valid range 0..%dms: %w", v, scnp.MaxReleaseMillis, scnp.ErrParameterOutOfRange)
	}
	return uint16(v), nil
}

// parseLevel accepts either a raw register value (any base prefix) or a
// decimal number followed by "dB", converted through the family.
func parseLevel(arg string, family scnp.Family) (uint32, error) {
	if err := requireValue(arg); err != nil {
		return 0, err
	}
	if num, ok := strings.CutSuffix(arg, "dB"); ok {
		dB, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, numError(arg, err)
		}
		return family.ToRaw(dB)
	}
	v, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrSyntax) {
			return 0, fmt.Errorf("%q: must be integer or number with dB: %w", arg, ErrArgumentSyntax)
		}
		return 0, numError(arg, err)
	}
	if v > uint64(family.Ref) {
		return 0, fmt.Errorf("%s 0x%x outside valid range 0..0x%x: %w", family.Name, v, family.Ref, scnp.ErrParameterOutOfRange)
	}
	return uint32(v), nil
}
