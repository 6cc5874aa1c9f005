package arena

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/units"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// KB returns n decimal kilobytes (n * 10^3).
func KB(n uint64) uint64 { return n * uint64(units.KB) }

// MB returns n decimal megabytes (n * 10^6).
func MB(n uint64) uint64 { return n * uint64(units.MB) }

// GB returns n decimal gigabytes (n * 10^9).
func GB(n uint64) uint64 { return n * uint64(units.GB) }

// KiB returns n binary kibibytes (n * 2^10).
func KiB(n uint64) uint64 { return n * uint64(units.KiB) }

// MiB returns n binary mebibytes (n * 2^20).
func MiB(n uint64) uint64 { return n * uint64(units.MiB) }

// GiB returns n binary gibibytes (n * 2^30).
func GiB(n uint64) uint64 { return n * uint64(units.GiB) }

// Size is a byte count that can be set from flags and YAML using either a
// plain integer or a unit suffix ("64MiB", "512KB").
type Size uint64

// ParseSize parses a byte count. A plain integer is taken as bytes; binary
// suffixes (KiB, MiB, GiB) are powers of 1024 and decimal suffixes (KB, MB,
// GB) are powers of 1000.
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Size(n), nil
	}
	n, err := units.ParseStrictBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", s)
	}
	return Size(n), nil
}

// String formats the size with IEC units, e.g. "64 MiB".
func (s Size) String() string {
	return humanize.IBytes(uint64(s))
}

// Set implements flag.Value.
func (s *Size) Set(v string) error {
	n, err := ParseSize(v)
	if err != nil {
		return err
	}
	*s = n
	return nil
}

// Type implements pflag.Value.
func (s *Size) Type() string { return "size" }

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid size at line %d: expected a scalar", value.Line)
	}
	return s.Set(value.Value)
}

// MarshalYAML implements yaml.Marshaler.
func (s Size) MarshalYAML() (interface{}, error) {
	return uint64(s), nil
}
