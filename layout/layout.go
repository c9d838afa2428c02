// Package layout loads and validates the board/destination layout file.
//
// The layout is the operator's declarative description of the fleet: which
// boards exist, where each board sources its packets from, and which
// downstream endpoints receive which channel ranges. Validation happens
// once here; downstream components treat the loaded structures as trusted.
package layout

import (
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/casm-project/snapfleet/fengine"
)

// Defaults applied when the layout omits a value.
const (
	DefaultPort              = 10000
	DefaultChannelsPerPacket = 512
	DefaultFFTShift          = 0xffff
)

// DestinationDescriptor is one downstream endpoint and the contiguous
// channel range it receives.
type DestinationDescriptor struct {
	IP        string `yaml:"ip"`
	MAC       string `yaml:"mac"`
	Port      int    `yaml:"port"`
	StartChan int    `yaml:"start_chan"`
	NChan     int    `yaml:"nchan"`
}

// SourceDescriptor is the board's own network identity.
type SourceDescriptor struct {
	IP   string `yaml:"ip"`
	MAC  string `yaml:"mac"`
	Port int    `yaml:"port"`
}

// BoardDescriptor describes one board in the fleet. Immutable once loaded.
type BoardDescriptor struct {
	Host   string           `yaml:"host"`
	FengID *int             `yaml:"feng_id"`
	Source SourceDescriptor `yaml:"source"`

	// Per-board overrides; empty means use the CommonSpec value.
	Bitstream    string                  `yaml:"fpgfile"`
	Destinations []DestinationDescriptor `yaml:"destinations"`
}

// CommonSpec carries the fleet-wide settings shared by every board.
type CommonSpec struct {
	Bitstream         string                  `yaml:"fpgfile"`
	SourcePort        int                     `yaml:"source_port"`
	Destinations      []DestinationDescriptor `yaml:"destinations"`
	ChannelsPerPacket int                     `yaml:"nchan_packet"`
	FFTShift          uint32                  `yaml:"fft_shift"`

	// Optional bring-up knobs, mirroring the startup options.
	ADCGain    *float64 `yaml:"adc_gain"`
	EqCoeff    *float64 `yaml:"eq_coeffs"`
	TestMode   string   `yaml:"test_mode"`
	Programmed bool     `yaml:"programmed"`
}

// Layout is the parsed and validated layout file.
type Layout struct {
	Common CommonSpec        `yaml:"common"`
	Boards []BoardDescriptor `yaml:"boards"`
}

// Load reads, parses, and validates a YAML layout file.
func Load(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading layout file")
	}
	return Parse(raw)
}

// Parse parses and validates layout YAML.
func Parse(raw []byte) (*Layout, error) {
	l := &Layout{}
	if err := yaml.Unmarshal(raw, l); err != nil {
		return nil, errors.Wrap(err, "parsing layout YAML")
	}

	l.applyDefaults()

	if err := l.Validate(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Layout) applyDefaults() {
	if l.Common.SourcePort == 0 {
		l.Common.SourcePort = DefaultPort
	}
	if l.Common.ChannelsPerPacket == 0 {
		l.Common.ChannelsPerPacket = DefaultChannelsPerPacket
	}
	if l.Common.FFTShift == 0 {
		l.Common.FFTShift = DefaultFFTShift
	}
	for i := range l.Common.Destinations {
		if l.Common.Destinations[i].Port == 0 {
			l.Common.Destinations[i].Port = DefaultPort
		}
	}
	for i := range l.Boards {
		b := &l.Boards[i]
		if b.Source.Port == 0 {
			b.Source.Port = l.Common.SourcePort
		}
		for j := range b.Destinations {
			if b.Destinations[j].Port == 0 {
				b.Destinations[j].Port = DefaultPort
			}
		}
	}
}

// Validate checks the whole layout. It is called by Parse; exported so a
// hand-built Layout can be checked the same way.
func (l *Layout) Validate() error {
	if len(l.Boards) == 0 {
		return &fengine.ConfigurationError{
			Field: "boards", Reason: "layout describes no boards",
		}
	}

	seen := make(map[string]bool)
	for i := range l.Boards {
		b := &l.Boards[i]
		if b.Host == "" {
			return &fengine.ConfigurationError{
				Field:  "host",
				Reason: fmt.Sprintf("board %d has no host", i),
			}
		}
		if seen[b.Host] {
			return &fengine.ConfigurationError{
				Host: b.Host, Field: "host", Reason: "duplicate board host",
			}
		}
		seen[b.Host] = true

		if err := validateBoard(b, &l.Common); err != nil {
			return err
		}
	}

	return nil
}

func validateBoard(b *BoardDescriptor, common *CommonSpec) error {
	if net.ParseIP(b.Source.IP) == nil {
		return &fengine.ConfigurationError{
			Host: b.Host, Field: "source.ip",
			Reason: fmt.Sprintf("%q is not an IP address", b.Source.IP),
		}
	}
	if _, err := ParseMAC(b.Source.MAC); err != nil {
		return &fengine.ConfigurationError{
			Host: b.Host, Field: "source.mac", Reason: err.Error(),
		}
	}

	dests := b.EffectiveDestinations(common)
	if len(dests) == 0 {
		return &fengine.ConfigurationError{
			Host: b.Host, Field: "destinations",
			Reason: "board has no destinations",
		}
	}
	for _, d := range dests {
		if net.ParseIP(d.IP) == nil {
			return &fengine.ConfigurationError{
				Host: b.Host, Field: "destinations.ip",
				Reason: fmt.Sprintf("%q is not an IP address", d.IP),
			}
		}
		if _, err := ParseMAC(d.MAC); err != nil {
			return &fengine.ConfigurationError{
				Host: b.Host, Field: "destinations.mac", Reason: err.Error(),
			}
		}
	}

	if err := validatePartition(dests); err != nil {
		return &fengine.ConfigurationError{
			Host: b.Host, Field: "destinations", Reason: err.Error(),
		}
	}

	if common.ADCGain != nil {
		if _, err := fengine.GainCode(*common.ADCGain); err != nil {
			return err
		}
	}
	if _, err := fengine.ParseInputMode(common.TestMode); err != nil {
		return err
	}

	return nil
}

// validatePartition requires the destination channel ranges to exactly
// partition [0, NChanTotal) with no gaps and no overlaps.
func validatePartition(dests []DestinationDescriptor) error {
	sorted := make([]DestinationDescriptor, len(dests))
	copy(sorted, dests)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartChan < sorted[j].StartChan
	})

	next := 0
	for _, d := range sorted {
		if d.NChan <= 0 {
			return fmt.Errorf("destination %s has nchan %d", d.IP, d.NChan)
		}
		if d.StartChan < next {
			return fmt.Errorf(
				"destination %s overlaps channels [%d, %d)",
				d.IP, d.StartChan, next)
		}
		if d.StartChan > next {
			return fmt.Errorf(
				"channel gap [%d, %d) not covered by any destination",
				next, d.StartChan)
		}
		next = d.StartChan + d.NChan
	}
	if next != fengine.NChanTotal {
		return fmt.Errorf(
			"destinations cover channels [0, %d), want [0, %d)",
			next, fengine.NChanTotal)
	}

	return nil
}

// EffectiveDestinations returns the board's destination list, falling back
// to the fleet-wide list when the board has no override.
func (b *BoardDescriptor) EffectiveDestinations(
	common *CommonSpec,
) []DestinationDescriptor {
	if len(b.Destinations) > 0 {
		return b.Destinations
	}
	return common.Destinations
}

// EffectiveBitstream returns the board's bitstream path, falling back to
// the fleet-wide path.
func (b *BoardDescriptor) EffectiveBitstream(common *CommonSpec) string {
	if b.Bitstream != "" {
		return b.Bitstream
	}
	return common.Bitstream
}

// ParseMAC converts a MAC expressed as aa:bb:cc:dd:ee:ff, 0xaabbccddeeff,
// or a bare integer into its 48-bit value.
func ParseMAC(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty MAC address")
	}

	if strings.Contains(s, ":") {
		hw, err := net.ParseMAC(s)
		if err != nil {
			return 0, err
		}
		if len(hw) != 6 {
			return 0, fmt.Errorf("MAC %q is not 48 bits", s)
		}
		var mac uint64
		for _, b := range hw {
			mac = mac<<8 | uint64(b)
		}
		return mac, nil
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	mac, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse MAC %q", s)
	}
	if mac >= 1<<48 {
		return 0, fmt.Errorf("MAC %#x is wider than 48 bits", mac)
	}
	return mac, nil
}
