package wlan

import (
	"errors"
	"fmt"
	"net"
)

// NodeID identifies a node of the simulated network. Access points and
// stations share the same id space.
type NodeID int

// MAC is the hardware address that keys an access point.
type MAC [6]byte

// NullMAC is the address of "no access point".
var NullMAC = MAC{}

// MACFromID derives the address of an access point from its node id. The
// address is computed once at registration time.
func MACFromID(id NodeID) MAC {
	v := uint32(id) + 1

	return MAC{0x02, 0x00, byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// ParseMAC parses a colon separated hardware address.
func ParseMAC(s string) (MAC, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return NullMAC, err
	}

	if len(hw) != 6 {
		return NullMAC, fmt.Errorf("mac %q: expected 6 octets", s)
	}

	var m MAC
	copy(m[:], hw)

	return m, nil
}

// IsNull tells if the address is the null sentinel.
func (m MAC) IsNull() bool {
	return m == NullMAC
}

func (m MAC) String() string {
	return net.HardwareAddr(m[:]).String()
}

// MarshalText encodes the address in its colon separated form.
func (m MAC) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ApplicationType is the traffic category a station runs. It is assigned once
// when the station is created.
type ApplicationType int

// The five traffic categories.
const (
	VoiceUpload ApplicationType = iota
	VoiceDownload
	BulkUpload
	BulkDownload
	StreamingDownload
)

// ApplicationTypes lists every category in a stable order.
var ApplicationTypes = []ApplicationType{
	VoiceUpload, VoiceDownload, BulkUpload, BulkDownload, StreamingDownload,
}

var applicationTypeNames = map[ApplicationType]string{
	VoiceUpload:       "voice-upload",
	VoiceDownload:     "voice-download",
	BulkUpload:        "bulk-upload",
	BulkDownload:      "bulk-download",
	StreamingDownload: "streaming-download",
}

// ErrUnknownApplicationType is returned when parsing an unsupported category.
var ErrUnknownApplicationType = errors.New("unknown application type")

// ParseApplicationType converts a category name into an ApplicationType.
func ParseApplicationType(s string) (ApplicationType, error) {
	for t, name := range applicationTypeNames {
		if name == s {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownApplicationType, s)
}

func (a ApplicationType) String() string {
	name, ok := applicationTypeNames[a]
	if !ok {
		return fmt.Sprintf("application(%d)", int(a))
	}

	return name
}

// IsVoice tells if the category is latency sensitive.
func (a ApplicationType) IsVoice() bool {
	return a == VoiceUpload || a == VoiceDownload
}
