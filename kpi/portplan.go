package kpi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/ampductl/wlan"
)

// ErrPortOverlap is returned when two port blocks share a port or the ACK
// port falls inside a block.
var ErrPortOverlap = errors.New("port blocks overlap")

// PortPlan assigns each traffic category a contiguous block of destination
// ports starting at its base. The port of flow (c, seq) is Bases[c] + seq.
type PortPlan struct {
	Bases     map[wlan.ApplicationType]uint16
	BlockSize uint16

	// AckPort carries ACK-only sub-flows, which are never classified.
	AckPort uint16
}

// DefaultPortPlan returns the port plan used when none is configured.
func DefaultPortPlan() PortPlan {
	return PortPlan{
		Bases: map[wlan.ApplicationType]uint16{
			wlan.VoiceUpload:       10000,
			wlan.VoiceDownload:     20000,
			wlan.BulkUpload:        30000,
			wlan.BulkDownload:      40000,
			wlan.StreamingDownload: 50000,
		},
		BlockSize: 1000,
		AckPort:   9,
	}
}

type portBlock struct {
	category   wlan.ApplicationType
	start, end int
}

// Validate checks that every category has a block and that no two blocks
// overlap.
func (p PortPlan) Validate() error {
	if p.BlockSize == 0 {
		return errors.New("port block size must be positive")
	}

	blocks := make([]portBlock, 0, len(p.Bases))

	for _, c := range wlan.ApplicationTypes {
		base, ok := p.Bases[c]
		if !ok {
			return fmt.Errorf("no port base for %s", c)
		}

		b := portBlock{
			category: c,
			start:    int(base),
			end:      int(base) + int(p.BlockSize),
		}
		if b.end > 1<<16 {
			return fmt.Errorf("port block of %s exceeds 65535", c)
		}

		if int(p.AckPort) >= b.start && int(p.AckPort) < b.end {
			return fmt.Errorf("ack port %d in block of %s: %w",
				p.AckPort, c, ErrPortOverlap)
		}

		blocks = append(blocks, b)
	}

	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].start < blocks[j].start
	})

	for i := 1; i < len(blocks); i++ {
		if blocks[i].start < blocks[i-1].end {
			return fmt.Errorf("%s and %s: %w",
				blocks[i-1].category, blocks[i].category, ErrPortOverlap)
		}
	}

	return nil
}

// Classify maps a destination port to its flow. The ACK port and ports
// outside every block are not classified.
func (p PortPlan) Classify(port uint16) (FlowKey, bool) {
	if port == p.AckPort {
		return FlowKey{}, false
	}

	for c, base := range p.Bases {
		if port >= base && int(port) < int(base)+int(p.BlockSize) {
			return FlowKey{Category: c, Seq: int(port - base)}, true
		}
	}

	return FlowKey{}, false
}

// Port returns the destination port of the flow.
func (p PortPlan) Port(key FlowKey) (uint16, error) {
	base, ok := p.Bases[key.Category]
	if !ok {
		return 0, fmt.Errorf("no port base for %s", key.Category)
	}

	if key.Seq < 0 || key.Seq >= int(p.BlockSize) {
		return 0, fmt.Errorf("flow %s does not fit a block of %d ports",
			key, p.BlockSize)
	}

	return base + uint16(key.Seq), nil
}
