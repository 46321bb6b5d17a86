package report

import (
	"fmt"

	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

// PositionReporter periodically records the position of every station along
// with the nearest access point in the band(s) the station supports.
type PositionReporter struct {
	dir      *wlan.Directory
	mobility wlan.Mobility
	sink     PositionRecorder
}

// NewPositionReporter creates a PositionReporter.
func NewPositionReporter(
	dir *wlan.Directory,
	mobility wlan.Mobility,
	sink PositionRecorder,
) *PositionReporter {
	return &PositionReporter{dir: dir, mobility: mobility, sink: sink}
}

// Tick records one row per station.
func (r *PositionReporter) Tick(now sim.VTimeInSec) error {
	aps := r.dir.APs()

	for _, st := range r.dir.Stations() {
		band, err := wlan.StationBand(st.Radios)
		if err != nil {
			return fmt.Errorf("station %d: %w", st.ID, err)
		}

		pos := r.mobility.Position(st.ID)

		nearest, distance, err := wlan.NearestAP(aps, pos, band)
		if err != nil {
			return fmt.Errorf("station %d: %w", st.ID, err)
		}

		row := Position{
			Time:            float64(now),
			StationID:       int(st.ID),
			X:               pos.X,
			Y:               pos.Y,
			Associated:      st.Associated,
			AssociatedAPID:  -1,
			NearestAPID:     int(nearest.ID),
			NearestDistance: distance,
			NearestChannel:  int(nearest.Channel),
		}

		if st.Associated {
			apID, err := r.dir.LookupAPByMAC(st.APMAC)
			if err != nil {
				return err
			}

			row.AssociatedAPID = int(apID)
		}

		r.sink.RecordPosition(row)
	}

	return nil
}
