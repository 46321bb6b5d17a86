package wlan

import (
	"errors"
	"fmt"
)

// ErrNoAPInBand is returned when no access point serves the requested band.
var ErrNoAPInBand = errors.New("no access point in band")

// NearestAP returns the access point closest to pos among those whose channel
// is in band, or among all of them if band is BandBoth. Ties go to the AP that
// comes first in aps.
func NearestAP(aps []APRecord, pos Vector, band Band) (APRecord, float64, error) {
	found := false
	var nearest APRecord
	minDistance := 0.0

	for _, ap := range aps {
		if band != BandBoth {
			apBand, err := ap.Channel.Band()
			if err != nil {
				return APRecord{}, 0, fmt.Errorf("ap %d: %w", ap.ID, err)
			}

			if apBand != band {
				continue
			}
		}

		d := pos.DistanceTo(ap.Position)
		if !found || d < minDistance {
			found = true
			nearest = ap
			minDistance = d
		}
	}

	if !found {
		return APRecord{}, 0, fmt.Errorf("%w %s", ErrNoAPInBand, band)
	}

	return nearest, minDistance, nil
}
