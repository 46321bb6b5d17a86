package wlan

import (
	"errors"
	"fmt"
	"math"
)

// Channel is a wireless channel number.
type Channel uint8

// Band is a frequency band.
type Band int

// Supported bands. BandBoth is used for dual-radio stations.
const (
	Band2400MHz Band = iota
	Band5GHz
	BandBoth
)

var (
	// ErrUnknownChannel is returned for channel numbers outside both bands.
	ErrUnknownChannel = errors.New("channel is in no known band")

	// ErrSameBand is returned when both radios of a station resolve to the
	// same band.
	ErrSameBand = errors.New("both radios are in the same band")
)

func (b Band) String() string {
	switch b {
	case Band2400MHz:
		return "2.4GHz"
	case Band5GHz:
		return "5GHz"
	case BandBoth:
		return "both"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// Band returns the frequency band of the channel.
func (c Channel) Band() (Band, error) {
	switch {
	case c >= 1 && c <= 14:
		return Band2400MHz, nil
	case c >= 32 && c <= 177:
		return Band5GHz, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownChannel, c)
	}
}

// StationBand returns the band(s) a station can operate in given the channels
// its radios are configured with.
func StationBand(radios []Channel) (Band, error) {
	switch len(radios) {
	case 1:
		return radios[0].Band()
	case 2:
		b0, err := radios[0].Band()
		if err != nil {
			return 0, err
		}

		b1, err := radios[1].Band()
		if err != nil {
			return 0, err
		}

		if b0 == b1 {
			return 0, fmt.Errorf("%w: channels %d and %d",
				ErrSameBand, radios[0], radios[1])
		}

		return BandBoth, nil
	default:
		return 0, fmt.Errorf("station must have 1 or 2 radios, got %d",
			len(radios))
	}
}

// Vector is a position on the plane, in meters.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// DistanceTo returns the Euclidean distance between two positions.
func (v Vector) DistanceTo(o Vector) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Add returns the sum of two vectors.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale multiplies the vector by a factor.
func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}
