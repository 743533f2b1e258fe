package ordering

import (
	"math"
	"regexp"
	"strconv"
)

// SimilarityToleranceDegrees is the per-axis tolerance within which two
// location fingerprints count as the same store. It is applied to latitude
// and longitude independently (a rectangular test, not a great-circle
// distance), matching how trips have historically been grouped; changing it
// would change which past trips count as evidence.
const SimilarityToleranceDegrees = 0.001

// coordinate is the parsed form of a location fingerprint string.
type coordinate struct {
	Lat float64
	Lon float64
}

var fingerprintPattern = regexp.MustCompile(`(-?\d+(?:\.\d+)?)°,\s*(-?\d+(?:\.\d+)?)°`)

// parseFingerprint extracts a coordinate from a fingerprint string such as
// "50.850°, 4.351°". The second return is false when the string does not
// contain a parseable pair.
func parseFingerprint(s string) (coordinate, bool) {
	m := fingerprintPattern.FindStringSubmatch(s)
	if m == nil {
		return coordinate{}, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return coordinate{}, false
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return coordinate{}, false
	}
	return coordinate{Lat: lat, Lon: lon}, true
}

// IsSimilarLocation reports whether two location fingerprints refer to the
// same place for learning purposes. Unparseable fingerprints never match
// anything, so trips without a usable location are excluded from
// location-specific filtering rather than grouped together.
func IsSimilarLocation(a, b string) bool {
	ca, ok := parseFingerprint(a)
	if !ok {
		return false
	}
	cb, ok := parseFingerprint(b)
	if !ok {
		return false
	}
	return math.Abs(ca.Lat-cb.Lat) < SimilarityToleranceDegrees &&
		math.Abs(ca.Lon-cb.Lon) < SimilarityToleranceDegrees
}
