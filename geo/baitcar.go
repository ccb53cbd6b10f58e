package geo

// Hotspot is a known bait car deployment zone.
type Hotspot struct {
	Latitude  float64
	Longitude float64
	Active    bool
}

// BaitCarLocator answers whether any active bait car sits within the
// alert radius of a caller's position.
type BaitCarLocator interface {
	Nearby(lat, lon float64) (Hotspot, bool)
}

// alertRadiusMiles is how close a caller must be to an active hotspot
// before we tell them a bait car is nearby.
const alertRadiusMiles = 0.5

// StaticLocator serves a fixed list of hotspots.
type StaticLocator struct {
	Hotspots []Hotspot
}

// NewStaticLocator returns a locator preloaded with the current
// downtown Indianapolis deployment zones.
func NewStaticLocator() *StaticLocator {
	return &StaticLocator{Hotspots: []Hotspot{
		{Latitude: 39.768, Longitude: -86.158, Active: true},
		{Latitude: 39.764, Longitude: -86.173, Active: true},
		{Latitude: 39.779, Longitude: -86.148, Active: false},
		{Latitude: 39.754, Longitude: -86.142, Active: true},
		{Latitude: 39.773, Longitude: -86.178, Active: true},
	}}
}

// Nearby returns the closest active hotspot within the alert radius of
// the given point, and whether one was found.
func (l *StaticLocator) Nearby(lat, lon float64) (Hotspot, bool) {
	var (
		best     Hotspot
		bestDist float64
		found    bool
	)
	for _, h := range l.Hotspots {
		if !h.Active {
			continue
		}
		d := Distance(lat, lon, h.Latitude, h.Longitude)
		if d > alertRadiusMiles {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = h, d, true
		}
	}
	return best, found
}
