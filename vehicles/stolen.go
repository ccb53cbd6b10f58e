// Package vehicles looks up vehicle records by VIN.
package vehicles

import (
	"context"
	"math/rand"
	"sync"
)

// Record is the result of a stolen-vehicle lookup.
type Record struct {
	VIN    string
	Stolen bool
	Make   string
	Model  string
	Year   int
	Color  string
}

// StolenChecker answers whether a VIN is flagged stolen. Lookup
// failures should degrade to a not-stolen record rather than surface
// to the caller.
type StolenChecker interface {
	Check(ctx context.Context, vin string) (Record, error)
}

var (
	makes  = []string{"Honda", "Toyota", "Ford", "Chevrolet", "Nissan", "Dodge", "Hyundai", "Kia"}
	models = []string{"Accord", "Camry", "F-150", "Silverado", "Altima", "Charger", "Elantra", "Sorento"}
	colors = []string{"black", "white", "silver", "red", "blue", "gray"}
)

// MockChecker fabricates lookup results until a real NCIC feed is
// wired in. Vehicle details derive deterministically from the VIN so
// repeat queries for the same number stay consistent; the stolen flag
// is a one-in-ten roll.
type MockChecker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockChecker seeds the checker's stolen-flag roll.
func NewMockChecker(seed int64) *MockChecker {
	return &MockChecker{rng: rand.New(rand.NewSource(seed))}
}

func (c *MockChecker) Check(_ context.Context, vin string) (Record, error) {
	sum := 0
	for _, r := range vin {
		sum += int(r)
	}

	c.mu.Lock()
	stolen := c.rng.Float64() < 0.1
	c.mu.Unlock()

	return Record{
		VIN:    vin,
		Stolen: stolen,
		Make:   makes[sum%len(makes)],
		Model:  models[sum%len(models)],
		Year:   2005 + sum%20,
		Color:  colors[sum%len(colors)],
	}, nil
}
