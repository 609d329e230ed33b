package identity

import (
	"basetrack/internal/model"

	"github.com/google/uuid"
)

// Stable ids for the built-in bases so signup against the fallback list
// keeps working across restarts in degraded mode.
var defaultBaseIDs = []uuid.UUID{
	uuid.MustParse("5b1c0001-0000-4000-8000-000000000001"),
	uuid.MustParse("5b1c0001-0000-4000-8000-000000000002"),
	uuid.MustParse("5b1c0001-0000-4000-8000-000000000003"),
	uuid.MustParse("5b1c0001-0000-4000-8000-000000000004"),
	uuid.MustParse("5b1c0001-0000-4000-8000-000000000005"),
}

// DefaultBases is the fixed fallback directory served whenever the base
// store is empty or unreachable, so signup and login flows stay usable
// before any base has been seeded.
func DefaultBases() []model.Base {
	return []model.Base{
		{ID: defaultBaseIDs[0], Name: "Fort Knox", Location: "Kentucky, USA", State: "KY", Commander: "TBD", Capacity: 1000, IsActive: true},
		{ID: defaultBaseIDs[1], Name: "Fort Bragg", Location: "North Carolina, USA", State: "NC", Commander: "TBD", Capacity: 1000, IsActive: true},
		{ID: defaultBaseIDs[2], Name: "Camp Pendleton", Location: "California, USA", State: "CA", Commander: "TBD", Capacity: 1000, IsActive: true},
		{ID: defaultBaseIDs[3], Name: "Naval Station Norfolk", Location: "Virginia, USA", State: "VA", Commander: "TBD", Capacity: 1000, IsActive: true},
		{ID: defaultBaseIDs[4], Name: "Wright-Patterson AFB", Location: "Ohio, USA", State: "OH", Commander: "TBD", Capacity: 1000, IsActive: true},
	}
}
