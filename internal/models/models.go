package models

import "time"

// Allocation sentinels used when a zone's population could not be housed
const (
	UnmetShelterID   = "NO_SPACE"
	UnmetShelterZone = "NONE"
)

// PairSeparator joins the two zones of a road pair in its text form.
// Zone ids must not contain it.
const PairSeparator = "-"

// Zone represents a population unit in the city model
type Zone struct {
	ID         string `json:"zone_id"`
	Name       string `json:"zone_name"`
	Population int    `json:"population"`
	RiskLevel  int    `json:"risk_level"`
	Region     string `json:"region"`
}

// Road is an undirected edge between two zones
type Road struct {
	ID         int64   `json:"id"`
	FromZone   string  `json:"from_zone"`
	ToZone     string  `json:"to_zone"`
	DistanceKm float64 `json:"distance_km"`
}

// Shelter houses evacuated people inside a zone
type Shelter struct {
	ID       string `json:"shelter_id"`
	ZoneID   string `json:"zone_id"`
	Capacity int    `json:"capacity"`
}

// Resource is a stock of relief supplies available to the command center
type Resource struct {
	Type      string    `json:"resource_type"`
	Available int       `json:"available"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resource types tracked by the supply gap analysis
const (
	ResourceFoodPackets  = "food_packets"
	ResourceFirstAidKits = "first_aid_kits"
)

// AllocationRecord describes people from a zone assigned to a shelter.
// ShelterID is UnmetShelterID when nobody could take them.
type AllocationRecord struct {
	ZoneID      string `json:"zone_id"`
	ShelterID   string `json:"shelter_id"`
	People      int    `json:"people"`
	ShelterZone string `json:"shelter_zone"`
}

// IsUnmet reports whether the record carries people left without a shelter
func (a AllocationRecord) IsUnmet() bool {
	return a.ShelterID == UnmetShelterID
}

// PriorityEntry is one row of the zone priority order
type PriorityEntry struct {
	RiskLevel  int    `json:"risk_level"`
	Population int    `json:"population"`
	ZoneID     string `json:"zone_id"`
	ZoneName   string `json:"zone_name"`
}

// Supplies holds the relief supplies a population needs
type Supplies struct {
	FoodPackets  int `json:"food_packets"`
	FirstAidKits int `json:"first_aid_kits"`
}

// ResourceGap reports a resource whose requirement exceeds the stock
type ResourceGap struct {
	ResourceType string `json:"resource_type"`
	Required     int    `json:"required"`
	Available    int    `json:"available"`
	Gap          int    `json:"gap"`
}

// ZoneStatus classifies a zone for the dashboard
type ZoneStatus string

const (
	ZoneStatusSafe     ZoneStatus = "Safe"
	ZoneStatusAffected ZoneStatus = "Affected"
	ZoneStatusCritical ZoneStatus = "Critical"
)

// CriticalRiskLevel is the lowest risk level at which an affected zone is critical
const CriticalRiskLevel = 4

// Status returns the zone status given whether it is currently affected
func (z *Zone) Status(affected bool) ZoneStatus {
	switch {
	case !affected:
		return ZoneStatusSafe
	case z.RiskLevel >= CriticalRiskLevel:
		return ZoneStatusCritical
	default:
		return ZoneStatusAffected
	}
}

// DisasterType names a disaster scenario with preset road closures
type DisasterType string

const (
	DisasterNone       DisasterType = ""
	DisasterFlood      DisasterType = "Flood"
	DisasterFire       DisasterType = "Fire"
	DisasterEarthquake DisasterType = "Earthquake"
)

// RescueActions lists the field operations dispatched to an affected zone.
// Earthquakes call for debris teams; every other disaster is worked by air
// and water. Shelter and supply actions are common to all.
func RescueActions(d DisasterType) []string {
	var actions []string
	if d == DisasterEarthquake {
		actions = []string{"Deploy debris rescue team", "Dispatch ambulances"}
	} else {
		actions = []string{"Deploy water rescue boats", "Dispatch helicopter"}
	}
	return append(actions, "Assign to shelter", "Deliver food and first aid")
}

// Closure is a road pair blocked by a disaster type
type Closure struct {
	ID       int64        `json:"id"`
	Disaster DisasterType `json:"disaster"`
	ZoneA    string       `json:"zone_a"`
	ZoneB    string       `json:"zone_b"`
}

// Mission is an approved rescue operation
type Mission struct {
	ID         string       `json:"id"`
	ZoneID     string       `json:"zone_id"`
	Disaster   DisasterType `json:"disaster"`
	Rescued    int          `json:"rescued"`
	Status     string       `json:"status"`
	ApprovedAt time.Time    `json:"approved_at"`
}

// Route is an ordered zone sequence with its total length.
// An empty Zones slice means no safe route exists.
type Route struct {
	Start           string   `json:"start"`
	Target          string   `json:"target"`
	Zones           []string `json:"zones"`
	TotalDistanceKm float64  `json:"total_distance_km"`
	Reachable       bool     `json:"reachable"`
}
