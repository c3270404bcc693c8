package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"relief-router/internal/models"
	"relief-router/internal/testutil"
)

func TestRankZonesRiskThenPopulation(t *testing.T) {
	got := RankZones(testutil.PentagonZones(), testutil.AffectedSet("Z1", "Z2", "Z3", "Z4", "Z5"))

	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ZoneID
	}
	assert.Equal(t, []string{"Z3", "Z1", "Z4", "Z2", "Z5"}, ids)
	assert.Equal(t, models.PriorityEntry{RiskLevel: 5, Population: 1500, ZoneID: "Z3", ZoneName: "East Riverside"}, got[0])
}

func TestRankZonesRiskBeatsPopulation(t *testing.T) {
	zones := []models.Zone{
		{ID: "BIG", Population: 1_000_000, RiskLevel: 1},
		{ID: "SMALL", Population: 10, RiskLevel: 2},
	}

	got := RankZones(zones, testutil.AffectedSet("BIG", "SMALL"))

	assert.Equal(t, "SMALL", got[0].ZoneID)
	assert.Equal(t, "BIG", got[1].ZoneID)
}

// Upstream leaves the order of exact duplicates (same risk and population)
// unspecified; here they are ordered by zone id.
func TestRankZonesExactDuplicatesByID(t *testing.T) {
	zones := []models.Zone{
		{ID: "Z9", Population: 100, RiskLevel: 3},
		{ID: "Z2", Population: 100, RiskLevel: 3},
		{ID: "Z5", Population: 100, RiskLevel: 3},
	}

	got := RankZones(zones, testutil.AffectedSet("Z9", "Z2", "Z5"))

	assert.Equal(t, "Z2", got[0].ZoneID)
	assert.Equal(t, "Z5", got[1].ZoneID)
	assert.Equal(t, "Z9", got[2].ZoneID)
}

func TestRankZonesOnlyAffected(t *testing.T) {
	got := RankZones(testutil.PentagonZones(), testutil.AffectedSet("Z5", "NOT_A_ZONE"))

	assert.Len(t, got, 1)
	assert.Equal(t, "Z5", got[0].ZoneID)
	assert.Empty(t, RankZones(testutil.PentagonZones(), nil))
}
