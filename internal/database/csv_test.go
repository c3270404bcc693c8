package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relief-router/internal/models"
)

const zonesCSV = `zone_id,zone_name,population,risk_level,region
Z1,Central Market,1000,5,Central
Z2,North Hills,800,3,North
`

const roadsCSV = `from_zone,to_zone,distance_km
Z1,Z2,4.5
Z2,Z1,3
`

const sheltersCSV = `shelter_id,zone_id,capacity
S1,Z1,500
S2,Z2,300
`

func TestReadZones(t *testing.T) {
	zones, err := ReadZones(strings.NewReader(zonesCSV), ZonesFile)
	require.NoError(t, err)

	assert.Equal(t, []models.Zone{
		{ID: "Z1", Name: "Central Market", Population: 1000, RiskLevel: 5, Region: "Central"},
		{ID: "Z2", Name: "North Hills", Population: 800, RiskLevel: 3, Region: "North"},
	}, zones)
}

func TestReadRoadsKeepsParallelRoads(t *testing.T) {
	roads, err := ReadRoads(strings.NewReader(roadsCSV), RoadsFile)
	require.NoError(t, err)

	require.Len(t, roads, 2)
	assert.Equal(t, 4.5, roads[0].DistanceKm)
	assert.Equal(t, "Z2", roads[1].FromZone)
}

func TestReadRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name  string
		read  func() error
		field string
	}{
		{
			name: "negative population",
			read: func() error {
				_, err := ReadZones(strings.NewReader("zone_id,population,risk_level\nZ1,-5,3\n"), ZonesFile)
				return err
			},
			field: "population",
		},
		{
			name: "non-numeric risk",
			read: func() error {
				_, err := ReadZones(strings.NewReader("zone_id,population,risk_level\nZ1,5,high\n"), ZonesFile)
				return err
			},
			field: "risk_level",
		},
		{
			name: "negative distance",
			read: func() error {
				_, err := ReadRoads(strings.NewReader("from_zone,to_zone,distance_km\nZ1,Z2,-1\n"), RoadsFile)
				return err
			},
			field: "distance_km",
		},
		{
			name: "missing column",
			read: func() error {
				_, err := ReadShelters(strings.NewReader("shelter_id,zone_id\nS1,Z1\n"), SheltersFile)
				return err
			},
			field: "capacity",
		},
		{
			name: "reserved shelter id",
			read: func() error {
				_, err := ReadShelters(strings.NewReader("shelter_id,zone_id,capacity\nNO_SPACE,Z1,10\n"), SheltersFile)
				return err
			},
			field: "shelter_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read()
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestReadResourcesAcceptsQuantityColumn(t *testing.T) {
	res, err := ReadResources(strings.NewReader("resource_type,quantity\nfood_packets,120\n"), ResourcesFile)
	require.NoError(t, err)
	assert.Equal(t, []models.Resource{{Type: "food_packets", Available: 120}}, res)
}

func writeCity(t *testing.T, shelters string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ZonesFile), []byte(zonesCSV), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, RoadsFile), []byte(roadsCSV), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SheltersFile), []byte(shelters), 0600))
	return dir
}

func TestLoadCityDir(t *testing.T) {
	dir := writeCity(t, sheltersCSV)

	city, err := LoadCityDir(dir)
	require.NoError(t, err)

	assert.Len(t, city.Zones, 2)
	assert.Len(t, city.Roads, 2)
	assert.Len(t, city.Shelters, 2)
	assert.Empty(t, city.Resources)
}

func TestLoadCityFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		ZonesFile:     {Data: []byte(zonesCSV)},
		RoadsFile:     {Data: []byte(roadsCSV)},
		SheltersFile:  {Data: []byte(sheltersCSV)},
		ResourcesFile: {Data: []byte("resource_type,quantity\nfood_packets,900\n")},
	}

	city, err := LoadCity(fsys)
	require.NoError(t, err)

	require.Len(t, city.Resources, 1)
	assert.Equal(t, 900, city.Resources[0].Available)
	assert.Equal(t, "Central Market", city.Zones[0].Name)
}

func TestLoadCityDirRejectsShelterInUnknownZone(t *testing.T) {
	dir := writeCity(t, "shelter_id,zone_id,capacity\nS1,Z7,100\n")

	_, err := LoadCityDir(dir)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "Z7")
}

func TestLoadCityDirMissingZones(t *testing.T) {
	_, err := LoadCityDir(t.TempDir())
	require.Error(t, err)
	assert.False(t, IsValidation(err))
}

func TestCityValidateDuplicates(t *testing.T) {
	city := &CityData{
		Zones: []models.Zone{{ID: "Z1"}, {ID: "Z1"}},
	}
	err := city.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
