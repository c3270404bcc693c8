package database

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"relief-router/internal/models"
)

// City data file names inside a seed directory
const (
	ZonesFile     = "zones.csv"
	RoadsFile     = "roads.csv"
	SheltersFile  = "shelters.csv"
	ResourcesFile = "resources.csv"
)

// CityData is a full set of city reference records in load order
type CityData struct {
	Zones     []models.Zone
	Roads     []models.Road
	Shelters  []models.Shelter
	Resources []models.Resource
}

// csvRows reads a headed CSV file into column-name keyed rows
type csvRows struct {
	name   string
	header map[string]int
	rows   [][]string
}

func readCSV(r io.Reader, name string) (*csvRows, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(records) == 0 {
		return &csvRows{name: name, header: map[string]int{}}, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return &csvRows{name: name, header: header, rows: records[1:]}, nil
}

func (c *csvRows) require(cols ...string) error {
	for _, col := range cols {
		if _, ok := c.header[col]; !ok {
			return &ValidationError{Record: c.name, Field: col, Reason: "missing column"}
		}
	}
	return nil
}

// line returns the 1-based file line of data row i
func (c *csvRows) line(i int) string {
	return fmt.Sprintf("%s:%d", c.name, i+2)
}

func (c *csvRows) str(i int, col string) string {
	idx, ok := c.header[col]
	if !ok || idx >= len(c.rows[i]) {
		return ""
	}
	return strings.TrimSpace(c.rows[i][idx])
}

func (c *csvRows) integer(i int, col string) (int, error) {
	v, err := strconv.Atoi(c.str(i, col))
	if err != nil {
		return 0, &ValidationError{Record: c.line(i), Field: col, Reason: "not an integer"}
	}
	return v, nil
}

func (c *csvRows) float(i int, col string) (float64, error) {
	v, err := strconv.ParseFloat(c.str(i, col), 64)
	if err != nil {
		return 0, &ValidationError{Record: c.line(i), Field: col, Reason: "not a number"}
	}
	return v, nil
}

// ReadZones parses zone_id, zone_name, population, risk_level, region
func ReadZones(r io.Reader, name string) ([]models.Zone, error) {
	rows, err := readCSV(r, name)
	if err != nil {
		return nil, err
	}
	if err := rows.require("zone_id", "population", "risk_level"); err != nil {
		return nil, err
	}

	zones := make([]models.Zone, 0, len(rows.rows))
	for i := range rows.rows {
		pop, err := rows.integer(i, "population")
		if err != nil {
			return nil, err
		}
		risk, err := rows.integer(i, "risk_level")
		if err != nil {
			return nil, err
		}
		z := models.Zone{
			ID:         rows.str(i, "zone_id"),
			Name:       rows.str(i, "zone_name"),
			Population: pop,
			RiskLevel:  risk,
			Region:     rows.str(i, "region"),
		}
		if err := ValidateZone(&z); err != nil {
			return nil, fmt.Errorf("%s: %w", rows.line(i), err)
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// ReadRoads parses from_zone, to_zone, distance_km
func ReadRoads(r io.Reader, name string) ([]models.Road, error) {
	rows, err := readCSV(r, name)
	if err != nil {
		return nil, err
	}
	if err := rows.require("from_zone", "to_zone", "distance_km"); err != nil {
		return nil, err
	}

	roads := make([]models.Road, 0, len(rows.rows))
	for i := range rows.rows {
		dist, err := rows.float(i, "distance_km")
		if err != nil {
			return nil, err
		}
		road := models.Road{
			FromZone:   rows.str(i, "from_zone"),
			ToZone:     rows.str(i, "to_zone"),
			DistanceKm: dist,
		}
		if err := ValidateRoad(&road); err != nil {
			return nil, fmt.Errorf("%s: %w", rows.line(i), err)
		}
		roads = append(roads, road)
	}
	return roads, nil
}

// ReadShelters parses shelter_id, zone_id, capacity
func ReadShelters(r io.Reader, name string) ([]models.Shelter, error) {
	rows, err := readCSV(r, name)
	if err != nil {
		return nil, err
	}
	if err := rows.require("shelter_id", "zone_id", "capacity"); err != nil {
		return nil, err
	}

	shelters := make([]models.Shelter, 0, len(rows.rows))
	for i := range rows.rows {
		capacity, err := rows.integer(i, "capacity")
		if err != nil {
			return nil, err
		}
		s := models.Shelter{
			ID:       rows.str(i, "shelter_id"),
			ZoneID:   rows.str(i, "zone_id"),
			Capacity: capacity,
		}
		if err := ValidateShelter(&s); err != nil {
			return nil, fmt.Errorf("%s: %w", rows.line(i), err)
		}
		shelters = append(shelters, s)
	}
	return shelters, nil
}

// ReadResources parses resource_type and available (or quantity)
func ReadResources(r io.Reader, name string) ([]models.Resource, error) {
	rows, err := readCSV(r, name)
	if err != nil {
		return nil, err
	}
	amountCol := "available"
	if _, ok := rows.header[amountCol]; !ok {
		amountCol = "quantity"
	}
	if err := rows.require("resource_type", amountCol); err != nil {
		return nil, err
	}

	resources := make([]models.Resource, 0, len(rows.rows))
	for i := range rows.rows {
		amount, err := rows.integer(i, amountCol)
		if err != nil {
			return nil, err
		}
		res := models.Resource{Type: rows.str(i, "resource_type"), Available: amount}
		if err := ValidateResource(&res); err != nil {
			return nil, fmt.Errorf("%s: %w", rows.line(i), err)
		}
		resources = append(resources, res)
	}
	return resources, nil
}

// LoadCityDir reads zones, roads and shelters CSV files from dir.
// resources.csv is optional.
func LoadCityDir(dir string) (*CityData, error) {
	log.Printf("[IMPORT] Loading city data from %s", dir)
	return LoadCity(os.DirFS(dir))
}

// LoadCity reads the city CSV files from the root of fsys
func LoadCity(fsys fs.FS) (*CityData, error) {
	city := &CityData{}
	var err error

	if err = readFile(fsys, ZonesFile, func(r io.Reader) error {
		city.Zones, err = ReadZones(r, ZonesFile)
		return err
	}); err != nil {
		return nil, err
	}
	if err = readFile(fsys, RoadsFile, func(r io.Reader) error {
		city.Roads, err = ReadRoads(r, RoadsFile)
		return err
	}); err != nil {
		return nil, err
	}
	if err = readFile(fsys, SheltersFile, func(r io.Reader) error {
		city.Shelters, err = ReadShelters(r, SheltersFile)
		return err
	}); err != nil {
		return nil, err
	}
	err = readFile(fsys, ResourcesFile, func(r io.Reader) error {
		city.Resources, err = ReadResources(r, ResourcesFile)
		return err
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err := city.Validate(); err != nil {
		return nil, err
	}

	log.Printf("[IMPORT] Loaded zones=%d roads=%d shelters=%d resources=%d",
		len(city.Zones), len(city.Roads), len(city.Shelters), len(city.Resources))
	return city, nil
}

func readFile(fsys fs.FS, name string, parse func(io.Reader) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()
	return parse(f)
}
