package models

// RescueLedger tracks how many people have been rescued per zone.
// It is owned by the caller and handed to the engine explicitly.
type RescueLedger map[string]int

// Record adds rescued people to a zone, never past its population
func (l RescueLedger) Record(z *Zone, people int) int {
	if people <= 0 {
		return 0
	}
	left := z.Population - l[z.ID]
	if people > left {
		people = left
	}
	if people > 0 {
		l[z.ID] += people
	}
	return people
}

// Remaining returns the population still stranded in a zone
func (l RescueLedger) Remaining(z *Zone) int {
	left := z.Population - l[z.ID]
	if left < 0 {
		return 0
	}
	return left
}

// Apply returns copies of zones with populations reduced by the rescued counts
func (l RescueLedger) Apply(zones []Zone) []Zone {
	out := make([]Zone, len(zones))
	for i, z := range zones {
		z.Population = l.Remaining(&zones[i])
		out[i] = z
	}
	return out
}

// Total returns the number of people rescued across all zones
func (l RescueLedger) Total() int {
	total := 0
	for _, n := range l {
		total += n
	}
	return total
}
