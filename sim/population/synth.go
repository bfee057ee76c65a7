package population

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/epinet-sim/epinet/sim"
)

// SynthConfig controls synthetic population generation.
type SynthConfig struct {
	Agents           int // number of people
	Locations        int // non-residential locations; homes are one per household
	MaxHouseholdSize int // household sizes are uniform in [1, MaxHouseholdSize]
	EmploymentRate   float64
	Jitter           int // schedules shift by up to ±Jitter clock ticks per person
}

// DefaultSynthConfig returns a SynthConfig for n agents and m locations.
func DefaultSynthConfig(n, m int) SynthConfig {
	return SynthConfig{
		Agents:           n,
		Locations:        m,
		MaxHouseholdSize: 4,
		EmploymentRate:   0.75,
		Jitter:           30,
	}
}

func (c SynthConfig) validate() error {
	if c.Agents < 1 {
		return fmt.Errorf("synthetic population: agents must be positive, got %d", c.Agents)
	}
	if c.Locations < len(nonHomeShares) {
		return fmt.Errorf("synthetic population: need at least %d locations (one per non-home category), got %d",
			len(nonHomeShares), c.Locations)
	}
	if c.MaxHouseholdSize < 1 {
		return fmt.Errorf("synthetic population: max_household_size must be positive, got %d", c.MaxHouseholdSize)
	}
	if c.EmploymentRate < 0 || c.EmploymentRate > 1 {
		return fmt.Errorf("synthetic population: employment_rate %v outside [0,1]", c.EmploymentRate)
	}
	if c.Jitter < 0 || c.Jitter >= sim.MinutesPerDay/2 {
		return fmt.Errorf("synthetic population: jitter %d outside [0,%d)", c.Jitter, sim.MinutesPerDay/2)
	}
	return nil
}

// nonHomeShares splits the non-residential locations between categories.
var nonHomeShares = []struct {
	category sim.LocationCategory
	share    float64
}{
	{sim.CategoryWork, 0.5},
	{sim.CategorySchool, 0.1},
	{sim.CategoryShop, 0.2},
	{sim.CategoryOther, 0.2},
}

// Synthesize builds a population of households with census-weighted ages and
// sexes and travel-survey style daily schedules. Locations are assigned
// uniformly among those of the matching category; household members share
// their home. Deterministic given the same config and rng state.
func Synthesize(cfg SynthConfig, rng *rand.Rand) (*sim.Population, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pop := &sim.Population{}
	byCategory := make(map[sim.LocationCategory][]sim.LocationID)
	addLocation := func(cat sim.LocationCategory, prefix string) sim.LocationID {
		id := sim.LocationID(fmt.Sprintf("%s_%d", prefix, len(byCategory[cat])))
		pop.Locations = append(pop.Locations, sim.Location{ID: id, Category: cat})
		byCategory[cat] = append(byCategory[cat], id)
		return id
	}

	remaining := cfg.Locations
	for i, s := range nonHomeShares {
		n := int(s.share * float64(cfg.Locations))
		if i == len(nonHomeShares)-1 {
			n = remaining
		}
		n = max(n, 1)
		n = min(n, remaining-(len(nonHomeShares)-1-i))
		remaining -= n
		for j := 0; j < n; j++ {
			addLocation(s.category, locationPrefix[s.category])
		}
	}

	demographics := newDemographics(CensusAgeTable)
	households := 0
	for len(pop.People) < cfg.Agents {
		home := addLocation(sim.CategoryHome, locationPrefix[sim.CategoryHome])
		households++
		size := 1 + rng.Intn(cfg.MaxHouseholdSize)
		for k := 0; k < size && len(pop.People) < cfg.Agents; k++ {
			age, sex := demographics.sample(rng)
			tmpl := chooseTemplate(age, cfg.EmploymentRate, rng)
			shift := 0
			if cfg.Jitter > 0 {
				shift = rng.Intn(2*cfg.Jitter+1) - cfg.Jitter
			}
			pop.People = append(pop.People, sim.Person{
				ID:         sim.AgentID(fmt.Sprintf("P_%d", len(pop.People))),
				Age:        age,
				Sex:        sex,
				Activities: tmpl.activities(shift, home, byCategory, rng),
			})
		}
	}

	logrus.Infof("Synthesized population: %d people in %d households, %d locations",
		len(pop.People), households, len(pop.Locations))
	return pop, nil
}

var locationPrefix = map[sim.LocationCategory]string{
	sim.CategoryHome:   "H",
	sim.CategoryWork:   "W",
	sim.CategorySchool: "C",
	sim.CategoryShop:   "S",
	sim.CategoryOther:  "O",
}
