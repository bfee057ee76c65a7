package population

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epinet-sim/epinet/sim"
)

func newTestRand(seed int64) *rand.Rand {
	return sim.NewPartitionedRNG(sim.NewSimulationKey(seed)).ForSubsystem(sim.SubsystemPopulation)
}

func TestSynthesize_ProducesValidPopulation(t *testing.T) {
	pop, err := Synthesize(DefaultSynthConfig(200, 40), newTestRand(1))
	require.NoError(t, err)

	assert.Len(t, pop.People, 200)
	assert.NoError(t, pop.Validate())

	counts := make(map[sim.LocationCategory]int)
	for _, loc := range pop.Locations {
		counts[loc.Category]++
	}
	assert.Equal(t, 20, counts[sim.CategoryWork])
	assert.Equal(t, 4, counts[sim.CategorySchool])
	assert.Equal(t, 8, counts[sim.CategoryShop])
	assert.Equal(t, 8, counts[sim.CategoryOther])
	assert.Positive(t, counts[sim.CategoryHome])
}

func TestSynthesize_ActivitiesMatchLocationCategory(t *testing.T) {
	pop, err := Synthesize(DefaultSynthConfig(150, 20), newTestRand(2))
	require.NoError(t, err)

	category := make(map[sim.LocationID]sim.LocationCategory)
	for _, loc := range pop.Locations {
		category[loc.ID] = loc.Category
	}
	for _, p := range pop.People {
		require.NotEmpty(t, p.Activities, "person %s", p.ID)
		homes := make(map[sim.LocationID]bool)
		for _, a := range p.Activities {
			assert.Equal(t, CategoryForActivity(a.Type), category[a.Location], "person %s activity %+v", p.ID, a)
			if a.Type == sim.ActivityHome {
				homes[a.Location] = true
			}
		}
		assert.Len(t, homes, 1, "person %s has one home", p.ID)
	}
}

func TestSynthesize_HouseholdsShareHome(t *testing.T) {
	cfg := DefaultSynthConfig(120, 10)
	pop, err := Synthesize(cfg, newTestRand(4))
	require.NoError(t, err)

	residents := make(map[sim.LocationID]int)
	for _, p := range pop.People {
		for _, a := range p.Activities {
			if a.Type == sim.ActivityHome {
				residents[a.Location]++
				break
			}
		}
	}
	shared := 0
	for _, n := range residents {
		assert.LessOrEqual(t, n, cfg.MaxHouseholdSize)
		if n > 1 {
			shared++
		}
	}
	assert.Positive(t, shared, "some households have several members")
}

func TestSynthesize_AgesFollowTemplates(t *testing.T) {
	pop, err := Synthesize(DefaultSynthConfig(300, 20), newTestRand(5))
	require.NoError(t, err)

	for _, p := range pop.People {
		assert.GreaterOrEqual(t, p.Age, 0)
		assert.LessOrEqual(t, p.Age, 99)
		hasSchool := false
		for _, a := range p.Activities {
			if a.Type == sim.ActivitySchool {
				hasSchool = true
			}
		}
		assert.Equal(t, p.Age >= 5 && p.Age < 18, hasSchool, "person %s age %d", p.ID, p.Age)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	a, err := Synthesize(DefaultSynthConfig(80, 12), newTestRand(9))
	require.NoError(t, err)
	b, err := Synthesize(DefaultSynthConfig(80, 12), newTestRand(9))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSynthesize_HomeWindowCrossesMidnight(t *testing.T) {
	cfg := DefaultSynthConfig(10, 4)
	cfg.Jitter = 0
	pop, err := Synthesize(cfg, newTestRand(6))
	require.NoError(t, err)

	for _, p := range pop.People {
		last := p.Activities[len(p.Activities)-1]
		assert.Equal(t, sim.ActivityHome, last.Type)
		assert.Less(t, last.End, last.Start, "person %s evening at home wraps past midnight", p.ID)
	}
}

func TestSynthesize_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SynthConfig)
	}{
		{"no agents", func(c *SynthConfig) { c.Agents = 0 }},
		{"too few locations", func(c *SynthConfig) { c.Locations = 3 }},
		{"no household size", func(c *SynthConfig) { c.MaxHouseholdSize = 0 }},
		{"employment above one", func(c *SynthConfig) { c.EmploymentRate = 1.5 }},
		{"negative jitter", func(c *SynthConfig) { c.Jitter = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSynthConfig(10, 10)
			tt.mutate(&cfg)
			_, err := Synthesize(cfg, newTestRand(1))
			assert.Error(t, err)
		})
	}
}

func TestDemographics_SexBalance(t *testing.T) {
	d := newDemographics(CensusAgeTable)
	rng := newTestRand(12)
	female := 0
	const n = 20000
	for i := 0; i < n; i++ {
		age, sex := d.sample(rng)
		if age < 0 || age > 99 {
			t.Fatalf("age %d outside table", age)
		}
		if sex == sim.SexFemale {
			female++
		}
	}
	assert.InDelta(t, 0.5, float64(female)/n, 0.03)
}
