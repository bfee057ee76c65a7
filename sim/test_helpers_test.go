package sim

import "fmt"

// testTwoAgentPopulation returns two people sharing one location for the
// whole [800, 1700) window.
func testTwoAgentPopulation() *Population {
	return &Population{
		Locations: []Location{{ID: "L0", Category: CategoryWork}},
		People: []Person{
			{ID: "P_0", Age: 35, Sex: SexMale, Activities: []Activity{{Start: 800, End: 1700, Location: "L0", Type: ActivityWork}}},
			{ID: "P_1", Age: 42, Sex: SexFemale, Activities: []Activity{{Start: 800, End: 1700, Location: "L0", Type: ActivityWork}}},
		},
	}
}

// testTownPopulation builds a deterministic population of n people living in
// households of four, working at one of numWork workplaces, and shopping at a
// single shop in the evening. Evening home windows cross midnight.
func testTownPopulation(n, numWork int) *Population {
	pop := &Population{}
	numHomes := (n + 3) / 4
	for h := 0; h < numHomes; h++ {
		pop.Locations = append(pop.Locations, Location{ID: LocationID(fmt.Sprintf("H%03d", h)), Category: CategoryHome})
	}
	for w := 0; w < numWork; w++ {
		pop.Locations = append(pop.Locations, Location{ID: LocationID(fmt.Sprintf("W%03d", w)), Category: CategoryWork})
	}
	pop.Locations = append(pop.Locations, Location{ID: "S000", Category: CategoryShop})

	for i := 0; i < n; i++ {
		home := LocationID(fmt.Sprintf("H%03d", i/4))
		work := LocationID(fmt.Sprintf("W%03d", i%numWork))
		sex := SexMale
		if i%2 == 1 {
			sex = SexFemale
		}
		pop.People = append(pop.People, Person{
			ID:  AgentID(fmt.Sprintf("P_%d", i)),
			Age: (i * 7) % 95,
			Sex: sex,
			Activities: []Activity{
				{Start: 0, End: 800, Location: home, Type: ActivityHome},
				{Start: 900, End: 1700, Location: work, Type: ActivityWork},
				{Start: 1700 + (i%3)*20, End: 1800 + (i%3)*20, Location: "S000", Type: ActivityShop},
				{Start: 1900, End: 100, Location: home, Type: ActivityHome},
			},
		})
	}
	return pop
}

// testCertainConfig returns a valid config where every contact happens and
// every I–S contact transmits.
func testCertainConfig() Config {
	cfg := DefaultConfig()
	cfg.InteractionProbability = 1
	cfg.Transmission.Probability = 1
	cfg.Transmission.SocialDistancing = false
	cfg.Distancing.EnableAfterConfirmed = false
	return cfg
}
