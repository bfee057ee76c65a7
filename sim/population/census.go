package population

import (
	"math/rand"

	"github.com/epinet-sim/epinet/sim"
)

// AgeBracket is one row of a census age table: resident counts (in
// thousands) per sex for ages Min through Max inclusive.
type AgeBracket struct {
	Min, Max     int
	Male, Female float64
}

// CensusAgeTable is the 2018 US resident population estimate by sex and
// five-year age group.
var CensusAgeTable = []AgeBracket{
	{0, 4, 10132, 9687},
	{5, 9, 10334, 9894},
	{10, 14, 10681, 10215},
	{15, 19, 10743, 10264},
	{20, 24, 11160, 10704},
	{25, 29, 11906, 11494},
	{30, 34, 11117, 10907},
	{35, 39, 10783, 10787},
	{40, 44, 9908, 10003},
	{45, 49, 10264, 10466},
	{50, 54, 10423, 10747},
	{55, 59, 10681, 11248},
	{60, 64, 9862, 10573},
	{65, 69, 8223, 9134},
	{70, 74, 6523, 7534},
	{75, 79, 4395, 5305},
	{80, 84, 2797, 3773},
	{85, 99, 2476, 4292},
}

// demographics samples (age, sex) pairs: one bracket draw over the joint
// sex-by-bracket table, then a uniform age within the bracket.
type demographics struct {
	table []AgeBracket
	joint *sim.DiscreteDistribution // index: 2*bracket + sex (0 male, 1 female)
}

func newDemographics(table []AgeBracket) *demographics {
	values := make([]int, 0, 2*len(table))
	weights := make([]float64, 0, 2*len(table))
	for i, b := range table {
		values = append(values, 2*i, 2*i+1)
		weights = append(weights, b.Male, b.Female)
	}
	return &demographics{table: table, joint: sim.NewDiscreteDistribution(values, weights)}
}

func (d *demographics) sample(rng *rand.Rand) (int, sim.Sex) {
	idx := d.joint.Sample(rng)
	b := d.table[idx/2]
	sex := sim.SexMale
	if idx%2 == 1 {
		sex = sim.SexFemale
	}
	return b.Min + rng.Intn(b.Max-b.Min+1), sex
}
