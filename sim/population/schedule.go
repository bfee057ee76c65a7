package population

import (
	"math/rand"

	"github.com/epinet-sim/epinet/sim"
)

// trip is one leg of a travel-survey day: departure and arrival clock values
// and the purpose at the destination.
type trip struct {
	depart, arrive int
	purpose        int
}

// template is a daily trip chain. Each trip ends in an activity lasting until
// the next departure; the last activity wraps around to the first departure.
type template struct {
	name  string
	trips []trip
}

var (
	workerTemplate = template{"worker", []trip{
		{730, 800, PurposeWork},
		{1700, 1720, PurposeBuyGoods},
		{1800, 1815, PurposeHome},
	}}
	studentTemplate = template{"student", []trip{
		{720, 745, PurposeSchool},
		{1500, 1525, PurposeHome},
		{1600, 1610, PurposeRecreation},
		{1730, 1740, PurposeHome},
	}}
	preschoolTemplate = template{"preschool", []trip{
		{800, 815, PurposeChildCare},
		{1600, 1615, PurposeHome},
	}}
	homeTemplate = template{"home", []trip{
		{1000, 1020, PurposeBuyService},
		{1130, 1150, PurposeHome},
		{1400, 1420, PurposeVolunteer},
		{1600, 1620, PurposeHome},
	}}
	retireeTemplate = template{"retiree", []trip{
		{930, 945, PurposeBuyGoods},
		{1100, 1110, PurposeHome},
		{1500, 1520, PurposeRecreation},
		{1700, 1720, PurposeHome},
	}}
)

// chooseTemplate picks a daily schedule by age and employment.
func chooseTemplate(age int, employmentRate float64, rng *rand.Rand) template {
	switch {
	case age < 5:
		return preschoolTemplate
	case age < 18:
		return studentTemplate
	case age < 65:
		if rng.Float64() < employmentRate {
			return workerTemplate
		}
		return homeTemplate
	default:
		return retireeTemplate
	}
}

// activities turns the trip chain into located activities, shifted by shift
// clock ticks. Home activities use home; every other activity draws a
// location uniformly among those of its category.
func (t template) activities(shift int, home sim.LocationID, byCategory map[sim.LocationCategory][]sim.LocationID, rng *rand.Rand) []sim.Activity {
	out := make([]sim.Activity, 0, len(t.trips))
	for i, tr := range t.trips {
		next := t.trips[(i+1)%len(t.trips)]
		typ := ActivityTypeForPurpose(tr.purpose)
		loc := home
		if typ != sim.ActivityHome {
			candidates := byCategory[CategoryForActivity(typ)]
			loc = candidates[rng.Intn(len(candidates))]
		}
		out = append(out, sim.Activity{
			Start:    wrapClock(tr.arrive + shift),
			End:      wrapClock(next.depart + shift),
			Location: loc,
			Type:     typ,
		})
	}
	return out
}

func wrapClock(t int) int {
	return ((t % sim.MinutesPerDay) + sim.MinutesPerDay) % sim.MinutesPerDay
}
