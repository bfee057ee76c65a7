package sim

import (
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// PotentialInteraction is a structurally possible contact: two agents present
// at the same location with overlapping activity windows. A is the origin
// agent, whose activity purpose labels the interaction.
type PotentialInteraction struct {
	A, B     int // agent indices into ContactGraph.Agents
	Location LocationID
	Overlap  Overlap
	Type     ActivityType
}

// visit is one person–location edge of the bipartite activity graph.
type visit struct {
	agent    int
	activity Activity
}

// ContactGraph is the immutable result of joining people to locations through
// their activities and deriving every potential interaction from it.
type ContactGraph struct {
	Agents       []AgentID              // agent index -> id, in population order
	Interactions []PotentialInteraction // deterministic order: location id, then origin agent

	agentIndex map[AgentID]int
	visits     map[LocationID][]visit
	categories map[LocationID]LocationCategory
}

// BuildContactGraph validates the population and derives its potential
// interactions. Rebuilding from identical input yields an identical graph.
func BuildContactGraph(pop *Population) (*ContactGraph, error) {
	if err := pop.Validate(); err != nil {
		return nil, err
	}

	g := &ContactGraph{
		Agents:     make([]AgentID, len(pop.People)),
		agentIndex: make(map[AgentID]int, len(pop.People)),
		visits:     make(map[LocationID][]visit),
		categories: make(map[LocationID]LocationCategory, len(pop.Locations)),
	}
	for _, loc := range pop.Locations {
		g.categories[loc.ID] = loc.Category
	}
	for i, p := range pop.People {
		g.Agents[i] = p.ID
		g.agentIndex[p.ID] = i
		for _, act := range p.Activities {
			g.visits[act.Location] = append(g.visits[act.Location], visit{agent: i, activity: act})
		}
	}

	locIDs := make([]LocationID, 0, len(g.visits))
	for id := range g.visits {
		locIDs = append(locIDs, id)
	}
	sort.Slice(locIDs, func(i, j int) bool { return locIDs[i] < locIDs[j] })

	for _, loc := range locIDs {
		g.Interactions = append(g.Interactions, pairInteractions(loc, g.visits[loc])...)
	}

	logrus.Infof("Contact graph: %d agents, %d locations, %d potential interactions",
		len(g.Agents), len(locIDs), len(g.Interactions))
	return g, nil
}

// pairInteractions emits one potential interaction per unordered pair of
// agents at a location whose windows overlap. When a pair shares several
// windows at the same location, their overlaps are merged.
func pairInteractions(loc LocationID, visits []visit) []PotentialInteraction {
	// group by agent, keeping first-appearance order
	var order []int
	byAgent := make(map[int][]Activity)
	for _, v := range visits {
		if _, ok := byAgent[v.agent]; !ok {
			order = append(order, v.agent)
		}
		byAgent[v.agent] = append(byAgent[v.agent], v.activity)
	}

	var out []PotentialInteraction
	for i := 0; i < len(order); i++ {
		a := order[i]
		for j := i + 1; j < len(order); j++ {
			b := order[j]
			var overlap Overlap
			var typ ActivityType
			for _, ea := range byAgent[a] {
				for _, eb := range byAgent[b] {
					ov := CalculateOverlap(ea, eb)
					if ov.Empty() {
						continue
					}
					if typ == "" {
						typ = ea.Type
					}
					overlap = overlap.Union(ov)
				}
			}
			if overlap.Empty() {
				continue
			}
			out = append(out, PotentialInteraction{A: a, B: b, Location: loc, Overlap: overlap, Type: typ})
		}
	}
	return out
}

// Index returns the agent index of id.
func (g *ContactGraph) Index(id AgentID) (int, bool) {
	i, ok := g.agentIndex[id]
	return i, ok
}

// Occupancy returns the number of distinct agents visiting a location.
func (g *ContactGraph) Occupancy(loc LocationID) int {
	seen := make(map[int]bool)
	for _, v := range g.visits[loc] {
		seen[v.agent] = true
	}
	return len(seen)
}

// GraphStats summarizes a contact graph.
type GraphStats struct {
	Agents                int
	Locations             int
	PotentialInteractions int
	ByType                map[ActivityType]int
	MeanOverlapMinutes    float64
	StdDevOverlapMinutes  float64
	BusiestLocation       LocationID
	BusiestOccupancy      int
	ByCategory            map[LocationCategory]int // potential interactions per location category
}

// Stats computes summary statistics over the graph.
func (g *ContactGraph) Stats() GraphStats {
	stats := GraphStats{
		Agents:                len(g.Agents),
		Locations:             len(g.visits),
		PotentialInteractions: len(g.Interactions),
		ByType:                make(map[ActivityType]int),
		ByCategory:            make(map[LocationCategory]int),
	}
	minutes := make([]float64, 0, len(g.Interactions))
	for _, pi := range g.Interactions {
		stats.ByType[pi.Type]++
		stats.ByCategory[g.categories[pi.Location]]++
		minutes = append(minutes, float64(pi.Overlap.Len()))
	}
	switch len(minutes) {
	case 0:
	case 1:
		stats.MeanOverlapMinutes = minutes[0]
	default:
		stats.MeanOverlapMinutes, stats.StdDevOverlapMinutes = stat.MeanStdDev(minutes, nil)
	}

	locIDs := make([]LocationID, 0, len(g.visits))
	for id := range g.visits {
		locIDs = append(locIDs, id)
	}
	sort.Slice(locIDs, func(i, j int) bool { return locIDs[i] < locIDs[j] })
	for _, id := range locIDs {
		if n := g.Occupancy(id); n > stats.BusiestOccupancy {
			stats.BusiestLocation, stats.BusiestOccupancy = id, n
		}
	}
	return stats
}
