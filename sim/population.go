// Defines the data consumed from the activity schedule and location providers:
// people with demographics and one representative day of activities, and the
// set of locations those activities take place at.

package sim

import (
	"errors"
	"fmt"
)

// AgentID identifies a person across the provider and the engine.
type AgentID string

// LocationID identifies a physical location.
type LocationID string

// Sex is the two-valued demographic attribute used by the mortality model.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityType is the purpose of an activity, using the anchor activity letters
// of the travel survey: H (home), W (work), C (school), S (shop), O (other).
type ActivityType string

const (
	ActivityHome   ActivityType = "H"
	ActivityWork   ActivityType = "W"
	ActivitySchool ActivityType = "C"
	ActivityShop   ActivityType = "S"
	ActivityOther  ActivityType = "O"
)

// ActivityTypes lists every activity type in a stable order.
var ActivityTypes = []ActivityType{ActivityHome, ActivityWork, ActivitySchool, ActivityShop, ActivityOther}

// LocationCategory classifies a location.
type LocationCategory string

const (
	CategoryHome   LocationCategory = "home"
	CategoryWork   LocationCategory = "work"
	CategorySchool LocationCategory = "school"
	CategoryShop   LocationCategory = "shop"
	CategoryOther  LocationCategory = "other"
)

// Valid value registries.
var (
	validSexes = map[Sex]bool{SexMale: true, SexFemale: true}

	validActivityTypes = map[ActivityType]bool{
		ActivityHome: true, ActivityWork: true, ActivitySchool: true, ActivityShop: true, ActivityOther: true,
	}

	validCategories = map[LocationCategory]bool{
		CategoryHome: true, CategoryWork: true, CategorySchool: true, CategoryShop: true, CategoryOther: true,
	}
)

// IsValidActivityType returns true if t is one of the five anchor activity types.
func IsValidActivityType(t ActivityType) bool {
	return validActivityTypes[t]
}

// ErrInvalidPopulation is wrapped by every data contract violation reported by
// Population.Validate.
var ErrInvalidPopulation = errors.New("invalid population")

// Coordinates is an optional geographic position; the engine never reads it.
type Coordinates struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Location is immutable for the duration of a run.
type Location struct {
	ID       LocationID       `yaml:"id"`
	Category LocationCategory `yaml:"category"`
	Coords   *Coordinates     `yaml:"coords,omitempty"`
}

// Activity is one (start, end, location, type) interval of a person's day.
// Start and End are clock values in [0, 2399]; End < Start crosses midnight.
type Activity struct {
	Start    int          `yaml:"start"`
	End      int          `yaml:"end"`
	Location LocationID   `yaml:"location"`
	Type     ActivityType `yaml:"type"`
}

// Person carries the static demographics and daily schedule of one agent.
type Person struct {
	ID         AgentID    `yaml:"id"`
	Age        int        `yaml:"age"`
	Sex        Sex        `yaml:"sex"`
	Activities []Activity `yaml:"activities"`
}

// Population is everything the engine consumes from its data providers.
type Population struct {
	Locations []Location `yaml:"locations"`
	People    []Person   `yaml:"people"`
}

// Validate checks the data contract and reports every violation at once,
// joined into a single error wrapping ErrInvalidPopulation.
func (p *Population) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidPopulation, fmt.Sprintf(format, args...)))
	}

	if p == nil || len(p.People) == 0 {
		return fmt.Errorf("%w: population is empty", ErrInvalidPopulation)
	}

	locations := make(map[LocationID]bool, len(p.Locations))
	for i, loc := range p.Locations {
		if loc.ID == "" {
			add("location[%d]: empty id", i)
			continue
		}
		if locations[loc.ID] {
			add("location %q: duplicate id", loc.ID)
		}
		locations[loc.ID] = true
		if !validCategories[loc.Category] {
			add("location %q: unknown category %q", loc.ID, loc.Category)
		}
	}

	people := make(map[AgentID]bool, len(p.People))
	for i, person := range p.People {
		if person.ID == "" {
			add("person[%d]: empty id", i)
		} else if people[person.ID] {
			add("person %q: duplicate id", person.ID)
		}
		people[person.ID] = true
		if person.Age < 0 {
			add("person %q: negative age %d", person.ID, person.Age)
		}
		if !validSexes[person.Sex] {
			add("person %q: unknown sex %q", person.ID, person.Sex)
		}
		for j, act := range person.Activities {
			if !locations[act.Location] {
				add("person %q activity %d: unknown location %q", person.ID, j, act.Location)
			}
			if !IsValidActivityType(act.Type) {
				add("person %q activity %d: unknown activity type %q", person.ID, j, act.Type)
			}
			if !validClock(act.Start) || !validClock(act.End) {
				add("person %q activity %d: window [%d,%d) outside [0,%d]", person.ID, j, act.Start, act.End, MinutesPerDay-1)
			}
		}
	}

	return errors.Join(errs...)
}
