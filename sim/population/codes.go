package population

import "github.com/epinet-sim/epinet/sim"

// purposeActivity maps NHTS trip purpose codes (WHYTO) onto anchor activity
// types. Purposes not listed here are "other".
var purposeActivity = map[int]sim.ActivityType{
	1:  sim.ActivityHome, // home
	2:  sim.ActivityHome, // paid work from home
	3:  sim.ActivityWork, // work
	4:  sim.ActivityWork, // work trip/meeting
	8:  sim.ActivitySchool,
	11: sim.ActivityShop, // buy goods
	12: sim.ActivityShop, // buy services
}

// NHTS trip purpose codes used by the schedule templates.
const (
	PurposeHome       = 1
	PurposeWork       = 3
	PurposeVolunteer  = 5
	PurposeSchool     = 8
	PurposeChildCare  = 9
	PurposeBuyGoods   = 11
	PurposeBuyService = 12
	PurposeRecreation = 15
)

// ActivityTypeForPurpose returns the activity type of an NHTS trip purpose code.
func ActivityTypeForPurpose(code int) sim.ActivityType {
	if t, ok := purposeActivity[code]; ok {
		return t
	}
	return sim.ActivityOther
}

// CategoryForActivity returns the location category an activity type takes place at.
func CategoryForActivity(t sim.ActivityType) sim.LocationCategory {
	switch t {
	case sim.ActivityHome:
		return sim.CategoryHome
	case sim.ActivityWork:
		return sim.CategoryWork
	case sim.ActivitySchool:
		return sim.CategorySchool
	case sim.ActivityShop:
		return sim.CategoryShop
	default:
		return sim.CategoryOther
	}
}

// Gaston County parcel use codes.
var (
	homeParcels = codeSet(
		"1010", "1020", "1030", "1040", "1050",
		"1060", "1070", "1080", "1130", "2007")
	schoolParcels   = codeSet("4020")
	shoppingParcels = codeSet("2020", "2030", "2040", "2110")
	workParcels     = codeSet(
		"2000", "2010", "2020", "2030", "2040",
		"2050", "2060", "2070", "2090", "2110",
		"2120", "2130", "2140", "2150", "2160",
		"2170", "2180", "2190", "2200", "2210",
		"2230", "2240", "2270", "2280", "3000",
		"3001", "3002", "3003", "3005", "3006",
		"3010", "3020", "3030", "3040", "3050",
		"4010", "4015", "4020", "4040", "4050",
		"4080", "4090")
)

func codeSet(codes ...string) map[string]bool {
	m := make(map[string]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}

// CategoryForParcelUse classifies a county parcel use code. A code listed
// under several uses resolves in the order school, shop, home, work.
func CategoryForParcelUse(code string) sim.LocationCategory {
	switch {
	case schoolParcels[code]:
		return sim.CategorySchool
	case shoppingParcels[code]:
		return sim.CategoryShop
	case homeParcels[code]:
		return sim.CategoryHome
	case workParcels[code]:
		return sim.CategoryWork
	default:
		return sim.CategoryOther
	}
}
