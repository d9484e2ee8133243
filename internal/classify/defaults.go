package classify

// DefaultExclusions is the list of chains and non-independent operators that
// are left out of the published views.
var DefaultExclusions = []string{
	"Target", "AMC Threatres", "Arby's", "Walmart", "Wal-Mart", "Hilton", "Kyoto",
	"Waffle House", "Barro's Pizza", "Clinic", "Living Center", "Hospice", "Children",
	"School", "Food City", "7-Eleven", "Sheraton Phoenix Airport Hotel", "Fitness",
	"Cold Stone", "Chipotle Mexican Grill", "Papa Johns", "Five Guys Burgers",
	"Albertson's", "Senior Living", "Assisted Living", "McDonald's", "Church",
	"El Sabroso Hot-Dog", "Cafe", "Coffee", "Safeway", "Edible Arrangements",
	"ATL Wings", "Del Taco", "Wienerschnitzel", "Resort", "Club", "Whataburger",
	"Streets", "American Legion", "Wingstop", "Jamba Juice", "Marriott",
	"Pizza Patron", "Carl's Jr", "Church's Chicken", "Canyon", "Applebees", "Arco",
	"Sonic Drive", "Pizza Hut", "Raising Canes", "Little Caesars", "Aldo's", "Frys",
	"Denny's", "QuikTrip", "Dickey's", "AFC Sushi", "Jersey Mike's", "Snow Fox",
	"Dunkin", "Chick-fil-A", "Popeyes", "Domino's", "El Pollo Loco",
	"Pilot Travel Center", "SnowFox", "Peter Piper", "Wendy's", "Burger King",
	"Fry's", "Circle K", "Taco Bell", "Little Caesar's", "Panda Express",
	"Lucky Lou's", "Filibertos", "Filiberto's", "Bosa Donuts", "Starbucks",
	"Chipotle", "Golf", "Subway", "Outback Steakhouse", "Shell", "AJ's Fine Foods",
	"McDonalds", "Jimmy John", "Ice Cream", "Market", "Inn", "Suites", "LLC", "Deli",
	"College", "Farms", "Farm", "Express", "Panera Bread", "Senior",
}

// DefaultRegions are the city lists each region view is built from.
func DefaultRegions() []Region {
	return []Region{
		{Name: "Phoenix", View: "Phoenix", Cities: []string{"Phoenix"}},
		{Name: "Scottsdale", View: "Scottsdale", Cities: []string{"Scottsdale"}},
		{
			Name: "East Valley",
			View: "eastValley",
			Cities: []string{
				"Apache Junction", "Chandler", "Gilbert", "Mesa", "Queen Creek", "Tempe",
			},
		},
		{
			Name: "West Valley",
			View: "westValley",
			Cities: []string{
				"Goodyear", "Avondale", "Buckeye", "Tolleson",
				"Sun City", "Wickenburg", "Glendale", "Surprise",
			},
		},
	}
}

func DefaultParams() Params {
	return Params{
		PermitType: "Eating & Drinking",
		Exclusions: DefaultExclusions,
		Threshold:  3,
		TopGrade:   "A",
		StateCode:  "AZ",
		Regions:    DefaultRegions(),
	}
}
