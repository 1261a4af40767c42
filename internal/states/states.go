// Package states normalizes free-text US state input into canonical
// two-letter USPS codes, with best-effort suggestions for near misses.
package states

// Entry pairs a canonical two-letter code with its full name.
type Entry struct {
	Code string
	Name string
}

// entries lists the 50 states, DC and the 5 territories. Order is fixed so
// that first-match suggestion scans are deterministic.
var entries = []Entry{
	{"AL", "Alabama"}, {"AK", "Alaska"}, {"AZ", "Arizona"}, {"AR", "Arkansas"},
	{"CA", "California"}, {"CO", "Colorado"}, {"CT", "Connecticut"},
	{"DE", "Delaware"}, {"FL", "Florida"}, {"GA", "Georgia"},
	{"HI", "Hawaii"}, {"ID", "Idaho"}, {"IL", "Illinois"}, {"IN", "Indiana"},
	{"IA", "Iowa"}, {"KS", "Kansas"}, {"KY", "Kentucky"}, {"LA", "Louisiana"},
	{"ME", "Maine"}, {"MD", "Maryland"}, {"MA", "Massachusetts"},
	{"MI", "Michigan"}, {"MN", "Minnesota"}, {"MS", "Mississippi"},
	{"MO", "Missouri"}, {"MT", "Montana"}, {"NE", "Nebraska"},
	{"NV", "Nevada"}, {"NH", "New Hampshire"}, {"NJ", "New Jersey"},
	{"NM", "New Mexico"}, {"NY", "New York"}, {"NC", "North Carolina"},
	{"ND", "North Dakota"}, {"OH", "Ohio"}, {"OK", "Oklahoma"},
	{"OR", "Oregon"}, {"PA", "Pennsylvania"}, {"RI", "Rhode Island"},
	{"SC", "South Carolina"}, {"SD", "South Dakota"}, {"TN", "Tennessee"},
	{"TX", "Texas"}, {"UT", "Utah"}, {"VT", "Vermont"}, {"VA", "Virginia"},
	{"WA", "Washington"}, {"WV", "West Virginia"}, {"WI", "Wisconsin"},
	{"WY", "Wyoming"},

	// Territories and districts.
	{"DC", "District of Columbia"}, {"PR", "Puerto Rico"},
	{"VI", "US Virgin Islands"}, {"AS", "American Samoa"},
	{"GU", "Guam"}, {"MP", "Northern Mariana Islands"},
}

// alias maps a common variation or misspelling to a canonical code.
type alias struct {
	Variant string
	Code    string
}

// aliases covers misspellings, spaced/punctuated abbreviations and full-name
// variants users actually type. Order fixed for the same reason as entries.
var aliases = []alias{
	{"CALIF", "CA"}, {"CALI", "CA"}, {"CALIFORNIA", "CA"},
	{"TEXAS", "TX"}, {"TEX", "TX"},
	{"FLORIDA", "FL"}, {"FLA", "FL"},
	{"NEW YORK", "NY"}, {"NEWYORK", "NY"}, {"NY STATE", "NY"},
	{"PENNSYLVANIA", "PA"}, {"PENN", "PA"},
	{"MASSACHUSETTS", "MA"}, {"MASS", "MA"},
	{"NORTH CAROLINA", "NC"}, {"N CAROLINA", "NC"}, {"N.C.", "NC"},
	{"SOUTH CAROLINA", "SC"}, {"S CAROLINA", "SC"}, {"S.C.", "SC"},
	{"NEW JERSEY", "NJ"}, {"N JERSEY", "NJ"}, {"N.J.", "NJ"},
	{"NEW HAMPSHIRE", "NH"}, {"N HAMPSHIRE", "NH"}, {"N.H.", "NH"},
	{"NEW MEXICO", "NM"}, {"N MEXICO", "NM"}, {"N.M.", "NM"},
	{"WEST VIRGINIA", "WV"}, {"W VIRGINIA", "WV"}, {"W.V.", "WV"},
	{"NORTH DAKOTA", "ND"}, {"N DAKOTA", "ND"}, {"N.D.", "ND"},
	{"SOUTH DAKOTA", "SD"}, {"S DAKOTA", "SD"}, {"S.D.", "SD"},
	{"WASHINGTON", "WA"}, {"WASH", "WA"},
	{"DISTRICT OF COLUMBIA", "DC"}, {"D.C.", "DC"}, {"WASHINGTON DC", "DC"},
	{"PUERTO RICO", "PR"},
}

// byCode is derived from entries at init for O(1) code lookups.
var byCode = func() map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Code] = e.Name
	}
	return m
}()
