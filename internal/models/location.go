package models

// LocationOther is used for users outside the U.S. and for replies whose
// author has no location on file.
const LocationOther = "other"

// Locations lists every accepted Profile.Location value.
var Locations = []string{
	"alabama", "alaska", "arizona", "arkansas", "california",
	"colorado", "connecticut", "delaware", "florida", "georgia",
	"hawaii", "idaho", "illinois", "indiana", "iowa",
	"kansas", "kentucky", "louisiana", "maine", "maryland",
	"massachusetts", "michigan", "minnesota", "mississippi", "missouri",
	"montana", "nebraska", "nevada", "new hampshire", "new jersey",
	"new mexico", "new york", "north carolina", "north dakota", "ohio",
	"oklahoma", "oregon", "pennsylvania", "rhode island", "south carolina",
	"south dakota", "tennessee", "texas", "utah", "vermont",
	"virginia", "washington", "west virginia", "wisconsin", "wyoming",
	LocationOther,
}

var locationSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Locations))
	for _, l := range Locations {
		set[l] = struct{}{}
	}
	return set
}()

// IsValidLocation reports whether location may be stored on a Profile.
// The empty string means "not provided" and is accepted.
func IsValidLocation(location string) bool {
	if location == "" {
		return true
	}
	_, ok := locationSet[location]
	return ok
}

// BucketLocation returns the grouping key used by location results
func BucketLocation(location string) string {
	if location == "" {
		return LocationOther
	}
	return location
}
