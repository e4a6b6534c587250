// Package schema defines the canonical column vocabulary for subway
// system tables and the header normalization that maps real-world
// spreadsheet headers onto it.
package schema

// Canonical column names of the cleaned table.
const (
	ColSystemID        = "SYSTEM_ID"
	ColCity            = "CITY"
	ColCountry         = "COUNTRY"
	ColSystemName      = "SYSTEM_NAME"
	ColOpenedYear      = "OPENED_YEAR"
	ColNumberOfLines   = "NUMBER_OF_LINES"
	ColTotalMiles      = "TOTAL_MILES"
	ColAnnualRidership = "ANNUAL_RIDERSHIP"
	ColCityPopulation  = "CITY_POPULATION"
	ColVisited         = "VISITED"
	ColLastMajorUpdate = "LAST_MAJOR_UPDATE"
	ColStations        = "STATIONS"
	ColLatitude        = "LATITUDE"
	ColLongitude       = "LONGITUDE"
)

// SequenceHeader is the raw source header used to mark real data rows.
// Rows without a numeric value in it are section headers or notes and are
// filtered before any cleaning.
const SequenceHeader = "Sequence"

// RequiredColumns must be present (or derivable, for SYSTEM_ID) after
// header mapping. CITY and COUNTRY have no fallback; their absence is
// fatal.
var RequiredColumns = []string{ColSystemID, ColCity, ColCountry}

// mapping is an ordered canonical-name → accepted-variants entry. Variant
// order matters: only the first variant present in a given sheet maps,
// mirroring how mixed-era sheets carry both an old and a new header.
type mapping struct {
	Canonical string
	Variants  []string
}

// columnMappings lists the accepted header spellings per canonical
// column. The odd spacing in some variants is literal; it is how those
// headers appear in the source spreadsheets.
var columnMappings = []mapping{
	{ColCity, []string{"CITY", "City"}},
	{ColCountry, []string{"COUNTRY", "Country"}},
	{ColSystemID, []string{"SYSTEM_ID", "Sequence"}},
	{ColSystemName, []string{"SYSTEM_NAME", "Name"}},
	{ColOpenedYear, []string{"OPENED_YEAR"}},
	{ColNumberOfLines, []string{"NUMBER_OF_LINES", "Lines"}},
	{ColTotalMiles, []string{"TOTAL_MILES", "System length   miles"}},
	{ColAnnualRidership, []string{"ANNUAL_RIDERSHIP", "Annual Ridership"}},
	{ColCityPopulation, []string{"CITY_POPULATION"}},
	{ColVisited, []string{"VISITED", "Ridden?"}},
	{ColLastMajorUpdate, []string{"LAST_MAJOR_UPDATE", "Year of last expansion"}},
	{ColStations, []string{"Stations"}},
	{ColLatitude, []string{"LATITUDE"}},
	{ColLongitude, []string{"LONGITUDE"}},
}

// ignoreColumns are headers excluded from fallback normalization. They
// stay in the table under their original names but never claim a
// canonical slot.
var ignoreColumns = map[string]bool{
	"City":                          true, // CITY is the canonical spelling
	"Year when First Ridden":        true,
	"Continent":                     true,
	"Year opened (General Format)":  true,
	"Year opened     (date order)":  true,
	"System length  km":             true, // miles column is preferred
	"Year of ridership data ":       true,
	"Visited but subway not ridden": true,
	"Logo":                          true,
	"Pre-1985?":                     true,
}

// NumericColumns are the canonical columns coerced to numbers by the
// pipeline, in coercion order.
var NumericColumns = []string{
	ColOpenedYear, ColNumberOfLines, ColTotalMiles,
	ColAnnualRidership, ColCityPopulation, ColStations,
	ColLastMajorUpdate, ColLatitude, ColLongitude,
}

// IsIgnored reports whether a raw header is on the ignore list.
func IsIgnored(header string) bool {
	return ignoreColumns[header]
}
