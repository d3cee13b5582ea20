package ups

import "github.com/tournevent/ratebridge/pkg/shipper"

type serviceEntry struct {
	level shipper.ServiceLevel
	code  string
	name  string
}

var serviceTable = []serviceEntry{
	{level: shipper.ServiceGround, code: "03", name: "UPS Ground"},
	{level: shipper.ServiceTwoDayAir, code: "02", name: "UPS 2nd Day Air"},
	{level: shipper.ServiceNextDayAir, code: "01", name: "UPS Next Day Air"},
}

var (
	levelToCode = make(map[shipper.ServiceLevel]serviceEntry, len(serviceTable))
	codeToLevel = make(map[string]serviceEntry, len(serviceTable))
)

func init() {
	for _, e := range serviceTable {
		levelToCode[e.level] = e
		codeToLevel[e.code] = e
	}
}

// ServiceCode returns the UPS service code for a service level.
func ServiceCode(level shipper.ServiceLevel) (string, bool) {
	e, ok := levelToCode[level]
	return e.code, ok
}

// ServiceLevelOf resolves a UPS service code. Unknown codes are returned
// unchanged as the service level, with ok set to false.
func ServiceLevelOf(code string) (level shipper.ServiceLevel, ok bool) {
	if e, found := codeToLevel[code]; found {
		return e.level, true
	}
	return shipper.ServiceLevel(code), false
}

// ServiceName returns the UPS marketing name for a service level.
func ServiceName(level shipper.ServiceLevel) string {
	return levelToCode[level].name
}

// Levels returns the service levels UPS supports, in table order.
func Levels() []shipper.ServiceLevel {
	levels := make([]shipper.ServiceLevel, len(serviceTable))
	for i, e := range serviceTable {
		levels[i] = e.level
	}
	return levels
}
