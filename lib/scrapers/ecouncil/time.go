package ecouncil

import "time"

// lodgement dates on the portal omit the leading zero of the day but always
// print a two digit month and a four digit year
const lodgementDateLayout = "2/01/2006"

// ParseLodgementDate parses a lodgement date string as printed by the
// portal. Anything that is not a real calendar date in exactly that shape
// (including surrounding garbage) reports ok=false; callers are expected to
// treat the date as unknown rather than fail the record.
func ParseLodgementDate(raw string) (time.Time, bool) {
	t, err := time.Parse(lodgementDateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
