package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Australia/Adelaide")
	if err != nil {
		panic(err)
	}
}

// force the timezone to be the council's because the servers running this
// may end up anywhere, which would throw off date window calculations
// based on <time.Time>.Year()/Month()/Day()
func Now() time.Time {
	return time.Now().In(Location)
}
