package utils

import (
	"time"
)

// SLST is Sri Lanka Standard Time (UTC+5:30).
var SLST *time.Location

func init() {
	var err error
	SLST, err = time.LoadLocation("Asia/Colombo")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		SLST = time.FixedZone("SLST", 5*60*60+30*60)
	}
}

// NowSLST returns the current time in Sri Lanka.
func NowSLST() time.Time {
	return time.Now().In(SLST)
}

// FormatDateTime formats a time.Time to "2006-01-02 15:04:05 SLST".
func FormatDateTime(t time.Time) string {
	return t.In(SLST).Format("2006-01-02 15:04:05") + " SLST"
}
