/*
Package profile turns a verified share payload into the normalized profile
view returned to viewers, applying the anonymity redaction policy and the
account-age formatting along the way.
*/
package profile

import (
	"fmt"
	"time"
)

// AccountAge renders the time between account creation and now as a natural
// language string: whole calendar years with remaining whole months
// ("2 years, 3 months"), months alone under a year ("5 months"), and days
// for accounts younger than a month. Brand-new accounts render as "1 day"
// rather than "0 days". Pure function of its two arguments.
func AccountAge(created, now time.Time) string {
	diffYears := now.Year() - created.Year()
	diffMonths := int(now.Month()) - int(created.Month())

	if diffYears > 0 {
		age := fmt.Sprintf("%d year%s", diffYears, plural(diffYears))
		if diffMonths > 0 {
			age += fmt.Sprintf(", %d month%s", diffMonths, plural(diffMonths))
		}
		return age
	}

	if diffMonths > 0 {
		return fmt.Sprintf("%d month%s", diffMonths, plural(diffMonths))
	}

	diffDays := int(now.Sub(created).Hours() / 24)
	if diffDays < 1 {
		diffDays = 1
	}
	return fmt.Sprintf("%d day%s", diffDays, plural(diffDays))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
