// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"slices"

	"campusvote/models"
)

// IsAllowed reports whether a voter passes an election's eligibility
// criteria. Pure: reads only the voter's own attributes.
//
// Each dimension passes when its filter is empty or the voter matches it.
// The sport dimension only bites when SPORT is both required by the
// activity filter and present on the voter AND a sport filter is set;
// an empty sport filter means no restriction even then.
func IsAllowed(voter models.Voter, criteria models.Criteria) bool {
	classAllowed := len(criteria.Classes) == 0 ||
		slices.Contains(criteria.Classes, voter.ClassYear)

	programAllowed := len(criteria.Programs) == 0 ||
		slices.Contains(criteria.Programs, voter.Program)

	activityAllowed := len(criteria.Activities) == 0 ||
		intersects(voter.Activities, criteria.Activities)

	sportAllowed := true
	if slices.Contains(criteria.Activities, models.ActivitySport) &&
		len(criteria.SportTypes) > 0 &&
		slices.Contains(voter.Activities, models.ActivitySport) {
		sportAllowed = voter.SportType != nil &&
			slices.Contains(criteria.SportTypes, *voter.SportType)
	}

	return classAllowed && programAllowed && activityAllowed && sportAllowed
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}

// ValidateCriteria checks every filter value against the closed enums.
// Criteria is validated once here, at the boundary, and trusted downstream.
func ValidateCriteria(c models.Criteria) error {
	for _, class := range c.Classes {
		if !models.ValidClassYear(class) {
			return Errf(KindValidation, "unknown class year in criteria")
		}
	}
	for _, program := range c.Programs {
		if !models.ValidProgram(program) {
			return Errf(KindValidation, "unknown program in criteria: "+program)
		}
	}
	for _, activity := range c.Activities {
		if !models.ValidActivity(activity) {
			return Errf(KindValidation, "unknown activity in criteria: "+activity)
		}
	}
	for _, sport := range c.SportTypes {
		if !models.ValidSportType(sport) {
			return Errf(KindValidation, "unknown sport type in criteria: "+sport)
		}
	}
	return nil
}
