package workflow

import "github.com/dyike/ScoutGo/internal/models"

// Keywords appended to the original set when the first research pass came
// back too thin.
var secondPassKeywords = []string{"CEO", "headcount", "headquarters", "founded"}

// NeedsSecondSearch decides whether a more targeted research pass is
// warranted. It tracks four completeness signals on the company overview and
// fires only when a majority (3 of 4) are missing; at most one retry ever
// runs.
func NeedsSecondSearch(co models.CompanyOverview) bool {
	missing := 0
	if models.IsUnknown(co.Description) {
		missing++
	}
	if models.IsUnknown(co.Founded) {
		missing++
	}
	if models.IsUnknown(co.HQLocation) {
		missing++
	}
	if len(co.Executives) == 0 {
		missing++
	}
	return missing >= 3
}
