// Package analytics builds the dashboard reports from cleaned restaurants.
//
// Every function is pure over a []domain.Restaurant. Rankings sort by value
// descending with the name ascending as tiebreak, and their Position fields
// start at 1. Distinct restaurants are counted by restaurant ID. Means are
// computed with gota data frames and rounded half away from zero.
package analytics
