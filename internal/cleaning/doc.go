// Package cleaning converts the raw dataset into typed restaurants.
//
// The lookup tables (country, price tier, rating color, rating text and
// USD multiplier) are fixed. In strict mode an unknown key fails the run
// with an error naming the line and column; with Options.SkipUnknown the
// row is dropped and counted in the CleaningStats instead.
package cleaning
