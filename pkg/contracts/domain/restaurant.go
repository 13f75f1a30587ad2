package domain

import (
	"time"
)

// Restaurant is one cleaned row of the dataset
type Restaurant struct {
	RestaurantID            int64   `json:"restaurant_id" parquet:"restaurant_id" validate:"required,min=1"`
	RestaurantName          string  `json:"restaurant_name" parquet:"restaurant_name" validate:"required"`
	CountryCode             int     `json:"country_code" parquet:"country_code" validate:"required"`
	Country                 string  `json:"country" parquet:"country"`
	City                    string  `json:"city" parquet:"city" validate:"required"`
	Address                 string  `json:"address,omitempty" parquet:"address,optional"`
	Locality                string  `json:"locality,omitempty" parquet:"locality,optional"`
	Longitude               float64 `json:"longitude" parquet:"longitude" validate:"gte=-180,lte=180"`
	Latitude                float64 `json:"latitude" parquet:"latitude" validate:"gte=-90,lte=90"`
	Cuisines                string  `json:"cuisines" parquet:"cuisines" validate:"required"`
	AverageCostForTwo       int64   `json:"average_cost_for_two" parquet:"average_cost_for_two" validate:"min=0"`
	Currency                string  `json:"currency" parquet:"currency" validate:"required"`
	HasTableBooking         bool    `json:"has_table_booking" parquet:"has_table_booking"`
	HasOnlineDelivery       bool    `json:"has_online_delivery" parquet:"has_online_delivery"`
	IsDeliveringNow         bool    `json:"is_delivering_now" parquet:"is_delivering_now"`
	PriceRange              int     `json:"price_range" parquet:"price_range" validate:"min=0"`
	PriceType               string  `json:"price_type" parquet:"price_type"`
	AggregateRating         float64 `json:"aggregate_rating" parquet:"aggregate_rating" validate:"gte=0,lte=5"`
	RatingColor             string  `json:"rating_color" parquet:"rating_color" validate:"required"`
	ColorName               string  `json:"color_name" parquet:"color_name"`
	RatingText              string  `json:"rating_text" parquet:"rating_text"`
	Votes                   int64   `json:"votes" parquet:"votes" validate:"min=0"`
	DollarAverageCostForTwo float64 `json:"dollar_average_cost_for_two" parquet:"dollar_average_cost_for_two"`
}

// CleaningStats describes what the cleaning pipeline did to a dataset
type CleaningStats struct {
	Source             string        `json:"source"`
	RowsRead           int           `json:"rows_read"`
	DuplicatesDropped  int           `json:"duplicates_dropped"`
	NullRowsDropped    int           `json:"null_rows_dropped"`
	UnknownKeysDropped int           `json:"unknown_keys_dropped"`
	InvalidRowsDropped int           `json:"invalid_rows_dropped"`
	OverCostDropped    int           `json:"over_cost_dropped"`
	RowsKept           int           `json:"rows_kept"`
	Duration           time.Duration `json:"duration"`
	LoadedAt           time.Time     `json:"loaded_at"`
}

// Dropped returns the total number of rows removed by cleaning
func (s CleaningStats) Dropped() int {
	return s.DuplicatesDropped + s.NullRowsDropped + s.UnknownKeysDropped + s.InvalidRowsDropped + s.OverCostDropped
}
