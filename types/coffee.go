package types

import "time"

// CoffeeRecord represents one logged coffee-intake event.
//
// Date and Timestamp are distinct and both authoritative: Date is the
// calendar day the cups count toward (user-selectable, never in the
// future), while Timestamp is the exact wall-clock moment of logging,
// used only for time-of-day analytics.
type CoffeeRecord struct {
	// ID is the unique identifier of the record.
	ID int `json:"id" db:"id"`

	// UserID identifies the owner. Only that user may delete the record.
	UserID int `json:"userId" db:"user_id"`

	// Date is the day bucket the entry counts toward.
	Date time.Time `json:"date" db:"date"`

	// Cups is the number of cups logged, always a positive integer.
	// Multiple records on the same day are additive.
	Cups int `json:"cups" db:"cups"`

	// Timestamp is the exact moment the entry was recorded.
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	// Optional metadata about the coffee itself.
	CoffeeType string `json:"coffeeType,omitempty" db:"coffee_type"`
	Size       string `json:"size,omitempty" db:"size"`
	Location   string `json:"location,omitempty" db:"location"`
	Notes      string `json:"notes,omitempty" db:"notes"`

	// CreatedAt is the timestamp when the row was inserted.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CoffeeSettings holds per-user consumption thresholds.
type CoffeeSettings struct {
	UserID             int       `json:"userId" db:"user_id"`
	DailyLimit         int       `json:"dailyLimit" db:"daily_limit"`
	WarningThreshold   int       `json:"warningThreshold" db:"warning_threshold"`
	MinIntervalMinutes int       `json:"minIntervalMinutes" db:"min_interval_minutes"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

// DailyTotal is the summed cup count for one day bucket.
type DailyTotal struct {
	Date  string `json:"date"`
	Cups  int    `json:"cups"`
	Count int    `json:"count"`
}

// HourlyCount is the cup count logged during one hour of the day,
// derived from record timestamps rather than day buckets.
type HourlyCount struct {
	Hour       int `json:"hour"`
	Cups       int `json:"cups"`
	Percentage int `json:"percentage"`
}

// WeekdayCount is the cup count per day of week (0 = Sunday), derived
// from day buckets.
type WeekdayCount struct {
	Weekday int `json:"weekday"`
	Cups    int `json:"cups"`
}

// MonthlyTotal is the summed cup count for one calendar month.
type MonthlyTotal struct {
	Month string `json:"month"`
	Cups  int    `json:"cups"`
}

// WeeklySummary describes the current week's consumption.
type WeeklySummary struct {
	TotalCups  int     `json:"totalCups"`
	AvgPerDay  float64 `json:"avgPerDay"`
	MaxInDay   int     `json:"maxInDay"`
	ActiveDays int     `json:"activeDays"`
}

// CoffeeStats is the aggregate payload consumed by charts.
type CoffeeStats struct {
	Daily   []DailyTotal   `json:"daily"`
	Hourly  []HourlyCount  `json:"hourly"`
	Weekday []WeekdayCount `json:"weekday"`
	Monthly []MonthlyTotal `json:"monthly"`
	Weekly  WeeklySummary  `json:"weekly"`
}

// CoffeeStatus reports limit and pacing checks for the current day.
type CoffeeStatus struct {
	TodayTotal       int     `json:"todayTotal"`
	DailyLimit       int     `json:"dailyLimit"`
	WarningThreshold int     `json:"warningThreshold"`
	IsOverLimit      bool    `json:"isOverLimit"`
	ShouldWarn       bool    `json:"shouldWarn"`
	RemainingCups    int     `json:"remainingCups"`
	HoursSinceLast   float64 `json:"hoursSinceLast"`
	CanDrink         bool    `json:"canDrink"`
}
