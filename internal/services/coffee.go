package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/coffeelog/apiserver/internal/store"
	"github.com/coffeelog/apiserver/types"
)

const (
	recentRecordsLimit = 30
	defaultStatsDays   = 30
	maxStatsDays       = 365

	defaultDailyLimit         = 4
	defaultWarningThreshold   = 3
	defaultMinIntervalMinutes = 240
)

// CoffeeRepository defines persistence operations for coffee records
// and settings.
type CoffeeRepository interface {
	Create(ctx context.Context, record types.CoffeeRecord) (types.CoffeeRecord, error)
	ListMonth(ctx context.Context, userID int, from, to time.Time) ([]types.CoffeeRecord, error)
	ListRecent(ctx context.Context, userID, limit int) ([]types.CoffeeRecord, error)
	ListSince(ctx context.Context, userID int, since time.Time) ([]types.CoffeeRecord, error)
	DeleteOwned(ctx context.Context, id, userID int) error
	SumForDate(ctx context.Context, userID int, date time.Time) (int, error)
	Latest(ctx context.Context, userID int) (types.CoffeeRecord, error)
	GetSettings(ctx context.Context, userID int) (types.CoffeeSettings, error)
	UpsertSettings(ctx context.Context, settings types.CoffeeSettings) (types.CoffeeSettings, error)
}

// CoffeeService encapsulates coffee-record use-cases.
type CoffeeService struct {
	repo CoffeeRepository
	now  func() time.Time
}

func NewCoffeeService(repo CoffeeRepository) *CoffeeService {
	return &CoffeeService{
		repo: repo,
		now:  time.Now,
	}
}

// AddRecordParams carries the fields of a new coffee record. Date is
// the day bucket the cups count toward; Timestamp is the exact logging
// moment and defaults to now.
type AddRecordParams struct {
	Date       time.Time
	Cups       int
	Timestamp  time.Time
	CoffeeType string
	Size       string
	Location   string
	Notes      string
}

// Add stores a coffee record. Cups must be positive and the day bucket
// must not be after the current day. Records on the same day accumulate;
// nothing is overwritten.
func (s *CoffeeService) Add(ctx context.Context, userID int, params AddRecordParams) (types.CoffeeRecord, error) {
	if params.Cups < 1 {
		return types.CoffeeRecord{}, ErrInvalidCups
	}

	date := dayOf(params.Date)
	if date.After(dayOf(s.now())) {
		return types.CoffeeRecord{}, ErrFutureDate
	}

	timestamp := params.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	return s.repo.Create(ctx, types.CoffeeRecord{
		UserID:     userID,
		Date:       date,
		Cups:       params.Cups,
		Timestamp:  timestamp,
		CoffeeType: params.CoffeeType,
		Size:       params.Size,
		Location:   params.Location,
		Notes:      params.Notes,
	})
}

// Records returns the user's records for one calendar month
// ("YYYY-MM"), or the most recent 30 across all time when month is
// empty. Ordered by day bucket descending either way.
func (s *CoffeeService) Records(ctx context.Context, userID int, month string) ([]types.CoffeeRecord, error) {
	if month == "" {
		return s.repo.ListRecent(ctx, userID, recentRecordsLimit)
	}

	from, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	return s.repo.ListMonth(ctx, userID, from, from.AddDate(0, 1, 0))
}

// Delete removes a record the user owns. Missing and not-owned are both
// store.ErrNotFound; the caller cannot tell them apart.
func (s *CoffeeService) Delete(ctx context.Context, id, userID int) error {
	return s.repo.DeleteOwned(ctx, id, userID)
}

// Stats aggregates the user's records over the trailing window of days.
// Calendar-based series (daily, weekday, monthly) group on the day
// bucket; the hourly series groups on the logging timestamp's hour.
// The two fields are never interchangeable.
func (s *CoffeeService) Stats(ctx context.Context, userID, days int) (types.CoffeeStats, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	today := dayOf(s.now())
	since := today.AddDate(0, 0, -(days - 1))
	records, err := s.repo.ListSince(ctx, userID, since)
	if err != nil {
		return types.CoffeeStats{}, err
	}

	stats := types.CoffeeStats{
		Daily:   dailyTotals(records),
		Hourly:  hourlyPattern(records),
		Weekday: weekdayPattern(records),
		Monthly: monthlyTrend(records),
		Weekly:  weeklySummary(records, today),
	}
	return stats, nil
}

// Status reports today's consumption against the user's thresholds and
// how long it has been since the last logged cup.
func (s *CoffeeService) Status(ctx context.Context, userID int) (types.CoffeeStatus, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return types.CoffeeStatus{}, err
	}

	today := dayOf(s.now())
	todayTotal, err := s.repo.SumForDate(ctx, userID, today)
	if err != nil {
		return types.CoffeeStatus{}, err
	}

	status := types.CoffeeStatus{
		TodayTotal:       todayTotal,
		DailyLimit:       settings.DailyLimit,
		WarningThreshold: settings.WarningThreshold,
		IsOverLimit:      todayTotal >= settings.DailyLimit,
		ShouldWarn:       todayTotal >= settings.WarningThreshold,
		RemainingCups:    max(0, settings.DailyLimit-todayTotal),
		CanDrink:         true,
	}

	last, err := s.repo.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return status, nil
		}
		return types.CoffeeStatus{}, err
	}

	hoursSince := s.now().Sub(last.Timestamp).Hours()
	status.HoursSinceLast = math.Round(hoursSince*10) / 10
	status.CanDrink = hoursSince >= float64(settings.MinIntervalMinutes)/60
	return status, nil
}

// Settings returns the user's thresholds, falling back to defaults when
// never configured.
func (s *CoffeeService) Settings(ctx context.Context, userID int) (types.CoffeeSettings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.CoffeeSettings{
				UserID:             userID,
				DailyLimit:         defaultDailyLimit,
				WarningThreshold:   defaultWarningThreshold,
				MinIntervalMinutes: defaultMinIntervalMinutes,
			}, nil
		}
		return types.CoffeeSettings{}, err
	}
	return settings, nil
}

// UpdateSettingsParams carries the fields of a settings upsert.
type UpdateSettingsParams struct {
	DailyLimit         int
	WarningThreshold   int
	MinIntervalMinutes int
}

func (s *CoffeeService) UpdateSettings(ctx context.Context, userID int, params UpdateSettingsParams) (types.CoffeeSettings, error) {
	if params.DailyLimit < 1 || params.WarningThreshold < 1 || params.MinIntervalMinutes < 1 {
		return types.CoffeeSettings{}, ErrInvalidSettings
	}
	return s.repo.UpsertSettings(ctx, types.CoffeeSettings{
		UserID:             userID,
		DailyLimit:         params.DailyLimit,
		WarningThreshold:   params.WarningThreshold,
		MinIntervalMinutes: params.MinIntervalMinutes,
	})
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func dailyTotals(records []types.CoffeeRecord) []types.DailyTotal {
	index := make(map[string]int)
	totals := make([]types.DailyTotal, 0)
	for _, record := range records {
		key := dayKey(record.Date)
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, types.DailyTotal{Date: key})
		}
		totals[i].Cups += record.Cups
		totals[i].Count++
	}
	return totals
}

func hourlyPattern(records []types.CoffeeRecord) []types.HourlyCount {
	hourly := make([]types.HourlyCount, 24)
	total := 0
	for hour := range hourly {
		hourly[hour].Hour = hour
	}
	for _, record := range records {
		hourly[record.Timestamp.Hour()].Cups += record.Cups
		total += record.Cups
	}
	if total > 0 {
		for hour := range hourly {
			hourly[hour].Percentage = int(math.Round(float64(hourly[hour].Cups) * 100 / float64(total)))
		}
	}
	return hourly
}

func weekdayPattern(records []types.CoffeeRecord) []types.WeekdayCount {
	weekdays := make([]types.WeekdayCount, 7)
	for day := range weekdays {
		weekdays[day].Weekday = day
	}
	for _, record := range records {
		weekdays[record.Date.Weekday()].Cups += record.Cups
	}
	return weekdays
}

func monthlyTrend(records []types.CoffeeRecord) []types.MonthlyTotal {
	index := make(map[string]int)
	totals := make([]types.MonthlyTotal, 0)
	for _, record := range records {
		key := record.Date.Format("2006-01")
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, types.MonthlyTotal{Month: key})
		}
		totals[i].Cups += record.Cups
	}
	return totals
}

func weeklySummary(records []types.CoffeeRecord, today time.Time) types.WeeklySummary {
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))

	perDay := make(map[string]int)
	summary := types.WeeklySummary{}
	for _, record := range records {
		if record.Date.Before(weekStart) {
			continue
		}
		summary.TotalCups += record.Cups
		perDay[dayKey(record.Date)] += record.Cups
	}

	summary.AvgPerDay = math.Round(float64(summary.TotalCups)/7*10) / 10
	summary.ActiveDays = len(perDay)
	for _, cups := range perDay {
		if cups > summary.MaxInDay {
			summary.MaxInDay = cups
		}
	}
	return summary
}
