package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
)

// Aggregate classifies every record inside rng and rolls the days up at the
// requested granularity. Records outside rng are ignored; when two records
// share a date the later one in the slice wins. Only days that have a
// record are counted, so a missing day is never assumed absent.
//
// Daily results carry the classified days and raw counts. Weekly and
// monthly results carry one period per calendar week (Monday start) or
// month, clipped to rng, each with a normalized category distribution.
//
// Aggregate never rejects a range: an inverted one holds no days and yields
// zero-filled statistics. Bounding the range length is left to the caller.
func Aggregate(records []attendance.AttendanceRecord, granularity attendance.Granularity, rng attendance.DateRange, cfg attendance.Config) (attendance.AggregateResult, error) {
	if !granularity.IsValid() {
		return attendance.AggregateResult{}, fmt.Errorf("%w: %q", attendance.ErrUnknownGranularity, granularity)
	}

	days := classifyRange(records, rng, cfg)
	result := attendance.AggregateResult{
		Granularity: granularity,
		Range:       rng,
	}

	switch granularity {
	case attendance.GranularityDaily:
		result.Summary = tally(rangeLabel(rng), rng, days)
		result.Days = days
	case attendance.GranularityWeekly:
		result.Periods = splitPeriods(rng, days, weekEnd, weekLabel)
		result.Summary = rollUp(rangeLabel(rng), rng, result.Periods)
	case attendance.GranularityMonthly:
		result.Periods = splitPeriods(rng, days, monthEnd, monthLabel)
		result.Summary = rollUp(rangeLabel(rng), rng, result.Periods)
	}

	return result, nil
}

// AggregateYear produces the twelve monthly periods of year plus a year
// roll-up whose percentage is recomputed from the summed counts.
func AggregateYear(records []attendance.AttendanceRecord, year int, cfg attendance.Config) (attendance.AggregateResult, error) {
	rng := attendance.DateRange{
		Start: attendance.DateOf(year, time.January, 1),
		End:   attendance.DateOf(year, time.December, 31),
	}
	result, err := Aggregate(records, attendance.GranularityMonthly, rng, cfg)
	if err != nil {
		return attendance.AggregateResult{}, err
	}
	result.Summary.Label = fmt.Sprintf("%04d", year)
	return result, nil
}

// classifyRange dedupes records by date, drops the ones outside rng and
// returns the classified days sorted by date.
func classifyRange(records []attendance.AttendanceRecord, rng attendance.DateRange, cfg attendance.Config) []attendance.DailyClassification {
	byDate := make(map[attendance.Date]attendance.AttendanceRecord, len(records))
	for _, rec := range records {
		rec.Date = attendance.NewDate(rec.Date.Time)
		if !rng.Contains(rec.Date) {
			continue
		}
		byDate[rec.Date] = rec
	}

	days := make([]attendance.DailyClassification, 0, len(byDate))
	for _, rec := range byDate {
		days = append(days, ClassifyDay(rec, cfg))
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date.Time)
	})
	return days
}

// tally counts one window of classified days. Distribution is left nil.
func tally(label string, rng attendance.DateRange, days []attendance.DailyClassification) attendance.PeriodStatistics {
	stats := attendance.PeriodStatistics{
		Label: label,
		Start: rng.Start,
		End:   rng.End,
	}

	var hours float64
	for _, d := range days {
		stats.TotalDays++
		hours += d.WorkingHours

		switch d.Category() {
		case attendance.CategoryHoliday:
			stats.HolidayDays++
		case attendance.CategoryOD:
			stats.ODDays++
		case attendance.CategoryPermission:
			stats.PermissionDays++
		case attendance.CategoryAbsent:
			stats.AbsentDays++
		case attendance.CategoryLate:
			stats.PresentDays++
			stats.LateArrivalDays++
		case attendance.CategoryPresent:
			stats.PresentDays++
		}
		if d.EarlyDeparture {
			stats.EarlyDepartureDays++
		}
	}

	stats.WorkingDays = stats.TotalDays - stats.HolidayDays
	stats.WorkingHours = round2(hours)
	stats.Percentage = percentage(stats.PresentDays, stats.WorkingDays)
	return stats
}

// rollUp sums the counts of periods and recomputes percentage and
// distribution from the sums. Period percentages are never averaged.
func rollUp(label string, rng attendance.DateRange, periods []attendance.PeriodStatistics) attendance.PeriodStatistics {
	sum := attendance.PeriodStatistics{
		Label: label,
		Start: rng.Start,
		End:   rng.End,
	}

	var hours float64
	for _, p := range periods {
		sum.PresentDays += p.PresentDays
		sum.AbsentDays += p.AbsentDays
		sum.LateArrivalDays += p.LateArrivalDays
		sum.EarlyDepartureDays += p.EarlyDepartureDays
		sum.ODDays += p.ODDays
		sum.PermissionDays += p.PermissionDays
		sum.HolidayDays += p.HolidayDays
		sum.WorkingDays += p.WorkingDays
		sum.TotalDays += p.TotalDays
		hours += p.WorkingHours
	}

	sum.WorkingHours = round2(hours)
	sum.Percentage = percentage(sum.PresentDays, sum.WorkingDays)
	shares := Normalize(sum.CategoryCounts())
	sum.Distribution = &shares
	return sum
}

func percentage(present, working int) float64 {
	if working <= 0 {
		return 0
	}
	return round2(float64(present) / float64(working) * 100)
}

// splitPeriods cuts rng into consecutive windows ending at endOf and tallies
// the days of each. Empty windows are kept with zero counts.
func splitPeriods(
	rng attendance.DateRange,
	days []attendance.DailyClassification,
	endOf func(attendance.Date) attendance.Date,
	labelOf func(attendance.Date) string,
) []attendance.PeriodStatistics {
	var periods []attendance.PeriodStatistics

	i := 0
	for start := rng.Start; !start.After(rng.End.Time); {
		end := endOf(start)
		if end.After(rng.End.Time) {
			end = rng.End
		}

		j := i
		for j < len(days) && !days[j].Date.After(end.Time) {
			j++
		}

		window := attendance.DateRange{Start: start, End: end}
		p := tally(labelOf(start), window, days[i:j])
		shares := Normalize(p.CategoryCounts())
		p.Distribution = &shares
		periods = append(periods, p)

		i = j
		start = end.AddDays(1)
	}

	return periods
}

// weekEnd returns the Sunday closing the Monday-based week of d.
func weekEnd(d attendance.Date) attendance.Date {
	offset := (int(time.Sunday) - int(d.Weekday()) + 7) % 7
	return d.AddDays(offset)
}

func monthEnd(d attendance.Date) attendance.Date {
	return attendance.DateOf(d.Year(), d.Month()+1, 1).AddDays(-1)
}

func weekLabel(d attendance.Date) string {
	year, week := d.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func monthLabel(d attendance.Date) string {
	return d.Format("2006-01")
}

func rangeLabel(rng attendance.DateRange) string {
	return rng.Start.String() + "/" + rng.End.String()
}
