package schedule

import "math"

const AverageWorkingDaysPerMonth = 21.75

// HourlyCost derives an hourly cost from a monthly salary and the
// effective schedule. The monthly hour base is the average workable-day
// length scaled by the average working days per month. A schedule with
// no workable days falls back to a canonical 8h five-day week.
func HourlyCost(monthlySalary float64, sched EffectiveSchedule) float64 {
	weeklyMinutes := 0
	workableDays := 0
	for _, day := range sched.Days {
		if day.IsWorkable {
			weeklyMinutes += day.ExpectedMinutes
			workableDays++
		}
	}

	var monthlyHours float64
	if workableDays == 0 {
		monthlyHours = 40.0 * AverageWorkingDaysPerMonth / 5.0
	} else {
		avgDailyHours := float64(weeklyMinutes) / float64(workableDays) / 60.0
		monthlyHours = avgDailyHours * AverageWorkingDaysPerMonth
	}
	if monthlyHours <= 0 {
		return 0
	}
	return math.Round(monthlySalary/monthlyHours*100) / 100
}
