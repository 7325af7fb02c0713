package schedule

import "testing"

func scheduleWith(minutesPerDay int, workableDays int) EffectiveSchedule {
	var sched EffectiveSchedule
	for d := 0; d < DaysPerWeek; d++ {
		sched.Days[d] = EffectiveDay{DayOfWeek: d}
		if d < workableDays {
			sched.Days[d].IsWorkable = true
			sched.Days[d].ExpectedMinutes = minutesPerDay
		}
	}
	return sched
}

func TestHourlyCostStandardWeek(t *testing.T) {
	// 8h x 5 days -> 174 monthly hours.
	sched := scheduleWith(480, 5)
	if got := HourlyCost(1740, sched); got != 10 {
		t.Fatalf("expected 10.00, got %v", got)
	}
	if got := HourlyCost(3000, sched); got != 17.24 {
		t.Fatalf("expected 17.24, got %v", got)
	}
}

func TestHourlyCostPartTimeWeek(t *testing.T) {
	// 4h x 3 days -> avg 4h -> 87 monthly hours.
	sched := scheduleWith(240, 3)
	if got := HourlyCost(870, sched); got != 10 {
		t.Fatalf("expected 10.00, got %v", got)
	}
}

func TestHourlyCostNoWorkableDaysFallsBack(t *testing.T) {
	// Fallback is the canonical 40h week: 174 monthly hours.
	sched := scheduleWith(0, 0)
	if got := HourlyCost(1740, sched); got != 10 {
		t.Fatalf("expected fallback cost 10.00, got %v", got)
	}
}

func TestHourlyCostZeroExpectedMinutes(t *testing.T) {
	sched := scheduleWith(0, 5)
	if got := HourlyCost(1000, sched); got != 0 {
		t.Fatalf("expected 0 for degenerate schedule, got %v", got)
	}
}
