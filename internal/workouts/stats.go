package workouts

import (
	"math"
	"sort"
	"time"
)

type TypeCount struct {
	Type  Category `json:"type"`
	Count int      `json:"count"`
	// Share of all completed workouts, in percent.
	Share float64 `json:"share"`
}

type Stats struct {
	TotalWorkouts  int         `json:"totalWorkouts"`
	TotalCompleted int         `json:"totalCompleted"`
	Streak         int         `json:"streak"`
	TypeBreakdown  []TypeCount `json:"typeBreakdown"`
}

const topTypesCount = 5

func ComputeStats(all []Workout, now time.Time) Stats {
	completed := make([]Workout, 0, len(all))
	for _, w := range all {
		if w.CompletedAt != nil {
			completed = append(completed, w)
		}
	}

	return Stats{
		TotalWorkouts:  len(all),
		TotalCompleted: len(completed),
		Streak:         streak(completed, now),
		TypeBreakdown:  typeBreakdown(completed),
	}
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func daysBetween(later, earlier time.Time) int {
	return int(math.Round(later.Sub(earlier).Hours() / 24))
}

// streak counts consecutive calendar days with a completed workout, going
// back from the most recent one. It is 0 when the most recent workout is
// older than yesterday. Several workouts on the same day count once.
func streak(completed []Workout, now time.Time) int {
	if len(completed) == 0 {
		return 0
	}

	loc := now.Location()
	sorted := append([]Workout{}, completed...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	today := dayStart(now, loc)
	if daysBetween(today, dayStart(sorted[0].Date, loc)) > 1 {
		return 0
	}

	count := 1
	for i := 1; i < len(sorted); i++ {
		diff := daysBetween(dayStart(sorted[i-1].Date, loc), dayStart(sorted[i].Date, loc))
		if diff == 1 {
			count++
		} else if diff > 1 {
			break
		}
	}
	return count
}

func typeBreakdown(completed []Workout) []TypeCount {
	if len(completed) == 0 {
		return []TypeCount{}
	}

	var order []Category
	counts := map[Category]int{}
	for _, w := range completed {
		if _, seen := counts[w.WorkoutType]; !seen {
			order = append(order, w.WorkoutType)
		}
		counts[w.WorkoutType]++
	}

	breakdown := make([]TypeCount, 0, len(order))
	for _, c := range order {
		breakdown = append(breakdown, TypeCount{
			Type:  c,
			Count: counts[c],
			Share: float64(counts[c]) / float64(len(completed)) * 100,
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})

	if len(breakdown) > topTypesCount {
		breakdown = breakdown[:topTypesCount]
	}
	return breakdown
}
