package workouts

// Strength holds the six tracked lifts. Weights are in pounds, plank in seconds.
type Strength struct {
	BenchPress    float64 `json:"benchPress"`
	MilitaryPress float64 `json:"militaryPress"`
	Deadlift      float64 `json:"deadlift"`
	BicepCurl     float64 `json:"bicepCurl"`
	Squat         float64 `json:"squat"`
	Plank         float64 `json:"plank"`
}

func DefaultGoals() Strength {
	return Strength{
		BenchPress:    225,
		MilitaryPress: 135,
		Deadlift:      315,
		BicepCurl:     40,
		Squat:         275,
		Plank:         180,
	}
}

func DefaultProgress() Strength {
	return Strength{
		BenchPress:    135,
		MilitaryPress: 95,
		Deadlift:      185,
		BicepCurl:     25,
		Squat:         155,
		Plank:         60,
	}
}

// Clamped returns a copy with negative values raised to zero.
func (s Strength) Clamped() Strength {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	return Strength{
		BenchPress:    clamp(s.BenchPress),
		MilitaryPress: clamp(s.MilitaryPress),
		Deadlift:      clamp(s.Deadlift),
		BicepCurl:     clamp(s.BicepCurl),
		Squat:         clamp(s.Squat),
		Plank:         clamp(s.Plank),
	}
}

type LiftProgress struct {
	Lift       string  `json:"lift"`
	Unit       string  `json:"unit"`
	Current    float64 `json:"current"`
	Goal       float64 `json:"goal"`
	Percentage float64 `json:"percentage"`
}

func StrengthReport(goals, progress Strength) []LiftProgress {
	lift := func(name, unit string, current, goal float64) LiftProgress {
		lp := LiftProgress{
			Lift:    name,
			Unit:    unit,
			Current: current,
			Goal:    goal,
		}
		if goal > 0 {
			lp.Percentage = current / goal * 100
		}
		return lp
	}

	return []LiftProgress{
		lift("Bench Press", "lb", progress.BenchPress, goals.BenchPress),
		lift("Military Press", "lb", progress.MilitaryPress, goals.MilitaryPress),
		lift("Deadlift", "lb", progress.Deadlift, goals.Deadlift),
		lift("Bicep Curl", "lb", progress.BicepCurl, goals.BicepCurl),
		lift("Squat", "lb", progress.Squat, goals.Squat),
		lift("Plank", "s", progress.Plank, goals.Plank),
	}
}
