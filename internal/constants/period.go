package constants

// Period values as stored in the habits.period column
const (
	PeriodDaily  = "daily"
	PeriodWeekly = "weekly"

	DailyIntervalDays  = 1
	WeeklyIntervalDays = 7
)

// PredefinedHabit describes a habit seeded by `habitline seed`
type PredefinedHabit struct {
	Title  string
	Period string
}

// PredefinedHabits is the starter set offered on first run
var PredefinedHabits = []PredefinedHabit{
	{Title: "Exercise", Period: PeriodDaily},
	{Title: "Read Book", Period: PeriodDaily},
	{Title: "Meditate", Period: PeriodDaily},
	{Title: "Weekly Review", Period: PeriodWeekly},
	{Title: "Plan Next Week", Period: PeriodWeekly},
}
