package streak

import "time"

// ViewState is a snapshot for presentation. It holds no logic.
type ViewState struct {
	Topic          string
	TargetDays     int
	AllowedFreezes int

	SelectedDate   time.Time
	SelectedStatus Status // empty when the selected day is unset

	CurrentStreak    int
	UsedFreezes      int
	RemainingFreezes int
	HasCompletedGoal bool

	IsSelectedDayLearned bool
	IsSelectedDayFreezed bool
}
