package engagement

// Milestone is a streak length that awards a one-time reward. Rewards are
// granted at most once per milestone, tracked by the learner's last
// rewarded milestone day.
type Milestone struct {
	Days   int
	Title  string
	XP     int
	Freeze int
}

var milestones = []Milestone{
	{Days: 3, Title: "Starter", XP: 50},
	{Days: 7, Title: "Week Warrior", XP: 100, Freeze: 1},
	{Days: 14, Title: "Two Weeks", XP: 200, Freeze: 1},
	{Days: 30, Title: "Monthly Master", XP: 500},
	{Days: 50, Title: "Dedicated", XP: 1000},
	{Days: 100, Title: "Legend", XP: 2000},
}

// Milestones returns the reward ladder in ascending order.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestones))
	copy(out, milestones)
	return out
}

// milestoneFor returns the milestone matching the streak length, if the
// learner has not been rewarded for it yet.
func milestoneFor(streak, lastRewarded int) *Milestone {
	for _, m := range milestones {
		if m.Days == streak && lastRewarded < m.Days {
			reward := m
			return &reward
		}
	}
	return nil
}
