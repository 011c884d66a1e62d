package learner

// Rank is a named XP band. Learners advance through ranks by accumulating
// experience from challenges and streak milestones.
type Rank struct {
	Title string
	MinXP int
}

var ranks = []Rank{
	{Title: "Novice", MinXP: 0},
	{Title: "Enthusiast", MinXP: 1000},
	{Title: "Conversationalist", MinXP: 3000},
	{Title: "Adept", MinXP: 7000},
	{Title: "Master", MinXP: 15000},
	{Title: "Legend", MinXP: 30000},
}

// RankProgress describes where a learner sits inside the rank ladder.
type RankProgress struct {
	Current Rank
	// Next is nil at the top rank.
	Next *Rank
	// Percent is progress from Current.MinXP toward Next.MinXP, 0-100.
	// 100 at the top rank.
	Percent float64
}

// RankForXP maps total experience points onto the rank ladder.
func RankForXP(totalXP int) RankProgress {
	if totalXP < 0 {
		totalXP = 0
	}

	current := ranks[0]
	var next *Rank
	for i, r := range ranks {
		if totalXP < r.MinXP {
			break
		}
		current = r
		if i+1 < len(ranks) {
			n := ranks[i+1]
			next = &n
		} else {
			next = nil
		}
	}

	if next == nil {
		return RankProgress{Current: current, Percent: 100}
	}

	span := next.MinXP - current.MinXP
	percent := float64(totalXP-current.MinXP) / float64(span) * 100
	return RankProgress{Current: current, Next: next, Percent: percent}
}
