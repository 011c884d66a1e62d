package learner

import "fmt"

// Level is one proficiency tier in the fixed CEFR-style progression the
// placement test converges on.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

var levelOrder = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1}

// Levels returns the ordered tier set, lowest first.
func Levels() []Level {
	out := make([]Level, len(levelOrder))
	copy(out, levelOrder)
	return out
}

// LowestLevel returns the floor of the progression.
func LowestLevel() Level {
	return levelOrder[0]
}

// HighestLevel returns the ceiling of the progression.
func HighestLevel() Level {
	return levelOrder[len(levelOrder)-1]
}

// Index returns the position of the level in the progression, or -1 for an
// unknown level.
func (l Level) Index() int {
	for i, level := range levelOrder {
		if level == l {
			return i
		}
	}
	return -1
}

// Valid reports whether the level belongs to the progression.
func (l Level) Valid() bool {
	return l.Index() >= 0
}

// Next returns the tier above, or false at the ceiling.
func (l Level) Next() (Level, bool) {
	i := l.Index()
	if i < 0 || i == len(levelOrder)-1 {
		return l, false
	}
	return levelOrder[i+1], true
}

// Previous returns the tier below, or false at the floor.
func (l Level) Previous() (Level, bool) {
	i := l.Index()
	if i <= 0 {
		return l, false
	}
	return levelOrder[i-1], true
}

// ParseLevel validates a raw string against the tier set.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}
