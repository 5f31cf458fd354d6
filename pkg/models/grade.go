package models

import "fmt"

// Grade is the learner's 0-5 self-assessment of recall quality, SM-2 style.
// Grades below GradeHard count as failed recall.
type Grade int

const (
	// GradeBlackout means no recall at all.
	GradeBlackout Grade = 0
	// GradeWrong means the answer was wrong but felt familiar once revealed.
	GradeWrong Grade = 1
	// GradeAlmost means the answer was wrong but close.
	GradeAlmost Grade = 2
	// GradeHard means correct recall with serious effort.
	GradeHard Grade = 3
	// GradeGood means correct recall with some hesitation.
	GradeGood Grade = 4
	// GradeEasy means instant, effortless recall.
	GradeEasy Grade = 5
)

// PassingGrade is the lowest grade counted as a successful recall.
const PassingGrade = GradeHard

var gradeNames = map[Grade]string{
	GradeBlackout: "blackout",
	GradeWrong:    "wrong",
	GradeAlmost:   "almost",
	GradeHard:     "hard",
	GradeGood:     "good",
	GradeEasy:     "easy",
}

// Clamp forces the grade into the 0-5 range.
func (g Grade) Clamp() Grade {
	if g < GradeBlackout {
		return GradeBlackout
	}
	if g > GradeEasy {
		return GradeEasy
	}
	return g
}

// Passing reports whether the grade counts as a successful recall.
func (g Grade) Passing() bool {
	return g.Clamp() >= PassingGrade
}

// String returns the grade's name ("blackout" through "easy").
func (g Grade) String() string {
	if name, ok := gradeNames[g.Clamp()]; ok {
		return name
	}
	return fmt.Sprintf("grade(%d)", int(g))
}
