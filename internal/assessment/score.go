package assessment

import (
	"math"
	"strings"
)

// Per-unit verdicts. Missed is reported only where omission is
// meaningful (multiple choice).
const (
	VerdictCorrect   = "correct"
	VerdictIncorrect = "incorrect"
	VerdictMissed    = "missed"
)

// UnitResult is the correctness classification for one unit, with the
// authored feedback text when present.
type UnitResult struct {
	UnitID   string `json:"unit_id"`
	Verdict  string `json:"verdict"`
	Feedback string `json:"feedback,omitempty"`
}

// Result is the outcome of grading one attempt. TotalUnits counts the
// kind's gradable units: correct options for multiple choice, blanks,
// pairs, drag items or steps; single-answer quiz kinds count 1.
type Result struct {
	EarnedScore  float64      `json:"earned_score"`
	MaxScore     float64      `json:"max_score"`
	CorrectCount int          `json:"correct_count"`
	TotalUnits   int          `json:"total_units"`
	Units        []UnitResult `json:"units,omitempty"`
	Explanation  string       `json:"explanation,omitempty"`
}

// round1 rounds to one decimal, half away from zero. Applied after the
// zero clamp, never before.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func (s *Session) grade() Result {
	var res Result
	switch s.item.Kind {
	case KindText:
		res = s.gradeText()
	case KindSingleChoice, KindTrueFalse:
		res = s.gradeSingleChoice()
	case KindMultipleChoice:
		res = s.gradeMultipleChoice()
	case KindFillBlanks:
		res = s.gradeFillBlanks()
	case KindMatching:
		res = s.gradeMatching()
	case KindOrdering:
		res = s.gradeOrdering()
	case KindDragDrop:
		res = s.gradeDragDrop()
	}
	res.MaxScore = s.item.MaxPoints
	res.Explanation = s.item.Explanation
	return res
}

// gradeText awards full points for a trimmed, case-insensitive match
// against the canonical answer; anything else scores zero.
func (s *Session) gradeText() Result {
	canonical := s.item.Options[0]
	res := Result{TotalUnits: 1, Units: []UnitResult{{UnitID: canonical.ID, Verdict: VerdictIncorrect, Feedback: canonical.Feedback}}}
	if strings.EqualFold(strings.TrimSpace(s.textAnswer), strings.TrimSpace(canonical.Text)) {
		res.EarnedScore = s.item.MaxPoints
		res.CorrectCount = 1
		res.Units[0].Verdict = VerdictCorrect
	}
	return res
}

// gradeSingleChoice is all-or-nothing: the selection set must equal the
// correct set exactly.
func (s *Session) gradeSingleChoice() Result {
	correct := s.item.correctOptionIDs()
	exact := len(s.selected) == len(correct)
	for id := range s.selected {
		if !correct[id] {
			exact = false
		}
	}

	res := Result{TotalUnits: 1}
	if exact {
		res.EarnedScore = s.item.MaxPoints
		res.CorrectCount = 1
	}
	for _, opt := range s.item.Options {
		if !s.selected[opt.ID] {
			continue
		}
		verdict := VerdictIncorrect
		if opt.IsCorrect {
			verdict = VerdictCorrect
		}
		res.Units = append(res.Units, UnitResult{UnitID: opt.ID, Verdict: verdict, Feedback: opt.Feedback})
	}
	return res
}

// gradeMultipleChoice gives partial credit proportional to correct
// selections minus wrong ones, clamped at zero before rounding.
func (s *Session) gradeMultipleChoice() Result {
	correct := s.item.correctOptionIDs()
	correctSelected, incorrectSelected := 0, 0
	for id := range s.selected {
		if correct[id] {
			correctSelected++
		} else {
			incorrectSelected++
		}
	}

	ratio := float64(correctSelected-incorrectSelected) / float64(len(correct))
	if ratio < 0 {
		ratio = 0
	}
	res := Result{
		EarnedScore:  round1(s.item.MaxPoints * ratio),
		CorrectCount: correctSelected,
		TotalUnits:   len(correct),
	}
	for _, opt := range s.item.Options {
		switch {
		case s.selected[opt.ID] && opt.IsCorrect:
			res.Units = append(res.Units, UnitResult{UnitID: opt.ID, Verdict: VerdictCorrect, Feedback: opt.Feedback})
		case s.selected[opt.ID]:
			res.Units = append(res.Units, UnitResult{UnitID: opt.ID, Verdict: VerdictIncorrect, Feedback: opt.Feedback})
		case opt.IsCorrect:
			res.Units = append(res.Units, UnitResult{UnitID: opt.ID, Verdict: VerdictMissed, Feedback: opt.Feedback})
		}
	}
	return res
}

func (s *Session) gradeFillBlanks() Result {
	res := Result{TotalUnits: len(s.item.Blanks)}
	for i, blank := range s.item.Blanks {
		answer := ""
		if i < len(s.blankAnswers) {
			answer = s.blankAnswers[i]
		}
		verdict := VerdictIncorrect
		if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(blank.Text)) {
			verdict = VerdictCorrect
			res.CorrectCount++
		}
		res.Units = append(res.Units, UnitResult{UnitID: blank.ID, Verdict: verdict})
	}
	res.EarnedScore = round1(s.item.MaxPoints * float64(res.CorrectCount) / float64(res.TotalUnits))
	return res
}

func (s *Session) gradeMatching() Result {
	res := Result{TotalUnits: len(s.item.LeftItems)}
	for _, left := range s.item.LeftItems {
		verdict := VerdictIncorrect
		if right, ok := unitByID(s.item.RightItems, s.matchTargets[left.ID]); ok && right.MatchID == left.MatchID {
			verdict = VerdictCorrect
			res.CorrectCount++
		}
		res.Units = append(res.Units, UnitResult{UnitID: left.ID, Verdict: verdict})
	}
	res.EarnedScore = round1(s.item.MaxPoints * float64(res.CorrectCount) / float64(res.TotalUnits))
	return res
}

// gradeOrdering awards full points when every step sits at its recorded
// position, partial credit per correctly placed step otherwise.
func (s *Session) gradeOrdering() Result {
	res := Result{TotalUnits: len(s.item.Steps)}
	for i, stepID := range s.order {
		step, ok := unitByID(s.item.Steps, stepID)
		verdict := VerdictIncorrect
		if ok && step.Position == i+1 {
			verdict = VerdictCorrect
			res.CorrectCount++
		}
		res.Units = append(res.Units, UnitResult{UnitID: stepID, Verdict: verdict})
	}
	if res.CorrectCount == res.TotalUnits {
		res.EarnedScore = s.item.MaxPoints
	} else {
		res.EarnedScore = round1(s.item.MaxPoints * float64(res.CorrectCount) / float64(res.TotalUnits))
	}
	return res
}

func (s *Session) gradeDragDrop() Result {
	res := Result{TotalUnits: len(s.item.DragItems)}
	for _, drag := range s.item.DragItems {
		verdict := VerdictIncorrect
		if zone, ok := unitByID(s.item.DropZones, s.dragTargets[drag.ID]); ok && zone.Position == drag.Position {
			verdict = VerdictCorrect
			res.CorrectCount++
		}
		res.Units = append(res.Units, UnitResult{UnitID: drag.ID, Verdict: verdict})
	}
	res.EarnedScore = round1(s.item.MaxPoints * float64(res.CorrectCount) / float64(res.TotalUnits))
	return res
}
