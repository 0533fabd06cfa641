package assessment

import (
	"math/rand"
	"strings"
	"time"
)

// Session lifecycle states.
const (
	StateUnanswered = "unanswered"
	StateInProgress = "in_progress"
	StateSubmitted  = "submitted"
)

// Selections is the wire shape of a learner's answers. Only the group
// matching the item kind is read; unknown unit ids are ignored.
type Selections struct {
	OptionIDs    []string          `json:"option_ids,omitempty"`
	TextAnswer   string            `json:"text_answer,omitempty"`
	BlankAnswers []string          `json:"blank_answers,omitempty"`
	DragTargets  map[string]string `json:"drag_targets,omitempty"`
	MatchTargets map[string]string `json:"match_targets,omitempty"`
	StepOrder    []string          `json:"step_order,omitempty"`
}

// Session is one learner's interaction with one item: it accumulates
// selections, gates submission on completeness, grades exactly once,
// and can be reset for a retry. The item is read-only throughout.
//
// A session is local to a single interaction and needs no locking.
type Session struct {
	item Item
	rng  *rand.Rand

	state        string
	selected     map[string]bool
	textAnswer   string
	blankAnswers []string
	dragTargets  map[string]string
	matchTargets map[string]string
	order        []string

	result      *Result
	submittedAt time.Time
}

// NewSession starts a fresh attempt on item. rng seeds the ordering
// shuffle; nil uses a time-seeded source.
func NewSession(item Item, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Session{item: item.Clone(), rng: rng}
	s.clear()
	return s
}

func (s *Session) clear() {
	s.state = StateUnanswered
	s.selected = make(map[string]bool)
	s.textAnswer = ""
	s.blankAnswers = make([]string, len(s.item.Blanks))
	s.dragTargets = make(map[string]string)
	s.matchTargets = make(map[string]string)
	s.result = nil
	s.submittedAt = time.Time{}

	s.order = make([]string, 0, len(s.item.Steps))
	for _, step := range s.item.Steps {
		s.order = append(s.order, step.ID)
	}
	s.rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})
}

// State returns the lifecycle state.
func (s *Session) State() string { return s.state }

// Item returns a copy of the item under attempt.
func (s *Session) Item() Item { return s.item.Clone() }

// StepOrder returns the current presentation order for ordering items.
func (s *Session) StepOrder() []string {
	return append([]string(nil), s.order...)
}

// Result returns the grading outcome, present only after submit.
func (s *Session) Result() *Result { return s.result }

func (s *Session) markProgress() {
	if s.state == StateUnanswered {
		s.state = StateInProgress
	}
}

// ToggleOption selects or deselects a quiz option. Single-answer kinds
// replace the previous selection; multiple choice toggles. Unknown ids
// are ignored.
func (s *Session) ToggleOption(optionID string) error {
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if _, ok := s.item.optionByID(optionID); !ok {
		return nil
	}
	if s.item.Kind == KindMultipleChoice {
		if s.selected[optionID] {
			delete(s.selected, optionID)
		} else {
			s.selected[optionID] = true
		}
	} else {
		s.selected = map[string]bool{optionID: true}
	}
	s.markProgress()
	return nil
}

// SetTextAnswer records a free-text answer.
func (s *Session) SetTextAnswer(answer string) error {
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	s.textAnswer = answer
	s.markProgress()
	return nil
}

// FillBlank records the learner's word for the i-th blank. Out-of-range
// slots are ignored.
func (s *Session) FillBlank(i int, word string) error {
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if i < 0 || i >= len(s.blankAnswers) {
		return nil
	}
	s.blankAnswers[i] = word
	s.markProgress()
	return nil
}

// AssignDrag places a drag item on a drop zone; an empty dropID clears
// the assignment. Unknown ids on either side are ignored.
func (s *Session) AssignDrag(dragID, dropID string) error {
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if _, ok := unitByID(s.item.DragItems, dragID); !ok {
		return nil
	}
	if dropID == "" {
		delete(s.dragTargets, dragID)
		s.markProgress()
		return nil
	}
	if _, ok := unitByID(s.item.DropZones, dropID); !ok {
		return nil
	}
	s.dragTargets[dragID] = dropID
	s.markProgress()
	return nil
}

// AssignMatch pairs a left item with a right item; an empty rightID
// clears the pairing. Unknown ids on either side are ignored.
func (s *Session) AssignMatch(leftID, rightID string) error {
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if _, ok := unitByID(s.item.LeftItems, leftID); !ok {
		return nil
	}
	if rightID == "" {
		delete(s.matchTargets, leftID)
		s.markProgress()
		return nil
	}
	if _, ok := unitByID(s.item.RightItems, rightID); !ok {
		return nil
	}
	s.matchTargets[leftID] = rightID
	s.markProgress()
	return nil
}

// MoveStep relocates the step at position from to position to in the
// current presentation order (0-based). The contract only cares about
// the resulting order, not the drag mechanism that produced it.
func (s *Session) MoveStep(from, to int) error {
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if from < 0 || from >= len(s.order) || to < 0 || to >= len(s.order) || from == to {
		return nil
	}
	step := s.order[from]
	rest := append(s.order[:from:from], s.order[from+1:]...)
	s.order = append(rest[:to:to], append([]string{step}, rest[to:]...)...)
	s.markProgress()
	return nil
}

// Apply replays a full Selections payload onto the session, used when
// answers arrive in one request rather than interactively.
func (s *Session) Apply(sel Selections) error {
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	switch {
	case IsQuizKind(s.item.Kind) && s.item.Kind != KindText:
		for _, id := range sel.OptionIDs {
			if err := s.ToggleOption(id); err != nil {
				return err
			}
		}
	case s.item.Kind == KindText:
		if sel.TextAnswer != "" {
			return s.SetTextAnswer(sel.TextAnswer)
		}
	case s.item.Kind == KindFillBlanks:
		for i, w := range sel.BlankAnswers {
			if err := s.FillBlank(i, w); err != nil {
				return err
			}
		}
	case s.item.Kind == KindDragDrop:
		for dragID, dropID := range sel.DragTargets {
			if err := s.AssignDrag(dragID, dropID); err != nil {
				return err
			}
		}
	case s.item.Kind == KindMatching:
		for leftID, rightID := range sel.MatchTargets {
			if err := s.AssignMatch(leftID, rightID); err != nil {
				return err
			}
		}
	case s.item.Kind == KindOrdering:
		s.applyStepOrder(sel.StepOrder)
	}
	return nil
}

// applyStepOrder adopts the given order, keeping only known step ids
// and appending any steps the payload omitted in their current order.
func (s *Session) applyStepOrder(ids []string) {
	seen := make(map[string]bool, len(ids))
	next := make([]string, 0, len(s.order))
	for _, id := range ids {
		if !seen[id] && unitIndex(s.item.Steps, id) >= 0 {
			seen[id] = true
			next = append(next, id)
		}
	}
	for _, id := range s.order {
		if !seen[id] {
			next = append(next, id)
		}
	}
	if len(ids) > 0 {
		s.markProgress()
	}
	s.order = next
}

// Selections snapshots the current answers in wire shape.
func (s *Session) Selections() Selections {
	sel := Selections{}
	switch {
	case s.item.Kind == KindText:
		sel.TextAnswer = s.textAnswer
	case IsQuizKind(s.item.Kind):
		for _, opt := range s.item.Options {
			if s.selected[opt.ID] {
				sel.OptionIDs = append(sel.OptionIDs, opt.ID)
			}
		}
	case s.item.Kind == KindFillBlanks:
		sel.BlankAnswers = append([]string(nil), s.blankAnswers...)
	case s.item.Kind == KindDragDrop:
		sel.DragTargets = copyMap(s.dragTargets)
	case s.item.Kind == KindMatching:
		sel.MatchTargets = copyMap(s.matchTargets)
	case s.item.Kind == KindOrdering:
		sel.StepOrder = s.StepOrder()
	}
	return sel
}

// CanSubmit reports whether the attempt is complete enough to grade.
func (s *Session) CanSubmit() bool {
	switch s.item.Kind {
	case KindText:
		return strings.TrimSpace(s.textAnswer) != ""
	case KindSingleChoice, KindMultipleChoice, KindTrueFalse:
		return len(s.selected) > 0
	case KindFillBlanks:
		for _, w := range s.blankAnswers {
			if strings.TrimSpace(w) == "" {
				return false
			}
		}
		return len(s.blankAnswers) > 0
	case KindMatching:
		for _, l := range s.item.LeftItems {
			if s.matchTargets[l.ID] == "" {
				return false
			}
		}
		return true
	case KindDragDrop:
		for _, d := range s.item.DragItems {
			if s.dragTargets[d.ID] == "" {
				return false
			}
		}
		return true
	case KindOrdering:
		// the current arrangement is always a valid answer
		return true
	}
	return false
}

// Submit grades the attempt. It fails with ErrIncompleteAttempt while
// the completeness predicate does not hold and with ErrAlreadySubmitted
// after a successful submit; Reset returns the session to Unanswered.
func (s *Session) Submit() (Result, error) {
	if s.state == StateSubmitted {
		return Result{}, ErrAlreadySubmitted
	}
	if !s.CanSubmit() {
		return Result{}, ErrIncompleteAttempt
	}
	res := s.grade()
	s.result = &res
	s.state = StateSubmitted
	s.submittedAt = time.Now().UTC()
	return res, nil
}

// SubmittedAt returns the grading time, zero before submit.
func (s *Session) SubmittedAt() time.Time { return s.submittedAt }

// Reset discards all selections and the result, returns the state to
// Unanswered and re-shuffles ordering steps.
func (s *Session) Reset() {
	s.clear()
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
