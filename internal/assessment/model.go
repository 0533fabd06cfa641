package assessment

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultMaxPoints applies when an author has not set a weight.
const DefaultMaxPoints = 1

// NewItem returns the minimal valid item for kind, pre-populated with
// placeholder units at the kind's structural minimum.
func NewItem(kind string) (Item, error) {
	it := Item{
		ID:        uuid.NewString(),
		Kind:      kind,
		MaxPoints: DefaultMaxPoints,
	}
	if err := resetPayload(&it, kind); err != nil {
		return Item{}, err
	}
	return it, nil
}

// ChangeKind discards the current payload and installs the minimal
// structure for newKind. Prompt, MaxPoints and Explanation survive.
// Any in-progress session for the old kind is invalid afterwards and
// must be discarded by the caller.
func ChangeKind(it *Item, newKind string) error {
	return resetPayload(it, newKind)
}

func resetPayload(it *Item, kind string) error {
	if !KnownKind(kind) {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	it.Kind = kind
	it.Options = nil
	it.Text = ""
	it.Blanks = nil
	it.DragItems = nil
	it.DropZones = nil
	it.LeftItems = nil
	it.RightItems = nil
	it.Steps = nil

	switch kind {
	case KindSingleChoice, KindMultipleChoice:
		it.Options = []Option{
			{ID: uuid.NewString(), Text: "Option 1", IsCorrect: true},
			{ID: uuid.NewString(), Text: "Option 2"},
		}
	case KindTrueFalse:
		it.Options = []Option{
			{ID: uuid.NewString(), Text: "True", IsCorrect: true},
			{ID: uuid.NewString(), Text: "False"},
		}
	case KindText:
		it.Options = []Option{
			{ID: uuid.NewString(), Text: "Answer", IsCorrect: true},
		}
	case KindFillBlanks:
		it.Text = "The [answer] completes this sentence."
		syncBlanks(it)
	case KindDragDrop:
		for i := 1; i <= 2; i++ {
			it.DragItems = append(it.DragItems, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Item %d", i), Position: i})
			it.DropZones = append(it.DropZones, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Zone %d", i), Position: i})
		}
	case KindMatching:
		for i := 1; i <= 2; i++ {
			matchID := uuid.NewString()
			it.LeftItems = append(it.LeftItems, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Left %d", i), MatchID: matchID})
			it.RightItems = append(it.RightItems, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Right %d", i), MatchID: matchID})
		}
	case KindOrdering:
		for i := 1; i <= 2; i++ {
			it.Steps = append(it.Steps, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Step %d", i), Position: i})
		}
	}
	return nil
}

// AddUnit appends a placeholder unit (a pair for paired kinds, a new
// bracketed blank for fill-in). Kinds with fixed cardinality reject.
func AddUnit(it *Item) error {
	if fixedCardinality(it.Kind) {
		return ErrFixedCardinality
	}
	switch it.Kind {
	case KindSingleChoice, KindMultipleChoice:
		it.Options = append(it.Options, Option{
			ID:   uuid.NewString(),
			Text: fmt.Sprintf("Option %d", len(it.Options)+1),
		})
	case KindFillBlanks:
		it.Text += " [word]"
		syncBlanks(it)
	case KindDragDrop:
		pos := len(it.DragItems) + 1
		it.DragItems = append(it.DragItems, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Item %d", pos), Position: pos})
		it.DropZones = append(it.DropZones, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Zone %d", pos), Position: pos})
	case KindMatching:
		matchID := uuid.NewString()
		n := len(it.LeftItems) + 1
		it.LeftItems = append(it.LeftItems, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Left %d", n), MatchID: matchID})
		it.RightItems = append(it.RightItems, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Right %d", n), MatchID: matchID})
	case KindOrdering:
		it.Steps = append(it.Steps, Unit{ID: uuid.NewString(), Text: fmt.Sprintf("Step %d", len(it.Steps)+1), Position: len(it.Steps) + 1})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, it.Kind)
	}
	return nil
}

// RemoveUnit deletes the unit (or its pair) carrying unitID. Removals
// below the kind's minimum are rejected with BelowMinimumError and the
// item stays unchanged.
func RemoveUnit(it *Item, unitID string) error {
	if fixedCardinality(it.Kind) {
		return ErrFixedCardinality
	}
	min := minUnits(it.Kind)
	if it.UnitCount() <= min {
		return &BelowMinimumError{Kind: it.Kind, Min: min}
	}

	switch it.Kind {
	case KindSingleChoice, KindMultipleChoice:
		for i, opt := range it.Options {
			if opt.ID == unitID {
				it.Options = append(it.Options[:i], it.Options[i+1:]...)
				return nil
			}
		}
	case KindFillBlanks:
		if i := unitIndex(it.Blanks, unitID); i >= 0 {
			it.Text = unwrapBlank(it.Text, i)
			// drop the unit before resyncing so the survivors stay
			// index-aligned with their markers and keep their ids
			it.Blanks = append(it.Blanks[:i], it.Blanks[i+1:]...)
			syncBlanks(it)
			return nil
		}
	case KindDragDrop:
		pos := 0
		if u, ok := unitByID(it.DragItems, unitID); ok {
			pos = u.Position
		} else if u, ok := unitByID(it.DropZones, unitID); ok {
			pos = u.Position
		}
		if pos > 0 {
			it.DragItems = removeByPosition(it.DragItems, pos)
			it.DropZones = removeByPosition(it.DropZones, pos)
			compactPositions(it.DragItems, pos)
			compactPositions(it.DropZones, pos)
			return nil
		}
	case KindMatching:
		matchID := ""
		if u, ok := unitByID(it.LeftItems, unitID); ok {
			matchID = u.MatchID
		} else if u, ok := unitByID(it.RightItems, unitID); ok {
			matchID = u.MatchID
		}
		if matchID != "" {
			it.LeftItems = removeByMatchID(it.LeftItems, matchID)
			it.RightItems = removeByMatchID(it.RightItems, matchID)
			return nil
		}
	case KindOrdering:
		if i := unitIndex(it.Steps, unitID); i >= 0 {
			it.Steps = append(it.Steps[:i], it.Steps[i+1:]...)
			renumber(it.Steps)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownUnit, unitID)
}

// SetCorrectness marks a quiz option correct or not. For single-answer
// kinds marking one option correct clears its siblings.
func SetCorrectness(it *Item, unitID string, isCorrect bool) error {
	if !IsQuizKind(it.Kind) || it.Kind == KindText {
		return ErrKindMismatch
	}
	idx := -1
	for i, opt := range it.Options {
		if opt.ID == unitID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownUnit, unitID)
	}

	exclusive := it.Kind == KindSingleChoice || it.Kind == KindTrueFalse
	if exclusive && isCorrect {
		for i := range it.Options {
			it.Options[i].IsCorrect = false
		}
	}
	it.Options[idx].IsCorrect = isCorrect
	return nil
}

// Reorder swaps the unit carrying unitID with its neighbor in the given
// direction (-1 up, +1 down). Ordering steps are renumbered so the
// recorded positions follow the new order; fill-in blanks are fixed by
// their text and cannot be reordered.
func Reorder(it *Item, unitID string, direction int) error {
	if direction != -1 && direction != 1 {
		return fmt.Errorf("direction must be -1 or +1, got %d", direction)
	}
	switch it.Kind {
	case KindSingleChoice, KindMultipleChoice, KindTrueFalse, KindText:
		idx := -1
		for i, opt := range it.Options {
			if opt.ID == unitID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownUnit, unitID)
		}
		j := idx + direction
		if j < 0 || j >= len(it.Options) {
			return nil
		}
		it.Options[idx], it.Options[j] = it.Options[j], it.Options[idx]
		return nil
	case KindFillBlanks:
		return ErrKindMismatch
	case KindDragDrop:
		if swapUnit(it.DragItems, unitID, direction) || swapUnit(it.DropZones, unitID, direction) {
			return nil
		}
	case KindMatching:
		if swapUnit(it.LeftItems, unitID, direction) || swapUnit(it.RightItems, unitID, direction) {
			return nil
		}
	case KindOrdering:
		if swapUnit(it.Steps, unitID, direction) {
			renumber(it.Steps)
			return nil
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, it.Kind)
	}
	return fmt.Errorf("%w: %q", ErrUnknownUnit, unitID)
}

// SetUnitText updates a unit's display text. For fill-in blanks the
// bracketed marker in the source text is rewritten to stay the single
// source of truth for the accepted words.
func SetUnitText(it *Item, unitID, text string) error {
	if IsQuizKind(it.Kind) {
		for i, opt := range it.Options {
			if opt.ID == unitID {
				it.Options[i].Text = text
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrUnknownUnit, unitID)
	}

	if it.Kind == KindFillBlanks {
		i := unitIndex(it.Blanks, unitID)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownUnit, unitID)
		}
		it.Text = rewriteBlank(it.Text, i, text)
		syncBlanks(it)
		return nil
	}

	for _, units := range [][]Unit{it.DragItems, it.DropZones, it.LeftItems, it.RightItems, it.Steps} {
		for i := range units {
			if units[i].ID == unitID {
				units[i].Text = text
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownUnit, unitID)
}

// Validate enforces the structural invariants an authored item must
// satisfy before it may be persisted or graded.
func Validate(it Item) error {
	if !KnownKind(it.Kind) {
		return fmt.Errorf("%w: %q", ErrUnknownKind, it.Kind)
	}
	if it.MaxPoints <= 0 {
		return fmt.Errorf("%w: max_points must be positive, got %v", ErrInvalidItem, it.MaxPoints)
	}
	if min := minUnits(it.Kind); it.UnitCount() < min {
		return &BelowMinimumError{Kind: it.Kind, Min: min}
	}

	switch it.Kind {
	case KindSingleChoice, KindTrueFalse, KindText:
		if n := len(it.correctOptionIDs()); n != 1 {
			return fmt.Errorf("%w: kind %s requires exactly one correct option, found %d", ErrInvalidItem, it.Kind, n)
		}
		if it.Kind == KindTrueFalse && len(it.Options) != 2 {
			return fmt.Errorf("%w: true/false requires exactly 2 options, found %d", ErrInvalidItem, len(it.Options))
		}
		if it.Kind == KindText && len(it.Options) != 1 {
			return fmt.Errorf("%w: text kind holds exactly one canonical answer, found %d", ErrInvalidItem, len(it.Options))
		}
	case KindMultipleChoice:
		if len(it.correctOptionIDs()) == 0 {
			return fmt.Errorf("%w: multiple choice requires at least one correct option", ErrInvalidItem)
		}
	case KindFillBlanks:
		if countBlanks(it.Text) != len(it.Blanks) {
			return fmt.Errorf("%w: blank markers (%d) disagree with answer list (%d)", ErrInvalidItem, countBlanks(it.Text), len(it.Blanks))
		}
	case KindDragDrop:
		if len(it.DragItems) != len(it.DropZones) {
			return fmt.Errorf("%w: drag items (%d) and drop zones (%d) must pair up", ErrInvalidItem, len(it.DragItems), len(it.DropZones))
		}
		if !positionsComplete(it.DragItems) || !positionsComplete(it.DropZones) {
			return fmt.Errorf("%w: drag/drop positions must cover 1..%d exactly once", ErrInvalidItem, len(it.DragItems))
		}
	case KindMatching:
		if len(it.LeftItems) != len(it.RightItems) {
			return fmt.Errorf("%w: left items (%d) and right items (%d) must pair up", ErrInvalidItem, len(it.LeftItems), len(it.RightItems))
		}
		seen := map[string]bool{}
		for _, l := range it.LeftItems {
			if l.MatchID == "" || seen[l.MatchID] {
				return fmt.Errorf("%w: left item %s has missing or duplicate match id", ErrInvalidItem, l.ID)
			}
			seen[l.MatchID] = true
			if _, ok := matchByID(it.RightItems, l.MatchID); !ok {
				return fmt.Errorf("%w: left item %s has no right partner", ErrInvalidItem, l.ID)
			}
		}
	case KindOrdering:
		if !positionsComplete(it.Steps) {
			return fmt.Errorf("%w: ordering positions must cover 1..%d exactly once", ErrInvalidItem, len(it.Steps))
		}
	}
	return nil
}

// syncBlanks rebuilds the Blanks list from the bracketed markers in the
// source text, keeping existing unit ids stable by index.
func syncBlanks(it *Item) {
	words := blankWords(it.Text)
	blanks := make([]Unit, len(words))
	for i, w := range words {
		id := uuid.NewString()
		if i < len(it.Blanks) {
			id = it.Blanks[i].ID
		}
		blanks[i] = Unit{ID: id, Text: w}
	}
	it.Blanks = blanks
}

func rewriteBlank(text string, n int, word string) string {
	count := -1
	return blankMarker.ReplaceAllStringFunc(text, func(m string) string {
		count++
		if count == n {
			return "[" + word + "]"
		}
		return m
	})
}

func removeByMatchID(units []Unit, matchID string) []Unit {
	out := units[:0]
	for _, u := range units {
		if u.MatchID != matchID {
			out = append(out, u)
		}
	}
	return out
}

func matchByID(units []Unit, matchID string) (Unit, bool) {
	for _, u := range units {
		if u.MatchID == matchID {
			return u, true
		}
	}
	return Unit{}, false
}

func swapUnit(units []Unit, unitID string, direction int) bool {
	i := unitIndex(units, unitID)
	if i < 0 {
		return false
	}
	j := i + direction
	if j >= 0 && j < len(units) {
		units[i], units[j] = units[j], units[i]
	}
	return true
}

func removeByPosition(units []Unit, pos int) []Unit {
	out := units[:0]
	for _, u := range units {
		if u.Position != pos {
			out = append(out, u)
		}
	}
	return out
}

func compactPositions(units []Unit, removed int) {
	for i := range units {
		if units[i].Position > removed {
			units[i].Position--
		}
	}
}

func renumber(units []Unit) {
	for i := range units {
		units[i].Position = i + 1
	}
}

func positionsComplete(units []Unit) bool {
	seen := make(map[int]bool, len(units))
	for _, u := range units {
		if u.Position < 1 || u.Position > len(units) || seen[u.Position] {
			return false
		}
		seen[u.Position] = true
	}
	return true
}
