package assessment

// Option is a gradable choice on a quiz-family item. For the text kind
// a single option holds the canonical accepted answer.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback,omitempty"`
}

// Unit is a gradable element of an exercise-family item. Which fields
// are populated depends on the kind: MatchID pairs left/right matching
// units, Position carries the correct 1-based slot for ordering steps
// and the drag/drop pairing key.
type Unit struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	MatchID  string `json:"match_id,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Item is the gradable unit of content. Exactly one payload group is
// populated, selected by Kind. All fields are plain data so an Item
// round-trips through JSON unchanged.
type Item struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Prompt      string  `json:"prompt"`
	MaxPoints   float64 `json:"max_points"`
	Explanation string  `json:"explanation,omitempty"`

	// Quiz kinds.
	Options []Option `json:"options,omitempty"`

	// fill_blanks: Text holds the source sentence with [bracketed]
	// blanks, Blanks the ordered accepted words.
	Text   string `json:"text,omitempty"`
	Blanks []Unit `json:"blanks,omitempty"`

	// drag_drop: a drag unit is correct on the drop zone sharing its
	// Position.
	DragItems []Unit `json:"drag_items,omitempty"`
	DropZones []Unit `json:"drop_zones,omitempty"`

	// matching: a left unit pairs with the right unit sharing MatchID.
	LeftItems  []Unit `json:"left_items,omitempty"`
	RightItems []Unit `json:"right_items,omitempty"`

	// ordering: each step records its correct 1-based Position.
	Steps []Unit `json:"steps,omitempty"`
}

// Clone returns a deep copy. Mutating the copy never aliases the
// receiver's slices.
func (it Item) Clone() Item {
	out := it
	out.Options = append([]Option(nil), it.Options...)
	out.Blanks = append([]Unit(nil), it.Blanks...)
	out.DragItems = append([]Unit(nil), it.DragItems...)
	out.DropZones = append([]Unit(nil), it.DropZones...)
	out.LeftItems = append([]Unit(nil), it.LeftItems...)
	out.RightItems = append([]Unit(nil), it.RightItems...)
	out.Steps = append([]Unit(nil), it.Steps...)
	return out
}

// UnitCount returns the number of structural units the kind counts
// against its minimum (options, blanks, pairs or steps).
func (it Item) UnitCount() int {
	switch it.Kind {
	case KindSingleChoice, KindMultipleChoice, KindTrueFalse, KindText:
		return len(it.Options)
	case KindFillBlanks:
		return len(it.Blanks)
	case KindMatching:
		return len(it.LeftItems)
	case KindDragDrop:
		return len(it.DragItems)
	case KindOrdering:
		return len(it.Steps)
	}
	return 0
}

func (it Item) correctOptionIDs() map[string]bool {
	out := make(map[string]bool, len(it.Options))
	for _, opt := range it.Options {
		if opt.IsCorrect {
			out[opt.ID] = true
		}
	}
	return out
}

func (it Item) optionByID(id string) (Option, bool) {
	for _, opt := range it.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

func unitByID(units []Unit, id string) (Unit, bool) {
	for _, u := range units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

func unitIndex(units []Unit, id string) int {
	for i, u := range units {
		if u.ID == id {
			return i
		}
	}
	return -1
}
