package assessment

import "math/rand"

// OptionView is a quiz option as presented to a learner: no answer key,
// no authored feedback.
type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// UnitView is an exercise unit as presented to a learner: pairing keys
// and correct positions are server-side only.
type UnitView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ItemView is the learner-facing projection of an Item. Ordering steps
// and matching right items arrive shuffled; fill-in source text has its
// answers masked.
type ItemView struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Prompt    string  `json:"prompt"`
	MaxPoints float64 `json:"max_points"`

	Options []OptionView `json:"options,omitempty"`

	Text       string `json:"text,omitempty"`
	BlankCount int    `json:"blank_count,omitempty"`

	DragItems  []UnitView `json:"drag_items,omitempty"`
	DropZones  []UnitView `json:"drop_zones,omitempty"`
	LeftItems  []UnitView `json:"left_items,omitempty"`
	RightItems []UnitView `json:"right_items,omitempty"`
	Steps      []UnitView `json:"steps,omitempty"`
}

// View builds the learner projection. rng drives the shuffles; nil
// falls back to the global source.
func (it Item) View(rng *rand.Rand) ItemView {
	v := ItemView{
		ID:        it.ID,
		Kind:      it.Kind,
		Prompt:    it.Prompt,
		MaxPoints: it.MaxPoints,
	}

	switch it.Kind {
	case KindSingleChoice, KindMultipleChoice, KindTrueFalse:
		v.Options = make([]OptionView, 0, len(it.Options))
		for _, opt := range it.Options {
			v.Options = append(v.Options, OptionView{ID: opt.ID, Text: opt.Text})
		}
	case KindText:
		// free-text input only; the canonical answer stays server-side
	case KindFillBlanks:
		v.Text = maskBlanks(it.Text)
		v.BlankCount = len(it.Blanks)
	case KindDragDrop:
		v.DragItems = shuffledViews(it.DragItems, rng)
		v.DropZones = unitViews(it.DropZones)
	case KindMatching:
		v.LeftItems = unitViews(it.LeftItems)
		v.RightItems = shuffledViews(it.RightItems, rng)
	case KindOrdering:
		v.Steps = shuffledViews(it.Steps, rng)
	}
	return v
}

func unitViews(units []Unit) []UnitView {
	out := make([]UnitView, 0, len(units))
	for _, u := range units {
		out = append(out, UnitView{ID: u.ID, Text: u.Text})
	}
	return out
}

func shuffledViews(units []Unit, rng *rand.Rand) []UnitView {
	out := unitViews(units)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
