package assessment

import "context"

// Saver persists an authored item. Implemented by the item service;
// the editor never performs I/O on its own.
type Saver interface {
	SaveItem(ctx context.Context, it Item) (string, error)
}

// Editor holds exactly one item under construction. Every mutation goes
// through the model operations; a rejected mutation leaves the held
// item untouched. After each successful mutation the change callback
// fires synchronously with a copy of the new state.
type Editor struct {
	item     Item
	onChange func(Item)
}

// NewEditor starts a create-mode editor on the minimal valid item of
// the given kind. onChange may be nil.
func NewEditor(kind string, onChange func(Item)) (*Editor, error) {
	it, err := NewItem(kind)
	if err != nil {
		return nil, err
	}
	return &Editor{item: it, onChange: onChange}, nil
}

// NewEditorFor starts an edit-mode editor on an existing item. The item
// must already satisfy its structural invariants.
func NewEditorFor(it Item, onChange func(Item)) (*Editor, error) {
	if err := Validate(it); err != nil {
		return nil, err
	}
	return &Editor{item: it.Clone(), onChange: onChange}, nil
}

// Item returns a copy of the current state.
func (e *Editor) Item() Item {
	return e.item.Clone()
}

// apply runs op on a scratch copy and commits only on success, so a
// failed mutation can never leave the item half-applied.
func (e *Editor) apply(op func(*Item) error) error {
	next := e.item.Clone()
	if err := op(&next); err != nil {
		return err
	}
	e.item = next
	e.emit()
	return nil
}

func (e *Editor) emit() {
	if e.onChange != nil {
		e.onChange(e.item.Clone())
	}
}

// SetPrompt updates the question/instructions text.
func (e *Editor) SetPrompt(prompt string) {
	e.item.Prompt = prompt
	e.emit()
}

// SetMaxPoints updates the item weight; non-positive values are kept
// out by validation at save time, so the editor accepts the raw value.
func (e *Editor) SetMaxPoints(points float64) {
	e.item.MaxPoints = points
	e.emit()
}

// SetExplanation updates the post-grading explanation text.
func (e *Editor) SetExplanation(text string) {
	e.item.Explanation = text
	e.emit()
}

// ChangeKind swaps the item to newKind, resetting the payload to the
// minimal structure while keeping prompt, weight and explanation. The
// caller must discard any session built on the previous kind.
func (e *Editor) ChangeKind(newKind string) error {
	return e.apply(func(it *Item) error { return ChangeKind(it, newKind) })
}

// AddUnit appends a placeholder unit or pair.
func (e *Editor) AddUnit() error {
	return e.apply(AddUnit)
}

// RemoveUnit deletes a unit or pair, refusing to go below the kind's
// structural minimum.
func (e *Editor) RemoveUnit(unitID string) error {
	return e.apply(func(it *Item) error { return RemoveUnit(it, unitID) })
}

// SetCorrectness toggles a quiz option's correctness, enforcing mutual
// exclusion for single-answer kinds.
func (e *Editor) SetCorrectness(unitID string, isCorrect bool) error {
	return e.apply(func(it *Item) error { return SetCorrectness(it, unitID, isCorrect) })
}

// Reorder moves a unit one slot up (-1) or down (+1).
func (e *Editor) Reorder(unitID string, direction int) error {
	return e.apply(func(it *Item) error { return Reorder(it, unitID, direction) })
}

// SetUnitText updates a unit's text.
func (e *Editor) SetUnitText(unitID, text string) error {
	return e.apply(func(it *Item) error { return SetUnitText(it, unitID, text) })
}

// Save validates the held item and hands it to the saver. The editor
// performs no implicit persistence; this is the only write path.
func (e *Editor) Save(ctx context.Context, saver Saver) (string, error) {
	if err := Validate(e.item); err != nil {
		return "", err
	}
	id, err := saver.SaveItem(ctx, e.item.Clone())
	if err != nil {
		return "", err
	}
	e.item.ID = id
	return id, nil
}
