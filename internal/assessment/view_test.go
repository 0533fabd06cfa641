package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalView(t *testing.T, it Item) string {
	t.Helper()
	data, err := json.Marshal(it.View(testRand()))
	require.NoError(t, err)
	return string(data)
}

func TestViewNeverLeaksAnswerKey(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(kind, func(t *testing.T) {
			it, err := NewItem(kind)
			require.NoError(t, err)

			body := marshalView(t, it)
			assert.NotContains(t, body, "is_correct")
			assert.NotContains(t, body, "match_id")
			assert.NotContains(t, body, "position")
			assert.NotContains(t, body, "blanks")
		})
	}
}

func TestViewMasksFillBlankAnswers(t *testing.T) {
	it, err := NewItem(KindFillBlanks)
	require.NoError(t, err)
	it.Text = "Le [chat] mange une [souris]"
	syncBlanks(&it)

	v := it.View(testRand())
	assert.Equal(t, "Le ____ mange une ____", v.Text)
	assert.Equal(t, 2, v.BlankCount)

	body := marshalView(t, it)
	assert.NotContains(t, body, "chat")
	assert.NotContains(t, body, "souris")
}

func TestViewTextKindHidesCanonicalAnswer(t *testing.T) {
	it, err := NewItem(KindText)
	require.NoError(t, err)
	it.Options[0].Text = "photosynthesis"

	v := it.View(testRand())
	assert.Empty(t, v.Options)
	assert.NotContains(t, marshalView(t, it), "photosynthesis")
}

func TestViewKeepsUnitsWithoutPairingKeys(t *testing.T) {
	it, err := NewItem(KindMatching)
	require.NoError(t, err)

	v := it.View(testRand())
	assert.Len(t, v.LeftItems, len(it.LeftItems))
	assert.Len(t, v.RightItems, len(it.RightItems))
	for _, u := range append(v.LeftItems, v.RightItems...) {
		assert.NotEmpty(t, u.ID)
		assert.NotEmpty(t, u.Text)
	}

	dd, err := NewItem(KindDragDrop)
	require.NoError(t, err)
	dv := dd.View(testRand())
	assert.Len(t, dv.DragItems, len(dd.DragItems))
	assert.Len(t, dv.DropZones, len(dd.DropZones))

	ord, err := NewItem(KindOrdering)
	require.NoError(t, err)
	ov := ord.View(testRand())
	assert.Len(t, ov.Steps, len(ord.Steps))
}
