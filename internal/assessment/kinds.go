package assessment

// Quiz kinds: a single question graded against its option list.
const (
	KindSingleChoice   = "single_choice"
	KindMultipleChoice = "multiple_choice"
	KindTrueFalse      = "true_false"
	KindText           = "text"
)

// Exercise kinds: structured interactions graded unit by unit.
const (
	KindFillBlanks = "fill_blanks"
	KindDragDrop   = "drag_drop"
	KindMatching   = "matching"
	KindOrdering   = "ordering"
)

// IsQuizKind reports whether kind belongs to the quiz family.
func IsQuizKind(kind string) bool {
	switch kind {
	case KindSingleChoice, KindMultipleChoice, KindTrueFalse, KindText:
		return true
	}
	return false
}

// IsExerciseKind reports whether kind belongs to the exercise family.
func IsExerciseKind(kind string) bool {
	switch kind {
	case KindFillBlanks, KindDragDrop, KindMatching, KindOrdering:
		return true
	}
	return false
}

// KnownKind reports whether kind is any supported kind.
func KnownKind(kind string) bool {
	return IsQuizKind(kind) || IsExerciseKind(kind)
}

// minUnits returns the structural minimum for a kind: the number of
// options for quiz kinds, blanks for fill-in, pairs for paired kinds,
// steps for ordering.
func minUnits(kind string) int {
	switch kind {
	case KindText:
		return 1
	case KindSingleChoice, KindMultipleChoice, KindTrueFalse:
		return 2
	case KindFillBlanks:
		return 1
	case KindMatching, KindDragDrop, KindOrdering:
		return 2
	}
	return 0
}

// fixedCardinality reports kinds whose unit count never changes:
// true/false always has exactly two options, text exactly one
// canonical answer.
func fixedCardinality(kind string) bool {
	return kind == KindTrueFalse || kind == KindText
}
