package model

// FinalClass is one of the six mutually exclusive outcomes of the total score.
type FinalClass string

const (
	ClassCommitted        FinalClass = "committed"
	ClassGood             FinalClass = "good"
	ClassRescheduleCap    FinalClass = "reschedule_cap"
	ClassRescheduleReduce FinalClass = "reschedule_reduce"
	ClassNearFinal        FinalClass = "near_final"
	ClassNotViable        FinalClass = "not_viable"
)

// Classes lists the final classes from best to worst.
var Classes = []FinalClass{
	ClassCommitted,
	ClassGood,
	ClassRescheduleCap,
	ClassRescheduleReduce,
	ClassNearFinal,
	ClassNotViable,
}

// Direction labels the sign of the trend delta.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionStable   Direction = "stable"
	DirectionUnknown  Direction = "—"
)

// Magnitude labels the size of the trend delta.
type Magnitude string

const (
	MagnitudeLight   Magnitude = "light"
	MagnitudeMedium  Magnitude = "medium"
	MagnitudeStrong  Magnitude = "strong"
	MagnitudeUnknown Magnitude = "—"
)

// ReturnsLabel classifies a returns rate against the peer benchmark.
type ReturnsLabel string

const (
	ReturnsWithinStandard   ReturnsLabel = "within_standard"
	ReturnsNeedsMonitoring  ReturnsLabel = "needs_monitoring"
	ReturnsElevated         ReturnsLabel = "elevated"
	ReturnsVeryElevated     ReturnsLabel = "very_elevated"
	ReturnsInsufficientData ReturnsLabel = "insufficient_data"
)

// PlanNote describes whether the surcharge was added to the payment target.
type PlanNote string

const (
	PlanNoteSurcharge PlanNote = "surcharge_applied"
	PlanNoteBaseOnly  PlanNote = "base_target_only"
)
