package overbooking

import "math"

// AvailableSlots is the number of bookable slots in a clinic day.
const AvailableSlots = 40

// Level is an overbooking policy the recommender can choose.
type Level struct {
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
	Class      string  `json:"class"`
}

var (
	LevelHigh    = Level{Label: "25%", Multiplier: 1.25, Class: "overbook-high"}
	LevelMid     = Level{Label: "15%", Multiplier: 1.15, Class: "overbook-mid"}
	LevelLow     = Level{Label: "5%", Multiplier: 1.05, Class: "overbook-low"}
	LevelDynamic = Level{Label: "20% (Dynamic)", Multiplier: 1.20, Class: "high"}
)

// State is the simulated attendance reading for the day.
type State struct {
	ExpectedAttendance float64 `json:"expected_attendance"`
	AttendanceStdDev   float64 `json:"attendance_std_dev"`
}

// Result is an overbooking recommendation.
type Result struct {
	ChosenLevelLabel        string  `json:"chosen_level"`
	Multiplier              float64 `json:"multiplier"`
	AvailableSlots          int     `json:"available_slots"`
	AppointmentsToBook      int     `json:"appointments_to_book"`
	ExpectedAttendanceProxy float64 `json:"expected_attendance_proxy"`
	AttendanceStdDevProxy   float64 `json:"attendance_std_dev_proxy"`
	LevelClass              string  `json:"level_class"`
}

// AppointmentsFor is floor(AvailableSlots × multiplier).
func AppointmentsFor(multiplier float64) int {
	return int(math.Floor(float64(AvailableSlots) * multiplier))
}

// NewResult builds the recommendation for level given the observed state.
func NewResult(state State, level Level) Result {
	return Result{
		ChosenLevelLabel:        level.Label,
		Multiplier:              level.Multiplier,
		AvailableSlots:          AvailableSlots,
		AppointmentsToBook:      AppointmentsFor(level.Multiplier),
		ExpectedAttendanceProxy: state.ExpectedAttendance,
		AttendanceStdDevProxy:   state.AttendanceStdDev,
		LevelClass:              level.Class,
	}
}
