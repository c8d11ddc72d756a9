package progressController

// ProgressRequest is the body of a player position tick.
type ProgressRequest struct {
	LessonID    uint    `json:"lesson_id" validate:"required,gt=0"`
	CurrentTime float64 `json:"current_time" validate:"gte=0"`
	Duration    float64 `json:"duration" validate:"gte=0"`
	Completed   bool    `json:"completed"` // Explicit mark-complete from the UI
}
