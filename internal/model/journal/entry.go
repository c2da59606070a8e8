package journal

import "time"

// Entry is a single journal entry. Feedback is empty until the simulated
// reviewer has answered.
type Entry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Content   string    `json:"content"`
	Feedback  string    `json:"feedback,omitempty"`
}
