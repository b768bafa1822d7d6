package models

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt Timestamp `json:"created_at"`
}
