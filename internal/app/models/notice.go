package models

import "time"

// Notice is an announcement, either global or scoped to one class
type Notice struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
	ClassID   string    `json:"classId,omitempty"`
	IsGlobal  bool      `json:"isGlobal"`
}

// NoticeInput is what a teacher submits; an empty ClassID posts a global notice
type NoticeInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ClassID   string `json:"classId,omitempty"`
	CreatedBy string `json:"createdBy,omitempty"`
}

// NewNotice builds a notice from input keeping the global/class scope consistent
func NewNotice(id string, in NoticeInput, at time.Time) Notice {
	return Notice{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: at,
		CreatedBy: in.CreatedBy,
		ClassID:   in.ClassID,
		IsGlobal:  in.ClassID == "",
	}
}
