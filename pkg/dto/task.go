package dto

type CreateTaskRequest struct {
	Title   string  `json:"title"`
	DueDate *string `json:"due_date,omitempty"`
}

type UpdateTaskRequest struct {
	Title   *string `json:"title,omitempty"`
	DueDate *string `json:"due_date,omitempty"`
}

type SetTaskCompletedRequest struct {
	IsCompleted bool `json:"is_completed"`
}
