package dto

type CreateBudgetRequest struct {
	Quarter     string  `json:"quarter"`
	Category    string  `json:"category"`
	Kind        string  `json:"kind"`
	AmountCents int64   `json:"amount_cents"`
	Description *string `json:"description,omitempty"`
}

type UpdateBudgetRequest struct {
	Quarter     *string `json:"quarter,omitempty"`
	Category    *string `json:"category,omitempty"`
	Kind        *string `json:"kind,omitempty"`
	AmountCents *int64  `json:"amount_cents,omitempty"`
	Description *string `json:"description,omitempty"`
}
