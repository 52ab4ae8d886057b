package models

import "time"

type Budget struct {
	ID        string    `json:"id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateBudgetRequest struct {
	Month    int     `json:"month" binding:"required,min=1,max=12"`
	Year     int     `json:"year" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Category string  `json:"category"`
}
