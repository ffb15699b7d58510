package model

import "time"

// FaqCategory ordered grouping for FAQs. Admin-managed; no author column.
type FaqCategory struct {
	Cid       int64     `db:"cid"`
	Name      string    `db:"name"`
	Sort      int       `db:"sort"` // display order, ties broken by insertion (cid)
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Faq question/answer record, ordered within its category
type Faq struct {
	Fid       int64     `db:"fid"`
	Cid       int64     `db:"cid"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	Sort      int       `db:"sort"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CategoryRequest admin create/update payload for categories
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Sort int    `json:"order"`
}

// FaqRequest admin create/update payload for FAQs
type FaqRequest struct {
	Cid      int64  `json:"cid" binding:"required"`
	Question string `json:"question" binding:"required,max=500"`
	Answer   string `json:"answer" binding:"required"`
	Sort     int    `json:"order"`
}
