package models

import (
	"time"

	"github.com/gocql/gocql"
)

type QuizQuestion struct {
	ID       gocql.UUID   `json:"id"`
	Position int          `json:"position"`
	Text     string       `json:"text"`
	Options  []QuizOption `json:"options"`
}

// QuizOption maps an answer to the skin type it is evidence for.
type QuizOption struct {
	Key        string     `json:"key" cql:"key"` // "a", "b", ...
	Text       string     `json:"text" cql:"text"`
	SkinTypeID gocql.UUID `json:"skin_type_id" cql:"skin_type_id"`
}

type QuizResult struct {
	ID         gocql.UUID     `json:"id"`
	AccountID  string         `json:"account_id"`
	SkinTypeID gocql.UUID     `json:"skin_type_id"`
	Scores     map[string]int `json:"scores"` // skin type id → votes
	CreatedAt  time.Time      `json:"created_at"`
}
