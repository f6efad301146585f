package models

import "github.com/uptrace/bun"

// CounterBookID is the name of the counter backing book identifiers.
const CounterBookID = "book_id"

// Counter is a named sequence value. Seq holds the highest numeric suffix
// handed out so far under that name; the next identifier uses Seq + 1.
type Counter struct {
	bun.BaseModel `bun:"table:counters,alias:c"`

	Name string `bun:",pk" json:"name"`
	Seq  int64  `json:"seq"`
}
