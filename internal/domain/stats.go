package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayKey is the calendar-day format used to key daily rollups. Days are
// resolved in UTC so the rollup is deterministic server-side.
const DayKey = "2006-01-02"

type DailyStat struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	Date      string    `json:"date"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DailyPoint is one entry in a dense view series; days with no recorded
// views appear with Views == 0.
type DailyPoint struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

// PostTotals is the aggregate a dashboard shows for one post.
type PostTotals struct {
	PostID    uuid.UUID `json:"post_id"`
	ViewCount int64     `json:"view_count"`
	LikeCount int64     `json:"like_count"`
}
