package database

import (
	"database/sql"
	"time"
)

// User group assignments. A user is placed in one group at first contact and
// stays there for good.
const (
	GroupNarrow = "narrow"
	GroupWide   = "wide"
)

// User represents a bot user and their cumulative wallpaper statistics.
// Users are created on first interaction and never deleted.
type User struct {
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Group              string `db:"user_group"`
	WallpapersUsed     int64  `db:"wallpapers_used"`
	WallpapersReceived int64  `db:"wallpapers_received"`

	ChosenCategory    sql.NullString `db:"chosen_category"`
	LastCategoryClick sql.NullTime   `db:"last_category_click"`
}

// Image is a wallpaper cached from the image provider. The provider-assigned
// ImageID is unique within a category; rows are immutable once stored and act
// as a permanent cache.
type Image struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	CategoryKey string `db:"category_key"`
	ImageID     string `db:"image_id"`
	ImageURL    string `db:"image_url"`
}

// GroupStats aggregates wallpaper counters for one user group.
type GroupStats struct {
	Group              string `db:"user_group"`
	WallpapersUsed     int64  `db:"wallpapers_used"`
	WallpapersReceived int64  `db:"wallpapers_received"`
}

// UsageRate returns the used/received percentage, or 0 when nothing has been
// received yet.
func (s GroupStats) UsageRate() float64 {
	if s.WallpapersReceived == 0 {
		return 0
	}
	return float64(s.WallpapersUsed) / float64(s.WallpapersReceived) * 100
}
