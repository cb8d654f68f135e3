package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations. Every write is
// auto-committed per call; there are no multi-statement transactions, so the
// store stays safe under the single-writer connection pool.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetOrCreateUser fetches the user with the given ID, creating it with
	// the supplied group when absent. The returned bool reports whether a
	// new row was created.
	GetOrCreateUser(ctx context.Context, userID int64, group string) (*User, bool, error)

	// SetChosenCategory persists the user's chosen category key and the
	// moment of the selection (the cooldown timestamp).
	SetChosenCategory(ctx context.Context, userID int64, categoryKey string, clickedAt time.Time) error

	// IncrementWallpapersReceived bumps the user's received counter by one.
	IncrementWallpapersReceived(ctx context.Context, userID int64) error

	// IncrementWallpapersUsed bumps the user's used counter by one.
	IncrementWallpapersUsed(ctx context.Context, userID int64) error

	// ListUsers retrieves all users ordered by user ID.
	ListUsers(ctx context.Context) ([]User, error)

	// ListRecipients retrieves users that have received at least one wallpaper.
	ListRecipients(ctx context.Context) ([]User, error)

	// InsertImages stores freshly fetched images under the given category
	// key. Images already cached for that category are silently skipped.
	InsertImages(ctx context.Context, categoryKey string, images []Image) error

	// GetUnseenImages retrieves the images in categoryKey that the user has
	// no seen record for, in insertion order.
	GetUnseenImages(ctx context.Context, categoryKey string, userID int64) ([]Image, error)

	// MarkImageSeen records that the image was delivered to the user.
	// Marking the same pair twice is a no-op.
	MarkImageSeen(ctx context.Context, userID int64, imageID string) error

	// GroupStats returns the summed wallpaper counters per user group.
	GroupStats(ctx context.Context) ([]GroupStats, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetOrCreateUser fetches a user, inserting a fresh row with the supplied
// group when the user is unknown.
func (s *sqlxStore) GetOrCreateUser(ctx context.Context, userID int64, group string) (*User, bool, error) {
	if userID == 0 {
		return nil, false, fmt.Errorf("user_id cannot be zero")
	}

	var user User
	query := `SELECT user_id, created_at, updated_at, user_group, wallpapers_used,
	                 wallpapers_received, chosen_category, last_category_click
	          FROM users WHERE user_id = ?`

	err := s.db.GetContext(ctx, &user, query, userID)

	switch {
	case err == nil:
		return &user, false, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching user",
			"user_id", userID, "error", err)
		return nil, false, err

	case !errors.Is(err, sql.ErrNoRows):
		s.logger.ErrorContext(ctx, "Error getting user by ID", "user_id", userID, "error", err)
		return nil, false, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	if group != GroupNarrow && group != GroupWide {
		return nil, false, fmt.Errorf("invalid user group %q", group)
	}

	now := time.Now().UTC()
	user = User{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Group:     group,
	}

	insert := `INSERT INTO users (user_id, created_at, updated_at, user_group, wallpapers_used, wallpapers_received)
	           VALUES (:user_id, :created_at, :updated_at, :user_group, :wallpapers_used, :wallpapers_received)`
	if _, err := s.db.NamedExecContext(ctx, insert, &user); err != nil {
		s.logger.ErrorContext(ctx, "Error creating user", "user_id", userID, "group", group, "error", err)
		return nil, false, fmt.Errorf("failed to create user %d: %w", userID, err)
	}

	s.logger.InfoContext(ctx, "Created new user", "user_id", userID, "group", group)
	return &user, true, nil
}

// SetChosenCategory persists the user's chosen category key and the click
// timestamp used by the cooldown policy.
func (s *sqlxStore) SetChosenCategory(ctx context.Context, userID int64, categoryKey string, clickedAt time.Time) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}
	if categoryKey == "" {
		return fmt.Errorf("category key cannot be empty")
	}

	query := `UPDATE users
	          SET chosen_category = ?, last_category_click = ?, updated_at = ?
	          WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, query, categoryKey, clickedAt.UTC(), time.Now().UTC(), userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error setting chosen category",
			"user_id", userID, "category_key", categoryKey, "error", err)
		return fmt.Errorf("failed to set chosen category for user %d: %w", userID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when setting category",
			"user_id", userID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Chosen category updated", "user_id", userID, "category_key", categoryKey)
	return nil
}

// IncrementWallpapersReceived bumps the user's received counter by one.
func (s *sqlxStore) IncrementWallpapersReceived(ctx context.Context, userID int64) error {
	return s.incrementCounter(ctx, userID, "wallpapers_received")
}

// IncrementWallpapersUsed bumps the user's used counter by one.
func (s *sqlxStore) IncrementWallpapersUsed(ctx context.Context, userID int64) error {
	return s.incrementCounter(ctx, userID, "wallpapers_used")
}

func (s *sqlxStore) incrementCounter(ctx context.Context, userID int64, column string) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}

	// column is one of two compile-time constants, never user input.
	query := fmt.Sprintf(`UPDATE users SET %s = %s + 1, updated_at = ? WHERE user_id = ?`, column, column)

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing counter",
			"user_id", userID, "column", column, "error", err)
		return fmt.Errorf("failed to increment %s for user %d: %w", column, userID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Counter increment affected unexpected row count",
			"user_id", userID, "column", column, "affected", affected)
	}
	return nil
}

// ListUsers retrieves all users ordered by user ID.
func (s *sqlxStore) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	query := `SELECT user_id, created_at, updated_at, user_group, wallpapers_used,
	                 wallpapers_received, chosen_category, last_category_click
	          FROM users ORDER BY user_id`

	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched users", "count", len(users))
	return users, nil
}

// ListRecipients retrieves users that have received at least one wallpaper.
func (s *sqlxStore) ListRecipients(ctx context.Context) ([]User, error) {
	var users []User
	query := `SELECT user_id, created_at, updated_at, user_group, wallpapers_used,
	                 wallpapers_received, chosen_category, last_category_click
	          FROM users WHERE wallpapers_received > 0 ORDER BY user_id`

	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing wallpaper recipients", "error", err)
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched wallpaper recipients", "count", len(users))
	return users, nil
}

// InsertImages stores freshly fetched images under the given category key.
// A provider image already cached for that category is skipped silently, so
// re-fetching a category never produces duplicate rows.
func (s *sqlxStore) InsertImages(ctx context.Context, categoryKey string, images []Image) error {
	if categoryKey == "" {
		return fmt.Errorf("category key cannot be empty")
	}
	if len(images) == 0 {
		return nil
	}

	query := `INSERT INTO images (category_key, image_id, image_url, created_at)
	          VALUES (?, ?, ?, ?)
	          ON CONFLICT (category_key, image_id) DO NOTHING`

	now := time.Now().UTC()
	inserted := 0
	for _, img := range images {
		if img.ImageID == "" || img.ImageURL == "" {
			s.logger.WarnContext(ctx, "Skipping image with missing id or url", "category_key", categoryKey)
			continue
		}
		result, err := s.db.ExecContext(ctx, query, categoryKey, img.ImageID, img.ImageURL, now)
		if err != nil {
			s.logger.ErrorContext(ctx, "Error inserting image",
				"category_key", categoryKey, "image_id", img.ImageID, "error", err)
			return fmt.Errorf("failed to insert image %s for category %s: %w", img.ImageID, categoryKey, err)
		}
		if affected, err := result.RowsAffected(); err == nil {
			inserted += int(affected)
		}
	}

	s.logger.DebugContext(ctx, "Inserted images", "category_key", categoryKey,
		"fetched", len(images), "inserted", inserted)
	return nil
}

// GetUnseenImages retrieves the images in categoryKey that the user has no
// seen record for. The join is on the provider-assigned image id, not the
// internal row id, so seen-marking survives even if image rows were pruned.
func (s *sqlxStore) GetUnseenImages(ctx context.Context, categoryKey string, userID int64) ([]Image, error) {
	if categoryKey == "" {
		return nil, fmt.Errorf("category key cannot be empty")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}

	var images []Image
	query := `SELECT i.id, i.created_at, i.category_key, i.image_id, i.image_url
	          FROM images i
	          LEFT JOIN seen_images s
	                 ON s.image_id = i.image_id
	                AND s.user_id = ?
	          WHERE i.category_key = ?
	            AND s.image_id IS NULL
	          ORDER BY i.id`

	err := s.db.SelectContext(ctx, &images, query, userID, categoryKey)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error querying unseen images",
			"category_key", categoryKey, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get unseen images for category %s: %w", categoryKey, err)
	}

	s.logger.DebugContext(ctx, "Fetched unseen images",
		"category_key", categoryKey, "user_id", userID, "count", len(images))
	return images, nil
}

// MarkImageSeen records that the image was delivered to the user. The
// (user_id, image_id) pair is unique; a duplicate mark is absorbed silently.
func (s *sqlxStore) MarkImageSeen(ctx context.Context, userID int64, imageID string) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}
	if imageID == "" {
		return fmt.Errorf("image id cannot be empty")
	}

	query := `INSERT INTO seen_images (user_id, image_id, created_at)
	          VALUES (?, ?, ?)
	          ON CONFLICT (user_id, image_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, userID, imageID, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error marking image as seen",
			"user_id", userID, "image_id", imageID, "error", err)
		return fmt.Errorf("failed to mark image %s seen for user %d: %w", imageID, userID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		s.logger.DebugContext(ctx, "Image already marked as seen",
			"user_id", userID, "image_id", imageID)
	}
	return nil
}

// GroupStats returns the summed wallpaper counters per user group.
func (s *sqlxStore) GroupStats(ctx context.Context) ([]GroupStats, error) {
	var stats []GroupStats
	query := `SELECT user_group,
	                 COALESCE(SUM(wallpapers_used), 0)     AS wallpapers_used,
	                 COALESCE(SUM(wallpapers_received), 0) AS wallpapers_received
	          FROM users
	          GROUP BY user_group
	          ORDER BY user_group`

	if err := s.db.SelectContext(ctx, &stats, query); err != nil {
		s.logger.ErrorContext(ctx, "Error aggregating group stats", "error", err)
		return nil, fmt.Errorf("failed to aggregate group stats: %w", err)
	}

	return stats, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
