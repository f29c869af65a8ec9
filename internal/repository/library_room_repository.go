package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-duty-scheduler/internal/models"
)

// LibraryRoomRepository provides the read-only room surface the scheduler
// enumerates candidates against.
type LibraryRoomRepository struct {
	db *sqlx.DB
}

// NewLibraryRoomRepository constructs a LibraryRoomRepository.
func NewLibraryRoomRepository(db *sqlx.DB) *LibraryRoomRepository {
	return &LibraryRoomRepository{db: db}
}

// LoadRooms returns every active room for a school, ordered by room_id so
// that candidate enumeration order is stable across runs.
func (r *LibraryRoomRepository) LoadRooms(ctx context.Context, schoolID string) ([]models.LibraryRoom, error) {
	const query = `
SELECT id, school_id, room_id, name, capacity, active
FROM library_rooms
WHERE school_id = $1 AND active = true
ORDER BY room_id ASC`

	var rooms []models.LibraryRoom
	if err := r.db.SelectContext(ctx, &rooms, query, schoolID); err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	return rooms, nil
}
