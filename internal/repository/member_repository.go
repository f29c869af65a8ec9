package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-duty-scheduler/internal/models"
)

// MemberRepository provides the read-only member surface the scheduler
// needs. Member CRUD lives outside the core and has no repository here.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository constructs a MemberRepository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// LoadMembers returns every active committee member in grades 5 and 6 for
// the given school and academic year, ordered by grade, then class, then
// name so that enumeration and allocation order stay deterministic across
// runs. Lower grades are not eligible for library duty.
func (r *MemberRepository) LoadMembers(ctx context.Context, schoolID string, academicYear int) ([]models.Member, error) {
	const query = `
SELECT id, name, class_id, grade, position_id, academic_year, school_id, active
FROM members
WHERE school_id = $1 AND academic_year = $2 AND active = true AND grade IN (5, 6)
ORDER BY grade ASC, class_id ASC, name ASC`

	var members []models.Member
	if err := r.db.SelectContext(ctx, &members, query, schoolID, academicYear); err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	return members, nil
}
