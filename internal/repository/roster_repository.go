package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/smart-attendance-api/internal/models"
)

// RosterRepository reads the enrolled-student list for the active class. The
// engine only consumes it; roster editing lives in a separate admin surface.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// GetRoster returns every active student in roster order. Roll numbers are
// unique within a roster; their ordering defines the attendance sheet layout.
func (r *RosterRepository) GetRoster(ctx context.Context) ([]models.Student, error) {
	query := `SELECT roll_no, name, COALESCE(parent_contact, '') AS parent_contact
        FROM students WHERE active = true ORDER BY roll_no ASC`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, err
	}
	return students, nil
}
