package repository

import (
	"database/sql"
	"fmt"
	"time"

	"cogassess/internal/database"
	"cogassess/internal/models"
)

// UserRepository handles database operations for users and their student rows
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts the user and its mirrored student row in one transaction
func (r *UserRepository) CreateUser(user *models.User) (*models.Student, error) {
	student := &models.Student{
		StudentID:  user.ID,
		Name:       user.Name,
		Age:        user.Age,
		GradeLevel: user.Grade,
		State:      user.State,
	}

	err := r.db.WithTx(func(tx *database.Tx) error {
		query := `
			INSERT INTO users (user_id, name, age, standard, mobile, date_of_birth, state, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.Exec(query, user.ID, user.Name, user.Age, user.Grade, user.Mobile, user.DateOfBirth, user.State, user.CreatedAt); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		query = `
			INSERT INTO students (student_id, name, age, grade_level, state)
			VALUES (?, ?, ?, ?, ?)
		`
		if _, err := tx.Exec(query, student.StudentID, student.Name, student.Age, student.GradeLevel, student.State); err != nil {
			return fmt.Errorf("failed to create student: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return student, nil
}

// FindByIdentity looks a user up by the (name, mobile, date of birth) triple.
// The name comparison is case-insensitive when ignoreCase is set.
func (r *UserRepository) FindByIdentity(name string, mobile int64, dateOfBirth string, ignoreCase bool) (*models.User, error) {
	nameClause := "name = ?"
	if ignoreCase {
		nameClause = "LOWER(name) = LOWER(?)"
	}
	query := `
		SELECT user_id, name, age, standard, mobile, date_of_birth, state, created_at
		FROM users
		WHERE ` + nameClause + ` AND mobile = ? AND date_of_birth = ?
		ORDER BY created_at
		LIMIT 1
	`
	return r.scanUser(r.db.QueryRow(query, name, mobile, dateOfBirth))
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var createdAt time.Time
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Age,
		&user.Grade,
		&user.Mobile,
		&user.DateOfBirth,
		&user.State,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = createdAt.UTC()
	return user, nil
}
