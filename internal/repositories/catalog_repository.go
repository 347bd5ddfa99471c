package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corplearning/backend/internal/models"
)

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a repository over the course catalogue and client companies
func NewCatalogRepository(db *sql.DB) *catalogRepository {
	return &catalogRepository{
		db: db,
	}
}

// GetLesson retrieves a lesson by its ID
func (r *catalogRepository) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	query := `SELECT id, module_id, course_id, title, sort_order FROM lessons WHERE id = ?`

	var l models.Lesson
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.ModuleID, &l.CourseID, &l.Title, &l.Order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	return &l, nil
}

// GetEvaluation retrieves an evaluation definition by its ID
func (r *catalogRepository) GetEvaluation(ctx context.Context, id int) (*models.EvaluationDefinition, error) {
	query := `SELECT id, course_id, passing_score, max_attempts, is_active FROM evaluations WHERE id = ?`

	var e models.EvaluationDefinition
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.CourseID, &e.PassingScore, &e.MaxAttempts, &e.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	return &e, nil
}

// GetCompany retrieves a company by its ID
func (r *catalogRepository) GetCompany(ctx context.Context, id int) (*models.Company, error) {
	query := `SELECT id, name, contact_email FROM companies WHERE id = ?`

	var c models.Company
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.ContactEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &c, nil
}

// ListCompanies retrieves all companies ordered by ID
func (r *catalogRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	query := `SELECT id, name, contact_email FROM companies ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactEmail); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}

	return companies, nil
}
