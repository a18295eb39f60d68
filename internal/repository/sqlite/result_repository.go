package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
	"github.com/quantum-quiz/backend/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type resultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository implementation
func NewResultRepository(db *sql.DB) repository.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Insert(ctx context.Context, result models.QuizResult) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("inserting quiz result: username=%s, score=%d", result.Username, result.Score)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO quiz_results (username, score, chapter_id, question_count, time_spent_secs, mode)
VALUES (?, ?, ?, ?, ?, ?)
`, result.Username, result.Score, nullable(result.ChapterID), result.QuestionCount, result.TimeSpentSecs, result.Mode)
	if err != nil {
		log.Error("failed to insert quiz result: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get quiz result id: %v", err)
		return 0, err
	}
	log.Debug("quiz result inserted: id=%d", id)
	return id, nil
}

func (r *resultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")

	query := applyFilter(sqlBuilder.
		Select("id", "username", "score", "chapter_id", "question_count", "time_spent_secs", "mode", "submitted_at").
		From("quiz_results"), filter)

	// Safe ORDER BY with validation
	orderBy := "score"
	if filter.OrderBy == "submitted_at" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build result query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query quiz results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var results []models.QuizResult
	for rows.Next() {
		var result models.QuizResult
		var chapterID sql.NullString
		if err := rows.Scan(&result.ID, &result.Username, &result.Score, &chapterID,
			&result.QuestionCount, &result.TimeSpentSecs, &result.Mode, &result.SubmittedAt); err != nil {
			log.Error("failed to scan quiz result row: %v", err)
			return nil, err
		}
		if chapterID.Valid {
			result.ChapterID = chapterID.String
		}
		results = append(results, result)
	}
	log.Debug("found %d quiz results", len(results))
	return results, rows.Err()
}

func (r *resultRepository) Count(ctx context.Context, filter models.ResultFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")

	query := applyFilter(sqlBuilder.Select("COUNT(*)").From("quiz_results"), filter)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count quiz results: %v", err)
		return 0, err
	}
	return count, nil
}

func applyFilter(query squirrel.SelectBuilder, filter models.ResultFilter) squirrel.SelectBuilder {
	if filter.ChapterID != "" {
		query = query.Where(squirrel.Eq{"chapter_id": filter.ChapterID})
	}
	if filter.Mode != "" {
		query = query.Where(squirrel.Eq{"mode": filter.Mode})
	}
	if filter.Username != "" {
		query = query.Where(squirrel.Eq{"username": filter.Username})
	}
	return query
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
