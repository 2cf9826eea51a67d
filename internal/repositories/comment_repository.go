package repositories

import (
	"errors"
	"time"

	"github.com/nestboard/backend/internal/models"
	"gorm.io/gorm"
)

// ErrStaleComment is returned when a conditional update matched no rows,
// meaning the comment's state changed between read and write (e.g. a
// concurrent delete raced an edit).
var ErrStaleComment = errors.New("comment state changed concurrently")

// CommentRepository defines the interface for comment data operations.
// Mutations are conditional on the expected pre-state so a lost update
// surfaces as ErrStaleComment instead of silently clobbering.
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetComments() ([]models.Comment, error)
	UpdateContent(id uint, content string, updatedAt time.Time) error
	SoftDelete(id uint, deletedAt time.Time) error
	Restore(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetComments retrieves the full comment set newest-first, authors included
func (r *PostgresCommentRepository) GetComments() ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("Author").Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateContent replaces a live comment's content. Fails with
// ErrStaleComment if the comment was deleted in the meantime.
func (r *PostgresCommentRepository) UpdateContent(id uint, content string, updatedAt time.Time) error {
	res := r.db.Model(&models.Comment{}).
		Where("id = ? AND is_deleted = false", id).
		UpdateColumns(map[string]interface{}{"content": content, "updated_at": updatedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleComment
	}
	return nil
}

// SoftDelete marks a live comment deleted, keeping its content for restore
func (r *PostgresCommentRepository) SoftDelete(id uint, deletedAt time.Time) error {
	res := r.db.Model(&models.Comment{}).
		Where("id = ? AND is_deleted = false", id).
		UpdateColumns(map[string]interface{}{"is_deleted": true, "deleted_at": deletedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleComment
	}
	return nil
}

// Restore clears the soft-delete flag and timestamp on a deleted comment
func (r *PostgresCommentRepository) Restore(id uint) error {
	res := r.db.Model(&models.Comment{}).
		Where("id = ? AND is_deleted = true", id).
		UpdateColumns(map[string]interface{}{"is_deleted": false, "deleted_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleComment
	}
	return nil
}
