package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nestboard/backend/internal/models"
	"github.com/nestboard/backend/internal/repositories"
	"github.com/nestboard/backend/pkg/apperr"
	"gorm.io/gorm"
)

// Owner action windows. All three are 15 minutes today but are independent
// knobs; keep them separate so tuning one never silently moves another.
const (
	EditWindow    = 15 * time.Minute
	DeleteWindow  = 15 * time.Minute
	RestoreWindow = 15 * time.Minute
)

// CommentService enforces the comment lifecycle rules: creation, the
// time-windowed edit/delete/restore transitions, and reply notification
// fan-out. Handlers stay thin; every business decision lives here.
type CommentService struct {
	comments      repositories.CommentRepository
	notifications repositories.NotificationRepository
	clock         Clock
	sanitizer     *bluemonday.Policy
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository, notifications repositories.NotificationRepository, clock Clock) *CommentService {
	return &CommentService{
		comments:      comments,
		notifications: notifications,
		clock:         clock,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

// validateContent rejects content that is empty once whitespace and any
// embedded markup are stripped. The stored content is only trimmed; a
// comment made entirely of tags counts as empty.
func (s *CommentService) validateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if strings.TrimSpace(s.sanitizer.Sanitize(trimmed)) == "" {
		return "", apperr.New(apperr.CodeValidation, "Comment content cannot be empty")
	}
	return trimmed, nil
}

// Create persists a new comment. A reply to someone else's comment emits
// exactly one reply notification for the parent's author; self-replies and
// top-level comments emit nothing.
func (s *CommentService) Create(authorID uint, content string, parentID *uint) (*models.Comment, error) {
	clean, err := s.validateContent(content)
	if err != nil {
		return nil, err
	}

	var parent *models.Comment
	if parentID != nil {
		parent, err = s.comments.GetCommentByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.New(apperr.CodeNotFound, "Parent comment not found")
			}
			return nil, apperr.Internal(err)
		}
	}

	now := s.clock.Now()
	comment := &models.Comment{
		Content:   clean,
		AuthorID:  authorID,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, apperr.Internal(err)
	}

	if parent != nil && parent.AuthorID != authorID {
		notification := &models.Notification{
			RecipientID: parent.AuthorID,
			ActorID:     authorID,
			CommentID:   comment.ID,
			Type:        models.NotificationTypeReply,
			CreatedAt:   now,
		}
		// Best-effort: a lost notification is not data loss, so a failed
		// insert never rolls back the comment.
		if err := s.notifications.CreateNotification(notification); err != nil {
			log.Printf("reply notification for comment %d failed: %v", comment.ID, err)
		}
	}

	return comment, nil
}

// Edit replaces a comment's content. Only the author may edit, only while
// the comment is live and inside EditWindow. An edit to identical content is
// a no-op success that leaves UpdatedAt untouched.
func (s *CommentService) Edit(commentID, requesterID uint, content string) (*models.Comment, error) {
	comment, err := s.getOwned(commentID, requesterID)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted {
		return nil, apperr.New(apperr.CodeValidation, "Cannot edit a deleted comment")
	}
	now := s.clock.Now()
	if now.Sub(comment.CreatedAt) >= EditWindow {
		return nil, apperr.New(apperr.CodeValidation, "Comment is no longer editable")
	}
	clean, err := s.validateContent(content)
	if err != nil {
		return nil, err
	}
	if clean == comment.Content {
		return comment, nil
	}
	if err := s.comments.UpdateContent(comment.ID, clean, now); err != nil {
		if errors.Is(err, repositories.ErrStaleComment) {
			return nil, apperr.New(apperr.CodeValidation, "Comment is no longer editable")
		}
		return nil, apperr.Internal(err)
	}
	comment.Content = clean
	comment.UpdatedAt = now
	return comment, nil
}

// Delete soft-deletes a comment inside DeleteWindow. Content is retained so
// the author can still restore it.
func (s *CommentService) Delete(commentID, requesterID uint) error {
	comment, err := s.getOwned(commentID, requesterID)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return apperr.New(apperr.CodeValidation, "Comment is already deleted")
	}
	now := s.clock.Now()
	if now.Sub(comment.CreatedAt) >= DeleteWindow {
		return apperr.New(apperr.CodeValidation, "Comment is no longer deletable")
	}
	if err := s.comments.SoftDelete(comment.ID, now); err != nil {
		if errors.Is(err, repositories.ErrStaleComment) {
			return apperr.New(apperr.CodeValidation, "Comment is already deleted")
		}
		return apperr.Internal(err)
	}
	return nil
}

// Restore undoes a soft delete inside RestoreWindow, measured from the
// deletion time rather than creation.
func (s *CommentService) Restore(commentID, requesterID uint) (*models.Comment, error) {
	comment, err := s.getOwned(commentID, requesterID)
	if err != nil {
		return nil, err
	}
	if !comment.IsDeleted || comment.DeletedAt == nil {
		return nil, apperr.New(apperr.CodeValidation, "Comment is not deleted")
	}
	if s.clock.Now().Sub(*comment.DeletedAt) >= RestoreWindow {
		return nil, apperr.New(apperr.CodeValidation, "Comment can no longer be restored")
	}
	if err := s.comments.Restore(comment.ID); err != nil {
		if errors.Is(err, repositories.ErrStaleComment) {
			return nil, apperr.New(apperr.CodeValidation, "Comment is not deleted")
		}
		return nil, apperr.Internal(err)
	}
	comment.IsDeleted = false
	comment.DeletedAt = nil
	return comment, nil
}

// List returns the full comment tree for a viewer, newest-first at every
// level, with per-comment action flags computed against the current time.
func (s *CommentService) List(viewerID uint) ([]*models.CommentNode, error) {
	comments, err := s.comments.GetComments()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return BuildTree(comments, viewerID, s.clock.Now()), nil
}

// getOwned loads a comment and verifies the requester is its author.
func (s *CommentService) getOwned(commentID, requesterID uint) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "Comment not found")
		}
		return nil, apperr.Internal(err)
	}
	if comment.AuthorID != requesterID {
		return nil, apperr.New(apperr.CodeForbidden, "Not authorized")
	}
	return comment, nil
}
