package models

import "time"

// Comment represents a single comment in the discussion thread. ParentID is
// nil for top-level comments and immutable after creation. Deletion is always
// soft: DeletedAt is set if and only if IsDeleted is true, and content is
// retained so the comment can be restored.
type Comment struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	AuthorID  uint       `json:"author_id" gorm:"not null;index"`
	Author    User       `json:"-" gorm:"foreignKey:AuthorID"`
	ParentID  *uint      `json:"parent_id" gorm:"index"` // nil for top-level comments
	IsDeleted bool       `json:"is_deleted" gorm:"default:false;index"`
	DeletedAt *time.Time `json:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateCommentRequest defines the request body for posting a comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,max=5000"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// CommentWithAuthor pairs a comment with its author's public record
type CommentWithAuthor struct {
	Comment
	Author PublicUser `json:"author"`
}

// CommentNode is a comment with its direct replies attached plus the
// viewer-relative action flags. It is assembled per read request and never
// persisted.
type CommentNode struct {
	Comment
	Author     PublicUser     `json:"author"`
	Replies    []*CommentNode `json:"replies"`
	CanEdit    bool           `json:"can_edit"`
	CanDelete  bool           `json:"can_delete"`
	CanRestore bool           `json:"can_restore"`
}
