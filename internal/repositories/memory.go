package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/nestboard/backend/internal/models"
	"gorm.io/gorm"
)

// In-memory implementations of the repository interfaces. They back the
// service tests and return the same gorm.ErrRecordNotFound the Postgres
// implementations surface, so callers cannot tell them apart.

// MemoryUserRepository implements UserRepository in memory
type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uint]models.User)}
}

func (r *MemoryUserRepository) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return &user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) GetUserByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// MemoryCommentRepository implements CommentRepository in memory. When
// constructed with a user repository it fills in comment authors the way
// the Postgres implementation preloads them.
type MemoryCommentRepository struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]models.Comment
	users    *MemoryUserRepository
}

// NewMemoryCommentRepository creates an empty MemoryCommentRepository
func NewMemoryCommentRepository(users *MemoryUserRepository) *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: make(map[uint]models.Comment), users: users}
}

func (r *MemoryCommentRepository) CreateComment(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	comment.ID = r.nextID
	r.comments[comment.ID] = *comment
	return nil
}

func (r *MemoryCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment, ok := r.comments[id]; ok {
		return &comment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryCommentRepository) GetComments() ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comments := make([]models.Comment, 0, len(r.comments))
	for _, comment := range r.comments {
		if r.users != nil {
			if author, err := r.users.GetUserByID(comment.AuthorID); err == nil {
				comment.Author = *author
			}
		}
		comments = append(comments, comment)
	}
	// Newest first, matching the Postgres ordering; IDs break creation-time ties.
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID > comments[j].ID
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *MemoryCommentRepository) UpdateContent(id uint, content string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok || comment.IsDeleted {
		return ErrStaleComment
	}
	comment.Content = content
	comment.UpdatedAt = updatedAt
	r.comments[id] = comment
	return nil
}

func (r *MemoryCommentRepository) SoftDelete(id uint, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok || comment.IsDeleted {
		return ErrStaleComment
	}
	comment.IsDeleted = true
	comment.DeletedAt = &deletedAt
	r.comments[id] = comment
	return nil
}

func (r *MemoryCommentRepository) Restore(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok || !comment.IsDeleted {
		return ErrStaleComment
	}
	comment.IsDeleted = false
	comment.DeletedAt = nil
	r.comments[id] = comment
	return nil
}

// MemoryNotificationRepository implements NotificationRepository in memory
type MemoryNotificationRepository struct {
	mu            sync.Mutex
	nextID        uint
	notifications map[uint]models.Notification
	users         *MemoryUserRepository
	comments      *MemoryCommentRepository
}

// NewMemoryNotificationRepository creates an empty MemoryNotificationRepository
func NewMemoryNotificationRepository(users *MemoryUserRepository, comments *MemoryCommentRepository) *MemoryNotificationRepository {
	return &MemoryNotificationRepository{
		notifications: make(map[uint]models.Notification),
		users:         users,
		comments:      comments,
	}
}

func (r *MemoryNotificationRepository) CreateNotification(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	notification.ID = r.nextID
	r.notifications[notification.ID] = *notification
	return nil
}

func (r *MemoryNotificationRepository) GetNotificationByID(id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification, ok := r.notifications[id]; ok {
		return &notification, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryNotificationRepository) GetByRecipientID(recipientID uint) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notifications := make([]models.Notification, 0)
	for _, notification := range r.notifications {
		if notification.RecipientID != recipientID {
			continue
		}
		if r.users != nil {
			if actor, err := r.users.GetUserByID(notification.ActorID); err == nil {
				notification.Actor = *actor
			}
		}
		if r.comments != nil {
			if comment, err := r.comments.GetCommentByID(notification.CommentID); err == nil {
				notification.Comment = *comment
			}
		}
		notifications = append(notifications, notification)
	}
	sort.Slice(notifications, func(i, j int) bool {
		if notifications[i].CreatedAt.Equal(notifications[j].CreatedAt) {
			return notifications[i].ID > notifications[j].ID
		}
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *MemoryNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *MemoryNotificationRepository) MarkAsRead(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification, ok := r.notifications[id]; ok {
		notification.IsRead = true
		r.notifications[id] = notification
	}
	return nil
}

func (r *MemoryNotificationRepository) MarkAllAsRead(recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, notification := range r.notifications {
		if notification.RecipientID == recipientID && !notification.IsRead {
			notification.IsRead = true
			r.notifications[id] = notification
		}
	}
	return nil
}
