package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/nestboard/backend/internal/models"
	"github.com/nestboard/backend/internal/repositories"
	"github.com/nestboard/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentService *services.CommentService
	userRepository repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		userRepository: userRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/comments", h.ListComments)
	g.POST("/comments", h.CreateComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/restore", h.RestoreComment)
}

// ListComments returns the full comment tree for the viewer
func (h *CommentHandler) ListComments(c echo.Context) error {
	tree, err := h.commentService.List(currentUserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tree)
}

// CreateComment creates a new top-level comment or reply
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.Create(currentUserID(c), req.Content, req.ParentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.withAuthor(c, comment))
}

// UpdateComment edits an existing comment's content
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	commentID, err := parseID(c)
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.Edit(commentID, currentUserID(c), req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.withAuthor(c, comment))
}

// DeleteComment soft-deletes a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(commentID, currentUserID(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted"})
}

// RestoreComment undoes a soft delete
func (h *CommentHandler) RestoreComment(c echo.Context) error {
	commentID, err := parseID(c)
	if err != nil {
		return err
	}

	comment, err := h.commentService.Restore(commentID, currentUserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.withAuthor(c, comment))
}

// withAuthor attaches the requester's public record. The requester is
// always the author for create/edit/restore responses, since only owners
// can perform those actions.
func (h *CommentHandler) withAuthor(c echo.Context, comment *models.Comment) models.CommentWithAuthor {
	result := models.CommentWithAuthor{Comment: *comment}
	if user, err := h.userRepository.GetUserByID(comment.AuthorID); err == nil {
		result.Author = user.ToPublic()
	}
	return result
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return uint(id), nil
}
