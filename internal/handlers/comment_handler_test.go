package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/nestboard/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testAPI) createComment(t *testing.T, token, content string, parentID *uint) models.CommentWithAuthor {
	t.Helper()
	body := map[string]interface{}{"content": content}
	if parentID != nil {
		body["parent_id"] = *parentID
	}
	rec := a.request(t, http.MethodPost, "/api/comments", token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var comment models.CommentWithAuthor
	decodeJSON(t, rec, &comment)
	return comment
}

func TestCreateAndListComments(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.registerUser(t, "alice")
	bobToken := api.registerUser(t, "bob")

	root := api.createComment(t, aliceToken, "first!", nil)
	assert.Equal(t, "alice", root.Author.Username)

	reply := api.createComment(t, bobToken, "welcome", &root.ID)
	assert.Equal(t, &root.ID, reply.ParentID)

	rec := api.request(t, http.MethodGet, "/api/comments", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tree []models.CommentNode
	decodeJSON(t, rec, &tree)
	require.Len(t, tree, 1)
	assert.Equal(t, root.ID, tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, reply.ID, tree[0].Replies[0].ID)
	assert.True(t, tree[0].CanEdit, "alice just posted, window is open")
	assert.False(t, tree[0].Replies[0].CanEdit, "bob's reply is not alice's to edit")
}

func TestCreateComment_EmptyContent(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerUser(t, "alice")

	rec := api.request(t, http.MethodPost, "/api/comments", token, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateComment_UnknownParent(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerUser(t, "alice")

	rec := api.request(t, http.MethodPost, "/api/comments", token, map[string]interface{}{
		"content":   "reply to nothing",
		"parent_id": 999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateComment(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerUser(t, "alice")
	comment := api.createComment(t, token, "draft", nil)

	rec := api.request(t, http.MethodPut, fmt.Sprintf("/api/comments/%d", comment.ID), token,
		map[string]string{"content": "final"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.CommentWithAuthor
	decodeJSON(t, rec, &updated)
	assert.Equal(t, "final", updated.Content)
}

func TestUpdateComment_NotOwner(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.registerUser(t, "alice")
	bobToken := api.registerUser(t, "bob")
	comment := api.createComment(t, aliceToken, "mine", nil)

	rec := api.request(t, http.MethodPut, fmt.Sprintf("/api/comments/%d", comment.ID), bobToken,
		map[string]string{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateComment_NotFound(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerUser(t, "alice")

	rec := api.request(t, http.MethodPut, "/api/comments/999", token,
		map[string]string{"content": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAndRestoreComment(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerUser(t, "alice")
	comment := api.createComment(t, token, "oops", nil)

	rec := api.request(t, http.MethodDelete, fmt.Sprintf("/api/comments/%d", comment.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := api.comments.GetCommentByID(comment.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)

	rec = api.request(t, http.MethodPost, fmt.Sprintf("/api/comments/%d/restore", comment.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var restored models.CommentWithAuthor
	decodeJSON(t, rec, &restored)
	assert.False(t, restored.IsDeleted)
	assert.Equal(t, "oops", restored.Content)
}

func TestRestoreComment_NotDeleted(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerUser(t, "alice")
	comment := api.createComment(t, token, "alive", nil)

	rec := api.request(t, http.MethodPost, fmt.Sprintf("/api/comments/%d/restore", comment.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReplyNotificationFlow(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.registerUser(t, "alice")
	bobToken := api.registerUser(t, "bob")

	root := api.createComment(t, aliceToken, "first!", nil)
	reply := api.createComment(t, bobToken, "a reply", &root.ID)

	rec := api.request(t, http.MethodGet, "/api/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var notifications []models.NotificationWithDetails
	decodeJSON(t, rec, &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, reply.ID, notifications[0].CommentID)
	assert.Equal(t, "bob", notifications[0].Actor.Username)

	rec = api.request(t, http.MethodGet, "/api/notifications/unread-count", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count": 1}`, rec.Body.String())

	// Bob gets nothing for his own reply.
	rec = api.request(t, http.MethodGet, "/api/notifications", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestMarkNotificationRead(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.registerUser(t, "alice")
	bobToken := api.registerUser(t, "bob")

	root := api.createComment(t, aliceToken, "first!", nil)
	api.createComment(t, bobToken, "a reply", &root.ID)

	var notifications []models.NotificationWithDetails
	rec := api.request(t, http.MethodGet, "/api/notifications", aliceToken, nil)
	decodeJSON(t, rec, &notifications)
	require.Len(t, notifications, 1)

	// Bob cannot mark Alice's notification.
	rec = api.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", notifications[0].ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", notifications[0].ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.request(t, http.MethodGet, "/api/notifications/unread-count", aliceToken, nil)
	assert.JSONEq(t, `{"count": 0}`, rec.Body.String())
}

func TestMarkAllNotificationsRead(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.registerUser(t, "alice")
	bobToken := api.registerUser(t, "bob")

	root := api.createComment(t, aliceToken, "first!", nil)
	api.createComment(t, bobToken, "reply one", &root.ID)
	api.createComment(t, bobToken, "reply two", &root.ID)

	rec := api.request(t, http.MethodPut, "/api/notifications/mark-all-read", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.request(t, http.MethodGet, "/api/notifications/unread-count", aliceToken, nil)
	assert.JSONEq(t, `{"count": 0}`, rec.Body.String())
}
