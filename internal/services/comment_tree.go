package services

import (
	"time"

	"github.com/nestboard/backend/internal/models"
)

// BuildTree assembles a flat, newest-first comment slice into the nested
// reply structure and derives the viewer's action flags for each node.
//
// The build is a two-pass index on parent ID, so it stays O(n) and never
// recurses. Input order is preserved at every level. A comment whose parent
// reference points outside the input is kept as a root rather than dropped;
// comments caught in a corrupted reference cycle are unreachable from any
// root and simply fall out of the result. No depth cap is applied here:
// limiting visible nesting is a presentation concern owned by the client.
func BuildTree(comments []models.Comment, viewerID uint, now time.Time) []*models.CommentNode {
	nodes := make(map[uint]*models.CommentNode, len(comments))
	ordered := make([]*models.CommentNode, 0, len(comments))

	for i := range comments {
		c := comments[i]
		node := &models.CommentNode{
			Comment: c,
			Author:  c.Author.ToPublic(),
			Replies: []*models.CommentNode{},
		}
		node.CanEdit = viewerID == c.AuthorID && !c.IsDeleted && now.Sub(c.CreatedAt) < EditWindow
		node.CanDelete = viewerID == c.AuthorID && !c.IsDeleted && now.Sub(c.CreatedAt) < DeleteWindow
		node.CanRestore = viewerID == c.AuthorID && c.IsDeleted && c.DeletedAt != nil &&
			now.Sub(*c.DeletedAt) < RestoreWindow
		nodes[c.ID] = node
		ordered = append(ordered, node)
	}

	roots := make([]*models.CommentNode, 0)
	for _, node := range ordered {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}
	return roots
}
