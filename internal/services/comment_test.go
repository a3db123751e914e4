package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/coffeelog/apiserver/internal/store"
	"github.com/coffeelog/apiserver/types"
)

func newCommentFixture() (*CommentService, *fakePostRepo, *fakeCommentRepo, *fakeNotificationRepo) {
	posts := newFakePostRepo(newFakeLikeRepo())
	comments := newFakeCommentRepo()
	notifications := &fakeNotificationRepo{}
	return NewCommentService(comments, posts, notifications), posts, comments, notifications
}

func TestCreateCommentNotifiesPostAuthor(t *testing.T) {
	svc, posts, _, notifications := newCommentFixture()
	ctx := context.Background()

	post, _ := posts.Create(ctx, types.Post{UserID: 1, Content: "hi", IsPublic: true})

	comment, err := svc.Create(ctx, post.ID, 2, "nice post")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if comment.PostID != post.ID || comment.UserID != 2 {
		t.Errorf("comment = %+v, want post %d by user 2", comment, post.ID)
	}

	if len(notifications.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications.notifications))
	}
	n := notifications.notifications[0]
	if n.UserID != 1 || n.Type != types.NotificationComment {
		t.Errorf("notification = %+v, want comment notification for user 1", n)
	}
}

func TestCreateCommentOnOwnPostDoesNotNotify(t *testing.T) {
	svc, posts, _, notifications := newCommentFixture()
	ctx := context.Background()

	post, _ := posts.Create(ctx, types.Post{UserID: 1, Content: "hi", IsPublic: true})

	if _, err := svc.Create(ctx, post.ID, 1, "replying to myself"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(notifications.notifications) != 0 {
		t.Errorf("self-comment notified, have %d", len(notifications.notifications))
	}
}

func TestCreateCommentMissingPost(t *testing.T) {
	svc, _, _, _ := newCommentFixture()

	if _, err := svc.Create(context.Background(), 42, 1, "hello"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListCommentsPagination(t *testing.T) {
	svc, posts, comments, _ := newCommentFixture()
	ctx := context.Background()

	post, _ := posts.Create(ctx, types.Post{UserID: 1, Content: "hi", IsPublic: true})
	for i := 0; i < 3; i++ {
		comments.Create(ctx, types.Comment{PostID: post.ID, UserID: 2, Content: fmt.Sprintf("c%d", i)})
	}

	page, err := svc.List(ctx, post.ID, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Comments) != 2 || !page.HasMore {
		t.Fatalf("page = %d comments, hasMore %v; want 2, true", len(page.Comments), page.HasMore)
	}

	cursor, err := strconv.Atoi(page.NextCursor)
	if err != nil {
		t.Fatalf("cursor %q: %v", page.NextCursor, err)
	}
	page, err = svc.List(ctx, post.ID, 2, cursor)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(page.Comments) != 1 || page.HasMore {
		t.Errorf("second page = %d comments, hasMore %v; want 1, false", len(page.Comments), page.HasMore)
	}
}

func TestListCommentsMissingPost(t *testing.T) {
	svc, _, _, _ := newCommentFixture()

	if _, err := svc.List(context.Background(), 42, 10, 0); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateCommentExistenceBeforeOwnership(t *testing.T) {
	svc, posts, comments, _ := newCommentFixture()
	ctx := context.Background()

	post, _ := posts.Create(ctx, types.Post{UserID: 1, Content: "hi", IsPublic: true})
	comment, _ := comments.Create(ctx, types.Comment{PostID: post.ID, UserID: 2, Content: "mine"})

	if _, err := svc.Update(ctx, 999, 2, "edit"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing comment: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, comment.ID, 3, "edit"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign comment: err = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(ctx, comment.ID, 2, "edited")
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Content != "edited" {
		t.Errorf("content = %q, want %q", updated.Content, "edited")
	}
}

func TestDeleteCommentExistenceBeforeOwnership(t *testing.T) {
	svc, posts, comments, _ := newCommentFixture()
	ctx := context.Background()

	post, _ := posts.Create(ctx, types.Post{UserID: 1, Content: "hi", IsPublic: true})
	comment, _ := comments.Create(ctx, types.Comment{PostID: post.ID, UserID: 2, Content: "mine"})

	if err := svc.Delete(ctx, 999, 2); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing comment: err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, comment.ID, 3); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign comment: err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, comment.ID, 2); err != nil {
		t.Errorf("owner delete: %v", err)
	}
}
