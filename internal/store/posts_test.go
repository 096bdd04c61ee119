package store_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/microblog/go-server/internal/store"
)

func TestCreatePost(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, st)

	p, err := st.CreatePost(ctx, u.ID, "first post")
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	require.Equal(t, u.ID, p.UserID)
	require.Equal(t, "first post", p.Content)
	require.Equal(t, 0, p.LikesCount)
	require.Equal(t, u.Username, p.AuthorUsername)
	require.Equal(t, u.Title, p.AuthorTitle)
	require.False(t, p.IsLiked)
}

func TestListPostsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, st)

	var ids []int64
	for i := 0; i < 4; i++ {
		p, err := st.CreatePost(ctx, u.ID, gofakeit.Sentence(6))
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	posts, err := st.ListPosts(ctx, 0, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 4)
	for i, p := range posts {
		require.Equal(t, ids[len(ids)-1-i], p.ID)
	}

	page, err := st.ListPosts(ctx, 0, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, ids[1], page[0].ID)
	require.Equal(t, ids[0], page[1].ID)
}

func TestListPostsIsLikedPerViewer(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, st)
	viewer := createTestUser(t, st)

	p, err := st.CreatePost(ctx, author.ID, "like me")
	require.NoError(t, err)
	require.NoError(t, st.LikePost(ctx, viewer.ID, p.ID))

	posts, err := st.ListPosts(ctx, viewer.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.True(t, posts[0].IsLiked)
	require.Equal(t, 1, posts[0].LikesCount)

	// Anonymous viewers and non-likers see isLiked=false.
	posts, err = st.ListPosts(ctx, 0, 10, 0)
	require.NoError(t, err)
	require.False(t, posts[0].IsLiked)

	posts, err = st.ListPosts(ctx, author.ID, 10, 0)
	require.NoError(t, err)
	require.False(t, posts[0].IsLiked)
}

func TestGetPostMissing(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetPost(context.Background(), 9999, 0)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletePostOwnedBy(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, st)
	other := createTestUser(t, st)

	p, err := st.CreatePost(ctx, owner.ID, "mine")
	require.NoError(t, err)

	// A non-owner cannot delete it, and the failed attempt leaves the
	// post in place.
	require.ErrorIs(t, st.DeletePostOwnedBy(ctx, p.ID, other.ID), store.ErrNotOwner)
	_, err = st.GetPost(ctx, p.ID, 0)
	require.NoError(t, err)

	require.NoError(t, st.DeletePostOwnedBy(ctx, p.ID, owner.ID))
	require.ErrorIs(t, st.DeletePostOwnedBy(ctx, p.ID, owner.ID), store.ErrNotFound)
}

func TestDeletePost(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, st)

	p, err := st.CreatePost(ctx, u.ID, "short lived")
	require.NoError(t, err)

	require.NoError(t, st.DeletePost(ctx, p.ID))
	require.ErrorIs(t, st.DeletePost(ctx, p.ID), store.ErrNotFound)
	_, err = st.GetPost(ctx, p.ID, 0)
	require.ErrorIs(t, err, store.ErrNotFound)
}
