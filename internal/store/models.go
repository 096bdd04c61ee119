package store

import "time"

// User matches the users table shape. The password hash never serializes.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Title        string    `json:"title,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Post matches the posts table shape. LikesCount is a denormalized
// aggregate kept equal to the number of user_likes rows for the post.
type Post struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	LikesCount int       `json:"likesCount"`
}

// PostWithAuthor is a post joined with its author and, for a connected
// viewer, whether that viewer liked it.
type PostWithAuthor struct {
	Post
	AuthorUsername string `json:"authorUsername"`
	AuthorTitle    string `json:"authorTitle,omitempty"`
	IsLiked        bool   `json:"isLiked"`
}
