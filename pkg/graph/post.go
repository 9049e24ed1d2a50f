package graph

import (
	"time"

	"github.com/codeGROOVE-dev/metastats/pkg/wire"
)

// PostSummaryFields selects posts with like and comment totals.
const PostSummaryFields = "id,message,created_time,likes.summary(true),comments.summary(true)"

// TimeLayout is the layout of Graph timestamps such as created_time.
const TimeLayout = "2006-01-02T15:04:05-0700"

// Comment is an entry of a post's comments edge.
type Comment struct {
	Message     *string `json:"message,omitempty"`
	CreatedTime *string `json:"created_time,omitempty"`
}

// Like is an entry of a post's likes edge.
type Like struct {
	ID *string `json:"id,omitempty"`
}

// CommentSummary is returned for comments.summary(true).
type CommentSummary struct {
	Order      string    `json:"order"`
	TotalCount wire.Int  `json:"total_count"`
	CanComment wire.Bool `json:"can_comment"`
}

// LikeSummary is returned for likes.summary(true).
type LikeSummary struct {
	TotalCount wire.Int  `json:"total_count"`
	CanLike    wire.Bool `json:"can_like"`
	HasLiked   wire.Bool `json:"has_liked"`
}

// CommentsBlock is the comments edge embedded in a post.
type CommentsBlock struct {
	Data    []Comment      `json:"data"`
	Paging  *Paging        `json:"paging,omitempty"`
	Summary CommentSummary `json:"summary"`
}

// LikesBlock is the likes edge embedded in a post.
type LikesBlock struct {
	Data    []Like      `json:"data"`
	Paging  *Paging     `json:"paging,omitempty"`
	Summary LikeSummary `json:"summary"`
}

// Post is an entry of a Page's posts edge. Message and Story are nil when
// the post has none; Likes and Comments are nil unless requested.
type Post struct {
	ID          string         `json:"id"`
	Message     *string        `json:"message,omitempty"`
	CreatedTime string         `json:"created_time"`
	Story       *string        `json:"story,omitempty"`
	Likes       *LikesBlock    `json:"likes,omitempty"`
	Comments    *CommentsBlock `json:"comments,omitempty"`
}

// Created parses CreatedTime.
func (p Post) Created() (time.Time, error) {
	return time.Parse(TimeLayout, p.CreatedTime)
}

// PostsPage is one page of a Page's posts edge.
type PostsPage struct {
	Data   []Post `json:"data"`
	Paging Paging `json:"paging"`
}

// Check implements classify.Checker.
func (p *PostsPage) Check() error {
	if p.Data == nil {
		return missing("data")
	}
	return nil
}
