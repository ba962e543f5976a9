package post

import (
	"errors"
	"strings"
	"time"
)

// Post type constants
const (
	TypeText  = "text"
	TypePoll  = "poll"
	TypeImage = "image"
	TypeEmbed = "embed"
)

// Max length constants for user-editable fields.
const (
	MaxContentLength = 4000
	MaxCommentLength = 1000
)

// Domain errors
var (
	ErrEmptyContent  = errors.New("post content cannot be empty")
	ErrInvalidType   = errors.New("post type must be text, poll, image or embed")
	ErrPollTooSmall  = errors.New("a poll needs at least two options")
	ErrInvalidOption = errors.New("poll option index out of range")
	ErrEmptyComment  = errors.New("comment text cannot be empty")
	ErrCommentLength = errors.New("comment text exceeds the maximum length")
	ErrMissingImage  = errors.New("image post needs an image url")
	ErrMissingEmbed  = errors.New("embed post needs an embed url")
)

// Comment is a short reply attached to a post.
type Comment struct {
	ID        string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// PollOption holds one answer and the ids of the users who chose it.
type PollOption struct {
	Text  string
	Votes []string // user ids, each at most once across all options
}

// Poll holds the question and options of a poll post.
type Poll struct {
	Question string
	Options  []PollOption
}

// Post is a feed entry: plain text, a poll, an image or an embedded player.
type Post struct {
	ID        string
	UserID    string
	Type      string
	Content   string
	Poll      *Poll
	ImageURL  string
	EmbedURL  string
	CreatedAt time.Time
	Likes     []string // user ids
	Comments  []Comment
}

// Validate checks if the Post has valid data.
// PRE: Post struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Post) Validate() error {
	switch p.Type {
	case TypeText:
		if strings.TrimSpace(p.Content) == "" {
			return ErrEmptyContent
		}
	case TypePoll:
		if p.Poll == nil || len(p.Poll.Options) < 2 {
			return ErrPollTooSmall
		}
	case TypeImage:
		if p.ImageURL == "" {
			return ErrMissingImage
		}
	case TypeEmbed:
		if p.EmbedURL == "" {
			return ErrMissingEmbed
		}
	default:
		return ErrInvalidType
	}
	if len(p.Content) > MaxContentLength {
		return errors.New("post content cannot exceed 4000 characters")
	}
	return nil
}

// HasVoted returns true if the user has voted on any option of the poll.
// INVARIANT: Post fields are not mutated
func (p *Post) HasVoted(userID string) bool {
	if p.Poll == nil {
		return false
	}
	for _, opt := range p.Poll.Options {
		for _, v := range opt.Votes {
			if v == userID {
				return true
			}
		}
	}
	return false
}

// Vote records the user's choice. A user who has already voted on any option
// of this poll is ignored, keeping total votes per user at most one.
// POST: Returns true if the vote was recorded
func (p *Post) Vote(userID string, optionIndex int) (bool, error) {
	if p.Poll == nil {
		return false, ErrInvalidType
	}
	if optionIndex < 0 || optionIndex >= len(p.Poll.Options) {
		return false, ErrInvalidOption
	}
	if p.HasVoted(userID) {
		return false, nil
	}
	opt := &p.Poll.Options[optionIndex]
	opt.Votes = append(opt.Votes, userID)
	return true, nil
}

// Liked returns true if the user currently likes the post.
// INVARIANT: Post fields are not mutated
func (p *Post) Liked(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike adds the user to the like set if absent, else removes it.
// POST: Returns true if the post is liked after the call
func (p *Post) ToggleLike(userID string) bool {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return false
		}
	}
	p.Likes = append(p.Likes, userID)
	return true
}
