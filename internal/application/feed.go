package application

import (
	"log/slog"
	"strings"

	"saunaclub/internal/adapters/storage"
	"saunaclub/internal/domain/post"
	"saunaclub/internal/domain/user"
)

// PostInput carries the fields for a new feed post.
type PostInput struct {
	Type         string
	Content      string
	PollQuestion string
	PollOptions  []string
	ImageURL     string
	EmbedURL     string
}

// CreatePost appends a new post to the front of the feed.
// POST: Post is validated and persisted
func (c *Controller) CreatePost(actorID string, input PostInput) (post.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userIndex(actorID) < 0 {
		return post.Post{}, ErrUserNotFound
	}

	p := post.Post{
		ID:        c.newID(),
		UserID:    actorID,
		Type:      input.Type,
		Content:   strings.TrimSpace(input.Content),
		ImageURL:  input.ImageURL,
		EmbedURL:  input.EmbedURL,
		CreatedAt: c.now(),
	}
	if input.Type == post.TypePoll {
		poll := &post.Poll{Question: strings.TrimSpace(input.PollQuestion)}
		for _, opt := range input.PollOptions {
			if strings.TrimSpace(opt) == "" {
				continue
			}
			poll.Options = append(poll.Options, post.PollOption{Text: opt})
		}
		p.Poll = poll
	}
	if err := p.Validate(); err != nil {
		return post.Post{}, err
	}

	posts := append([]post.Post{p}, c.posts...)
	c.posts = posts
	c.persist(storage.KeyPosts, posts)

	slog.Info("post_created", "post_id", p.ID, "user_id", actorID, "type", p.Type)
	return clonePost(p), nil
}

// DeletePost removes a post. Allowed for the author, admins and holders of
// the delete-posts permission.
func (c *Controller) DeletePost(actorID, postID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pi := c.postIndex(postID)
	if pi < 0 {
		return ErrPostNotFound
	}
	if c.posts[pi].UserID != actorID && !c.actorCan(actorID, user.PermDeletePosts) {
		return ErrNotPermitted
	}

	posts := append([]post.Post(nil), c.posts[:pi]...)
	posts = append(posts, c.posts[pi+1:]...)

	c.posts = posts
	c.persist(storage.KeyPosts, posts)
	slog.Info("post_deleted", "post_id", postID, "actor_id", actorID)
	return nil
}

// ToggleLike flips the acting user's like on a post.
// POST: User is in the like set iff they were not before
func (c *Controller) ToggleLike(actorID, postID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pi := c.postIndex(postID)
	if pi < 0 {
		return ErrPostNotFound
	}
	if c.userIndex(actorID) < 0 {
		return ErrUserNotFound
	}

	posts := append([]post.Post(nil), c.posts...)
	p := clonePost(posts[pi])
	p.ToggleLike(actorID)
	posts[pi] = p

	c.posts = posts
	c.persist(storage.KeyPosts, posts)
	return nil
}

// VotePoll records the acting user's vote on a poll option. A user who has
// already voted anywhere on the poll is silently ignored.
func (c *Controller) VotePoll(actorID, postID string, optionIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pi := c.postIndex(postID)
	if pi < 0 {
		return ErrPostNotFound
	}
	if c.userIndex(actorID) < 0 {
		return ErrUserNotFound
	}

	posts := append([]post.Post(nil), c.posts...)
	p := clonePost(posts[pi])
	recorded, err := p.Vote(actorID, optionIndex)
	if err != nil {
		return err
	}
	if !recorded {
		return nil
	}
	posts[pi] = p

	c.posts = posts
	c.persist(storage.KeyPosts, posts)
	return nil
}

// AddComment attaches a comment to a post.
func (c *Controller) AddComment(actorID, postID, text string) (post.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pi := c.postIndex(postID)
	if pi < 0 {
		return post.Comment{}, ErrPostNotFound
	}
	if c.userIndex(actorID) < 0 {
		return post.Comment{}, ErrUserNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return post.Comment{}, post.ErrEmptyComment
	}
	if len(text) > post.MaxCommentLength {
		return post.Comment{}, post.ErrCommentLength
	}

	comment := post.Comment{
		ID:        c.newID(),
		UserID:    actorID,
		Text:      text,
		CreatedAt: c.now(),
	}

	posts := append([]post.Post(nil), c.posts...)
	p := clonePost(posts[pi])
	p.Comments = append(p.Comments, comment)
	posts[pi] = p

	c.posts = posts
	c.persist(storage.KeyPosts, posts)
	return comment, nil
}

// DeleteComment removes a comment. Allowed for the comment author, admins
// and holders of the delete-posts permission.
func (c *Controller) DeleteComment(actorID, postID, commentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pi := c.postIndex(postID)
	if pi < 0 {
		return ErrPostNotFound
	}

	posts := append([]post.Post(nil), c.posts...)
	p := clonePost(posts[pi])
	for i := range p.Comments {
		if p.Comments[i].ID != commentID {
			continue
		}
		if p.Comments[i].UserID != actorID && !c.actorCan(actorID, user.PermDeletePosts) {
			return ErrNotPermitted
		}
		p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
		posts[pi] = p
		c.posts = posts
		c.persist(storage.KeyPosts, posts)
		return nil
	}
	return ErrPostNotFound
}

// postIndex returns the index of the post with the given id, or -1.
// Callers must hold c.mu.
func (c *Controller) postIndex(id string) int {
	for i := range c.posts {
		if c.posts[i].ID == id {
			return i
		}
	}
	return -1
}
