package application_test

import (
	"errors"
	"testing"

	"saunaclub/internal/application"
	"saunaclub/internal/domain/post"
)

// TestCreateAndDeletePost tests post creation ordering and delete rights.
func TestCreateAndDeletePost(t *testing.T) {
	c, _ := newTestController(t)

	first, err := c.CreatePost("u-ben", application.PostInput{Type: post.TypeText, Content: "Hallo Sauna!"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	second, err := c.CreatePost("u-anna", application.PostInput{Type: post.TypeText, Content: "Aufguss heute!"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	posts := c.Posts()
	if len(posts) != 2 || posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Errorf("feed order wrong: %v", []string{posts[0].ID, posts[1].ID})
	}

	// A stranger without the permission cannot delete someone else's post.
	if err := c.DeletePost("u-ben", second.ID); !errors.Is(err, application.ErrNotPermitted) {
		t.Errorf("DeletePost(foreign) error = %v, want ErrNotPermitted", err)
	}
	// The author can.
	if err := c.DeletePost("u-ben", first.ID); err != nil {
		t.Fatalf("DeletePost(own) error = %v", err)
	}
	// An admin can.
	if err := c.DeletePost("u-anna", second.ID); err != nil {
		t.Fatalf("DeletePost(admin) error = %v", err)
	}
	if got := len(c.Posts()); got != 0 {
		t.Errorf("%d posts left, want 0", got)
	}
}

// TestCreatePostValidation tests rejected inputs.
func TestCreatePostValidation(t *testing.T) {
	c, _ := newTestController(t)

	tests := []struct {
		name  string
		input application.PostInput
	}{
		{"empty text", application.PostInput{Type: post.TypeText, Content: "  "}},
		{"poll with one option", application.PostInput{Type: post.TypePoll, PollQuestion: "?", PollOptions: []string{"Ja", " "}}},
		{"image without url", application.PostInput{Type: post.TypeImage}},
		{"unknown type", application.PostInput{Type: "gif", Content: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.CreatePost("u-ben", tt.input); err == nil {
				t.Error("CreatePost() expected error, got nil")
			}
		})
	}

	if _, err := c.CreatePost("ghost", application.PostInput{Type: post.TypeText, Content: "x"}); !errors.Is(err, application.ErrUserNotFound) {
		t.Errorf("CreatePost(unknown user) error = %v, want ErrUserNotFound", err)
	}
}

// TestToggleLikeTwice tests that a double toggle restores the like set.
func TestToggleLikeTwice(t *testing.T) {
	c, _ := newTestController(t)

	p, err := c.CreatePost("u-anna", application.PostInput{Type: post.TypeText, Content: "Hallo"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if err := c.ToggleLike("u-ben", p.ID); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if got := postByID(t, c, p.ID); !got.Liked("u-ben") {
		t.Error("post not liked after first toggle")
	}
	if err := c.ToggleLike("u-ben", p.ID); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if got := postByID(t, c, p.ID); got.Liked("u-ben") || len(got.Likes) != 0 {
		t.Errorf("like set not restored: %v", got.Likes)
	}
}

// TestVotePoll tests the at-most-one-vote rule through the controller.
func TestVotePoll(t *testing.T) {
	c, _ := newTestController(t)

	p, err := c.CreatePost("u-anna", application.PostInput{
		Type:         post.TypePoll,
		PollQuestion: "Welcher Duft?",
		PollOptions:  []string{"Zitrone", "Minze"},
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if err := c.VotePoll("u-ben", p.ID, 1); err != nil {
		t.Fatalf("VotePoll() error = %v", err)
	}
	// Repeat votes are silent no-ops, on any option.
	if err := c.VotePoll("u-ben", p.ID, 0); err != nil {
		t.Fatalf("repeat VotePoll() error = %v", err)
	}

	got := postByID(t, c, p.ID)
	total := 0
	for _, opt := range got.Poll.Options {
		total += len(opt.Votes)
	}
	if total != 1 || len(got.Poll.Options[1].Votes) != 1 {
		t.Errorf("poll votes = %+v, want one vote on option 1", got.Poll.Options)
	}

	if err := c.VotePoll("u-anna", p.ID, 9); err == nil {
		t.Error("VotePoll(out of range) expected error, got nil")
	}
}

// TestComments tests adding and deleting comments.
func TestComments(t *testing.T) {
	c, _ := newTestController(t)

	p, err := c.CreatePost("u-anna", application.PostInput{Type: post.TypeText, Content: "Hallo"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	comment, err := c.AddComment("u-ben", p.ID, "Bin dabei!")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if _, err := c.AddComment("u-ben", p.ID, "   "); err == nil {
		t.Error("AddComment(blank) expected error, got nil")
	}

	// Only the comment author, an admin or a permitted user can delete.
	if err := c.DeleteComment("u-stranger", p.ID, comment.ID); !errors.Is(err, application.ErrNotPermitted) {
		t.Errorf("DeleteComment(stranger) error = %v, want ErrNotPermitted", err)
	}
	if err := c.DeleteComment("u-ben", p.ID, comment.ID); err != nil {
		t.Fatalf("DeleteComment(author) error = %v", err)
	}
	if got := postByID(t, c, p.ID); len(got.Comments) != 0 {
		t.Errorf("%d comments left, want 0", len(got.Comments))
	}
}
