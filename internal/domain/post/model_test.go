package post_test

import (
	"testing"

	"saunaclub/internal/domain/post"
)

// TestPostValidation tests validation of Post.
func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    post.Post
		wantErr bool
	}{
		{
			name:    "valid text post",
			post:    post.Post{Type: post.TypeText, Content: "Aufguss um 18 Uhr!"},
			wantErr: false,
		},
		{
			name: "valid poll",
			post: post.Post{
				Type: post.TypePoll,
				Poll: &post.Poll{
					Question: "Welcher Duft?",
					Options:  []post.PollOption{{Text: "Zitrone"}, {Text: "Minze"}},
				},
			},
			wantErr: false,
		},
		{
			name:    "empty text",
			post:    post.Post{Type: post.TypeText, Content: "   "},
			wantErr: true,
		},
		{
			name:    "poll with one option",
			post:    post.Post{Type: post.TypePoll, Poll: &post.Poll{Options: []post.PollOption{{Text: "Ja"}}}},
			wantErr: true,
		},
		{
			name:    "image without url",
			post:    post.Post{Type: post.TypeImage},
			wantErr: true,
		},
		{
			name:    "embed without url",
			post:    post.Post{Type: post.TypeEmbed},
			wantErr: true,
		},
		{
			name:    "unknown type",
			post:    post.Post{Type: "video", Content: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Post.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestVoteAtMostOncePerPoll tests that one user's votes across all options
// stay at most one.
func TestVoteAtMostOncePerPoll(t *testing.T) {
	p := post.Post{
		Type: post.TypePoll,
		Poll: &post.Poll{
			Question: "Welcher Duft?",
			Options:  []post.PollOption{{Text: "Zitrone"}, {Text: "Minze"}, {Text: "Eukalyptus"}},
		},
	}

	recorded, err := p.Vote("u1", 0)
	if err != nil || !recorded {
		t.Fatalf("first Vote() = (%v, %v), want (true, nil)", recorded, err)
	}

	// Second vote, same option
	recorded, err = p.Vote("u1", 0)
	if err != nil || recorded {
		t.Errorf("repeat Vote() same option = (%v, %v), want (false, nil)", recorded, err)
	}

	// Second vote, different option
	recorded, err = p.Vote("u1", 2)
	if err != nil || recorded {
		t.Errorf("repeat Vote() other option = (%v, %v), want (false, nil)", recorded, err)
	}

	total := 0
	for _, opt := range p.Poll.Options {
		for _, v := range opt.Votes {
			if v == "u1" {
				total++
			}
		}
	}
	if total != 1 {
		t.Errorf("total votes for u1 = %d, want 1", total)
	}

	// Out of range option
	if _, err := p.Vote("u2", 5); err == nil {
		t.Error("Vote(out of range) expected error, got nil")
	}
}

// TestToggleLike tests that toggling twice restores the original like set.
func TestToggleLike(t *testing.T) {
	p := post.Post{Type: post.TypeText, Content: "hi", Likes: []string{"u0"}}

	if liked := p.ToggleLike("u1"); !liked {
		t.Error("first ToggleLike() = false, want true")
	}
	if !p.Liked("u1") {
		t.Error("Liked(u1) = false after like")
	}
	if liked := p.ToggleLike("u1"); liked {
		t.Error("second ToggleLike() = true, want false")
	}
	if p.Liked("u1") {
		t.Error("Liked(u1) = true after unlike")
	}
	if len(p.Likes) != 1 || p.Likes[0] != "u0" {
		t.Errorf("Likes = %v, want [u0]", p.Likes)
	}
}
