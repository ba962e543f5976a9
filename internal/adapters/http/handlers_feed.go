package web

import (
	"net/http"

	"saunaclub/internal/application"
)

// handleFeed handles GET/POST/DELETE for /api/feed
func handleFeed(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		posts := app.Posts()
		views := make([]postView, 0, len(posts))
		for _, p := range posts {
			views = append(views, toPostView(p))
		}
		writeJSON(w, http.StatusOK, views)

	case "POST":
		var input struct {
			Type         string   `json:"type"`
			Content      string   `json:"content"`
			PollQuestion string   `json:"pollQuestion"`
			PollOptions  []string `json:"pollOptions"`
			ImageURL     string   `json:"imageUrl"`
			EmbedURL     string   `json:"embedUrl"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		p, err := app.CreatePost(sess.UserID, application.PostInput{
			Type:         input.Type,
			Content:      input.Content,
			PollQuestion: input.PollQuestion,
			PollOptions:  input.PollOptions,
			ImageURL:     input.ImageURL,
			EmbedURL:     input.EmbedURL,
		})
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPostView(p))

	case "DELETE":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := app.DeletePost(sess.UserID, id); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLike handles POST for /api/feed/like
func handleLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		PostID string `json:"postId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.ToggleLike(sess.UserID, input.PostID); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleVote handles POST for /api/feed/vote
func handleVote(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		PostID      string `json:"postId"`
		OptionIndex int    `json:"optionIndex"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.VotePoll(sess.UserID, input.PostID, input.OptionIndex); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleComments handles POST/DELETE for /api/feed/comments
func handleComments(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "POST":
		var input struct {
			PostID string `json:"postId"`
			Text   string `json:"text"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		comment, err := app.AddComment(sess.UserID, input.PostID, input.Text)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)

	case "DELETE":
		postID := r.URL.Query().Get("postId")
		commentID := r.URL.Query().Get("commentId")
		if postID == "" || commentID == "" {
			http.Error(w, "postId and commentId are required", http.StatusBadRequest)
			return
		}
		if err := app.DeleteComment(sess.UserID, postID, commentID); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
