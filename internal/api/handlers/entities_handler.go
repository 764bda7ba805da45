package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "parley/internal/api/context"
	"parley/internal/pkg/errors"
	"parley/internal/platform/database"
	"parley/internal/platform/models"
	"parley/internal/platform/repositories"
)

// EntitiesHandler accepts entity projections synced from the moderation
// platform into the tenant store.
type EntitiesHandler struct{}

func NewEntitiesHandler() *EntitiesHandler {
	return &EntitiesHandler{}
}

func (h *EntitiesHandler) UpsertComment(w http.ResponseWriter, r *http.Request) {
	storeCtx := r.Context().Value(apiContext.Tenant).(*database.StoreContext)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	comment.ID = params.ByName("comment_id")
	if comment.ID == "" || comment.StoryID == "" || comment.AuthorID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Comment requires id, story_id and author_id", nil)
		return
	}

	repo := repositories.NewCommentRepository(storeCtx.DB)
	if err := repo.Upsert(&comment); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to store comment", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&comment)
}

func (h *EntitiesHandler) UpsertStory(w http.ResponseWriter, r *http.Request) {
	storeCtx := r.Context().Value(apiContext.Tenant).(*database.StoreContext)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var story models.Story
	if err := json.NewDecoder(r.Body).Decode(&story); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	story.ID = params.ByName("story_id")
	if story.ID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Story requires an id", nil)
		return
	}

	repo := repositories.NewStoryRepository(storeCtx.DB)
	if err := repo.Upsert(&story); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to store story", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&story)
}

func (h *EntitiesHandler) UpsertAuthor(w http.ResponseWriter, r *http.Request) {
	storeCtx := r.Context().Value(apiContext.Tenant).(*database.StoreContext)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var author models.Author
	if err := json.NewDecoder(r.Body).Decode(&author); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	author.ID = params.ByName("author_id")
	if author.ID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Author requires an id", nil)
		return
	}

	repo := repositories.NewAuthorRepository(storeCtx.DB)
	if err := repo.Upsert(&author); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to store author", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&author)
}
