package api

import (
	"net/http"

	"github.com/kanaflash/kana-api/internal/api/shared"
	"github.com/kanaflash/kana-api/internal/store"
)

// CharacterHandler serves the kana catalog.
type CharacterHandler struct {
	characters store.CharacterStore
}

// NewCharacterHandler creates a new CharacterHandler.
func NewCharacterHandler(characters store.CharacterStore) *CharacterHandler {
	return &CharacterHandler{characters: characters}
}

// List handles GET /characters, optionally filtered by ?script=.
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	script, err := getScriptFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	characters, err := h.characters.List(r.Context(), script)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list characters")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CharacterListResponse{Characters: characters})
}

// Grouped handles GET /characters/grouped: the catalog bucketed by phonetic
// row, optionally filtered by ?script=. Rows keep catalog order.
func (h *CharacterHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	script, err := getScriptFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	characters, err := h.characters.List(r.Context(), script)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list characters")
		return
	}

	var groups []*CharacterGroup
	index := make(map[string]*CharacterGroup)
	for _, c := range characters {
		g, ok := index[c.RowName]
		if !ok {
			g = &CharacterGroup{RowName: c.RowName}
			index[c.RowName] = g
			groups = append(groups, g)
		}
		g.Characters = append(g.Characters, c)
	}
	if groups == nil {
		groups = []*CharacterGroup{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CharacterGroupListResponse{Groups: groups})
}

// Get handles GET /characters/{id}.
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathInt64(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	character, err := h.characters.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load character")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CharacterResponse{Character: character})
}
