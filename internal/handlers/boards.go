package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/oncolane/caseboard/internal/middleware"
	"github.com/oncolane/caseboard/internal/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// memberBoardIDs returns the IDs of all boards the user belongs to.
func (r *Router) memberBoardIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.BoardMember{}).
		Where("user_id = ?", userID).
		Pluck("board_id", &ids).Error
	return ids, err
}

// listBoards returns the boards the current user is a member of
func (r *Router) listBoards(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	ids, err := r.memberBoardIDs(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch boards")
		return
	}

	var boards []models.Board
	if len(ids) > 0 {
		if err := r.db.Preload("Members").Where("id IN ?", ids).Find(&boards).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to fetch boards")
			return
		}
	}

	respondJSON(w, http.StatusOK, boards)
}

// createBoard creates a board with the current user as owner and first member
func (r *Router) createBoard(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	var body struct {
		Name        string `json:"name"`
		Institution string `json:"institution"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Name == "" {
		respondError(w, http.StatusBadRequest, "Board name is required")
		return
	}

	board := models.Board{
		Name:        body.Name,
		Institution: body.Institution,
		OwnerID:     userID,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&board).Error; err != nil {
			return err
		}
		member := models.BoardMember{
			BoardID: board.ID,
			UserID:  userID,
			Role:    "owner",
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create board")
		return
	}

	respondJSON(w, http.StatusCreated, board)
}

// addBoardMember adds a user to a board
func (r *Router) addBoardMember(w http.ResponseWriter, req *http.Request) {
	boardID := mux.Vars(req)["id"]

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.UserID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	var board models.Board
	if err := r.db.First(&board, "id = ?", boardID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Board not found")
		return
	}

	member := models.BoardMember{BoardID: boardID, UserID: body.UserID}
	if err := r.db.Create(&member).Error; err != nil {
		respondError(w, http.StatusBadRequest, "Failed to add member (already on the board?)")
		return
	}

	respondJSON(w, http.StatusCreated, member)
}
