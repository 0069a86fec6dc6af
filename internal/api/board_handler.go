package api

import (
	"net/http"

	"github.com/kanbanboard/kanban-api/internal/api/shared"
	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/service"
)

// BoardHandler handles board-related HTTP requests.
type BoardHandler struct {
	boardService        service.BoardService
	requireOwnerForRead bool
}

// NewBoardHandler creates a new BoardHandler. When requireOwnerForRead is
// set, GET /api/boards/{id} is restricted to the board's owner.
func NewBoardHandler(boardService service.BoardService, requireOwnerForRead bool) *BoardHandler {
	return &BoardHandler{
		boardService:        boardService,
		requireOwnerForRead: requireOwnerForRead,
	}
}

// CreateBoard handles POST /api/boards.
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req BoardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	board, err := h.boardService.CreateBoard(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create board")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, boardToResponse(board))
}

// ListBoards handles GET /api/boards.
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoards(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list boards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, boardsToResponse(boards))
}

// GetBoard handles GET /api/boards/{id}.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	userID, boardID, ok := handleUserIDAndPathID(w, r, "id", "board")
	if !ok {
		return
	}

	var (
		board *domain.Board
		err   error
	)
	if h.requireOwnerForRead {
		board, err = h.boardService.GetOwnedBoard(r.Context(), boardID, userID)
	} else {
		board, err = h.boardService.GetBoard(r.Context(), boardID)
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get board")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, boardToResponse(board))
}

// UpdateBoard handles PUT /api/boards/{id}.
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	userID, boardID, ok := handleUserIDAndPathID(w, r, "id", "board")
	if !ok {
		return
	}

	var req BoardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	board, err := h.boardService.UpdateBoard(r.Context(), boardID, userID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update board")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, boardToResponse(board))
}

// DeleteBoard handles DELETE /api/boards/{id}.
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	userID, boardID, ok := handleUserIDAndPathID(w, r, "id", "board")
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(r.Context(), boardID, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete board")
		return
	}

	shared.RespondNoContent(w)
}
