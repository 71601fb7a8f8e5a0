package api

import (
	"net/http"

	"go.uber.org/zap"
)

// handleChat implements POST /chat. Input validation, retrieval, generation,
// and output moderation all run inside the orchestrator; only upstream
// failures surface as 5xx.
func (d *Dependencies) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "Invalid JSON body"})
		return
	}

	reply, err := d.Orchestrator.Chat(r.Context(), req.Query)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; nothing useful to write.
			return
		}
		d.Logger.Error("chat pipeline failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		RequestID: reply.RequestID,
		Response:  reply.Response,
		Blocked:   reply.Blocked,
		Products:  reply.Products,
		Details:   reply.Details,
	})
}
