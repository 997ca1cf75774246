package httpapi

import (
	"net/http"

	"github.com/riskibarqy/team-sheet/internal/usecase"
)

// openRoster writes the error response itself and returns nil when the team
// cannot be opened.
func (h *Handler) openRoster(w http.ResponseWriter, r *http.Request) *usecase.RosterService {
	ctx := r.Context()
	teamID := pathValue(r, "teamID")

	svc, err := h.teamService.OpenRoster(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "open roster failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return nil
	}
	return svc
}

func (h *Handler) GetSheet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSheet")
	defer span.End()
	r = r.WithContext(ctx)

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sheetToDTO(svc.Sheet(ctx)))
}

func (h *Handler) ListAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAvailablePlayers")
	defer span.End()
	r = r.WithContext(ctx)

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(svc.AvailablePlayers(ctx)))
}

func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayer")
	defer span.End()
	r = r.WithContext(ctx)

	var req playerNameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	item, err := svc.AddPlayer(ctx, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "add player failed", "team_id", pathValue(r, "teamID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(item))
}

func (h *Handler) ClearPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearPlayers")
	defer span.End()
	r = r.WithContext(ctx)

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	if err := svc.ClearPlayers(ctx); err != nil {
		h.logger.WarnContext(ctx, "clear players failed", "team_id", pathValue(r, "teamID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sheetToDTO(svc.Sheet(ctx)))
}

func (h *Handler) RenamePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenamePlayer")
	defer span.End()
	r = r.WithContext(ctx)

	var req playerNameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	playerID := pathValue(r, "playerID")
	if err := svc.RenamePlayer(ctx, playerID, req.Name); err != nil {
		h.logger.WarnContext(ctx, "rename player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(svc.Players(ctx)))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()
	r = r.WithContext(ctx)

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	playerID := pathValue(r, "playerID")
	if err := svc.DeletePlayer(ctx, playerID); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(svc.Players(ctx)))
}

func (h *Handler) AssignPosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignPosition")
	defer span.End()
	r = r.WithContext(ctx)

	var req assignPositionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	positionID := pathValue(r, "positionID")
	players, err := svc.AssignPlayerToPosition(ctx, req.PlayerID, positionID)
	if err != nil {
		h.logger.WarnContext(ctx, "assign position failed", "position_id", positionID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) UnassignPosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnassignPosition")
	defer span.End()
	r = r.WithContext(ctx)

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	positionID := pathValue(r, "positionID")
	if err := svc.UnassignPosition(ctx, positionID); err != nil {
		h.logger.WarnContext(ctx, "unassign position failed", "position_id", positionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(svc.Players(ctx)))
}

func (h *Handler) TogglePosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TogglePosition")
	defer span.End()
	r = r.WithContext(ctx)

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	positionID := pathValue(r, "positionID")
	if _, err := svc.TogglePositionDisabled(ctx, positionID); err != nil {
		h.logger.WarnContext(ctx, "toggle position failed", "position_id", positionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slotsToDTO(svc.PositionsView(ctx)))
}

func (h *Handler) ResetAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetAssignments")
	defer span.End()
	r = r.WithContext(ctx)

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	if err := svc.ResetAssignments(ctx); err != nil {
		h.logger.WarnContext(ctx, "reset assignments failed", "team_id", pathValue(r, "teamID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sheetToDTO(svc.Sheet(ctx)))
}

const rosterCSVFilename = "rugby_team.csv"

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportCSV")
	defer span.End()
	r = r.WithContext(ctx)

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	writeAttachment(ctx, w, "text/csv; charset=utf-8", rosterCSVFilename, svc.ExportCSV(ctx))
}

func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportCSV")
	defer span.End()
	r = r.WithContext(ctx)

	text, err := readTextBody(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	svc := h.openRoster(w, r)
	if svc == nil {
		return
	}

	result, err := svc.ImportCSV(ctx, text)
	if err != nil {
		h.logger.WarnContext(ctx, "import csv failed", "team_id", pathValue(r, "teamID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, importResultDTO{
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Players:  playersToDTO(result.Players),
	})
}
