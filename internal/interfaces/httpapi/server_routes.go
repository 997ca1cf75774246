package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("POST /v1/teams", handler.CreateTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("PATCH /v1/teams/{teamID}", handler.UpdateTeam)
	mux.HandleFunc("DELETE /v1/teams/{teamID}", handler.DeleteTeam)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/sheet", handler.GetSheet)
	mux.HandleFunc("GET /v1/teams/{teamID}/players/available", handler.ListAvailablePlayers)
	mux.HandleFunc("POST /v1/teams/{teamID}/players", handler.AddPlayer)
	mux.HandleFunc("DELETE /v1/teams/{teamID}/players", handler.ClearPlayers)
	mux.HandleFunc("PATCH /v1/teams/{teamID}/players/{playerID}", handler.RenamePlayer)
	mux.HandleFunc("DELETE /v1/teams/{teamID}/players/{playerID}", handler.DeletePlayer)
	mux.HandleFunc("PUT /v1/teams/{teamID}/positions/{positionID}", handler.AssignPosition)
	mux.HandleFunc("DELETE /v1/teams/{teamID}/positions/{positionID}", handler.UnassignPosition)
	mux.HandleFunc("POST /v1/teams/{teamID}/positions/{positionID}/toggle", handler.TogglePosition)
	mux.HandleFunc("POST /v1/teams/{teamID}/reset", handler.ResetAssignments)
	mux.HandleFunc("GET /v1/teams/{teamID}/roster.csv", handler.ExportCSV)
	mux.HandleFunc("POST /v1/teams/{teamID}/roster/import", handler.ImportCSV)
}
