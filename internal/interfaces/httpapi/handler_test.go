package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/rosterstore"
	"github.com/riskibarqy/team-sheet/internal/platform/id"
	"github.com/riskibarqy/team-sheet/internal/platform/logging"
	"github.com/riskibarqy/team-sheet/internal/usecase"
)

type envelope struct {
	APIVersion string          `json:"apiVersion"`
	Data       sonicRaw        `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

type sonicRaw []byte

func (r *sonicRaw) UnmarshalJSON(b []byte) error {
	*r = append((*r)[:0], b...)
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	blobs := memory.NewBlobRepository()
	idGen := id.NewUUIDGenerator()
	sessions := usecase.NewSessions(func(teamID string) (roster.Store, error) {
		return rosterstore.NewLocal(blobs, rosterstore.TeamNamespace(teamID)), nil
	}, idGen, logger, 1)
	teams := usecase.NewTeamService(memory.NewTeamRepository(), sessions, idGen, logger)

	return NewRouter(NewHandler(teams, logger), logger, true, []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var env envelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (body=%s)", err, rec.Body.String())
	}
	if env.APIVersion != googleAPIVersion {
		t.Fatalf("unexpected apiVersion %q", env.APIVersion)
	}

	var out T
	if err := sonic.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	return out
}

func createTeam(t *testing.T, router http.Handler, name string) teamDTO {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/v1/teams", `{"name":"`+name+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: status %d body=%s", rec.Code, rec.Body.String())
	}
	return decodeData[teamDTO](t, rec)
}

func addPlayer(t *testing.T, router http.Handler, teamID, name string) playerDTO {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/v1/teams/"+teamID+"/players", `{"name":"`+name+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add player: status %d body=%s", rec.Code, rec.Body.String())
	}
	return decodeData[playerDTO](t, rec)
}

func TestHandler_TeamLifecycle(t *testing.T) {
	router := newTestRouter(t)

	created := createTeam(t, router, "Harlequins")
	require.Equal(t, "New Team", created.Description)
	require.NotEmpty(t, created.ID)

	rec := doRequest(t, router, http.MethodGet, "/v1/teams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[[]teamDTO](t, rec), 1)

	rec = doRequest(t, router, http.MethodPatch, "/v1/teams/"+created.ID, `{"name":"Quins"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Quins", decodeData[teamDTO](t, rec).Name)

	rec = doRequest(t, router, http.MethodDelete, "/v1/teams/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/teams/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CreateTeamRejectsBadPayload(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown field", body: `{"name":"Bath","colour":"blue"}`},
		{name: "missing name", body: `{"description":"x"}`},
		{name: "malformed", body: `{"name":`},
		{name: "blank name", body: `{"name":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/v1/teams", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandler_RosterFlow(t *testing.T) {
	router := newTestRouter(t)
	teamID := createTeam(t, router, "Bath").ID

	alice := addPlayer(t, router, teamID, "Alice")
	bea := addPlayer(t, router, teamID, "Bea")
	require.Nil(t, alice.PositionID)

	rec := doRequest(t, router, http.MethodPut, "/v1/teams/"+teamID+"/positions/10", `{"playerId":"`+alice.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Bea takes the fly-half shirt and Alice goes back to the bench pool.
	rec = doRequest(t, router, http.MethodPut, "/v1/teams/"+teamID+"/positions/10", `{"playerId":"`+bea.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	players := decodeData[[]playerDTO](t, rec)
	require.Len(t, players, 2)
	for _, p := range players {
		switch p.ID {
		case alice.ID:
			require.Nil(t, p.PositionID)
		case bea.ID:
			require.NotNil(t, p.PositionID)
			require.Equal(t, "10", *p.PositionID)
		}
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/teams/"+teamID+"/sheet", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sheet := decodeData[sheetDTO](t, rec)
	require.Len(t, sheet.Starters, 15)
	require.Len(t, sheet.Substitutes, 5)
	require.Len(t, sheet.Available, 1)
	require.Equal(t, "10", sheet.Starters[9].Position.ID)
	require.NotNil(t, sheet.Starters[9].Player)
	require.Equal(t, "Bea", sheet.Starters[9].Player.Name)

	rec = doRequest(t, router, http.MethodPost, "/v1/teams/"+teamID+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[sheetDTO](t, rec).Available, 2)
}

func TestHandler_UnknownIDsAreNoOps(t *testing.T) {
	router := newTestRouter(t)
	teamID := createTeam(t, router, "Leicester").ID
	addPlayer(t, router, teamID, "Alice")

	rec := doRequest(t, router, http.MethodPut, "/v1/teams/"+teamID+"/positions/99", `{"playerId":"ghost"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[[]playerDTO](t, rec), 1)

	rec = doRequest(t, router, http.MethodDelete, "/v1/teams/"+teamID+"/players/ghost", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/teams/"+teamID+"/positions/99/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[[]slotDTO](t, rec), 20)
}

func TestHandler_TogglePosition(t *testing.T) {
	router := newTestRouter(t)
	teamID := createTeam(t, router, "Exeter").ID

	rec := doRequest(t, router, http.MethodPost, "/v1/teams/"+teamID+"/positions/16/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	slots := decodeData[[]slotDTO](t, rec)
	require.Equal(t, "16", slots[15].Position.ID)
	require.True(t, slots[15].Position.Disabled)
}

func TestHandler_RosterOfUnknownTeam(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/teams/ghost/sheet", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CSVRoundTrip(t *testing.T) {
	router := newTestRouter(t)
	teamID := createTeam(t, router, "Gloucester").ID

	csvBody := "id,name,positionId\np1,\"Smith, J\",1\n,Jones,\np3,,2\n"
	rec := doRequest(t, router, http.MethodPost, "/v1/teams/"+teamID+"/roster/import", csvBody)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeData[importResultDTO](t, rec)
	require.Equal(t, 2, result.Imported)
	require.Equal(t, 1, result.Skipped)
	require.Len(t, result.Players, 2)

	rec = doRequest(t, router, http.MethodGet, "/v1/teams/"+teamID+"/roster.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))

	lines := strings.Split(rec.Body.String(), "\n")
	require.Equal(t, "id,name,positionId", lines[0])
	require.Equal(t, `p1,"Smith, J",1`, lines[1])
	require.Len(t, lines, 3)
}

func TestHandler_RequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get(requestIDHeader))

	rec = doRequest(t, router, http.MethodGet, "/healthz", "")
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestWriteError_DependencyUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(t.Context(), rec, usecase.ErrDependencyUnavailable)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
