package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ludo-board-api/internal/auth"
	"github.com/iliyamo/ludo-board-api/internal/config"
	"github.com/iliyamo/ludo-board-api/internal/handler"
	"github.com/iliyamo/ludo-board-api/internal/middleware"
	"github.com/iliyamo/ludo-board-api/internal/model"
	"github.com/iliyamo/ludo-board-api/internal/queue"
	"github.com/iliyamo/ludo-board-api/internal/router"
)

// testBcryptCost keeps hashing fast in tests.
const testBcryptCost = 4

// env wires the full route table against in-memory stores, so tests
// exercise the same middleware chain the server runs.
type env struct {
	e       *echo.Echo
	db      *memDB
	players *memPlayers
	games   *memGames
	moves   *memMoves
	issuer  *auth.TokenIssuer

	pubMu     sync.Mutex
	published []queue.MoveRecordedEvent
}

// publishedEvents copies the events captured so far. Publishing happens on a
// goroutine after the create response, so assertions should poll via
// assert.Eventually rather than read once.
func (v *env) publishedEvents() []queue.MoveRecordedEvent {
	v.pubMu.Lock()
	defer v.pubMu.Unlock()
	return append([]queue.MoveRecordedEvent(nil), v.published...)
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := newMemDB()
	v := &env{
		db:      db,
		players: &memPlayers{db: db},
		games:   &memGames{db: db},
		moves:   &memMoves{db: db},
		issuer:  auth.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour),
	}

	authH := handler.NewAuthHandler(v.players, v.issuer, testBcryptCost)
	playerH := handler.NewPlayerHandler(v.players)
	gameH := handler.NewGameHandler(v.games)
	moveH := handler.NewMoveHandler(v.moves, v.players, v.games)
	moveH.Publish = func(_ context.Context, ev queue.MoveRecordedEvent) error {
		v.pubMu.Lock()
		defer v.pubMu.Unlock()
		v.published = append(v.published, ev)
		return nil
	}

	// A disabled cache config yields a pass-through middleware.
	cache := middleware.NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterResources(e, playerH, gameH, moveH, v.issuer, cache)
	v.e = e
	return v
}

// do performs a request against the in-process route table. A non-empty
// token is sent as a bearer Authorization header; a non-nil body is sent as
// JSON.
func (v *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded JSON body into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// register creates an account through the HTTP endpoint and returns the
// created player's id plus the issued token pair.
func (v *env) register(t *testing.T, name, email, password string) (uint64, string, string) {
	t.Helper()
	body := map[string]interface{}{"name": name, "password": password}
	if email != "" {
		body["email"] = email
	}
	rec := v.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, "register failed: %s", rec.Body.String())
	resp := decode(t, rec)
	player := resp["player"].(map[string]interface{})
	return uint64(player["id"].(float64)), resp["access_token"].(string), resp["refresh_token"].(string)
}

// seedGame inserts a game directly into the store.
func (v *env) seedGame(t *testing.T, status string) model.Game {
	t.Helper()
	g, err := v.games.Create(context.Background(), status)
	require.NoError(t, err)
	return g
}

// seedMove inserts a move directly into the store.
func (v *env) seedMove(t *testing.T, playerID, gameID uint64) model.Move {
	t.Helper()
	m, err := v.moves.Create(context.Background(), model.Move{
		PlayerID: playerID,
		GameID:   gameID,
		DiceRoll: 3,
		PieceID:  1,
		Position: 10,
	})
	require.NoError(t, err)
	return m
}
