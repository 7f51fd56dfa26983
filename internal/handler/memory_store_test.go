package handler_test

// In-memory implementations of the store interfaces. They emulate the
// relational guarantees the handlers rely on: unique name/email constraints
// and the cascade from a player or game to its moves.

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/ludo-board-api/internal/model"
	"github.com/iliyamo/ludo-board-api/internal/repository"
)

type memDB struct {
	mu      sync.Mutex
	players map[uint64]model.Player
	games   map[uint64]model.Game
	moves   map[uint64]model.Move
	pseq    uint64
	gseq    uint64
	mseq    uint64
}

func newMemDB() *memDB {
	return &memDB{
		players: map[uint64]model.Player{},
		games:   map[uint64]model.Game{},
		moves:   map[uint64]model.Move{},
	}
}

type memPlayers struct{ db *memDB }
type memGames struct{ db *memDB }
type memMoves struct{ db *memDB }

// ----- PlayerStore -----

func (s *memPlayers) Create(_ context.Context, name string, email *string, passwordHash string) (model.Player, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.players {
		if p.Name == name {
			return model.Player{}, repository.ErrNameExists
		}
		if email != nil && p.Email != nil && *p.Email == *email {
			return model.Player{}, repository.ErrEmailExists
		}
	}
	s.db.pseq++
	p := model.Player{
		ID:           s.db.pseq,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Score:        0,
		CreatedAt:    time.Now().UTC(),
	}
	s.db.players[p.ID] = p
	return p, nil
}

func (s *memPlayers) GetByID(_ context.Context, id uint64) (model.Player, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.players[id]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *memPlayers) GetByName(_ context.Context, name string) (model.Player, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.players {
		if p.Name == name {
			return p, nil
		}
	}
	return model.Player{}, repository.ErrNotFound
}

func (s *memPlayers) List(_ context.Context) ([]model.Player, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Player{}
	for i := uint64(1); i <= s.db.pseq; i++ {
		if p, ok := s.db.players[i]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memPlayers) NameExists(_ context.Context, name string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.players {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *memPlayers) EmailExists(_ context.Context, email string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.players {
		if p.Email != nil && *p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memPlayers) Update(_ context.Context, in model.Player) (model.Player, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.players[in.ID]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	for id, p := range s.db.players {
		if id == in.ID {
			continue
		}
		if p.Name == in.Name {
			return model.Player{}, repository.ErrNameExists
		}
		if in.Email != nil && p.Email != nil && *p.Email == *in.Email {
			return model.Player{}, repository.ErrEmailExists
		}
	}
	in.PasswordHash = cur.PasswordHash
	in.CreatedAt = cur.CreatedAt
	s.db.players[in.ID] = in
	return in, nil
}

func (s *memPlayers) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.players[id]; !ok {
		return repository.ErrNotFound
	}
	for mid, m := range s.db.moves {
		if m.PlayerID == id {
			delete(s.db.moves, mid)
		}
	}
	delete(s.db.players, id)
	return nil
}

// ----- GameStore -----

func (s *memGames) Create(_ context.Context, status string) (model.Game, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.gseq++
	g := model.Game{ID: s.db.gseq, Status: status, CreatedAt: time.Now().UTC()}
	s.db.games[g.ID] = g
	return g, nil
}

func (s *memGames) GetByID(_ context.Context, id uint64) (model.Game, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	g, ok := s.db.games[id]
	if !ok {
		return model.Game{}, repository.ErrNotFound
	}
	return g, nil
}

func (s *memGames) List(_ context.Context) ([]model.Game, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Game{}
	for i := uint64(1); i <= s.db.gseq; i++ {
		if g, ok := s.db.games[i]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *memGames) Update(_ context.Context, in model.Game) (model.Game, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.games[in.ID]
	if !ok {
		return model.Game{}, repository.ErrNotFound
	}
	in.CreatedAt = cur.CreatedAt
	s.db.games[in.ID] = in
	return in, nil
}

func (s *memGames) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.games[id]; !ok {
		return repository.ErrNotFound
	}
	for mid, m := range s.db.moves {
		if m.GameID == id {
			delete(s.db.moves, mid)
		}
	}
	delete(s.db.games, id)
	return nil
}

// ----- MoveStore -----

func (s *memMoves) Create(_ context.Context, in model.Move) (model.Move, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.players[in.PlayerID]; !ok {
		return model.Move{}, repository.ErrConflict
	}
	if _, ok := s.db.games[in.GameID]; !ok {
		return model.Move{}, repository.ErrConflict
	}
	s.db.mseq++
	in.ID = s.db.mseq
	in.CreatedAt = time.Now().UTC()
	s.db.moves[in.ID] = in
	return in, nil
}

func (s *memMoves) GetByID(_ context.Context, id uint64) (model.Move, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.moves[id]
	if !ok {
		return model.Move{}, repository.ErrNotFound
	}
	return m, nil
}

func (s *memMoves) List(_ context.Context) ([]model.Move, error) {
	return s.listFilter(func(model.Move) bool { return true })
}

func (s *memMoves) ListByGame(_ context.Context, gameID uint64) ([]model.Move, error) {
	return s.listFilter(func(m model.Move) bool { return m.GameID == gameID })
}

func (s *memMoves) ListByPlayer(_ context.Context, playerID uint64) ([]model.Move, error) {
	return s.listFilter(func(m model.Move) bool { return m.PlayerID == playerID })
}

func (s *memMoves) listFilter(keep func(model.Move) bool) ([]model.Move, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Move{}
	for i := uint64(1); i <= s.db.mseq; i++ {
		if m, ok := s.db.moves[i]; ok && keep(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMoves) Update(_ context.Context, in model.Move) (model.Move, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.moves[in.ID]
	if !ok {
		return model.Move{}, repository.ErrNotFound
	}
	if _, ok := s.db.players[in.PlayerID]; !ok {
		return model.Move{}, repository.ErrConflict
	}
	if _, ok := s.db.games[in.GameID]; !ok {
		return model.Move{}, repository.ErrConflict
	}
	in.CreatedAt = cur.CreatedAt
	s.db.moves[in.ID] = in
	return in, nil
}

func (s *memMoves) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.moves[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.moves, id)
	return nil
}
