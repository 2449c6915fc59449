// Package memory implementa los puertos de persistencia en memoria del proceso.
// Sirve para desarrollo local (STORAGE_DRIVER=memory) y para pruebas: respeta las mismas
// reglas que PostgreSQL (transacciones todo o nada, historial solo de agregado,
// orden por created_at y luego por orden de inserción).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-tracker-api/internal/application/stock"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

var _ stock.TxRunner = (*Store)(nil)

// Store estado compartido de productos e historial.
type Store struct {
	mu    sync.Mutex
	state *state
	clock func() time.Time
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj con el que se sellan las entradas del historial.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// New crea un Store vacío.
func New(opts ...Option) *Store {
	s := &Store{
		state: &state{items: make(map[string]entity.StockItem)},
		clock: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Items repositorio de productos fuera de transacción.
func (s *Store) Items() repository.StockItemRepository {
	return &itemRepo{store: s}
}

// History repositorio de historial fuera de transacción.
func (s *Store) History() repository.HistoryRepository {
	return &historyRepo{store: s}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no devuelve error.
// Las transacciones se serializan. fn no debe usar los repositorios de Items()/History().
func (s *Store) Run(ctx context.Context, fn func(
	items repository.StockItemRepository,
	history repository.HistoryRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	if err := fn(&itemRepo{store: s, tx: tx}, &historyRepo{store: s, tx: tx}); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// view ejecuta fn sobre el estado de la tx o, sin tx, sobre el estado publicado bajo el mutex.
func (s *Store) view(ctx context.Context, tx *state, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

type historyRecord struct {
	seq   int64
	entry entity.HistoryEntry
}

type state struct {
	items   map[string]entity.StockItem
	history []historyRecord
	seq     int64
	lastAt  time.Time
}

func (st *state) clone() *state {
	items := make(map[string]entity.StockItem, len(st.items))
	for k, v := range st.items {
		items[k] = v
	}
	history := make([]historyRecord, len(st.history), len(st.history)+1)
	copy(history, st.history)
	return &state{items: items, history: history, seq: st.seq, lastAt: st.lastAt}
}
