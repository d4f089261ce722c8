package booking

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/cafechostito/reservation-api/internal/model"
)

// MemStore is an in-process Store.  It backs the test suite and lets the
// service run without MySQL in development.  Atomicity of the capacity
// check-then-insert is provided by a mutex per (date, slot) key held across
// both steps; this protects a single process only, which is exactly the
// substitute the design allows when no transactional store is present.
type MemStore struct {
    mu     sync.Mutex // guards byID, byKey and nextID
    byID   map[uint64]*model.Reservation
    byKey  map[string][]uint64 // (date|slot) -> reservation IDs in insert order
    nextID uint64

    slotMu sync.Mutex
    locks  map[string]*sync.Mutex // per (date|slot) commit locks
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
    return &MemStore{
        byID:  make(map[uint64]*model.Reservation),
        byKey: make(map[string][]uint64),
        locks: make(map[string]*sync.Mutex),
    }
}

func slotKey(date, slot string) string { return date + "|" + slot }

// lockFor returns the commit mutex for a slot key, creating it on first use.
func (m *MemStore) lockFor(key string) *sync.Mutex {
    m.slotMu.Lock()
    defer m.slotMu.Unlock()
    l, ok := m.locks[key]
    if !ok {
        l = &sync.Mutex{}
        m.locks[key] = l
    }
    return l
}

// InsertIfCapacityAvailable implements Store.  The slot lock is taken
// before reading current usage and released only after the insert, so two
// concurrent calls for the last table serialize and exactly one succeeds.
func (m *MemStore) InsertIfCapacityAvailable(ctx context.Context, rec *model.Reservation, maxSeats, maxTables int) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    key := slotKey(rec.Date, rec.TimeSlot)
    l := m.lockFor(key)
    l.Lock()
    defer l.Unlock()

    m.mu.Lock()
    defer m.mu.Unlock()

    tables := 0
    seats := 0
    for _, id := range m.byKey[key] {
        r := m.byID[id]
        if r.Status == model.StatusConfirmed {
            tables++
            seats += r.PartySize
        }
    }
    if tables >= maxTables || seats+rec.PartySize > maxSeats {
        return ErrNoCapacity
    }

    m.nextID++
    rec.ID = m.nextID
    now := time.Now().UTC()
    rec.CreatedAt = now
    rec.UpdatedAt = now
    stored := *rec
    m.byID[rec.ID] = &stored
    m.byKey[key] = append(m.byKey[key], rec.ID)
    return nil
}

// QueryByDateSlot implements Store.
func (m *MemStore) QueryByDateSlot(ctx context.Context, date, slot, status string) ([]model.Reservation, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    m.mu.Lock()
    defer m.mu.Unlock()

    out := make([]model.Reservation, 0)
    for _, r := range m.byID {
        if r.Date != date {
            continue
        }
        if slot != "" && r.TimeSlot != slot {
            continue
        }
        if status != "" && r.Status != status {
            continue
        }
        out = append(out, *r)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

// GetByID implements Store.
func (m *MemStore) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
    if err := ctx.Err(); err != nil {
        return model.Reservation{}, err
    }
    m.mu.Lock()
    defer m.mu.Unlock()
    r, ok := m.byID[id]
    if !ok {
        return model.Reservation{}, ErrNotFound
    }
    return *r, nil
}

// UpdateStatus implements Store.  The check and write happen under the
// store lock, so a terminal state can never be overwritten.
func (m *MemStore) UpdateStatus(ctx context.Context, id uint64, from, to string) (bool, error) {
    if err := ctx.Err(); err != nil {
        return false, err
    }
    m.mu.Lock()
    defer m.mu.Unlock()
    r, ok := m.byID[id]
    if !ok {
        return false, ErrNotFound
    }
    if r.Status != from {
        return false, nil
    }
    r.Status = to
    r.UpdatedAt = time.Now().UTC()
    return true, nil
}

// ListByCustomer implements Store.  Newest first, matching the SQL store.
func (m *MemStore) ListByCustomer(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    m.mu.Lock()
    defer m.mu.Unlock()

    out := make([]model.Reservation, 0)
    for _, r := range m.byID {
        if r.UserID == userID {
            out = append(out, *r)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
    return out, nil
}
