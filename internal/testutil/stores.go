// Package testutil provides in-memory implementations of the store interfaces
// with per-operation fault injection, for use in tests across the codebase.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/society-admin/backend/internal/amenities"
	"github.com/society-admin/backend/internal/identity"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/internal/parking"
	"github.com/society-admin/backend/internal/profiles"
	"github.com/society-admin/backend/pkg/utils"
)

func init() {
	utils.Cost = bcrypt.MinCost
}

// === Credentials ===

// Credentials is an in-memory identity store.
// A non-nil hook runs before the operation; a non-nil return fails it without changes.
type Credentials struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*identity.Credential
	Deletes int

	CreateHook     func(email string) error
	GetByEmailHook func(email string) error
	DeleteHook     func(id uuid.UUID) error
}

// NewCredentials creates an empty credential store.
func NewCredentials() *Credentials {
	return &Credentials{byID: make(map[uuid.UUID]*identity.Credential)}
}

// Create implements the identity store.
func (m *Credentials) Create(ctx context.Context, email, password string) (*identity.Credential, error) {
	if m.CreateHook != nil {
		if err := m.CreateHook(email); err != nil {
			return nil, err
		}
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, c := range m.byID {
		if c.Email == email {
			return nil, identity.ErrEmailRegistered
		}
	}
	c := &identity.Credential{ID: uuid.New(), Email: email, PasswordHash: hash}
	m.byID[c.ID] = c
	cp := *c
	return &cp, nil
}

// GetByEmail implements the identity store.
func (m *Credentials) GetByEmail(ctx context.Context, email string) (*identity.Credential, error) {
	if m.GetByEmailHook != nil {
		if err := m.GetByEmailHook(email); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, c := range m.byID {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, identity.ErrNotFound
}

// GetByID implements the identity store.
func (m *Credentials) GetByID(ctx context.Context, id uuid.UUID) (*identity.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// Delete implements the identity store.
func (m *Credentials) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteHook != nil {
		if err := m.DeleteHook(id); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return identity.ErrNotFound
	}
	delete(m.byID, id)
	m.Deletes++
	return nil
}

// Authenticate implements the identity store.
func (m *Credentials) Authenticate(ctx context.Context, email, password string) (*identity.Credential, error) {
	c, err := m.GetByEmail(ctx, email)
	if err != nil {
		return nil, identity.ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, c.PasswordHash) {
		return nil, identity.ErrInvalidCredentials
	}
	return c, nil
}

// Has reports whether a credential with id exists.
func (m *Credentials) Has(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	return ok
}

// Len returns the number of stored credentials.
func (m *Credentials) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// === Profiles ===

// Profiles is an in-memory profile store.
type Profiles struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.User

	GetHook    func(id uuid.UUID) error
	ListHook   func(role models.Role) error
	InsertHook func(u models.User) error
	DeleteHook func(id uuid.UUID) error
}

// NewProfiles creates a profile store holding users.
func NewProfiles(users ...models.User) *Profiles {
	m := &Profiles{byID: make(map[uuid.UUID]models.User)}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

// GetByID implements the profile store.
func (m *Profiles) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetHook != nil {
		if err := m.GetHook(id); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, profiles.ErrNotFound
	}
	return &u, nil
}

// ListByRole implements the profile store.
func (m *Profiles) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if m.ListHook != nil {
		if err := m.ListHook(role); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0)
	for _, u := range m.byID {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Insert implements the profile store.
func (m *Profiles) Insert(ctx context.Context, u models.User) error {
	if m.InsertHook != nil {
		if err := m.InsertHook(u); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = models.NormalizeEmail(u.Email)
	m.byID[u.ID] = u
	return nil
}

// Delete implements the profile store.
func (m *Profiles) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteHook != nil {
		if err := m.DeleteHook(id); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return profiles.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// Has reports whether a profile with id exists.
func (m *Profiles) Has(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	return ok
}

// Count returns how many profiles hold role.
func (m *Profiles) Count(role models.Role) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.byID {
		if u.Role == role {
			n++
		}
	}
	return n
}

// === Amenities ===

// Amenities is an in-memory amenity store.
type Amenities struct {
	mu     sync.Mutex
	byID   map[int64]models.Amenity
	Writes int

	ListHook     func() error
	SetOrderHook func(id int64, index int) error
	RenameHook   func(id int64, name string) error
}

// NewAmenities creates a store holding names with dense order 0..N-1 and ids 1..N.
func NewAmenities(names ...string) *Amenities {
	m := &Amenities{byID: make(map[int64]models.Amenity)}
	for i, n := range names {
		id := int64(i + 1)
		m.byID[id] = models.Amenity{ID: id, Name: n, OrderIndex: i}
	}
	return m
}

// List implements amenities.Store.
func (m *Amenities) List(ctx context.Context) ([]models.Amenity, error) {
	if m.ListHook != nil {
		if err := m.ListHook(); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Amenity, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SetOrderIndex implements amenities.Store.
func (m *Amenities) SetOrderIndex(ctx context.Context, id int64, index int) error {
	if m.SetOrderHook != nil {
		if err := m.SetOrderHook(id, index); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return amenities.ErrNotFound
	}
	a.OrderIndex = index
	m.byID[id] = a
	m.Writes++
	return nil
}

// Rename implements amenities.Store.
func (m *Amenities) Rename(ctx context.Context, id int64, name string) error {
	if m.RenameHook != nil {
		if err := m.RenameHook(id, name); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return amenities.ErrNotFound
	}
	a.Name = name
	m.byID[id] = a
	m.Writes++
	return nil
}

// WriteCount returns the number of applied writes.
func (m *Amenities) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Writes
}

// === Parking ===

// Parking is an in-memory parking slot store.
type Parking struct {
	mu   sync.Mutex
	byID map[int64]models.ParkingSlot
	// Applied records every successful write in the order it landed.
	Applied []models.ParkingSlot

	ListHook func() error
	SetHook  func(id int64, u models.OccupancyUpdate) error
}

// NewParking creates n free slots with id == slot_number == 1..n.
func NewParking(n int) *Parking {
	m := &Parking{byID: make(map[int64]models.ParkingSlot)}
	for i := 1; i <= n; i++ {
		m.byID[int64(i)] = models.ParkingSlot{ID: int64(i), SlotNumber: i}
	}
	return m
}

// List implements parking.Store.
func (m *Parking) List(ctx context.Context) ([]models.ParkingSlot, error) {
	if m.ListHook != nil {
		if err := m.ListHook(); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ParkingSlot, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotNumber < out[j].SlotNumber })
	return out, nil
}

// SetOccupancy implements parking.Store.
func (m *Parking) SetOccupancy(ctx context.Context, id int64, u models.OccupancyUpdate) (*models.ParkingSlot, error) {
	if m.SetHook != nil {
		if err := m.SetHook(id, u); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, parking.ErrNotFound
	}
	s.IsOccupied = u.IsOccupied
	s.BookedByName = u.BookedByName
	s.UpdatedBy = u.UpdatedBy
	m.byID[id] = s
	m.Applied = append(m.Applied, s)
	return &s, nil
}

// Slot returns the stored state of slot id.
func (m *Parking) Slot(id int64) models.ParkingSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

// LastApplied returns the last write that landed.
func (m *Parking) LastApplied() (models.ParkingSlot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Applied) == 0 {
		return models.ParkingSlot{}, false
	}
	return m.Applied[len(m.Applied)-1], true
}
