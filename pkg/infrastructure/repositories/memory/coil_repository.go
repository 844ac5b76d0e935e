package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/repositories"
)

// CoilRepository provides in-memory coil storage. Coils keep insertion
// order; callers always receive copies.
type CoilRepository struct {
	mu       sync.RWMutex
	coils    []entities.Coil
	coilsMap map[entities.CoilID]int
}

// NewCoilRepository creates a new in-memory coil repository
func NewCoilRepository(expectedCoils int) *CoilRepository {
	return &CoilRepository{
		coils:    make([]entities.Coil, 0, expectedCoils),
		coilsMap: make(map[entities.CoilID]int, expectedCoils),
	}
}

// Verify interface compliance
var _ repositories.CoilRepository = (*CoilRepository)(nil)

// LoadCoils adds coils to the repository, replacing any with the same id
func (r *CoilRepository) LoadCoils(coils []*entities.Coil) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, coil := range coils {
		r.upsert(*coil)
	}
	return nil
}

// ReplaceCoils discards every stored coil and loads the given ones
func (r *CoilRepository) ReplaceCoils(coils []*entities.Coil) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.coils = make([]entities.Coil, 0, len(coils))
	r.coilsMap = make(map[entities.CoilID]int, len(coils))
	for _, coil := range coils {
		r.upsert(*coil)
	}
	return nil
}

// GetCoil returns a coil by id
func (r *CoilRepository) GetCoil(id entities.CoilID) (*entities.Coil, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.coilsMap[id]
	if !exists {
		return nil, fmt.Errorf("coil %s: %w", id, repositories.ErrNotFound)
	}
	coil := r.coils[index]
	return &coil, nil
}

// GetAllCoils returns all coils in insertion order
func (r *CoilRepository) GetAllCoils() ([]*entities.Coil, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coils := make([]*entities.Coil, len(r.coils))
	for i := range r.coils {
		coil := r.coils[i]
		coils[i] = &coil
	}
	return coils, nil
}

// SaveCoil inserts or replaces a coil
func (r *CoilRepository) SaveCoil(coil *entities.Coil) error {
	if coil == nil {
		return fmt.Errorf("coil cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsert(*coil)
	return nil
}

// DeleteCoil removes a coil
func (r *CoilRepository) DeleteCoil(id entities.CoilID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.coilsMap[id]
	if !exists {
		return fmt.Errorf("coil %s: %w", id, repositories.ErrNotFound)
	}

	r.coils = append(r.coils[:index], r.coils[index+1:]...)
	delete(r.coilsMap, id)
	for i := index; i < len(r.coils); i++ {
		r.coilsMap[r.coils[i].ID] = i
	}
	return nil
}

// UpdateCoilStatus moves a coil to a new status if the transition is allowed
func (r *CoilRepository) UpdateCoilStatus(id entities.CoilID, status entities.CoilStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.coilsMap[id]
	if !exists {
		return fmt.Errorf("coil %s: %w", id, repositories.ErrNotFound)
	}

	current := r.coils[index].Status
	if !current.CanTransitionTo(status) {
		return fmt.Errorf("%w: coil %s from %s to %s", entities.ErrInvalidTransition, id, current, status)
	}
	r.coils[index].Status = status
	return nil
}

func (r *CoilRepository) upsert(coil entities.Coil) {
	if index, exists := r.coilsMap[coil.ID]; exists {
		r.coils[index] = coil
		return
	}
	r.coilsMap[coil.ID] = len(r.coils)
	r.coils = append(r.coils, coil)
}
