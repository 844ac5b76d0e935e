package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/repositories"
)

// LineRepository provides in-memory processing line storage. Line order
// matters: the first compatible line is the one a coil is run on.
type LineRepository struct {
	mu       sync.RWMutex
	lines    []entities.Line
	linesMap map[entities.LineID]int
}

// NewLineRepository creates a new in-memory line repository
func NewLineRepository() *LineRepository {
	return &LineRepository{
		lines:    []entities.Line{},
		linesMap: make(map[entities.LineID]int),
	}
}

// Verify interface compliance
var _ repositories.LineRepository = (*LineRepository)(nil)

// LoadLines adds lines to the repository, replacing any with the same id
func (r *LineRepository) LoadLines(lines []*entities.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, line := range lines {
		if index, exists := r.linesMap[line.ID]; exists {
			r.lines[index] = *line
			continue
		}
		r.linesMap[line.ID] = len(r.lines)
		r.lines = append(r.lines, *line)
	}
	return nil
}

// GetLine returns a line by id
func (r *LineRepository) GetLine(id entities.LineID) (*entities.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.linesMap[id]
	if !exists {
		return nil, fmt.Errorf("line %s: %w", id, repositories.ErrNotFound)
	}
	line := r.lines[index]
	return &line, nil
}

// GetAllLines returns all lines in insertion order
func (r *LineRepository) GetAllLines() ([]*entities.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := make([]*entities.Line, len(r.lines))
	for i := range r.lines {
		line := r.lines[i]
		lines[i] = &line
	}
	return lines, nil
}

// SaveLine inserts or replaces a line
func (r *LineRepository) SaveLine(line *entities.Line) error {
	if line == nil {
		return fmt.Errorf("line cannot be nil")
	}
	return r.LoadLines([]*entities.Line{line})
}

// DeleteLine removes a line
func (r *LineRepository) DeleteLine(id entities.LineID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.linesMap[id]
	if !exists {
		return fmt.Errorf("line %s: %w", id, repositories.ErrNotFound)
	}

	r.lines = append(r.lines[:index], r.lines[index+1:]...)
	delete(r.linesMap, id)
	for i := index; i < len(r.lines); i++ {
		r.linesMap[r.lines[i].ID] = i
	}
	return nil
}
