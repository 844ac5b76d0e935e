package repositories

import "github.com/vsinha/coilplan/pkg/domain/entities"

// LineRepository provides access to processing lines
type LineRepository interface {
	GetLine(id entities.LineID) (*entities.Line, error)
	GetAllLines() ([]*entities.Line, error)
	LoadLines(lines []*entities.Line) error
	SaveLine(line *entities.Line) error
	DeleteLine(id entities.LineID) error
}
