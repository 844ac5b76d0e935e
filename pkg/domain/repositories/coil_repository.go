package repositories

import (
	"errors"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// ErrNotFound is returned when a repository has no record with the requested id
var ErrNotFound = errors.New("record not found")

// CoilRepository provides access to coil inventory
type CoilRepository interface {
	GetCoil(id entities.CoilID) (*entities.Coil, error)
	GetAllCoils() ([]*entities.Coil, error)
	LoadCoils(coils []*entities.Coil) error
	SaveCoil(coil *entities.Coil) error
	DeleteCoil(id entities.CoilID) error
	UpdateCoilStatus(id entities.CoilID, status entities.CoilStatus) error
	// ReplaceCoils swaps the whole coil set in one step
	ReplaceCoils(coils []*entities.Coil) error
}
