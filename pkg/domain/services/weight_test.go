package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderWeight(t *testing.T) {
	// 1200 x 2500 x 2 mm, 100 sheets at 7.85 t/m³
	assert.Equal(t, 4.71, OrderWeight(1200, 2500, 2, 100))
	assert.Equal(t, 0.0, OrderWeight(1200, 2500, 0, 100))
	assert.Equal(t, 0.0, OrderWeight(1200, 2500, 2, 0))
}

func TestCoilLength(t *testing.T) {
	// 20 t of 1250 x 2 mm strip is about 1019 m
	assert.Equal(t, 1019108.0, CoilLength(20, 1250, 2))
	assert.Equal(t, 0.0, CoilLength(0, 1250, 2))
}
