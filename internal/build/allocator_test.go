package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocator_IssuesFromSeeds(t *testing.T) {
	a := NewAllocator(Seeds{Order: 1000, OrderItem: 2000, Incorporation: 3000, ITINApplication: 4000, OperatingAgreement: 5000})

	assert.Equal(t, int64(1000), a.NextOrder())
	assert.Equal(t, int64(2000), a.NextOrderItem())
	assert.Equal(t, int64(3000), a.NextIncorporation())
	assert.Equal(t, int64(4000), a.NextITINApplication())
	assert.Equal(t, int64(5000), a.NextOperatingAgreement())
}

func TestAllocator_StrictlyIncreasing(t *testing.T) {
	a := NewAllocator(DefaultSeeds())

	prev := int64(-1)
	for i := 0; i < 100; i++ {
		id := a.NextOrder()
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestAllocator_CountersAreIndependent(t *testing.T) {
	a := NewAllocator(DefaultSeeds())

	a.NextOrder()
	a.NextOrder()
	a.NextOrder()

	// Order items advance only when consumed, regardless of order activity.
	assert.Equal(t, int64(1000), a.NextOrderItem())
}

func TestAllocator_InstancesAreIndependent(t *testing.T) {
	a := NewAllocator(DefaultSeeds())
	b := NewAllocator(DefaultSeeds())

	a.NextOrder()
	a.NextOrder()

	assert.Equal(t, int64(1000), b.NextOrder())
}
