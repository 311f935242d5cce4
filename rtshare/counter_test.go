package rtshare

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryCounter_RecordAttempt(t *testing.T) {
	var c DeliveryCounter
	require.Equal(t, DeliveryCount{}, c.Snapshot())

	c.RecordAttempt(true)
	c.RecordAttempt(false)
	c.RecordAttempt(true)

	assert.Equal(t, DeliveryCount{Successful: 2, Total: 3}, c.Snapshot())
	assert.Equal(t, uint32(1), c.Snapshot().Dropped())
}

func TestDeliveryCounter_pack(t *testing.T) {
	for _, tc := range [...]DeliveryCount{
		{},
		{Successful: 1, Total: 1},
		{Successful: 0, Total: math.MaxUint32},
		{Successful: math.MaxUint32, Total: math.MaxUint32},
		{Successful: 12345, Total: 67890},
	} {
		assert.Equal(t, tc, unpackCount(packCount(tc)))
	}
}

// each field wraps on its own, with no carry from successful into total
func TestDeliveryCounter_wrapsIndependently(t *testing.T) {
	var c DeliveryCounter
	c.v.Store(packCount(DeliveryCount{Successful: math.MaxUint32, Total: math.MaxUint32}))

	c.RecordAttempt(true)
	assert.Equal(t, DeliveryCount{Successful: 0, Total: 0}, c.Snapshot())

	c.v.Store(packCount(DeliveryCount{Successful: 7, Total: math.MaxUint32}))
	c.RecordAttempt(false)
	assert.Equal(t, DeliveryCount{Successful: 7, Total: 0}, c.Snapshot())
}

func TestDeliveryCounter_concurrentConsistency(t *testing.T) {
	const (
		writers    = 4
		iterations = 20_000
	)
	var (
		c       DeliveryCounter
		wg      sync.WaitGroup
		stop    atomic.Bool
		readers sync.WaitGroup
	)

	readers.Add(2)
	for range 2 {
		go func() {
			defer readers.Done()
			var last DeliveryCount
			for !stop.Load() {
				s := c.Snapshot()
				if s.Successful > s.Total {
					t.Errorf("inconsistent snapshot: %+v", s)
					return
				}
				if s.Total < last.Total || s.Successful < last.Successful {
					t.Errorf("counts went backwards: %+v then %+v", last, s)
					return
				}
				last = s
			}
		}()
	}

	wg.Add(writers)
	for w := range writers {
		go func() {
			defer wg.Done()
			for i := range iterations {
				c.RecordAttempt((i+w)%3 != 0)
			}
		}()
	}
	wg.Wait()
	stop.Store(true)
	readers.Wait()

	var wantSuccessful uint32
	for w := range writers {
		for i := range iterations {
			if (i+w)%3 != 0 {
				wantSuccessful++
			}
		}
	}
	assert.Equal(t, DeliveryCount{Successful: wantSuccessful, Total: writers * iterations}, c.Snapshot())
}
