package repository

import (
	"context"
	"sync"
	"time"

	"barberm/internal/models"
)

// MemorySnapshotCache is the in-process fallback used when Redis is
// disabled or unreachable.
type MemorySnapshotCache struct {
	snapshots sync.Map
	ttl       time.Duration
}

type memorySnapshot struct {
	appointments []*models.Appointment
	expiresAt    time.Time
}

func NewMemorySnapshotCache(ttl time.Duration) *MemorySnapshotCache {
	return &MemorySnapshotCache{
		ttl: ttl,
	}
}

func (r *MemorySnapshotCache) SetDaySnapshot(_ context.Context, date string, appointments []*models.Appointment) error {
	r.snapshots.Store(date, &memorySnapshot{
		appointments: appointments,
		expiresAt:    time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemorySnapshotCache) GetDaySnapshot(_ context.Context, date string) ([]*models.Appointment, error) {
	val, ok := r.snapshots.Load(date)
	if !ok {
		return nil, nil
	}
	snap := val.(*memorySnapshot)
	if r.ttl > 0 && time.Now().After(snap.expiresAt) {
		r.snapshots.Delete(date)
		return nil, nil
	}
	return snap.appointments, nil
}

func (r *MemorySnapshotCache) ClearDaySnapshot(_ context.Context, date string) error {
	r.snapshots.Delete(date)
	return nil
}
