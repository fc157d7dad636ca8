package services

import (
	"context"
	"sync"

	"freightdesk/internal/domain/models"
)

type fakeRegistry struct {
	mu      sync.Mutex
	carrier models.RegistryCarrier
	err     error
	calls   []string
}

func (f *fakeRegistry) FetchCarrier(_ context.Context, mc string) (models.RegistryCarrier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, mc)
	return f.carrier, f.err
}

func (f *fakeRegistry) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeLoadSource struct {
	row   models.LoadRow
	err   error
	calls int
}

func (f *fakeLoadSource) FindByReference(_ context.Context, _ string) (models.LoadRow, error) {
	f.calls++
	return f.row, f.err
}

func completeRow(ref string) models.LoadRow {
	return models.LoadRow{
		models.ColReferenceNumber: ref,
		models.ColOrigin:          "Chicago, IL",
		models.ColDestination:     "Dallas, TX",
		models.ColEquipmentType:   "Dry Van",
		models.ColRate:            "2500.00",
		models.ColCommodity:       "Electronics",
	}
}
