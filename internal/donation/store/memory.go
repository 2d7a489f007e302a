package store

import (
	"context"
	"sort"
	"sync"

	"foodlink/internal/donation/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
)

// InMemory stores listings and needs in memory for the demo environment.
// Owners are kept as given at creation.
type InMemory struct {
	mu       sync.RWMutex
	listings map[id.ListingID]*models.Listing
	needs    map[id.NeedID]*models.Need
}

func NewInMemory() *InMemory {
	return &InMemory{
		listings: make(map[id.ListingID]*models.Listing),
		needs:    make(map[id.NeedID]*models.Need),
	}
}

func (s *InMemory) CreateListing(_ context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.listings[l.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	cp := *l
	s.listings[l.ID] = &cp
	return nil
}

func (s *InMemory) FindListing(_ context.Context, listingID id.ListingID) (*models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listings[listingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

// UpdateListing writes status, rating and updated_at.
func (s *InMemory) UpdateListing(_ context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.listings[l.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.Status = l.Status
	existing.Rating = l.Rating
	existing.UpdatedAt = l.UpdatedAt
	return nil
}

// ListListings returns newest first.
func (s *InMemory) ListListings(_ context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	out := s.selectListings(func(l *models.Listing) bool {
		return (f.DonorID.IsNil() || l.DonorID == f.DonorID) &&
			(f.Category == "" || l.Category == f.Category) &&
			(f.Status == "" || l.Status == f.Status)
	})
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID.String(), out[j].ID.String()) })
	return out, nil
}

// FindAvailableListings returns oldest first.
func (s *InMemory) FindAvailableListings(_ context.Context, category models.Category) ([]*models.Listing, error) {
	out := s.selectListings(func(l *models.Listing) bool {
		return l.Category == category && l.Status == models.ListingAvailable
	})
	sort.SliceStable(out, func(i, j int) bool { return newer(out[j].CreatedAt, out[i].CreatedAt, out[j].ID.String(), out[i].ID.String()) })
	return out, nil
}

// AverageRating averages the donor's rated Delivered listings. It returns nil
// when there are none.
func (s *InMemory) AverageRating(_ context.Context, donorID id.UserID) (*float64, error) {
	rated := s.ratedDeliveries(donorID)
	if len(rated) == 0 {
		return nil, nil
	}
	var sum float64
	for _, l := range rated {
		sum += l.Rating
	}
	avg := sum / float64(len(rated))
	return &avg, nil
}

// RecentRatedDeliveries returns up to n ratings, newest listing first.
func (s *InMemory) RecentRatedDeliveries(_ context.Context, donorID id.UserID, n int) ([]float64, error) {
	rated := s.ratedDeliveries(donorID)
	sort.SliceStable(rated, func(i, j int) bool {
		return newer(rated[i].CreatedAt, rated[j].CreatedAt, rated[i].ID.String(), rated[j].ID.String())
	})
	if n >= 0 && len(rated) > n {
		rated = rated[:n]
	}
	out := make([]float64, len(rated))
	for i, l := range rated {
		out[i] = l.Rating
	}
	return out, nil
}

func (s *InMemory) ratedDeliveries(donorID id.UserID) []*models.Listing {
	return s.selectListings(func(l *models.Listing) bool {
		return l.DonorID == donorID && l.Status == models.ListingDelivered && l.IsRated()
	})
}

func (s *InMemory) selectListings(keep func(*models.Listing) bool) []*models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Listing, 0)
	for _, l := range s.listings {
		if keep(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out
}

func (s *InMemory) CreateNeed(_ context.Context, n *models.Need) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.needs[n.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	cp := *n
	s.needs[n.ID] = &cp
	return nil
}

func (s *InMemory) FindNeed(_ context.Context, needID id.NeedID) (*models.Need, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.needs[needID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

// UpdateNeed writes status and updated_at.
func (s *InMemory) UpdateNeed(_ context.Context, n *models.Need) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.needs[n.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.Status = n.Status
	existing.UpdatedAt = n.UpdatedAt
	return nil
}

func (s *InMemory) ListNeeds(_ context.Context, f models.NeedFilter) ([]*models.Need, error) {
	out := s.selectNeeds(func(n *models.Need) bool {
		return (f.NGOID.IsNil() || n.NGOID == f.NGOID) &&
			(f.Category == "" || n.Category == f.Category) &&
			(f.Status == "" || n.Status == f.Status)
	})
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID.String(), out[j].ID.String()) })
	return out, nil
}

// FindOpenNeeds returns oldest first.
func (s *InMemory) FindOpenNeeds(_ context.Context, category models.Category) ([]*models.Need, error) {
	out := s.selectNeeds(func(n *models.Need) bool {
		return n.Category == category && n.Status == models.NeedOpen
	})
	sort.SliceStable(out, func(i, j int) bool { return newer(out[j].CreatedAt, out[i].CreatedAt, out[j].ID.String(), out[i].ID.String()) })
	return out, nil
}

func (s *InMemory) selectNeeds(keep func(*models.Need) bool) []*models.Need {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Need, 0)
	for _, n := range s.needs {
		if keep(n) {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out
}
