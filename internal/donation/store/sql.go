package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"foodlink/internal/donation/models"
	"foodlink/internal/platform/database"
	id "foodlink/pkg/domain"
	"foodlink/pkg/geo"
	"foodlink/pkg/platform/sentinel"
)

// SQLStore persists listings and needs through sqlx. Owner names are joined
// from the users table on every read.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQL(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

type listingRow struct {
	ID        string    `db:"id"`
	DonorID   string    `db:"donor_id"`
	DonorName string    `db:"donor_name"`
	Title     string    `db:"title"`
	Category  string    `db:"category"`
	Quantity  int       `db:"quantity"`
	Lat       float64   `db:"lat"`
	Lng       float64   `db:"lng"`
	IsFresh   bool      `db:"is_fresh"`
	Status    string    `db:"status"`
	Rating    float64   `db:"rating"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r listingRow) toModel() (*models.Listing, error) {
	listingID, err := id.ParseListingID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("scan listing: %w", err)
	}
	donorID, err := id.ParseUserID(r.DonorID)
	if err != nil {
		return nil, fmt.Errorf("scan listing donor: %w", err)
	}
	return &models.Listing{
		ID:        listingID,
		DonorID:   donorID,
		Donor:     models.Owner{ID: donorID, Name: r.DonorName},
		Title:     r.Title,
		Category:  models.Category(r.Category),
		Quantity:  r.Quantity,
		Location:  geo.Point{Lat: r.Lat, Lng: r.Lng},
		IsFresh:   r.IsFresh,
		Status:    models.ListingStatus(r.Status),
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}, nil
}

type needRow struct {
	ID           string    `db:"id"`
	NGOID        string    `db:"ngo_id"`
	NGOName      string    `db:"ngo_name"`
	Title        string    `db:"title"`
	Category     string    `db:"category"`
	Quantity     int       `db:"quantity"`
	Lat          float64   `db:"lat"`
	Lng          float64   `db:"lng"`
	Urgency      string    `db:"urgency"`
	IsPerishable bool      `db:"is_perishable"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r needRow) toModel() (*models.Need, error) {
	needID, err := id.ParseNeedID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("scan need: %w", err)
	}
	ngoID, err := id.ParseUserID(r.NGOID)
	if err != nil {
		return nil, fmt.Errorf("scan need ngo: %w", err)
	}
	return &models.Need{
		ID:           needID,
		NGOID:        ngoID,
		NGO:          models.Owner{ID: ngoID, Name: r.NGOName},
		Title:        r.Title,
		Category:     models.Category(r.Category),
		Quantity:     r.Quantity,
		Location:     geo.Point{Lat: r.Lat, Lng: r.Lng},
		Urgency:      models.Urgency(r.Urgency),
		IsPerishable: r.IsPerishable,
		Status:       models.NeedStatus(r.Status),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}, nil
}

const selectListing = `
	SELECT l.id, l.donor_id, COALESCE(u.name, '') AS donor_name, l.title, l.category, l.quantity,
	       l.lat, l.lng, l.is_fresh, l.status, l.rating, l.created_at, l.updated_at
	FROM listings l
	LEFT JOIN users u ON u.id = l.donor_id`

const selectNeed = `
	SELECT n.id, n.ngo_id, COALESCE(u.name, '') AS ngo_name, n.title, n.category, n.quantity,
	       n.lat, n.lng, n.urgency, n.is_perishable, n.status, n.created_at, n.updated_at
	FROM needs n
	LEFT JOIN users u ON u.id = n.ngo_id`

func (s *SQLStore) CreateListing(ctx context.Context, l *models.Listing) error {
	query := s.db.Rebind(`
		INSERT INTO listings (id, donor_id, title, category, quantity, lat, lng, is_fresh, status, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		l.ID.String(),
		l.DonorID.String(),
		l.Title,
		string(l.Category),
		l.Quantity,
		l.Location.Lat,
		l.Location.Lng,
		l.IsFresh,
		string(l.Status),
		l.Rating,
		l.CreatedAt.UTC(),
		l.UpdatedAt.UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("listing id must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (s *SQLStore) FindListing(ctx context.Context, listingID id.ListingID) (*models.Listing, error) {
	var row listingRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectListing+` WHERE l.id = ?`), listingID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return row.toModel()
}

func (s *SQLStore) UpdateListing(ctx context.Context, l *models.Listing) error {
	query := s.db.Rebind(`UPDATE listings SET status = ?, rating = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, string(l.Status), l.Rating, l.UpdatedAt.UTC(), l.ID.String())
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return requireRow(res, "update listing")
}

func (s *SQLStore) ListListings(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	var (
		where []string
		args  []any
	)
	if !f.DonorID.IsNil() {
		where = append(where, "l.donor_id = ?")
		args = append(args, f.DonorID.String())
	}
	if f.Category != "" {
		where = append(where, "l.category = ?")
		args = append(args, string(f.Category))
	}
	if f.Status != "" {
		where = append(where, "l.status = ?")
		args = append(args, string(f.Status))
	}
	return s.queryListings(ctx, "list listings", selectListing+whereClause(where)+` ORDER BY l.created_at DESC, l.id DESC`, args...)
}

func (s *SQLStore) FindAvailableListings(ctx context.Context, category models.Category) ([]*models.Listing, error) {
	return s.queryListings(ctx, "find available listings",
		selectListing+` WHERE l.category = ? AND l.status = ? ORDER BY l.created_at, l.id`,
		string(category), string(models.ListingAvailable))
}

func (s *SQLStore) queryListings(ctx context.Context, op, query string, args ...any) ([]*models.Listing, error) {
	var rows []listingRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]*models.Listing, 0, len(rows))
	for _, row := range rows {
		l, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *SQLStore) AverageRating(ctx context.Context, donorID id.UserID) (*float64, error) {
	var avg sql.NullFloat64
	query := s.db.Rebind(`SELECT AVG(rating) FROM listings WHERE donor_id = ? AND status = ? AND rating > 0`)
	if err := s.db.GetContext(ctx, &avg, query, donorID.String(), string(models.ListingDelivered)); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

func (s *SQLStore) RecentRatedDeliveries(ctx context.Context, donorID id.UserID, n int) ([]float64, error) {
	query := s.db.Rebind(`
		SELECT rating FROM listings
		WHERE donor_id = ? AND status = ? AND rating > 0
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)
	ratings := []float64{}
	if err := s.db.SelectContext(ctx, &ratings, query, donorID.String(), string(models.ListingDelivered), n); err != nil {
		return nil, fmt.Errorf("recent rated deliveries: %w", err)
	}
	return ratings, nil
}

func (s *SQLStore) CreateNeed(ctx context.Context, n *models.Need) error {
	query := s.db.Rebind(`
		INSERT INTO needs (id, ngo_id, title, category, quantity, lat, lng, urgency, is_perishable, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		n.ID.String(),
		n.NGOID.String(),
		n.Title,
		string(n.Category),
		n.Quantity,
		n.Location.Lat,
		n.Location.Lng,
		string(n.Urgency),
		n.IsPerishable,
		string(n.Status),
		n.CreatedAt.UTC(),
		n.UpdatedAt.UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("need id must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create need: %w", err)
	}
	return nil
}

func (s *SQLStore) FindNeed(ctx context.Context, needID id.NeedID) (*models.Need, error) {
	var row needRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectNeed+` WHERE n.id = ?`), needID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find need: %w", err)
	}
	return row.toModel()
}

func (s *SQLStore) UpdateNeed(ctx context.Context, n *models.Need) error {
	query := s.db.Rebind(`UPDATE needs SET status = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, string(n.Status), n.UpdatedAt.UTC(), n.ID.String())
	if err != nil {
		return fmt.Errorf("update need: %w", err)
	}
	return requireRow(res, "update need")
}

func (s *SQLStore) ListNeeds(ctx context.Context, f models.NeedFilter) ([]*models.Need, error) {
	var (
		where []string
		args  []any
	)
	if !f.NGOID.IsNil() {
		where = append(where, "n.ngo_id = ?")
		args = append(args, f.NGOID.String())
	}
	if f.Category != "" {
		where = append(where, "n.category = ?")
		args = append(args, string(f.Category))
	}
	if f.Status != "" {
		where = append(where, "n.status = ?")
		args = append(args, string(f.Status))
	}
	return s.queryNeeds(ctx, "list needs", selectNeed+whereClause(where)+` ORDER BY n.created_at DESC, n.id DESC`, args...)
}

func (s *SQLStore) FindOpenNeeds(ctx context.Context, category models.Category) ([]*models.Need, error) {
	return s.queryNeeds(ctx, "find open needs",
		selectNeed+` WHERE n.category = ? AND n.status = ? ORDER BY n.created_at, n.id`,
		string(category), string(models.NeedOpen))
}

func (s *SQLStore) queryNeeds(ctx context.Context, op, query string, args ...any) ([]*models.Need, error) {
	var rows []needRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]*models.Need, 0, len(rows))
	for _, row := range rows {
		n, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func requireRow(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
