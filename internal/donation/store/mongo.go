package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"foodlink/internal/donation/models"
	platformmongo "foodlink/internal/platform/mongo"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
)

// MongoStore keeps listings and needs as documents referencing their owner by
// id. Reads resolve the owner with a $lookup against the users collection.
type MongoStore struct {
	listings *mongo.Collection
	needs    *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{
		listings: db.Collection(platformmongo.CollectionListings),
		needs:    db.Collection(platformmongo.CollectionNeeds),
	}
}

// EnsureIndexes creates the counterpart lookup and donor history indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.listings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "donor_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create listings indexes: %w", err)
	}
	_, err = s.needs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create needs indexes: %w", err)
	}
	return nil
}

type locationDoc struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type ownerDoc struct {
	Name string `bson:"name"`
}

type listingDoc struct {
	ID        string      `bson:"_id"`
	DonorID   string      `bson:"donor_id"`
	Title     string      `bson:"title"`
	Category  string      `bson:"category"`
	Quantity  int         `bson:"quantity"`
	Location  locationDoc `bson:"location"`
	IsFresh   bool        `bson:"is_fresh"`
	Status    string      `bson:"status"`
	Rating    float64     `bson:"rating"`
	CreatedAt time.Time   `bson:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at"`
	Owner     []ownerDoc  `bson:"owner,omitempty"`
}

func (d listingDoc) toModel() (*models.Listing, error) {
	row := listingRow{
		ID:        d.ID,
		DonorID:   d.DonorID,
		Title:     d.Title,
		Category:  d.Category,
		Quantity:  d.Quantity,
		Lat:       d.Location.Lat,
		Lng:       d.Location.Lng,
		IsFresh:   d.IsFresh,
		Status:    d.Status,
		Rating:    d.Rating,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if len(d.Owner) > 0 {
		row.DonorName = d.Owner[0].Name
	}
	return row.toModel()
}

type needDoc struct {
	ID           string      `bson:"_id"`
	NGOID        string      `bson:"ngo_id"`
	Title        string      `bson:"title"`
	Category     string      `bson:"category"`
	Quantity     int         `bson:"quantity"`
	Location     locationDoc `bson:"location"`
	Urgency      string      `bson:"urgency"`
	IsPerishable bool        `bson:"is_perishable"`
	Status       string      `bson:"status"`
	CreatedAt    time.Time   `bson:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at"`
	Owner        []ownerDoc  `bson:"owner,omitempty"`
}

func (d needDoc) toModel() (*models.Need, error) {
	row := needRow{
		ID:           d.ID,
		NGOID:        d.NGOID,
		Title:        d.Title,
		Category:     d.Category,
		Quantity:     d.Quantity,
		Lat:          d.Location.Lat,
		Lng:          d.Location.Lng,
		Urgency:      d.Urgency,
		IsPerishable: d.IsPerishable,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if len(d.Owner) > 0 {
		row.NGOName = d.Owner[0].Name
	}
	return row.toModel()
}

// withOwner builds a pipeline of match, sort, then owner $lookup.
func withOwner(match bson.M, sort bson.D, ownerField string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sort}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: platformmongo.CollectionUsers},
			{Key: "localField", Value: ownerField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
	}
}

var (
	oldestFirst = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
)

func (s *MongoStore) CreateListing(ctx context.Context, l *models.Listing) error {
	doc := listingDoc{
		ID:        l.ID.String(),
		DonorID:   l.DonorID.String(),
		Title:     l.Title,
		Category:  string(l.Category),
		Quantity:  l.Quantity,
		Location:  locationDoc{Lat: l.Location.Lat, Lng: l.Location.Lng},
		IsFresh:   l.IsFresh,
		Status:    string(l.Status),
		Rating:    l.Rating,
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
	}
	if _, err := s.listings.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("listing id must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (s *MongoStore) FindListing(ctx context.Context, listingID id.ListingID) (*models.Listing, error) {
	out, err := s.aggregateListings(ctx, "find listing", withOwner(bson.M{"_id": listingID.String()}, oldestFirst, "donor_id"))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out[0], nil
}

func (s *MongoStore) UpdateListing(ctx context.Context, l *models.Listing) error {
	res, err := s.listings.UpdateByID(ctx, l.ID.String(), bson.M{"$set": bson.M{
		"status":     string(l.Status),
		"rating":     l.Rating,
		"updated_at": l.UpdatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListListings(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	match := bson.M{}
	if !f.DonorID.IsNil() {
		match["donor_id"] = f.DonorID.String()
	}
	if f.Category != "" {
		match["category"] = string(f.Category)
	}
	if f.Status != "" {
		match["status"] = string(f.Status)
	}
	return s.aggregateListings(ctx, "list listings", withOwner(match, newestFirst, "donor_id"))
}

func (s *MongoStore) FindAvailableListings(ctx context.Context, category models.Category) ([]*models.Listing, error) {
	match := bson.M{"category": string(category), "status": string(models.ListingAvailable)}
	return s.aggregateListings(ctx, "find available listings", withOwner(match, oldestFirst, "donor_id"))
}

func (s *MongoStore) aggregateListings(ctx context.Context, op string, pipeline mongo.Pipeline) ([]*models.Listing, error) {
	cur, err := s.listings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var docs []listingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s decode: %w", op, err)
	}
	out := make([]*models.Listing, 0, len(docs))
	for _, d := range docs {
		l, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func ratedDeliveries(donorID id.UserID) bson.M {
	return bson.M{
		"donor_id": donorID.String(),
		"status":   string(models.ListingDelivered),
		"rating":   bson.M{"$gt": 0},
	}
}

func (s *MongoStore) AverageRating(ctx context.Context, donorID id.UserID) (*float64, error) {
	cur, err := s.listings.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: ratedDeliveries(donorID)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	var groups []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("average rating decode: %w", err)
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return &groups[0].Avg, nil
}

func (s *MongoStore) RecentRatedDeliveries(ctx context.Context, donorID id.UserID, n int) ([]float64, error) {
	cur, err := s.listings.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: ratedDeliveries(donorID)}},
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$limit", Value: n}},
		{{Key: "$project", Value: bson.D{{Key: "rating", Value: 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("recent rated deliveries: %w", err)
	}
	var docs []struct {
		Rating float64 `bson:"rating"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("recent rated deliveries decode: %w", err)
	}
	out := make([]float64, len(docs))
	for i, d := range docs {
		out[i] = d.Rating
	}
	return out, nil
}

func (s *MongoStore) CreateNeed(ctx context.Context, n *models.Need) error {
	doc := needDoc{
		ID:           n.ID.String(),
		NGOID:        n.NGOID.String(),
		Title:        n.Title,
		Category:     string(n.Category),
		Quantity:     n.Quantity,
		Location:     locationDoc{Lat: n.Location.Lat, Lng: n.Location.Lng},
		Urgency:      string(n.Urgency),
		IsPerishable: n.IsPerishable,
		Status:       string(n.Status),
		CreatedAt:    n.CreatedAt.UTC(),
		UpdatedAt:    n.UpdatedAt.UTC(),
	}
	if _, err := s.needs.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("need id must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create need: %w", err)
	}
	return nil
}

func (s *MongoStore) FindNeed(ctx context.Context, needID id.NeedID) (*models.Need, error) {
	out, err := s.aggregateNeeds(ctx, "find need", withOwner(bson.M{"_id": needID.String()}, oldestFirst, "ngo_id"))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out[0], nil
}

func (s *MongoStore) UpdateNeed(ctx context.Context, n *models.Need) error {
	res, err := s.needs.UpdateByID(ctx, n.ID.String(), bson.M{"$set": bson.M{
		"status":     string(n.Status),
		"updated_at": n.UpdatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update need: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListNeeds(ctx context.Context, f models.NeedFilter) ([]*models.Need, error) {
	match := bson.M{}
	if !f.NGOID.IsNil() {
		match["ngo_id"] = f.NGOID.String()
	}
	if f.Category != "" {
		match["category"] = string(f.Category)
	}
	if f.Status != "" {
		match["status"] = string(f.Status)
	}
	return s.aggregateNeeds(ctx, "list needs", withOwner(match, newestFirst, "ngo_id"))
}

func (s *MongoStore) FindOpenNeeds(ctx context.Context, category models.Category) ([]*models.Need, error) {
	match := bson.M{"category": string(category), "status": string(models.NeedOpen)}
	return s.aggregateNeeds(ctx, "find open needs", withOwner(match, oldestFirst, "ngo_id"))
}

func (s *MongoStore) aggregateNeeds(ctx context.Context, op string, pipeline mongo.Pipeline) ([]*models.Need, error) {
	cur, err := s.needs.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var docs []needDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s decode: %w", op, err)
	}
	out := make([]*models.Need, 0, len(docs))
	for _, d := range docs {
		n, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
