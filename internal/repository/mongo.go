package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"roomie/internal/model"
)

type mongoCollection struct {
	name   string
	fields map[string]string
	ids    map[string]bool // fields holding ObjectID references
}

var (
	mongoAccommodations = mongoCollection{
		name: "accommodations",
		fields: map[string]string{
			model.FieldID:      "_id",
			model.FieldName:    "accommodationName",
			model.FieldType:    "accommodationType",
			model.FieldAddress: "address",
		},
		ids: map[string]bool{"_id": true},
	}
	mongoRooms = mongoCollection{
		name: "rooms",
		fields: map[string]string{
			model.FieldID:              "_id",
			model.FieldAccommodationID: "accommodationId",
			model.FieldRoomType:        "roomType",
			model.FieldDescription:     "description",
			model.FieldFacilities:      "facilities",
			model.FieldPrice:           "price",
			model.FieldBedSize:         "bedSize",
			model.FieldMaxOccupancy:    "maxOccupancy",
		},
		ids: map[string]bool{"_id": true, "accommodationId": true},
	}
	mongoRatings = mongoCollection{
		name: "ratings",
		fields: map[string]string{
			model.FieldID:              "_id",
			model.FieldAccommodationID: "accommodationId",
		},
		ids: map[string]bool{"_id": true, "accommodationId": true},
	}
)

type accommodationDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Host          string             `bson:"accommodationHost"`
	Name          string             `bson:"accommodationName"`
	Type          string             `bson:"accommodationType"`
	Address       string             `bson:"address"`
	LogoImageURL  string             `bson:"logoImageUrl"`
	CoverImageURL string             `bson:"coverImageUrl"`
}

func (d accommodationDocument) toModel() model.Accommodation {
	return model.Accommodation{
		ID:            d.ID.Hex(),
		Host:          d.Host,
		Name:          d.Name,
		Type:          d.Type,
		Address:       d.Address,
		LogoImageURL:  d.LogoImageURL,
		CoverImageURL: d.CoverImageURL,
	}
}

type roomDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	AccommodationID primitive.ObjectID `bson:"accommodationId"`
	RoomType        string             `bson:"roomType"`
	Description     string             `bson:"description"`
	Facilities      []string           `bson:"facilities"`
	Price           float64            `bson:"price"`
	BedSize         string             `bson:"bedSize"`
	MaxOccupancy    int                `bson:"maxOccupancy"`
	RoomNumber      string             `bson:"roomNumber"`
	IsBooked        bool               `bson:"isBooked"`
}

func (d roomDocument) toModel() model.Room {
	return model.Room{
		ID:              d.ID.Hex(),
		AccommodationID: d.AccommodationID.Hex(),
		RoomType:        d.RoomType,
		Description:     d.Description,
		Facilities:      model.JSONArray(d.Facilities),
		Price:           d.Price,
		BedSize:         d.BedSize,
		MaxOccupancy:    d.MaxOccupancy,
		RoomNumber:      d.RoomNumber,
		IsBooked:        d.IsBooked,
	}
}

type ratingDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	AccommodationID primitive.ObjectID `bson:"accommodationId"`
	UserAccount     string             `bson:"userAccount"`
	Rating          float64            `bson:"rating"`
}

func (d ratingDocument) toModel() model.Rating {
	return model.Rating{
		ID:              d.ID.Hex(),
		AccommodationID: d.AccommodationID.Hex(),
		UserAccount:     d.UserAccount,
		Score:           d.Rating,
	}
}

// MongoRepository implements Store on the accommodations/rooms/ratings collections
type MongoRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoRepository connects to MongoDB and verifies the connection
func NewMongoRepository(ctx context.Context, uri, database string) (*MongoRepository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &MongoRepository{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client
func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

// FindAccommodations returns every accommodation matching the predicate
func (r *MongoRepository) FindAccommodations(ctx context.Context, pred model.Predicate) ([]model.Accommodation, error) {
	var docs []accommodationDocument
	if err := r.find(ctx, mongoAccommodations, pred, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Accommodation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

// FindAccommodation returns the first matching accommodation, or nil when none matches
func (r *MongoRepository) FindAccommodation(ctx context.Context, pred model.Predicate) (*model.Accommodation, error) {
	filter, err := buildFilter(mongoAccommodations, pred)
	if err != nil {
		return nil, err
	}

	var doc accommodationDocument
	err = r.db.Collection(mongoAccommodations.name).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get accommodation: %w", err)
	}
	accommodation := doc.toModel()
	return &accommodation, nil
}

// FindRooms returns every room matching the predicate
func (r *MongoRepository) FindRooms(ctx context.Context, pred model.Predicate) ([]model.Room, error) {
	var docs []roomDocument
	if err := r.find(ctx, mongoRooms, pred, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Room, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

// FindRatings returns every rating matching the predicate
func (r *MongoRepository) FindRatings(ctx context.Context, pred model.Predicate) ([]model.Rating, error) {
	var docs []ratingDocument
	if err := r.find(ctx, mongoRatings, pred, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Rating, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *MongoRepository) find(ctx context.Context, coll mongoCollection, pred model.Predicate, results interface{}) error {
	filter, err := buildFilter(coll, pred)
	if err != nil {
		return err
	}

	cursor, err := r.db.Collection(coll.name).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", coll.name, err)
	}
	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("failed to decode %s: %w", coll.name, err)
	}
	return nil
}

// buildFilter translates a predicate into a Mongo filter. Conditions are
// combined under $and so two bounds on the same field never collide.
func buildFilter(coll mongoCollection, pred model.Predicate) (bson.D, error) {
	clauses := bson.A{}

	for _, cond := range pred.Conditions {
		key, ok := coll.fields[cond.Field]
		if !ok {
			return nil, unknownField(coll.name, cond.Field)
		}

		switch cond.Op {
		case model.OpEquals:
			value := cond.Value
			if text, isText := value.(string); isText && coll.ids[key] {
				value = objectIDOrString(text)
			}
			clauses = append(clauses, bson.D{{Key: key, Value: value}})

		case model.OpContains:
			text, isText := cond.Value.(string)
			if !isText || coll.ids[key] {
				return nil, unsupportedOperator(cond.Field, cond.Op)
			}
			clauses = append(clauses, bson.D{{Key: key, Value: literalRegex(text)}})

		case model.OpAtMost, model.OpAtLeast:
			bound, err := numberValue(cond.Field, cond.Value)
			if err != nil {
				return nil, err
			}
			op := "$lte"
			if cond.Op == model.OpAtLeast {
				op = "$gte"
			}
			clauses = append(clauses, bson.D{{Key: key, Value: bson.D{{Key: op, Value: bound}}}})

		case model.OpContainsAll:
			values, err := stringValues(cond.Field, cond.Value)
			if err != nil {
				return nil, err
			}
			patterns := bson.A{}
			for _, v := range values {
				patterns = append(patterns, literalRegex(strings.TrimSpace(v)))
			}
			clauses = append(clauses, bson.D{{Key: key, Value: bson.D{{Key: "$all", Value: patterns}}}})

		case model.OpIn:
			values, err := stringValues(cond.Field, cond.Value)
			if err != nil {
				return nil, err
			}
			members := bson.A{}
			for _, v := range values {
				if coll.ids[key] {
					members = append(members, objectIDOrString(v))
				} else {
					members = append(members, v)
				}
			}
			clauses = append(clauses, bson.D{{Key: key, Value: bson.D{{Key: "$in", Value: members}}}})

		default:
			return nil, unsupportedOperator(cond.Field, cond.Op)
		}
	}

	if len(clauses) == 0 {
		return bson.D{}, nil
	}
	return bson.D{{Key: "$and", Value: clauses}}, nil
}

// literalRegex matches text as a case-insensitive substring, metacharacters quoted
func literalRegex(text string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
}

func objectIDOrString(s string) interface{} {
	if id, err := primitive.ObjectIDFromHex(s); err == nil {
		return id
	}
	return s
}
