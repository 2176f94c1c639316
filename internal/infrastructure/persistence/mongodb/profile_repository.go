package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devconnector/internal/domain/profile"
)

// ProfileRepository implements profile.Repository on one document per
// owner. Sub-collections change through $push and $pull, which MongoDB
// applies atomically per document.
type ProfileRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{collection: db.Collection(collectionProfiles), now: time.Now}
}

// EnsureIndexes creates the owner uniqueness index and the listing index.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ProfileRepository) Upsert(ctx context.Context, userID uuid.UUID, f profile.Fields) (profile.Profile, error) {
	set := bson.M{}
	onInsert := bson.M{
		"_id":        uuid.NewString(),
		"experience": bson.A{},
		"education":  bson.A{},
		"date":       r.now().UTC(),
	}

	for field, v := range map[string]*string{
		"company":        f.Company,
		"website":        f.Website,
		"location":       f.Location,
		"bio":            f.Bio,
		"status":         f.Status,
		"githubusername": f.GitHubUsername,
	} {
		if v != nil {
			set[field] = *v
		} else {
			onInsert[field] = ""
		}
	}

	if len(f.Skills) > 0 {
		set["skills"] = f.Skills
	} else {
		onInsert["skills"] = bson.A{}
	}

	// Per-key paths merge into the stored map instead of replacing it.
	if len(f.Social) > 0 {
		for k, v := range f.Social {
			set["social."+k] = v
		}
	} else {
		onInsert["social"] = bson.M{}
	}

	update := bson.M{"$setOnInsert": onInsert}
	if len(set) > 0 {
		update["$set"] = set
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	return r.findOneAndUpdate(ctx, userID, update, opts)
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	var doc profileDocument
	err := r.collection.FindOne(ctx, bson.M{"user": userID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return doc.toEntity()
}

func (r *ProfileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []profileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	out := make([]profile.Profile, 0, len(docs))
	for _, d := range docs {
		p, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"user": userID.String()}); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) PrependExperience(ctx context.Context, userID uuid.UUID, e profile.Experience) (profile.Profile, error) {
	return r.prepend(ctx, userID, "experience", toExperienceDocument(e.Normalize()))
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID uuid.UUID, entryID uuid.UUID) (profile.Profile, error) {
	return r.pull(ctx, userID, "experience", entryID)
}

func (r *ProfileRepository) PrependEducation(ctx context.Context, userID uuid.UUID, e profile.Education) (profile.Profile, error) {
	return r.prepend(ctx, userID, "education", toEducationDocument(e.Normalize()))
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID uuid.UUID, entryID uuid.UUID) (profile.Profile, error) {
	return r.pull(ctx, userID, "education", entryID)
}

func (r *ProfileRepository) prepend(ctx context.Context, userID uuid.UUID, field string, entry any) (profile.Profile, error) {
	update := bson.M{"$push": bson.M{field: bson.M{"$each": bson.A{entry}, "$position": 0}}}
	return r.findOneAndUpdate(ctx, userID, update, options.FindOneAndUpdate().SetReturnDocument(options.After))
}

func (r *ProfileRepository) pull(ctx context.Context, userID uuid.UUID, field string, entryID uuid.UUID) (profile.Profile, error) {
	update := bson.M{"$pull": bson.M{field: bson.M{"_id": entryID.String()}}}
	return r.findOneAndUpdate(ctx, userID, update, options.FindOneAndUpdate().SetReturnDocument(options.After))
}

func (r *ProfileRepository) findOneAndUpdate(ctx context.Context, userID uuid.UUID, update bson.M, opts *options.FindOneAndUpdateOptions) (profile.Profile, error) {
	var doc profileDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user": userID.String()}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return doc.toEntity()
}

var _ profile.Repository = (*ProfileRepository)(nil)
