package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devconnector/internal/domain/post"
)

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{collection: db.Collection(collectionPosts)}
}

func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *PostRepository) Create(ctx context.Context, p post.Post) error {
	if _, err := r.collection.InsertOne(ctx, toPostDocument(p)); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (post.Post, error) {
	var doc postDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, fmt.Errorf("failed to get post: %w", err)
	}
	return doc.toEntity()
}

func (r *PostRepository) List(ctx context.Context) ([]post.Post, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	out := make([]post.Post, 0, len(docs))
	for _, d := range docs {
		p, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (r *PostRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"user": userID.String()}); err != nil {
		return fmt.Errorf("failed to delete posts: %w", err)
	}
	return nil
}

func (r *PostRepository) PrependComment(ctx context.Context, postID uuid.UUID, c post.Comment) (post.Post, error) {
	update := bson.M{"$push": bson.M{"comments": bson.M{"$each": bson.A{toCommentDocument(c)}, "$position": 0}}}
	return r.findOneAndUpdate(ctx, postID, update)
}

func (r *PostRepository) RemoveComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) (post.Post, error) {
	update := bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID.String()}}}
	return r.findOneAndUpdate(ctx, postID, update)
}

func (r *PostRepository) findOneAndUpdate(ctx context.Context, postID uuid.UUID, update bson.M) (post.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": postID.String()}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	return doc.toEntity()
}

var _ post.Repository = (*PostRepository)(nil)
