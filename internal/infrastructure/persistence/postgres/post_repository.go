package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"devconnector/internal/database"
	pgdb "devconnector/internal/database/postgres"
	"devconnector/internal/domain/post"
)

const postColumns = `id, user_id, text, name, avatar, comments, created_at`

type PostRepository struct {
	db database.DB
}

func NewPostRepository(db database.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p post.Post) error {
	comments := p.Comments
	if comments == nil {
		comments = []post.Comment{}
	}
	b, err := json.Marshal(comments)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO posts (id, user_id, text, name, avatar, comments, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)`,
		p.ID, p.UserID, p.Text, p.Name, p.Avatar, string(b), p.CreatedAt,
	)
	return err
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (post.Post, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (r *PostRepository) List(ctx context.Context) ([]post.Post, error) {
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (r *PostRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, userID)
	return err
}

func (r *PostRepository) PrependComment(ctx context.Context, postID uuid.UUID, c post.Comment) (post.Post, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return post.Post{}, err
	}
	row := r.db.QueryRow(ctx,
		`UPDATE posts SET comments = jsonb_build_array($2::jsonb) || comments
		 WHERE id = $1
		 RETURNING `+postColumns,
		postID, string(b),
	)
	return scanPost(row)
}

func (r *PostRepository) RemoveComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) (post.Post, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE posts SET comments = COALESCE((
			SELECT jsonb_agg(x.c ORDER BY x.ord)
			FROM jsonb_array_elements(comments) WITH ORDINALITY AS x(c, ord)
			WHERE x.c->>'_id' <> $2
		 ), '[]'::jsonb)
		 WHERE id = $1
		 RETURNING `+postColumns,
		postID, commentID.String(),
	)
	return scanPost(row)
}

func scanPost(row database.Row) (post.Post, error) {
	var p post.Post
	var comments []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &comments, &p.CreatedAt); err != nil {
		if pgdb.IsNoRows(err) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, err
	}
	if err := json.Unmarshal(comments, &p.Comments); err != nil {
		return post.Post{}, fmt.Errorf("decode post %s comments: %w", p.ID, err)
	}
	return p, nil
}

var _ post.Repository = (*PostRepository)(nil)
