package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"devconnector/internal/database"
	pgdb "devconnector/internal/database/postgres"
	"devconnector/internal/domain/profile"
)

const profileColumns = `id, user_id, company, website, location, bio, status, githubusername,
	skills, social, experience, education, created_at`

// ProfileRepository keeps the sub-collections as JSONB arrays and changes
// them with single UPDATE statements, so concurrent writers never overwrite
// each other's entries.
type ProfileRepository struct {
	db  database.DB
	now func() time.Time
}

func NewProfileRepository(db database.DB) *ProfileRepository {
	return &ProfileRepository{db: db, now: time.Now}
}

func (r *ProfileRepository) Upsert(ctx context.Context, userID uuid.UUID, f profile.Fields) (profile.Profile, error) {
	var skills any
	if len(f.Skills) > 0 {
		b, err := json.Marshal(f.Skills)
		if err != nil {
			return profile.Profile{}, err
		}
		skills = string(b)
	}
	social := f.Social
	if social == nil {
		social = map[string]string{}
	}
	socialJSON, err := json.Marshal(social)
	if err != nil {
		return profile.Profile{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (id, user_id, company, website, location, bio, status, githubusername, skills, social, created_at)
		 VALUES ($1, $2,
			COALESCE($3::text, ''), COALESCE($4::text, ''), COALESCE($5::text, ''), COALESCE($6::text, ''),
			COALESCE($7::text, ''), COALESCE($8::text, ''),
			COALESCE($9::jsonb, '[]'::jsonb), $10::jsonb, $11)
		 ON CONFLICT (user_id) DO UPDATE SET
			company = COALESCE($3::text, profiles.company),
			website = COALESCE($4::text, profiles.website),
			location = COALESCE($5::text, profiles.location),
			bio = COALESCE($6::text, profiles.bio),
			status = COALESCE($7::text, profiles.status),
			githubusername = COALESCE($8::text, profiles.githubusername),
			skills = COALESCE($9::jsonb, profiles.skills),
			social = profiles.social || EXCLUDED.social
		 RETURNING `+profileColumns,
		uuid.New(), userID,
		f.Company, f.Website, f.Location, f.Bio, f.Status, f.GitHubUsername,
		skills, string(socialJSON), r.now().UTC(),
	)
	return scanProfile(row)
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	return scanProfile(row)
}

func (r *ProfileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
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

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}

func (r *ProfileRepository) PrependExperience(ctx context.Context, userID uuid.UUID, e profile.Experience) (profile.Profile, error) {
	return r.prepend(ctx, "experience", userID, e)
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID uuid.UUID, entryID uuid.UUID) (profile.Profile, error) {
	return r.remove(ctx, "experience", userID, entryID)
}

func (r *ProfileRepository) PrependEducation(ctx context.Context, userID uuid.UUID, e profile.Education) (profile.Profile, error) {
	return r.prepend(ctx, "education", userID, e)
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID uuid.UUID, entryID uuid.UUID) (profile.Profile, error) {
	return r.remove(ctx, "education", userID, entryID)
}

// prepend and remove take column from the fixed set above, never from input.
func (r *ProfileRepository) prepend(ctx context.Context, column string, userID uuid.UUID, entry any) (profile.Profile, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return profile.Profile{}, err
	}
	row := r.db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE profiles SET %[1]s = jsonb_build_array($2::jsonb) || %[1]s
		 WHERE user_id = $1
		 RETURNING %[2]s`, column, profileColumns),
		userID, string(b),
	)
	return scanProfile(row)
}

func (r *ProfileRepository) remove(ctx context.Context, column string, userID, entryID uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE profiles SET %[1]s = COALESCE((
			SELECT jsonb_agg(x.e ORDER BY x.ord)
			FROM jsonb_array_elements(%[1]s) WITH ORDINALITY AS x(e, ord)
			WHERE x.e->>'_id' <> $2
		 ), '[]'::jsonb)
		 WHERE user_id = $1
		 RETURNING %[2]s`, column, profileColumns),
		userID, entryID.String(),
	)
	return scanProfile(row)
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var p profile.Profile
	var skills, social, experience, education []byte
	err := row.Scan(
		&p.ID, &p.UserID, &p.Company, &p.Website, &p.Location, &p.Bio, &p.Status, &p.GitHubUsername,
		&skills, &social, &experience, &education, &p.CreatedAt,
	)
	if err != nil {
		if pgdb.IsNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}

	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{skills, &p.Skills},
		{social, &p.Social},
		{experience, &p.Experience},
		{education, &p.Education},
	} {
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return profile.Profile{}, fmt.Errorf("decode profile %s: %w", p.ID, err)
		}
	}
	return p, nil
}

var _ profile.Repository = (*ProfileRepository)(nil)
