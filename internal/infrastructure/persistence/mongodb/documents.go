// Package mongodb stores profile and post aggregates as MongoDB documents
// with their sub-collections embedded. Ids are stored as UUID strings.
package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"devconnector/internal/domain/post"
	"devconnector/internal/domain/profile"
)

const (
	collectionProfiles = "profiles"
	collectionPosts    = "posts"
)

type profileDocument struct {
	ID             string               `bson:"_id"`
	UserID         string               `bson:"user"`
	Company        string               `bson:"company"`
	Website        string               `bson:"website"`
	Location       string               `bson:"location"`
	Bio            string               `bson:"bio"`
	Status         string               `bson:"status"`
	GitHubUsername string               `bson:"githubusername"`
	Skills         []string             `bson:"skills"`
	Social         map[string]string    `bson:"social"`
	Experience     []experienceDocument `bson:"experience"`
	Education      []educationDocument  `bson:"education"`
	CreatedAt      time.Time            `bson:"date"`
}

type experienceDocument struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    string     `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description string     `bson:"description,omitempty"`
}

type educationDocument struct {
	ID           string     `bson:"_id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  string     `bson:"description,omitempty"`
}

type postDocument struct {
	ID        string            `bson:"_id"`
	UserID    string            `bson:"user"`
	Text      string            `bson:"text"`
	Name      string            `bson:"name"`
	Avatar    string            `bson:"avatar"`
	Comments  []commentDocument `bson:"comments"`
	CreatedAt time.Time         `bson:"date"`
}

type commentDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user"`
	Text      string    `bson:"text"`
	Name      string    `bson:"name"`
	Avatar    string    `bson:"avatar"`
	CreatedAt time.Time `bson:"date"`
}

func toExperienceDocument(e profile.Experience) experienceDocument {
	return experienceDocument{
		ID:          e.ID.String(),
		Title:       e.Title,
		Company:     e.Company,
		Location:    e.Location,
		From:        e.From,
		To:          e.To,
		Current:     e.Current,
		Description: e.Description,
	}
}

func toEducationDocument(e profile.Education) educationDocument {
	return educationDocument{
		ID:           e.ID.String(),
		School:       e.School,
		Degree:       e.Degree,
		FieldOfStudy: e.FieldOfStudy,
		From:         e.From,
		To:           e.To,
		Current:      e.Current,
		Description:  e.Description,
	}
}

func (d profileDocument) toEntity() (profile.Profile, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("profile id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("profile %s user %q: %w", d.ID, d.UserID, err)
	}

	p := profile.Profile{
		ID:             id,
		UserID:         userID,
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Bio:            d.Bio,
		Status:         d.Status,
		GitHubUsername: d.GitHubUsername,
		Skills:         append([]string{}, d.Skills...),
		Social:         map[string]string{},
		Experience:     make([]profile.Experience, 0, len(d.Experience)),
		Education:      make([]profile.Education, 0, len(d.Education)),
		CreatedAt:      d.CreatedAt.UTC(),
	}
	for k, v := range d.Social {
		p.Social[k] = v
	}
	for _, e := range d.Experience {
		eid, err := uuid.Parse(e.ID)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("profile %s experience id %q: %w", d.ID, e.ID, err)
		}
		p.Experience = append(p.Experience, profile.Experience{
			ID:          eid,
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        e.From.UTC(),
			To:          e.To,
			Current:     e.Current,
			Description: e.Description,
		})
	}
	for _, e := range d.Education {
		eid, err := uuid.Parse(e.ID)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("profile %s education id %q: %w", d.ID, e.ID, err)
		}
		p.Education = append(p.Education, profile.Education{
			ID:           eid,
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         e.From.UTC(),
			To:           e.To,
			Current:      e.Current,
			Description:  e.Description,
		})
	}
	return p, nil
}

func toPostDocument(p post.Post) postDocument {
	d := postDocument{
		ID:        p.ID.String(),
		UserID:    p.UserID.String(),
		Text:      p.Text,
		Name:      p.Name,
		Avatar:    p.Avatar,
		Comments:  make([]commentDocument, 0, len(p.Comments)),
		CreatedAt: p.CreatedAt,
	}
	for _, c := range p.Comments {
		d.Comments = append(d.Comments, toCommentDocument(c))
	}
	return d
}

func toCommentDocument(c post.Comment) commentDocument {
	return commentDocument{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		Text:      c.Text,
		Name:      c.Name,
		Avatar:    c.Avatar,
		CreatedAt: c.CreatedAt,
	}
}

func (d postDocument) toEntity() (post.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return post.Post{}, fmt.Errorf("post id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return post.Post{}, fmt.Errorf("post %s user %q: %w", d.ID, d.UserID, err)
	}

	p := post.Post{
		ID:        id,
		UserID:    userID,
		Text:      d.Text,
		Name:      d.Name,
		Avatar:    d.Avatar,
		Comments:  make([]post.Comment, 0, len(d.Comments)),
		CreatedAt: d.CreatedAt.UTC(),
	}
	for _, c := range d.Comments {
		cid, err := uuid.Parse(c.ID)
		if err != nil {
			return post.Post{}, fmt.Errorf("post %s comment id %q: %w", d.ID, c.ID, err)
		}
		uid, err := uuid.Parse(c.UserID)
		if err != nil {
			return post.Post{}, fmt.Errorf("post %s comment user %q: %w", d.ID, c.UserID, err)
		}
		p.Comments = append(p.Comments, post.Comment{
			ID:        cid,
			UserID:    uid,
			Text:      c.Text,
			Name:      c.Name,
			Avatar:    c.Avatar,
			CreatedAt: c.CreatedAt.UTC(),
		})
	}
	return p, nil
}
