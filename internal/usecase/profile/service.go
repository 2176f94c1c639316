package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devconnector/internal/domain/post"
	"devconnector/internal/domain/profile"
	"devconnector/internal/domain/user"
	"devconnector/internal/infrastructure/github"
	"devconnector/internal/pkg/apperr"
)

// View is a profile expanded with the owner's current name and avatar.
type View struct {
	profile.Profile
	User user.Summary `json:"user"`
}

type UpsertInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"required"`

	YouTube   string `json:"youtube"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationInput struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var (
	upsertMessages = apperr.Messages{
		"status": "Status is required",
		"skills": "Skills is required",
	}
	experienceMessages = apperr.Messages{
		"title":   "Title is required",
		"company": "Company is required",
		"from":    "From date is required",
	}
	educationMessages = apperr.Messages{
		"school":       "School is required",
		"degree":       "Degree is required",
		"fieldofstudy": "Field of study is required",
		"from":         "From date is required",
	}
)

// RepoLister looks up public source repositories for a GitHub username.
type RepoLister interface {
	ListRepos(ctx context.Context, username string) ([]github.Repo, error)
}

type Service struct {
	profiles profile.Repository
	users    user.Repository
	posts    post.Repository
	github   RepoLister
	log      zerolog.Logger
}

func NewService(profiles profile.Repository, users user.Repository, posts post.Repository, gh RepoLister, log zerolog.Logger) *Service {
	return &Service{profiles: profiles, users: users, posts: posts, github: gh, log: log}
}

// Upsert creates the caller's profile or merges the supplied fields into it.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, in UpsertInput) (View, error) {
	in = trimUpsert(in)
	ve := apperr.Validate(in, upsertMessages)

	var skills []string
	if in.Skills != "" {
		skills = profile.ParseSkills(in.Skills)
		if len(skills) == 0 {
			ve.Add("skills", upsertMessages["skills"])
		}
	}
	if err := ve.OrNil(); err != nil {
		return View{}, err
	}
	if err := s.requireIdentity(ctx, userID); err != nil {
		return View{}, err
	}

	f := profile.Fields{
		Company:        optional(in.Company),
		Website:        optional(in.Website),
		Location:       optional(in.Location),
		Bio:            optional(in.Bio),
		Status:         optional(in.Status),
		GitHubUsername: optional(in.GitHubUsername),
		Skills:         skills,
		Social:         socialLinks(in),
	}

	p, err := s.profiles.Upsert(ctx, userID, f)
	if err != nil {
		return View{}, apperr.Internal(err)
	}
	return s.expandOne(ctx, p)
}

func (s *Service) FetchSelf(ctx context.Context, userID uuid.UUID) (View, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return View{}, mapRepoError(err)
	}
	return s.expandOne(ctx, p)
}

func (s *Service) FetchAll(ctx context.Context) ([]View, error) {
	items, err := s.profiles.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.expand(ctx, items)
}

// FetchByIdentity is the public lookup. A malformed id is reported the same
// way as an id without a profile.
func (s *Service) FetchByIdentity(ctx context.Context, rawUserID string) (View, error) {
	userID, err := uuid.Parse(strings.TrimSpace(rawUserID))
	if err != nil {
		return View{}, apperr.ErrNotFound
	}
	return s.FetchSelf(ctx, userID)
}

// DeleteSelf removes the caller's profile, posts and identity. Every removal
// is attempted even when an earlier one fails, and each is idempotent.
func (s *Service) DeleteSelf(ctx context.Context, userID uuid.UUID) error {
	var errs []error
	if err := s.profiles.DeleteByUserID(ctx, userID); err != nil {
		errs = append(errs, err)
	}
	if err := s.posts.DeleteByUserID(ctx, userID); err != nil {
		errs = append(errs, err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		s.log.Error().Err(err).Str("user_id", userID.String()).Msg("account removal incomplete")
		return apperr.Internal(err)
	}

	s.log.Info().Str("user_id", userID.String()).Msg("account removed")
	return nil
}

func (s *Service) PrependExperience(ctx context.Context, userID uuid.UUID, in ExperienceInput) (View, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.From = strings.TrimSpace(in.From)
	in.To = strings.TrimSpace(in.To)

	ve := apperr.Validate(in, experienceMessages)
	from, to := parseRange(ve, in.From, in.To, in.Current)
	if err := ve.OrNil(); err != nil {
		return View{}, err
	}

	e := profile.Experience{
		ID:          uuid.New(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: strings.TrimSpace(in.Description),
	}

	p, err := s.profiles.PrependExperience(ctx, userID, e.Normalize())
	if err != nil {
		return View{}, mapRepoError(err)
	}
	return s.expandOne(ctx, p)
}

func (s *Service) PrependEducation(ctx context.Context, userID uuid.UUID, in EducationInput) (View, error) {
	in.School = strings.TrimSpace(in.School)
	in.Degree = strings.TrimSpace(in.Degree)
	in.FieldOfStudy = strings.TrimSpace(in.FieldOfStudy)
	in.From = strings.TrimSpace(in.From)
	in.To = strings.TrimSpace(in.To)

	ve := apperr.Validate(in, educationMessages)
	from, to := parseRange(ve, in.From, in.To, in.Current)
	if err := ve.OrNil(); err != nil {
		return View{}, err
	}

	e := profile.Education{
		ID:           uuid.New(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  strings.TrimSpace(in.Description),
	}

	p, err := s.profiles.PrependEducation(ctx, userID, e.Normalize())
	if err != nil {
		return View{}, mapRepoError(err)
	}
	return s.expandOne(ctx, p)
}

// RemoveExperience drops an entry from the caller's own profile. An unknown
// or malformed entry id is a no-op and the unchanged profile is returned.
func (s *Service) RemoveExperience(ctx context.Context, userID uuid.UUID, rawEntryID string) (View, error) {
	entryID, err := uuid.Parse(strings.TrimSpace(rawEntryID))
	if err != nil {
		return s.FetchSelf(ctx, userID)
	}
	p, err := s.profiles.RemoveExperience(ctx, userID, entryID)
	if err != nil {
		return View{}, mapRepoError(err)
	}
	return s.expandOne(ctx, p)
}

func (s *Service) RemoveEducation(ctx context.Context, userID uuid.UUID, rawEntryID string) (View, error) {
	entryID, err := uuid.Parse(strings.TrimSpace(rawEntryID))
	if err != nil {
		return s.FetchSelf(ctx, userID)
	}
	p, err := s.profiles.RemoveEducation(ctx, userID, entryID)
	if err != nil {
		return View{}, mapRepoError(err)
	}
	return s.expandOne(ctx, p)
}

// GitHubRepos returns the latest public repositories of a GitHub user.
func (s *Service) GitHubRepos(ctx context.Context, username string) ([]github.Repo, error) {
	username = strings.TrimSpace(username)
	if username == "" || s.github == nil {
		return nil, apperr.ErrNotFound
	}

	repos, err := s.github.ListRepos(ctx, username)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Internal(err)
	}
	return repos, nil
}

// requireIdentity rejects callers whose account was removed after their
// token was issued.
func (s *Service) requireIdentity(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.ErrUnauthenticated
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) expandOne(ctx context.Context, p profile.Profile) (View, error) {
	views, err := s.expand(ctx, []profile.Profile{p})
	if err != nil {
		return View{}, err
	}
	return views[0], nil
}

func (s *Service) expand(ctx context.Context, items []profile.Profile) ([]View, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.UserID)
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	out := make([]View, 0, len(items))
	for _, p := range items {
		summary := user.Summary{ID: p.UserID}
		if u, ok := users[p.UserID]; ok {
			summary = u.Summary()
		}
		out = append(out, View{Profile: p, User: summary})
	}
	return out, nil
}

func mapRepoError(err error) error {
	if errors.Is(err, profile.ErrNotFound) {
		return apperr.ErrNotFound
	}
	return apperr.Internal(err)
}

func trimUpsert(in UpsertInput) UpsertInput {
	for _, f := range []*string{
		&in.Company, &in.Website, &in.Location, &in.Bio, &in.Status, &in.GitHubUsername, &in.Skills,
		&in.YouTube, &in.Twitter, &in.Facebook, &in.LinkedIn, &in.Instagram,
	} {
		*f = strings.TrimSpace(*f)
	}
	return in
}

func socialLinks(in UpsertInput) map[string]string {
	supplied := map[string]string{
		"youtube":   in.YouTube,
		"twitter":   in.Twitter,
		"facebook":  in.Facebook,
		"linkedin":  in.LinkedIn,
		"instagram": in.Instagram,
	}
	out := map[string]string{}
	for _, k := range profile.SocialNetworks {
		if v := supplied[k]; v != "" {
			out[k] = v
		}
	}
	return out
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseRange reads from/to dates, recording violations on ve. The to-date
// is ignored for a current entry.
func parseRange(ve *apperr.ValidationError, rawFrom, rawTo string, current bool) (time.Time, *time.Time) {
	var from time.Time
	if rawFrom != "" {
		t, ok := parseDate(rawFrom)
		if !ok {
			ve.Add("from", "From date is invalid")
		}
		from = t
	}

	if current || rawTo == "" {
		return from, nil
	}
	to, ok := parseDate(rawTo)
	if !ok {
		ve.Add("to", "To date is invalid")
		return from, nil
	}
	if !from.IsZero() && to.Before(from) {
		ve.Add("to", "To date must not be before from date")
	}
	return from, &to
}
