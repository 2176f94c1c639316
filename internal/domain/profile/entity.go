package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SocialNetworks lists the keys accepted in Profile.Social.
var SocialNetworks = []string{"youtube", "twitter", "facebook", "linkedin", "instagram"}

type Profile struct {
	ID             uuid.UUID         `json:"_id"`
	UserID         uuid.UUID         `json:"user"`
	Company        string            `json:"company,omitempty"`
	Website        string            `json:"website,omitempty"`
	Location       string            `json:"location,omitempty"`
	Bio            string            `json:"bio,omitempty"`
	Status         string            `json:"status"`
	GitHubUsername string            `json:"githubusername,omitempty"`
	Skills         []string          `json:"skills"`
	Social         map[string]string `json:"social"`
	Experience     []Experience      `json:"experience"`
	Education      []Education       `json:"education"`
	CreatedAt      time.Time         `json:"date"`
}

type Experience struct {
	ID          uuid.UUID  `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	ID           uuid.UUID  `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Fields is a partial profile submission. Nil pointers and empty
// collections mean "not supplied" and leave the stored value untouched.
type Fields struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string
	Social         map[string]string
}

// New builds a fresh aggregate for userID from the supplied fields.
func New(userID uuid.UUID, f Fields, now time.Time) Profile {
	p := Profile{
		ID:         uuid.New(),
		UserID:     userID,
		Skills:     []string{},
		Social:     map[string]string{},
		Experience: []Experience{},
		Education:  []Education{},
		CreatedAt:  now.UTC(),
	}
	p.Apply(f)
	return p
}

// Apply merges supplied fields into p. Social links merge per key.
func (p *Profile) Apply(f Fields) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Company, f.Company)
	set(&p.Website, f.Website)
	set(&p.Location, f.Location)
	set(&p.Bio, f.Bio)
	set(&p.Status, f.Status)
	set(&p.GitHubUsername, f.GitHubUsername)

	if len(f.Skills) > 0 {
		p.Skills = append([]string(nil), f.Skills...)
	}
	if len(f.Social) > 0 {
		if p.Social == nil {
			p.Social = make(map[string]string, len(f.Social))
		}
		for k, v := range f.Social {
			p.Social[k] = v
		}
	}
}

// PrependExperience inserts e at position 0.
func (p *Profile) PrependExperience(e Experience) {
	p.Experience = append([]Experience{e.Normalize()}, p.Experience...)
}

// RemoveExperience drops the entry with id. A missing id leaves the
// sequence unchanged and reports false.
func (p *Profile) RemoveExperience(id uuid.UUID) bool {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Profile) PrependEducation(e Education) {
	p.Education = append([]Education{e.Normalize()}, p.Education...)
}

func (p *Profile) RemoveEducation(id uuid.UUID) bool {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}

// Normalize clears To when the position is current.
func (e Experience) Normalize() Experience {
	if e.Current {
		e.To = nil
	}
	return e
}

func (e Education) Normalize() Education {
	if e.Current {
		e.To = nil
	}
	return e
}

// ParseSkills splits a comma-delimited list into trimmed, non-empty tokens,
// keeping their order.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
