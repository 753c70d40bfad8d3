package web

import (
	"bytes"
	"fmt"

	"github.com/Zachkp/neon-portfolio/internal/content"
)

// sectionsView feeds sections.html. Pending shells carry no empty-state
// notice because the content has not arrived yet.
type sectionsView struct {
	Pending     bool
	Experience  []content.Experience
	Projects    []content.Project
	SkillGroups []content.SkillGroup
	Posts       []content.BlogPost
}

// renderSections renders the content regions for a live session once its
// load has finished. A session whose source failed passes empty content and
// gets the empty states.
func (s *Server) renderSections(c content.Content) (string, error) {
	var buf bytes.Buffer
	err := s.tmpl.ExecuteTemplate(&buf, "sections.html", sectionsView{
		Experience:  c.Experience,
		Projects:    c.Projects,
		SkillGroups: c.SkillsByCategory(),
		Posts:       c.Posts,
	})
	if err != nil {
		return "", fmt.Errorf("rendering sections: %w", err)
	}
	return buf.String(), nil
}
