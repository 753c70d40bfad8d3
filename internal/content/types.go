// Package content holds the portfolio collections shown on the page and the
// sources they are loaded from.
package content

import (
	"context"
	"html/template"
	"time"
)

// SkillCategory groups skills on the page.
type SkillCategory string

const (
	CategoryFrontend  SkillCategory = "frontend"
	CategoryBackend   SkillCategory = "backend"
	CategoryDevOps    SkillCategory = "devops"
	CategoryTools     SkillCategory = "tools"
	CategoryLanguages SkillCategory = "languages"
)

// Categories lists skill categories in display order.
var Categories = []SkillCategory{
	CategoryFrontend,
	CategoryBackend,
	CategoryDevOps,
	CategoryTools,
	CategoryLanguages,
}

type Experience struct {
	ID           string     `yaml:"id" json:"id"`
	Title        string     `yaml:"title" json:"title"`
	Company      string     `yaml:"company" json:"company"`
	Duration     string     `yaml:"duration" json:"duration"`
	Description  string     `yaml:"description" json:"description"`
	Technologies []string   `yaml:"technologies" json:"technologies"`
	StartDate    time.Time  `yaml:"start_date" json:"startDate"`
	EndDate      *time.Time `yaml:"end_date" json:"endDate,omitempty"`
}

// Current reports whether the position has no end date.
func (e Experience) Current() bool {
	return e.EndDate == nil
}

type Project struct {
	ID           string   `yaml:"id" json:"id"`
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	GitHubURL    string   `yaml:"github_url" json:"githubUrl,omitempty"`
	LiveURL      string   `yaml:"live_url" json:"liveUrl,omitempty"`
	Stars        int      `yaml:"stars" json:"stars"`
	Forks        int      `yaml:"forks" json:"forks"`
	Featured     bool     `yaml:"featured" json:"featured"`
}

type Skill struct {
	ID       string        `yaml:"id" json:"id"`
	Name     string        `yaml:"name" json:"name"`
	Level    int           `yaml:"level" json:"level"`
	Category SkillCategory `yaml:"category" json:"category"`
	Icon     string        `yaml:"icon" json:"icon"`
}

type BlogPost struct {
	ID          string        `yaml:"id" json:"id"`
	Title       string        `yaml:"title" json:"title"`
	Excerpt     string        `yaml:"excerpt" json:"excerpt"`
	ExcerptHTML template.HTML `yaml:"-" json:"excerptHtml"`
	PublishDate time.Time     `yaml:"publish_date" json:"publishDate"`
	Category    string        `yaml:"category" json:"category"`
	Tags        []string      `yaml:"tags" json:"tags"`
	ReadTime    int           `yaml:"read_time" json:"readTime"`
	Slug        string        `yaml:"slug" json:"slug"`
}

// Content is the full set of collections. Once published through the UI
// store it is shared by every reader and must not be modified.
type Content struct {
	Experience []Experience `yaml:"experience" json:"experience"`
	Projects   []Project    `yaml:"projects" json:"projects"`
	Skills     []Skill      `yaml:"skills" json:"skills"`
	Posts      []BlogPost   `yaml:"posts" json:"posts"`
}

// Empty reports whether no collection has entries.
func (c Content) Empty() bool {
	return len(c.Experience) == 0 && len(c.Projects) == 0 && len(c.Skills) == 0 && len(c.Posts) == 0
}

// Featured returns the featured projects in order.
func (c Content) Featured() []Project {
	var out []Project
	for _, p := range c.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// SkillGroup is one category of skills.
type SkillGroup struct {
	Category SkillCategory
	Skills   []Skill
}

// SkillsByCategory groups skills in category display order, skipping empty
// categories.
func (c Content) SkillsByCategory() []SkillGroup {
	var groups []SkillGroup
	for _, cat := range Categories {
		var skills []Skill
		for _, s := range c.Skills {
			if s.Category == cat {
				skills = append(skills, s)
			}
		}
		if len(skills) > 0 {
			groups = append(groups, SkillGroup{Category: cat, Skills: skills})
		}
	}
	return groups
}

// Source loads content collections.
type Source interface {
	Load(ctx context.Context) (Content, error)
}
