package changelog

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// The tree format is a YAML document mirroring the VersionGroup structure.
// Unlike the markdown and text formats it is round-trip stable: ParseTree
// reconstructs exactly the groups RenderTree was given.

type treeDocument struct {
	Project string      `yaml:"project,omitempty"`
	Groups  []treeGroup `yaml:"groups"`
}

type treeGroup struct {
	Label      string         `yaml:"label"`
	Date       string         `yaml:"date,omitempty"`
	Categories []treeCategory `yaml:"categories"`
}

type treeCategory struct {
	Category string       `yaml:"category"`
	Commits  []treeCommit `yaml:"commits"`
}

type treeCommit struct {
	ID          string `yaml:"id"`
	ShortID     string `yaml:"short_id,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Email       string `yaml:"email,omitempty"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Scope       string `yaml:"scope,omitempty"`
	Breaking    bool   `yaml:"breaking,omitempty"`
	Message     string `yaml:"message"`
}

// RenderTree writes the groups as a YAML tree document.
func RenderTree(groups []VersionGroup, w io.Writer, opts RenderOptions) error {
	doc := treeDocument{
		Project: opts.Project,
		Groups:  make([]treeGroup, 0, len(groups)),
	}

	for i := range groups {
		doc.Groups = append(doc.Groups, encodeTreeGroup(&groups[i]))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding tree document: %w", err)
	}
	return enc.Close()
}

func encodeTreeGroup(g *VersionGroup) treeGroup {
	tg := treeGroup{Label: g.Label}
	if g.Date != nil {
		tg.Date = g.Date.Format(time.RFC3339)
	}

	for _, section := range g.Sections() {
		tc := treeCategory{Category: section.Category.String()}
		for _, c := range section.Commits {
			tc.Commits = append(tc.Commits, treeCommit{
				ID:          c.ID,
				ShortID:     c.ShortID,
				Author:      c.AuthorName,
				Email:       c.AuthorEmail,
				Date:        c.Timestamp.Format(time.RFC3339),
				Description: c.Description,
				Scope:       c.Scope,
				Breaking:    c.Breaking,
				Message:     c.Message,
			})
		}
		tg.Categories = append(tg.Categories, tc)
	}

	return tg
}

// ParseTree reads a YAML tree document back into version groups. Rendering
// the result again produces a byte-identical document.
func ParseTree(r io.Reader) ([]VersionGroup, error) {
	var doc treeDocument

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing tree document: %w", err)
	}

	groups := make([]VersionGroup, 0, len(doc.Groups))
	for _, tg := range doc.Groups {
		g, err := decodeTreeGroup(tg)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, nil
}

func decodeTreeGroup(tg treeGroup) (VersionGroup, error) {
	g := VersionGroup{
		Label:   tg.Label,
		Commits: make(map[Category][]CategorizedCommit),
	}

	if tg.Date != "" {
		date, err := time.Parse(time.RFC3339, tg.Date)
		if err != nil {
			return g, fmt.Errorf("parsing date for %s: %w", tg.Label, err)
		}
		g.Date = &date
	}

	for _, tc := range tg.Categories {
		category, err := ParseCategory(tc.Category)
		if err != nil {
			return g, fmt.Errorf("in group %s: %w", tg.Label, err)
		}
		for _, c := range tc.Commits {
			commit, err := decodeTreeCommit(c, category)
			if err != nil {
				return g, fmt.Errorf("in group %s: %w", tg.Label, err)
			}
			g.Commits[category] = append(g.Commits[category], commit)
		}
	}

	return g, nil
}

func decodeTreeCommit(tc treeCommit, category Category) (CategorizedCommit, error) {
	timestamp, err := time.Parse(time.RFC3339, tc.Date)
	if err != nil {
		return CategorizedCommit{}, fmt.Errorf("parsing date for commit %s: %w", tc.ID, err)
	}

	return CategorizedCommit{
		Commit: Commit{
			ID:          tc.ID,
			ShortID:     tc.ShortID,
			AuthorName:  tc.Author,
			AuthorEmail: tc.Email,
			Timestamp:   timestamp,
			Message:     tc.Message,
		},
		Category:    category,
		Description: tc.Description,
		Scope:       tc.Scope,
		Breaking:    tc.Breaking,
	}, nil
}
