// Package content holds the static copy the public pages fall back to when
// the API is unreachable or returns nothing.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/landmark-estates/landmark-web/internal/domain"
)

//go:embed default.yaml
var defaultYAML []byte

// About is the company copy on the About page.
type About struct {
	Headline string `yaml:"headline"`
	Intro    string `yaml:"intro"`
	Mission  string `yaml:"mission"`
	Vision   string `yaml:"vision"`
}

// Content is the fallback document.
type Content struct {
	About      About               `yaml:"about"`
	Statistics []domain.Statistic  `yaml:"statistics"`
	Milestones []domain.Milestone  `yaml:"milestones"`
	Team       []domain.TeamMember `yaml:"team"`
	Addresses  []domain.Address    `yaml:"addresses"`
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return Parse(defaultYAML)
}

// Load reads path over the embedded default. An empty path or a missing
// file yields the default; sections absent from the file keep their default.
func Load(path string) (*Content, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse content file %s: %w", path, err)
	}
	c.normalize()
	return c, nil
}

// Parse decodes a content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	c.normalize()
	return &c, nil
}

// normalize gives records stable ids so they can be keyed like API rows.
func (c *Content) normalize() {
	for i := range c.Statistics {
		if c.Statistics[i].ID == "" {
			c.Statistics[i].ID = "static-stat-" + c.Statistics[i].Key
		}
	}
	for i := range c.Milestones {
		if c.Milestones[i].ID == "" {
			c.Milestones[i].ID = fmt.Sprintf("static-milestone-%d", i+1)
		}
	}
	for i := range c.Team {
		if c.Team[i].ID == "" {
			c.Team[i].ID = fmt.Sprintf("static-team-%d", i+1)
		}
	}
	for i := range c.Addresses {
		if c.Addresses[i].ID == "" {
			c.Addresses[i].ID = fmt.Sprintf("static-address-%d", i+1)
		}
	}
}

// StatisticsFor returns active statistics shown at loc ("home", "about" or
// "footer") in sort order.
func (c *Content) StatisticsFor(loc string) []domain.Statistic {
	out := make([]domain.Statistic, 0, len(c.Statistics))
	for _, s := range c.Statistics {
		if s.IsActive && ShownAt(s.DisplayLocations, loc) {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Statistic) int { return a.SortOrder - b.SortOrder })
	return out
}

// ActiveMilestones returns active milestones in sort order.
func (c *Content) ActiveMilestones() []domain.Milestone {
	return activeSorted(c.Milestones, func(m domain.Milestone) (bool, int) { return m.IsActive, m.SortOrder })
}

// ActiveTeam returns active team members in sort order.
func (c *Content) ActiveTeam() []domain.TeamMember {
	return activeSorted(c.Team, func(m domain.TeamMember) (bool, int) { return m.IsActive, m.SortOrder })
}

// AddressesFor returns active addresses shown at loc, primary first.
func (c *Content) AddressesFor(loc string) []domain.Address {
	out := make([]domain.Address, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		if a.IsActive && ShownAt(a.DisplayLocations, loc) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Address) int {
		switch {
		case a.IsPrimary == b.IsPrimary:
			return 0
		case a.IsPrimary:
			return -1
		}
		return 1
	})
	return out
}

// ShownAt reports whether the flags include loc.
func ShownAt(d domain.DisplayLocations, loc string) bool {
	switch loc {
	case "home":
		return d.Home
	case "about":
		return d.About
	case "footer":
		return d.Footer
	}
	return false
}

func activeSorted[T any](items []T, key func(T) (bool, int)) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if active, _ := key(it); active {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		_, oa := key(a)
		_, ob := key(b)
		return oa - ob
	})
	return out
}

// Or returns fetched when it is non-empty and fallback otherwise.
func Or[T any](fetched []T, err error, fallback []T) []T {
	if err != nil || len(fetched) == 0 {
		return fallback
	}
	return fetched
}
