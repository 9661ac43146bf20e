// Package content loads the portfolio text, lists and links. Content is read
// once at startup and treated as read-only afterwards.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultYAML []byte

type Portfolio struct {
	Profile      Profile         `yaml:"profile"`
	Typewriter   Typewriter      `yaml:"typewriter"`
	Skills       []SkillCategory `yaml:"skills"`
	Journey      []string        `yaml:"journey"`
	Projects     []Project       `yaml:"projects"`
	Certificates []Certificate   `yaml:"certificates"`
	Achievements []Achievement   `yaml:"achievements"`
	Education    []Education     `yaml:"education"`
	Contact      Contact         `yaml:"contact"`
}

type Profile struct {
	FirstName  string      `yaml:"first_name"`
	LastName   string      `yaml:"last_name"`
	Initials   string      `yaml:"initials"`
	Greeting   string      `yaml:"greeting"`
	Role       string      `yaml:"role"`
	Headline   string      `yaml:"headline"`
	About      []string    `yaml:"about"`
	Vision     string      `yaml:"vision"`
	ResumePath string      `yaml:"resume_path,omitempty"`
	Highlights []Highlight `yaml:"highlights"`
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Highlight struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Typewriter struct {
	Prefix  string   `yaml:"prefix"`
	Phrases []string `yaml:"phrases"`
}

type SkillCategory struct {
	Title  string  `yaml:"title"`
	Skills []Skill `yaml:"skills"`
}

type Skill struct {
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon"`
	Projects    int    `yaml:"projects,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Tech        []string `yaml:"tech"`
	Stats       []Stat   `yaml:"stats,omitempty"`
	GitHub      string   `yaml:"github,omitempty"`
	Live        string   `yaml:"live,omitempty"`
}

type Stat struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type Certificate struct {
	Title  string `yaml:"title"`
	Issuer string `yaml:"issuer"`
}

type Achievement struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Year        string `yaml:"year"`
}

type Education struct {
	Degree      string `yaml:"degree"`
	Institution string `yaml:"institution"`
	Years       string `yaml:"years"`
	Score       string `yaml:"score"`
	Current     bool   `yaml:"current,omitempty"`
}

type Contact struct {
	Recipient Recipient `yaml:"recipient"`
	Links     []Link    `yaml:"links"`
}

type Recipient struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

type Link struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Href  string `yaml:"href"`
}

// External reports whether the link leaves the site.
func (l Link) External() bool {
	return strings.HasPrefix(l.Href, "http://") || strings.HasPrefix(l.Href, "https://")
}

// Default returns the embedded portfolio.
func Default() (*Portfolio, error) {
	return Load(bytes.NewReader(defaultYAML))
}

// LoadFile reads a portfolio from path, or the embedded one when path is empty.
func LoadFile(path string) (*Portfolio, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Portfolio, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Portfolio
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields the rest of the site depends on.
func (p *Portfolio) Validate() error {
	var errs []error
	if p.Profile.FullName() == "" {
		errs = append(errs, errors.New("profile name is required"))
	}
	if len(p.Typewriter.Phrases) == 0 {
		errs = append(errs, errors.New("typewriter needs at least one phrase"))
	}
	if strings.TrimSpace(p.Contact.Recipient.Email) == "" {
		errs = append(errs, errors.New("contact recipient email is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid content: %w", errors.Join(errs...))
	}
	return nil
}

// Phrases returns a copy of the typewriter phrases.
func (p *Portfolio) Phrases() []string {
	out := make([]string, len(p.Typewriter.Phrases))
	copy(out, p.Typewriter.Phrases)
	return out
}
