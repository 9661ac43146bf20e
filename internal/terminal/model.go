package terminal

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akashsharma1462/portfolio/internal/content"
	"github.com/akashsharma1462/portfolio/internal/typewriter"
)

type tickMsg struct{}

type section struct {
	title  string
	render func(m *Model) string
}

var sections = []section{
	{"About", (*Model).viewAbout},
	{"Skills", (*Model).viewSkills},
	{"Projects", (*Model).viewProjects},
	{"Achievements", (*Model).viewAchievements},
	{"Education", (*Model).viewEducation},
	{"Contact", (*Model).viewContact},
}

// Model is the bubbletea program served to each SSH session.
type Model struct {
	portfolio *content.Portfolio
	engine    *typewriter.Engine
	styles    styles

	section  int
	width    int
	quitting bool
}

func NewModel(p *content.Portfolio, r *lipgloss.Renderer, opts ...typewriter.Option) (*Model, error) {
	engine, err := typewriter.New(p.Phrases(), opts...)
	if err != nil {
		return nil, err
	}
	return &Model{portfolio: p, engine: engine, styles: newStyles(r)}, nil
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *Model) Init() tea.Cmd {
	return tick(m.engine.Delay())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tick(m.engine.Step())
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab", "right", "l":
			m.section = (m.section + 1) % len(sections)
		case "shift+tab", "left", "h":
			m.section = (m.section + len(sections) - 1) % len(sections)
		}
	}
	return m, nil
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles
	profile := m.portfolio.Profile

	var b strings.Builder
	b.WriteString(s.Name.Render(profile.FullName()))
	b.WriteString("\n")
	b.WriteString(s.Role.Render(profile.Role))
	b.WriteString("\n\n")
	b.WriteString(s.Prefix.Render(m.portfolio.Typewriter.Prefix + " "))
	b.WriteString(s.Typed.Render(m.engine.DisplayText()))
	b.WriteString(s.Cursor.Render("▌"))
	b.WriteString("\n\n")

	tabs := make([]string, len(sections))
	for i, sec := range sections {
		if i == m.section {
			tabs[i] = s.ActiveTab.Render(sec.title)
		} else {
			tabs[i] = s.Tab.Render(sec.title)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")
	b.WriteString(sections[m.section].render(m))
	b.WriteString("\n\n")
	b.WriteString(s.Footer.Render("tab/→ next • shift+tab/← prev • q quit"))

	frame := s.Frame
	if m.width > 0 {
		frame = frame.Width(m.width)
	}
	return frame.Render(b.String())
}

func (m *Model) viewAbout() string {
	s := m.styles
	p := m.portfolio.Profile
	var b strings.Builder
	b.WriteString(s.Heading.Render(p.Headline))
	for _, para := range p.About {
		b.WriteString("\n\n")
		b.WriteString(s.Body.Render(para))
	}
	b.WriteString("\n")
	for _, h := range p.Highlights {
		fmt.Fprintf(&b, "\n%s %s", s.Accent.Render(h.Title+":"), s.Body.Render(h.Description))
	}
	if len(m.portfolio.Journey) > 0 {
		b.WriteString("\n\n")
		b.WriteString(s.Muted.Render(strings.Join(m.portfolio.Journey, " → ")))
	}
	return b.String()
}

func (m *Model) viewSkills() string {
	s := m.styles
	var b strings.Builder
	for i, cat := range m.portfolio.Skills {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Heading.Render(cat.Title))
		for _, sk := range cat.Skills {
			line := sk.Icon + " " + sk.Name
			if sk.Projects > 0 {
				line += s.Muted.Render(fmt.Sprintf(" (%d projects)", sk.Projects))
			}
			b.WriteString("\n  ")
			b.WriteString(s.Body.Render(line))
		}
	}
	return b.String()
}

func (m *Model) viewProjects() string {
	s := m.styles
	var b strings.Builder
	for i, p := range m.portfolio.Projects {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Heading.Render(p.Title))
		b.WriteString(s.Muted.Render(" · " + p.Subtitle))
		b.WriteString("\n")
		b.WriteString(s.Body.Render(p.Description))
		for _, f := range p.Features {
			b.WriteString("\n  • ")
			b.WriteString(s.Body.Render(f))
		}
		b.WriteString("\n")
		b.WriteString(s.Accent.Render(strings.Join(p.Tech, " · ")))
		if p.GitHub != "" {
			b.WriteString("\n")
			b.WriteString(s.Muted.Render(p.GitHub))
		}
	}
	return b.String()
}

func (m *Model) viewAchievements() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Heading.Render("Certificates"))
	for _, c := range m.portfolio.Certificates {
		fmt.Fprintf(&b, "\n  %s %s", s.Body.Render(c.Title), s.Muted.Render("· "+c.Issuer))
	}
	b.WriteString("\n\n")
	b.WriteString(s.Heading.Render("Achievements"))
	for _, a := range m.portfolio.Achievements {
		fmt.Fprintf(&b, "\n  %s %s\n    %s", s.Body.Render(a.Title), s.Muted.Render(a.Year), s.Body.Render(a.Description))
	}
	return b.String()
}

func (m *Model) viewEducation() string {
	s := m.styles
	var b strings.Builder
	for i, e := range m.portfolio.Education {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Heading.Render(e.Degree))
		if e.Current {
			b.WriteString(s.Accent.Render(" (current)"))
		}
		fmt.Fprintf(&b, "\n  %s\n  %s", s.Body.Render(e.Institution), s.Muted.Render(e.Years+" · "+e.Score))
	}
	return b.String()
}

func (m *Model) viewContact() string {
	s := m.styles
	c := m.portfolio.Contact
	var b strings.Builder
	b.WriteString(s.Heading.Render("Get in touch"))
	for _, l := range c.Links {
		fmt.Fprintf(&b, "\n  %s %s", s.Accent.Render(l.Label+":"), s.Body.Render(l.Value))
	}
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render("Send a message from the contact form on the website, or email " + c.Recipient.Email))
	return b.String()
}
