package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/bitrunner/internal/broadcast"
	"github.com/tinytelemetry/bitrunner/internal/format"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// SkillsPage shows the experience behind each skill and how far it is from
// the next level.
type SkillsPage struct {
	overview *Overview
	lines    []string
	unsub    broadcast.Unsubscribe
}

func NewSkillsPage(overview *Overview) *SkillsPage {
	return &SkillsPage{overview: overview}
}

func (s *SkillsPage) ID() string    { return "skills" }
func (s *SkillsPage) Title() string { return "Skills" }

func (s *SkillsPage) Init() tea.Cmd {
	if s.unsub == nil {
		s.derive()
		s.unsub = s.overview.Bus().Subscribe(s.derive)
	}
	return nil
}

func (s *SkillsPage) Leave() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

func (s *SkillsPage) Update(tea.Msg) (tea.Cmd, *PageNav) { return nil, nil }

func (s *SkillsPage) derive() {
	p := s.overview.Player()
	s.lines = s.lines[:0]
	for _, row := range skillRows() {
		if row.label == intRow.label && !s.overview.ShowsIntelligence() {
			continue
		}
		prog := model.CalculateSkillProgress(row.exp(&p), row.mult(&p))
		line := fmt.Sprintf("%-5s %8s %14s %14s %14s %7.2f%%",
			row.label,
			format.Skill(prog.CurrentSkill),
			format.NumberNoSuffix(prog.Experience, 0),
			format.NumberNoSuffix(prog.NextExperience, 0),
			format.NumberNoSuffix(prog.RemainingExp, 0),
			prog.ProgressFraction*100)
		s.lines = append(s.lines, lipgloss.NewStyle().Foreground(row.color).Render(line))
	}
}

func (s *SkillsPage) View(width, height int) string {
	header := fmt.Sprintf("%-5s %8s %14s %14s %14s %8s", "skill", "level", "exp", "next at", "remaining", "progress")
	out := []string{
		lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render("Skills"),
		"",
		mutedStyle.Render(header),
	}
	out = append(out, s.lines...)
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(out, "\n"))
}
