package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Page identifies a screen of the terminal UI.
type Page int

const (
	PageHome Page = iota
	PageTasks
	PageAbout
)

var pageNames = []string{"home", "tasks", "about"}

func (p Page) String() string {
	if p < 0 || int(p) >= len(pageNames) {
		return fmt.Sprintf("page(%d)", int(p))
	}
	return pageNames[p]
}

// ParsePage parses a page name.
func ParsePage(name string) (Page, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range pageNames {
		if n == name {
			return Page(i), nil
		}
	}
	return PageHome, fmt.Errorf("unknown page %q (expected %s)", name, strings.Join(pageNames, "|"))
}

type feature struct {
	title       string
	description string
}

var homeFeatures = []feature{
	{"Smart Task Management", "Create, edit, and organize your tasks from the keyboard."},
	{"Lightning Fast", "Every change is saved locally the moment you make it."},
	{"User-Centric Design", "A clean layout that keeps the focus on your work."},
}

var aboutFeatures = []feature{
	{"Focused Design", "Clean, distraction-free interface that helps you focus on what matters most."},
	{"Lightning Performance", "Instant updates with no network round trips."},
	{"Secure & Private", "Your data stays on your machine. No servers, no tracking."},
	{"Runs Anywhere", "A single binary for Linux, macOS and Windows terminals."},
}

var techStack = []feature{
	{"Go", "Single static binary"},
	{"Bubble Tea", "Terminal UI framework"},
	{"Lip Gloss", "Terminal styling"},
	{"JSON Schema", "Validated task storage"},
	{"SQLite", "Optional storage backend"},
	{"TOML", "Layered configuration"},
}

func writeNav(b *strings.Builder, current Page) {
	b.WriteString(brandStyle.Render("✈ TaskPilot") + "   ")
	labels := []string{"1 Home", "2 Tasks", "3 About"}
	for i, label := range labels {
		style := navStyle
		if Page(i) == current {
			style = navActiveStyle
		}
		b.WriteString(style.Render(label))
		if i < len(labels)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n\n")
}

func writeHome(b *strings.Builder) {
	b.WriteString(titleStyle.Render("TaskPilot") + "\n")
	b.WriteString(subtitleStyle.Render("Navigate your productivity with precision. Take control of your tasks and pilot your way to success.") + "\n\n")
	b.WriteString(buttonStyle.Render("Get Started") + "  " + mutedStyle.Render("press enter") + "\n\n")

	b.WriteString(headingStyle.Render("Why Choose TaskPilot?") + "\n")
	cards := make([]string, 0, len(homeFeatures))
	for _, f := range homeFeatures {
		cards = append(cards, cardStyle.Width(30).Render(headingStyle.Render(f.title)+"\n"+mutedStyle.Render(f.description)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n")

	b.WriteString(headingStyle.Render("Ready to Take Flight?") + "\n")
	b.WriteString(mutedStyle.Render("Press 2 or enter to open your task dashboard.") + "\n\n")
}

func writeAbout(b *strings.Builder) {
	b.WriteString(titleStyle.Render("About TaskPilot") + "\n")
	b.WriteString(subtitleStyle.Render("Your productivity co-pilot: a small, precise task manager for the terminal.") + "\n\n")

	b.WriteString(headingStyle.Render("Our Mission") + "\n")
	b.WriteString("We believe productivity should be elegant, not overwhelming. TaskPilot strips away\n")
	b.WriteString("the complexity of traditional task management tools and adapts to your workflow.\n")
	b.WriteString(badgeStyle.Render("Simplicity · Performance · Privacy · Accessibility") + "\n\n")

	b.WriteString(headingStyle.Render("Why TaskPilot?") + "\n")
	for _, f := range aboutFeatures {
		b.WriteString(fmt.Sprintf("  %s  %s\n", headingStyle.Render(f.title), mutedStyle.Render(f.description)))
	}
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Built with Modern Technology") + "\n")
	for _, t := range techStack {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", t.title, mutedStyle.Render(t.description)))
	}
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Privacy First") + "\n")
	b.WriteString("All tasks are stored locally in your data directory. Nothing is sent to external\n")
	b.WriteString("servers, no account is required, and there is no tracking.\n")
	b.WriteString(successStyle.Render("✓ Local Storage  ✓ No Account Required  ✓ Offline Capable") + "\n\n")
}
