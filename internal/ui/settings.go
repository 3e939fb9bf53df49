package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const settingsPrompt = "1=Name  2=Timezone  3=Service URL  4=Back"

type settingsModel struct {
	editing string // "", "name", "timezone", "url"
	err     string
	saved   string
}

func newSettings() settingsModel {
	return settingsModel{}
}

func (m *model) updateSettings(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if m.settings.editing == "" {
		if focus := m.ensureMenuInput(settingsPrompt, 48); focus != nil {
			cmds = append(cmds, focus)
		}
	}
	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	switch key.Type {
	case tea.KeyEsc:
		if m.settings.editing != "" {
			m.settings.editing = ""
			cmds = append(cmds, m.setMenuInput(settingsPrompt, 48))
			return batchCmds(cmds)
		}
		m.popState()
		cmds = append(cmds, m.setMenuInput("Choose an option", 32))
		return batchCmds(cmds)
	case tea.KeyEnter:
		value := strings.TrimSpace(m.menuInput.Value())
		m.menuInput.SetValue("")
		if c := m.handleSettingsCommand(value); c != nil {
			cmds = append(cmds, c)
		}
		return batchCmds(cmds)
	}
	return batchCmds(cmds)
}

func (m *model) handleSettingsCommand(value string) tea.Cmd {
	if m.settings.editing != "" {
		return m.applySetting(value)
	}

	if isExitCommand(value) {
		m.goHome()
		return m.setMenuInput("Choose an option", 32)
	}
	if isBackCommand(value) || value == "4" {
		m.popState()
		return m.setMenuInput("Choose an option", 32)
	}
	if value == "" {
		return nil
	}

	m.settings.err = ""
	m.settings.saved = ""
	switch strings.ToLower(value) {
	case "1", "name":
		m.settings.editing = "name"
		return m.setMenuInput("Display name", 64)
	case "2", "timezone", "tz":
		m.settings.editing = "timezone"
		return m.setMenuInput("IANA timezone, e.g. Asia/Kolkata", 64)
	case "3", "url", "service":
		m.settings.editing = "url"
		return m.setMenuInput("Lead service base URL", 128)
	default:
		m.settings.err = "Unknown option"
		return nil
	}
}

func (m *model) applySetting(value string) tea.Cmd {
	field := m.settings.editing
	m.settings.editing = ""

	if isBackCommand(value) || value == "" {
		return m.setMenuInput(settingsPrompt, 48)
	}

	switch field {
	case "name":
		m.cfg.Config.Name = value
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			m.settings.err = "Unknown timezone"
			return m.setMenuInput(settingsPrompt, 48)
		}
		m.cfg.Config.Timezone = value
	case "url":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			m.settings.err = "URL must start with http:// or https://"
			return m.setMenuInput(settingsPrompt, 48)
		}
		m.cfg.Config.APIBaseURL = value
		m.settings.saved = "Service URL applies after restart"
	}

	if err := m.cfg.Save(); err != nil {
		m.settings.err = "Could not save settings: " + err.Error()
	} else if m.settings.saved == "" {
		m.settings.saved = "Saved"
	}
	return m.setMenuInput(settingsPrompt, 48)
}

func (m *model) viewSettings() string {
	lines := []string{
		m.theme.Title.Render("Settings & Help"),
		"",
		m.theme.Primary.Render("1. Name:        " + m.cfg.Config.Name),
		m.theme.Primary.Render("2. Timezone:    " + m.cfg.Config.Timezone),
		m.theme.Primary.Render("3. Service URL: " + m.cfg.Config.APIBaseURL),
		m.theme.Primary.Render("4. Back"),
		"",
		m.theme.Subtitle.Render("Help"),
		m.theme.Faint.Render("Leads screen: type to search by name, or use commands like"),
		m.theme.Faint.Render("'score hot', 'stage 3', 'page 2', 'import ~/leads.xlsx',"),
		m.theme.Faint.Render("'export', 'template', 'clear', 'refresh'."),
		m.theme.Faint.Render("Anywhere: '/' goes back, 'exit.' returns home, Ctrl+C quits."),
		m.theme.Faint.Render("Config file: " + m.cfg.Dir()),
	}
	if m.settings.editing != "" {
		label := map[string]string{
			"name":     "New display name",
			"timezone": "New timezone",
			"url":      "New service URL",
		}[m.settings.editing]
		lines = append(lines, "", m.theme.Secondary.Render(label+":"))
	}
	if m.settings.saved != "" {
		lines = append(lines, "", m.theme.Success.Render(m.settings.saved))
	}
	if m.settings.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.settings.err))
	}
	lines = append(lines, "", m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}
