package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"leadterm/internal/api"
)

type reminderPickModel struct {
	err string
}

func newReminderPick() reminderPickModel {
	return reminderPickModel{}
}

type reminderEntry struct {
	leadName string
	reminder api.Reminder
}

// upcomingReminders flattens reminders across the full collection, soonest
// first. The list view may be filtered; reminders always cover everything.
func upcomingReminders(leads []api.Lead) []reminderEntry {
	var entries []reminderEntry
	for _, lead := range leads {
		for _, rem := range lead.Reminders {
			entries = append(entries, reminderEntry{leadName: lead.Name, reminder: rem})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].reminder.Date.Before(entries[j].reminder.Date)
	})
	return entries
}

func (m *model) updateReminders(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if focus := m.ensureMenuInput("Lead number or name, / to go back", 96); focus != nil {
		cmds = append(cmds, focus)
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
		m.popState()
		if m.state == stateMainMenu {
			if focus := m.setMenuInput("Choose an option", 32); focus != nil {
				cmds = append(cmds, focus)
			}
		}
		return batchCmds(cmds)
	case tea.KeyEnter:
		value := strings.TrimSpace(m.menuInput.Value())
		m.menuInput.SetValue("")
		if c := m.handleReminderCommand(value); c != nil {
			cmds = append(cmds, c)
		}
		return batchCmds(cmds)
	}
	return batchCmds(cmds)
}

func (m *model) handleReminderCommand(value string) tea.Cmd {
	if isExitCommand(value) {
		m.goHome()
		return m.setMenuInput("Choose an option", 32)
	}
	if isBackCommand(value) {
		m.popState()
		if m.state == stateMainMenu {
			return m.setMenuInput("Choose an option", 32)
		}
		return nil
	}
	if value == "" {
		return nil
	}

	m.reminderPick.err = ""
	if strings.EqualFold(value, "refresh") {
		return m.startFetch(stateReminders, api.Filters{})
	}

	lead, ok := pickLead(m.store.AllItems(), value)
	if !ok {
		m.reminderPick.err = "No matching lead"
		return nil
	}
	return m.openReminderForm(lead.ID, "", "", "")
}

// pickLead resolves a number, exact name, or unique prefix against leads.
func pickLead(leads []api.Lead, value string) (api.Lead, bool) {
	if idx, err := strconv.Atoi(value); err == nil {
		if idx >= 1 && idx <= len(leads) {
			return leads[idx-1], true
		}
		return api.Lead{}, false
	}

	lower := strings.ToLower(value)
	var match api.Lead
	matches := 0
	for _, lead := range leads {
		name := strings.ToLower(lead.Name)
		if name == lower {
			return lead, true
		}
		if strings.HasPrefix(name, lower) {
			match = lead
			matches++
		}
	}
	if matches == 1 {
		return match, true
	}
	return api.Lead{}, false
}

func (m *model) viewReminders() string {
	leads := m.store.AllItems()
	now := time.Now()

	lines := []string{
		m.theme.Title.Render("Reminders"),
		m.theme.Faint.Render("Pick a lead to set a reminder. 'refresh' reloads, '/' goes back."),
		"",
	}
	if m.store.Loading() {
		lines = append(lines, m.theme.Faint.Render("Loading leads..."))
	}

	entries := upcomingReminders(leads)
	lines = append(lines, m.theme.Subtitle.Render(fmt.Sprintf("Upcoming (%d)", len(entries))))
	if len(entries) == 0 {
		lines = append(lines, m.theme.Faint.Render("No reminders set."))
	}
	for _, entry := range entries {
		stamp := entry.reminder.Date.In(m.cfg.Location()).Format("Jan 02 2006 15:04")
		line := fmt.Sprintf("%s  %s (%s)", stamp, entry.reminder.Message, entry.leadName)
		switch {
		case entry.reminder.Notified:
			lines = append(lines, m.theme.Faint.Render(line+"  [notified]"))
		case entry.reminder.Date.Before(now):
			lines = append(lines, m.theme.Danger.Render(line+"  [overdue]"))
		default:
			lines = append(lines, m.theme.Primary.Render(line))
		}
	}
	lines = append(lines, "")

	lines = append(lines, m.theme.Subtitle.Render(fmt.Sprintf("Leads (%d)", len(leads))))
	for i, lead := range leads {
		lines = append(lines, m.theme.Secondary.Render(fmt.Sprintf("%d. %s", i+1, lead.Name)))
	}
	if m.reminderPick.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.reminderPick.err))
	}
	if m.infoMessage != "" {
		lines = append(lines, m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	lines = append(lines, "", m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}
