package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"leadterm/internal/api"
)

const detailPrompt = "1=Add note  2=Add reminder  3=Edit  4=Delete  5=Back  (edit/del note|reminder <n>)"

type detailModel struct {
	lead          api.Lead
	err           string
	pendingDelete bool
}

// LEAD DETAIL
func (m *model) updateLeadDetail(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if focus := m.ensureMenuInput(detailPrompt, 96); focus != nil {
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
		m.detail.pendingDelete = false
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
		if c := m.handleDetailCommand(value); c != nil {
			cmds = append(cmds, c)
		}
		return batchCmds(cmds)
	}
	return batchCmds(cmds)
}

func (m *model) handleDetailCommand(value string) tea.Cmd {
	lead := m.detail.lead

	if m.detail.pendingDelete {
		m.detail.pendingDelete = false
		v := strings.ToLower(value)
		if v == "y" || v == "yes" {
			// Mutations run under the global scope; their folds must
			// land even if the user navigates away first.
			token, ctx := m.requests.begin(scopeGlobal)
			return deleteLeadCmd(ctx, m.client, token, lead.ID)
		}
		m.infoMessage = "Delete cancelled"
		return nil
	}

	if isExitCommand(value) {
		m.goHome()
		return m.setMenuInput("Choose an option", 32)
	}
	if isBackCommand(value) || strings.EqualFold(value, "5") {
		m.popState()
		if m.state == stateMainMenu {
			return m.setMenuInput("Choose an option", 32)
		}
		return nil
	}
	if value == "" {
		return nil
	}

	m.detail.err = ""
	word, rest := splitCommand(value)
	switch word {
	case "1":
		return m.openNoteForm(lead.ID, "", "")
	case "2":
		return m.openReminderForm(lead.ID, "", "", "")
	case "3", "edit":
		m.leadForm = newLeadForm(&lead)
		m.pushState(stateLeadForm)
		return nil
	case "4", "delete":
		m.detail.pendingDelete = true
		return nil
	case "refresh":
		token, ctx := m.requests.begin(stateLeadDetail)
		return getLeadCmd(ctx, m.client, token, lead.ID)
	case "add":
		switch {
		case strings.HasPrefix(rest, "note"):
			return m.openNoteForm(lead.ID, "", "")
		case strings.HasPrefix(rest, "reminder"):
			return m.openReminderForm(lead.ID, "", "", "")
		}
	case "edit-note", "editnote":
		return m.editNoteAt(rest)
	case "del-note", "delnote":
		return m.deleteNoteAt(rest)
	case "edit-reminder", "editreminder":
		return m.editReminderAt(rest)
	case "del-reminder", "delreminder":
		return m.deleteReminderAt(rest)
	}

	// Two-word grammar: "edit note 2", "del reminder 1".
	verb, target := word, rest
	targetWord, n := splitCommand(target)
	switch {
	case verb == "edit" && targetWord == "note":
		return m.editNoteAt(n)
	case verb == "del" && targetWord == "note":
		return m.deleteNoteAt(n)
	case verb == "edit" && targetWord == "reminder":
		return m.editReminderAt(n)
	case verb == "del" && targetWord == "reminder":
		return m.deleteReminderAt(n)
	}

	m.detail.err = "Unknown action"
	return nil
}

func (m *model) noteAt(raw string) (string, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 1 || idx > len(m.detail.lead.Notes) {
		m.detail.err = "No such note"
		return "", false
	}
	return m.detail.lead.Notes[idx-1].ID, true
}

func (m *model) reminderAt(raw string) (string, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 1 || idx > len(m.detail.lead.Reminders) {
		m.detail.err = "No such reminder"
		return "", false
	}
	return m.detail.lead.Reminders[idx-1].ID, true
}

func (m *model) editNoteAt(raw string) tea.Cmd {
	noteID, ok := m.noteAt(raw)
	if !ok {
		return nil
	}
	text := ""
	for _, note := range m.detail.lead.Notes {
		if note.ID == noteID {
			text = note.Text
		}
	}
	return m.openNoteForm(m.detail.lead.ID, noteID, text)
}

func (m *model) deleteNoteAt(raw string) tea.Cmd {
	noteID, ok := m.noteAt(raw)
	if !ok {
		return nil
	}
	token, ctx := m.requests.begin(scopeGlobal)
	return deleteNoteCmd(ctx, m.client, token, m.detail.lead.ID, noteID)
}

func (m *model) editReminderAt(raw string) tea.Cmd {
	reminderID, ok := m.reminderAt(raw)
	if !ok {
		return nil
	}
	date, message := "", ""
	for _, rem := range m.detail.lead.Reminders {
		if rem.ID == reminderID {
			date = rem.Date.In(m.cfg.Location()).Format("2006-01-02 15:04")
			message = rem.Message
		}
	}
	return m.openReminderForm(m.detail.lead.ID, reminderID, date, message)
}

func (m *model) deleteReminderAt(raw string) tea.Cmd {
	reminderID, ok := m.reminderAt(raw)
	if !ok {
		return nil
	}
	token, ctx := m.requests.begin(scopeGlobal)
	return deleteReminderCmd(ctx, m.client, token, m.detail.lead.ID, reminderID)
}

func (m *model) viewLeadDetail() string {
	lead := m.detail.lead
	lines := []string{m.theme.Title.Render(lead.Name)}

	meta := []string{}
	if lead.Budget != "" {
		meta = append(meta, "Budget: "+string(lead.Budget))
	}
	if lead.Location != "" {
		meta = append(meta, "Location: "+lead.Location)
	}
	if lead.Stage != "" {
		meta = append(meta, "Stage: "+lead.Stage)
	}
	if lead.Priority != "" {
		meta = append(meta, "Priority: "+lead.Priority)
	}
	if len(meta) > 0 {
		lines = append(lines, m.theme.Secondary.Render(strings.Join(meta, "  |  ")))
	}
	if lead.Score != "" {
		lines = append(lines, m.theme.Score(lead.Score).Render("Score: "+lead.Score))
	}
	lines = append(lines, "")

	lines = append(lines, m.theme.Subtitle.Render(fmt.Sprintf("Notes (%d)", len(lead.Notes))))
	if len(lead.Notes) == 0 {
		lines = append(lines, m.theme.Faint.Render("No notes yet."))
	} else {
		for i, note := range lead.Notes {
			stamp := note.CreatedAt.In(m.cfg.Location()).Format("Jan 02 2006 15:04")
			lines = append(lines, m.theme.Primary.Render(fmt.Sprintf("%d. %s", i+1, note.Text)))
			lines = append(lines, "   "+m.theme.Faint.Render(stamp))
		}
	}
	lines = append(lines, "")

	lines = append(lines, m.theme.Subtitle.Render(fmt.Sprintf("Reminders (%d)", len(lead.Reminders))))
	if len(lead.Reminders) == 0 {
		lines = append(lines, m.theme.Faint.Render("No reminders yet."))
	} else {
		for i, rem := range lead.Reminders {
			stamp := rem.Date.In(m.cfg.Location()).Format("Jan 02 2006 15:04")
			status := ""
			if rem.Notified {
				status = "  " + m.theme.Success.Render("notified")
			}
			lines = append(lines, m.theme.Primary.Render(fmt.Sprintf("%d. %s: %s", i+1, stamp, rem.Message))+status)
		}
	}
	lines = append(lines, "")

	if m.detail.pendingDelete {
		lines = append(lines, m.theme.Warning.Render(fmt.Sprintf("Delete lead '%s'? (y/n)", lead.Name)))
	}
	if m.detail.err != "" {
		lines = append(lines, m.theme.Danger.Render(m.detail.err))
	}
	if m.infoMessage != "" {
		lines = append(lines, m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	lines = append(lines, m.theme.Faint.Render(detailPrompt))
	lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}
