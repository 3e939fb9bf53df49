package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"leadterm/internal/api"
)

// LEAD FORM
type leadForm struct {
	index    int
	fields   []formField
	input    textinput.Model
	err      string
	editing  bool
	original api.Lead
}

type formField struct {
	label    string
	value    string
	required bool
}

func newLeadForm(existing *api.Lead) leadForm {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Lead name"
	ti.CharLimit = 96
	ti.Focus()
	fields := []formField{
		{label: "Lead name", required: true},
		{label: "Budget", required: false},
		{label: "Location", required: false},
		{label: "Score (Hot/Warm/Cold, blank = none)", required: false},
		{label: "Stage (1-8 or name, blank = none)", required: false},
	}
	form := leadForm{
		index:  0,
		fields: fields,
		input:  ti,
	}
	if existing != nil {
		clone := *existing
		form.editing = true
		form.original = clone
		form.fields[0].value = existing.Name
		form.fields[1].value = string(existing.Budget)
		form.fields[2].value = existing.Location
		form.fields[3].value = existing.Score
		form.fields[4].value = existing.Stage
		form.input.SetValue(existing.Name)
	}
	return form
}

func (m *model) updateLeadForm(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.leadForm.input, cmd = m.leadForm.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	switch key.Type {
	case tea.KeyEsc:
		m.leadForm = newLeadForm(nil)
		m.popState()
		cmds = append(cmds, m.restorePrompt())
		return batchCmds(cmds)
	case tea.KeyEnter:
		value := strings.TrimSpace(m.leadForm.input.Value())
		if isExitCommand(value) {
			m.leadForm = newLeadForm(nil)
			m.goHome()
			cmds = append(cmds, m.setMenuInput("Choose an option", 32))
			return batchCmds(cmds)
		}
		if isBackCommand(value) {
			if m.leadForm.index == 0 {
				m.leadForm = newLeadForm(nil)
				m.popState()
				cmds = append(cmds, m.restorePrompt())
				return batchCmds(cmds)
			}
			m.leadForm.index--
			prev := m.leadForm.fields[m.leadForm.index]
			m.leadForm.input.Placeholder = prev.label
			m.leadForm.input.SetValue(prev.value)
			m.leadForm.err = ""
			return batchCmds(cmds)
		}
		if m.leadForm.fields[m.leadForm.index].required && value == "" {
			m.leadForm.err = "This field is required"
			return batchCmds(cmds)
		}
		m.leadForm.fields[m.leadForm.index].value = value
		m.leadForm.input.SetValue("")
		m.leadForm.err = ""
		if m.leadForm.index >= len(m.leadForm.fields)-1 {
			req, err := buildLeadRequest(m.leadForm)
			if err != "" {
				m.leadForm.err = err
				m.leadForm.index = 3
				m.leadForm.input.Placeholder = m.leadForm.fields[3].label
				m.leadForm.input.SetValue(m.leadForm.fields[3].value)
				return batchCmds(cmds)
			}
			token, ctx := m.requests.begin(scopeGlobal)
			if m.leadForm.editing {
				cmds = append(cmds, updateLeadCmd(ctx, m.client, token, m.leadForm.original.ID, req))
			} else {
				cmds = append(cmds, createLeadCmd(ctx, m.client, token, req))
			}
			m.leadForm = newLeadForm(nil)
			m.popState()
			cmds = append(cmds, m.restorePrompt())
			return batchCmds(cmds)
		}
		m.leadForm.index++
		next := m.leadForm.fields[m.leadForm.index]
		m.leadForm.input.Placeholder = next.label
		m.leadForm.input.SetValue(next.value)
	}
	return batchCmds(cmds)
}

// buildLeadRequest validates and assembles the writable fields. Identity and
// sub-collections never enter the request.
func buildLeadRequest(form leadForm) (api.LeadRequest, string) {
	score := strings.TrimSpace(form.fields[3].value)
	if score != "" {
		score = canonicalScore(score)
		if score != api.ScoreHot && score != api.ScoreWarm && score != api.ScoreCold {
			return api.LeadRequest{}, "Score must be Hot, Warm or Cold (or blank)"
		}
	}
	stage, ok := resolveStage(form.fields[4].value)
	if !ok {
		return api.LeadRequest{}, "Unknown stage; use 1-8 or the stage name"
	}
	req := api.LeadRequest{
		Name:     form.fields[0].value,
		Budget:   form.fields[1].value,
		Location: form.fields[2].value,
		Score:    score,
		Stage:    stage,
	}
	if form.editing {
		req.Priority = form.original.Priority
	}
	return req, ""
}

// restorePrompt re-arms the menu input for whichever screen we returned to.
func (m *model) restorePrompt() tea.Cmd {
	switch m.state {
	case stateMainMenu:
		return m.setMenuInput("Choose an option", 32)
	case stateLeadDetail:
		return m.setMenuInput(detailPrompt, 96)
	case stateReminders:
		return m.setMenuInput("Lead number or name, / to go back", 96)
	default:
		return nil
	}
}

func (m *model) viewLeadForm() string {
	field := m.leadForm.fields[m.leadForm.index]
	title := "Add Lead"
	if m.leadForm.editing {
		title = "Edit Lead"
	}
	lines := []string{
		m.theme.Title.Render(title),
		m.theme.Faint.Render("Enter details. '/' to go back a field, 'exit.' to cancel."),
		"",
		m.theme.Secondary.Render(progressLabel(m.leadForm.index, len(m.leadForm.fields))),
		m.theme.Primary.Render(field.label + ":"),
		m.leadForm.input.View(),
	}
	if m.leadForm.index == 4 {
		lines = append(lines, "")
		for i, stage := range api.Stages() {
			lines = append(lines, m.theme.Faint.Render(progressLabel(i, 0)+" "+stage))
		}
	}
	if m.leadForm.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.leadForm.err))
	}
	return strings.Join(lines, "\n") + "\n"
}

func progressLabel(index, total int) string {
	if total > 0 {
		return fmt.Sprintf("%d/%d", index+1, total)
	}
	return strconv.Itoa(index+1) + "."
}

// NOTE FORM
type noteForm struct {
	leadID string
	noteID string
	input  textinput.Model
	err    string
}

func (m *model) openNoteForm(leadID, noteID, text string) tea.Cmd {
	input := newTextInput("Note text", 256)
	input.SetValue(text)
	m.noteForm = noteForm{leadID: leadID, noteID: noteID, input: input}
	m.pushState(stateNoteForm)
	return m.noteForm.input.Focus()
}

func (m *model) updateNoteForm(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.noteForm.input, cmd = m.noteForm.input.Update(msg)
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
		cmds = append(cmds, m.restorePrompt())
		return batchCmds(cmds)
	case tea.KeyEnter:
		value := strings.TrimSpace(m.noteForm.input.Value())
		if isExitCommand(value) {
			m.goHome()
			cmds = append(cmds, m.setMenuInput("Choose an option", 32))
			return batchCmds(cmds)
		}
		if isBackCommand(value) {
			m.popState()
			cmds = append(cmds, m.restorePrompt())
			return batchCmds(cmds)
		}
		if value == "" {
			m.noteForm.err = "Note cannot be empty"
			return batchCmds(cmds)
		}
		token, ctx := m.requests.begin(scopeGlobal)
		if m.noteForm.noteID != "" {
			cmds = append(cmds, editNoteCmd(ctx, m.client, token, m.noteForm.leadID, m.noteForm.noteID, value))
		} else {
			cmds = append(cmds, addNoteCmd(ctx, m.client, token, m.noteForm.leadID, value))
		}
		m.popState()
		cmds = append(cmds, m.restorePrompt())
		return batchCmds(cmds)
	}
	return batchCmds(cmds)
}

func (m *model) viewNoteForm() string {
	title := "Add Note"
	if m.noteForm.noteID != "" {
		title = "Edit Note"
	}
	lines := []string{
		m.theme.Title.Render(title),
		m.theme.Faint.Render("'/' to go back, 'exit.' to cancel."),
		"",
		m.noteForm.input.View(),
	}
	if m.noteForm.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.noteForm.err))
	}
	return strings.Join(lines, "\n") + "\n"
}

// REMINDER FORM
type reminderForm struct {
	leadID       string
	reminderID   string
	stage        int // 0 = date, 1 = message
	dateInput    textinput.Model
	messageInput textinput.Model
	date         time.Time
	err          string
}

func newReminderForm(date, message string) reminderForm {
	dateInput := newTextInput("YYYY-MM-DD HH:MM (blank = in one day)", 32)
	dateInput.SetValue(date)
	messageInput := newTextInput("Reminder message", 256)
	messageInput.SetValue(message)
	return reminderForm{dateInput: dateInput, messageInput: messageInput}
}

func (m *model) openReminderForm(leadID, reminderID, date, message string) tea.Cmd {
	m.reminderForm = newReminderForm(date, message)
	m.reminderForm.leadID = leadID
	m.reminderForm.reminderID = reminderID
	m.pushState(stateReminderForm)
	return m.reminderForm.dateInput.Focus()
}

func (m *model) updateReminderForm(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	form := &m.reminderForm

	var cmd tea.Cmd
	if form.stage == 0 {
		form.dateInput, cmd = form.dateInput.Update(msg)
	} else {
		if !form.messageInput.Focused() {
			if focus := form.messageInput.Focus(); focus != nil {
				cmds = append(cmds, focus)
			}
		}
		form.messageInput, cmd = form.messageInput.Update(msg)
	}
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
		cmds = append(cmds, m.restorePrompt())
		return batchCmds(cmds)
	case tea.KeyEnter:
		if form.stage == 0 {
			value := strings.TrimSpace(form.dateInput.Value())
			if isExitCommand(value) {
				m.goHome()
				cmds = append(cmds, m.setMenuInput("Choose an option", 32))
				return batchCmds(cmds)
			}
			if isBackCommand(value) {
				m.popState()
				cmds = append(cmds, m.restorePrompt())
				return batchCmds(cmds)
			}
			date, err := parseReminderDate(value, m.cfg.Location())
			if err != "" {
				form.err = err
				return batchCmds(cmds)
			}
			form.date = date
			form.err = ""
			form.stage = 1
			return batchCmds(cmds)
		}

		value := strings.TrimSpace(form.messageInput.Value())
		if isExitCommand(value) {
			m.goHome()
			cmds = append(cmds, m.setMenuInput("Choose an option", 32))
			return batchCmds(cmds)
		}
		if isBackCommand(value) {
			form.stage = 0
			return batchCmds(cmds)
		}
		if value == "" {
			form.err = "Message cannot be empty"
			return batchCmds(cmds)
		}
		req := api.ReminderRequest{Date: form.date.UTC(), Message: value}
		token, ctx := m.requests.begin(scopeGlobal)
		if form.reminderID != "" {
			cmds = append(cmds, editReminderCmd(ctx, m.client, token, form.leadID, form.reminderID, req))
		} else {
			cmds = append(cmds, addReminderCmd(ctx, m.client, token, form.leadID, req))
		}
		m.popState()
		cmds = append(cmds, m.restorePrompt())
		return batchCmds(cmds)
	}
	return batchCmds(cmds)
}

func parseReminderDate(value string, loc *time.Location) (time.Time, string) {
	if value == "" {
		return time.Now().In(loc).Add(24 * time.Hour), ""
	}
	layouts := []string{"2006-01-02 15:04", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, ""
		}
	}
	return time.Time{}, "Use YYYY-MM-DD or YYYY-MM-DD HH:MM"
}

func (m *model) viewReminderForm() string {
	title := "Add Reminder"
	if m.reminderForm.reminderID != "" {
		title = "Edit Reminder"
	}
	lines := []string{
		m.theme.Title.Render(title),
		m.theme.Faint.Render("'/' to go back, 'exit.' to cancel."),
		"",
	}
	if m.reminderForm.stage == 0 {
		lines = append(lines, m.theme.Primary.Render("Due date:"), m.reminderForm.dateInput.View())
	} else {
		stamp := m.reminderForm.date.In(m.cfg.Location()).Format("Jan 02 2006 15:04")
		lines = append(lines, m.theme.Secondary.Render("Due "+stamp))
		lines = append(lines, m.theme.Primary.Render("Message:"), m.reminderForm.messageInput.View())
	}
	if m.reminderForm.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.reminderForm.err))
	}
	return strings.Join(lines, "\n") + "\n"
}
