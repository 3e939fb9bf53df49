package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"leadterm/internal/api"
)

// LEADS LIST
func (m *model) updateLeads(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.leadFilter, cmd = m.leadFilter.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	switch key.Type {
	case tea.KeyEsc:
		m.leadFilter.SetValue("")
		m.popState()
		if m.state == stateMainMenu {
			if focus := m.setMenuInput("Choose an option", 32); focus != nil {
				cmds = append(cmds, focus)
			}
		}
		return batchCmds(cmds)
	case tea.KeyEnter:
		value := strings.TrimSpace(m.leadFilter.Value())
		m.leadFilter.SetValue("")
		if c := m.handleLeadsCommand(value); c != nil {
			cmds = append(cmds, c)
		}
		return batchCmds(cmds)
	}
	return batchCmds(cmds)
}

// handleLeadsCommand interprets one line entered on the leads screen.
func (m *model) handleLeadsCommand(value string) tea.Cmd {
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

	lower := strings.ToLower(value)
	word, rest := splitCommand(value)

	switch word {
	case "refresh":
		m.resetMessages()
		return m.startFetch(stateLeads, m.filters)
	case "clear":
		m.resetMessages()
		m.filters = api.Filters{}
		// A fully unfiltered fetch is the only thing that refreshes the
		// master list.
		return m.startFetch(stateLeads, api.Filters{})
	case "name":
		m.filters.Name = rest
		m.filters.Page = 1
		return m.startFetch(stateLeads, m.filters)
	case "score":
		m.filters.Score = canonicalScore(rest)
		m.filters.Page = 1
		return m.startFetch(stateLeads, m.filters)
	case "stage":
		stage, ok := resolveStage(rest)
		if !ok {
			m.errMessage = "Unknown stage; use 1-8 or the stage name"
			return nil
		}
		m.filters.Stage = stage
		m.filters.Page = 1
		return m.startFetch(stateLeads, m.filters)
	case "priority":
		m.filters.Priority = canonicalPriority(rest)
		m.filters.Page = 1
		return m.startFetch(stateLeads, m.filters)
	case "page":
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			m.errMessage = "Usage: page <number>"
			return nil
		}
		return m.gotoPage(n)
	case "next":
		return m.gotoPage(m.store.Page() + 1)
	case "prev":
		return m.gotoPage(m.store.Page() - 1)
	case "first":
		return m.gotoPage(1)
	case "last":
		return m.gotoPage(m.store.Pages())
	case "add", "new":
		m.resetMessages()
		m.leadForm = newLeadForm(nil)
		m.pushState(stateLeadForm)
		return nil
	case "import":
		return m.startImport(rest)
	case "export":
		return m.startExport(rest)
	case "template":
		return m.startTemplate(rest)
	case "delete":
		lead, ok := m.resolveLeadSelection(rest)
		if !ok {
			m.errMessage = "No lead matches '" + rest + "'"
			return nil
		}
		token, ctx := m.requests.begin(scopeGlobal)
		return deleteLeadCmd(ctx, m.client, token, lead.ID)
	}

	if lead, ok := m.resolveLeadSelection(value); ok {
		m.resetMessages()
		return m.openLeadDetail(lead)
	}

	// Anything else narrows by name.
	m.filters.Name = strings.TrimSpace(lower)
	m.filters.Page = 1
	return m.startFetch(stateLeads, m.filters)
}

func (m *model) gotoPage(n int) tea.Cmd {
	if n < 1 || (m.store.Pages() > 0 && n > m.store.Pages()) {
		m.errMessage = fmt.Sprintf("Page must be between 1 and %d", m.store.Pages())
		return nil
	}
	m.filters.Page = n
	return m.startFetch(stateLeads, m.filters)
}

func (m *model) startImport(path string) tea.Cmd {
	if m.importing {
		m.errMessage = "An import is already running"
		return nil
	}
	resolved, err := expandPath(path)
	if err != nil {
		m.errMessage = fmt.Sprintf("import path: %v", err)
		return nil
	}
	m.resetMessages()
	m.importing = true
	m.lastImport = nil
	// Imports survive navigation; rows already sent stay sent.
	token, ctx := m.requests.begin(scopeGlobal)
	return importCmd(ctx, m.pipeline, token, resolved)
}

func (m *model) startExport(path string) tea.Cmd {
	if path == "" {
		path = "leads.xlsx"
	}
	resolved, err := expandPath(path)
	if err != nil {
		m.errMessage = fmt.Sprintf("export path: %v", err)
		return nil
	}
	m.resetMessages()
	// Export what is on screen, not the full collection.
	leads := append([]api.Lead(nil), m.store.Items()...)
	token, _ := m.requests.begin(scopeGlobal)
	return exportCmd(token, resolved, leads)
}

func (m *model) startTemplate(path string) tea.Cmd {
	if path == "" {
		path = "LeadsTemplate.xlsx"
	}
	resolved, err := expandPath(path)
	if err != nil {
		m.errMessage = fmt.Sprintf("template path: %v", err)
		return nil
	}
	m.resetMessages()
	token, _ := m.requests.begin(scopeGlobal)
	return templateCmd(token, resolved)
}

func (m *model) openLeadDetail(lead api.Lead) tea.Cmd {
	m.detail = detailModel{lead: lead}
	m.pushState(stateLeadDetail)
	token, ctx := m.requests.begin(stateLeadDetail)
	return tea.Batch(
		m.setMenuInput(detailPrompt, 96),
		getLeadCmd(ctx, m.client, token, lead.ID),
	)
}

// resolveLeadSelection matches a displayed row by number, exact name, or
// unique name prefix.
func (m *model) resolveLeadSelection(input string) (api.Lead, bool) {
	var empty api.Lead
	items := m.store.Items()
	if len(items) == 0 {
		return empty, false
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return empty, false
	}
	lower := strings.ToLower(trimmed)
	query := trimmed
	switch {
	case strings.HasPrefix(lower, "open "):
		query = strings.TrimSpace(trimmed[5:])
	case strings.HasPrefix(lower, "view "):
		query = strings.TrimSpace(trimmed[5:])
	case strings.HasPrefix(lower, "#"):
		query = strings.TrimSpace(trimmed[1:])
	}
	if idx, err := strconv.Atoi(query); err == nil {
		if idx > 0 && idx <= len(items) {
			return items[idx-1], true
		}
		return empty, false
	}
	for i := range items {
		if strings.EqualFold(items[i].Name, query) {
			return items[i], true
		}
	}
	queryLower := strings.ToLower(query)
	var match api.Lead
	count := 0
	for i := range items {
		if strings.HasPrefix(strings.ToLower(items[i].Name), queryLower) {
			match = items[i]
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return empty, false
}

func (m *model) viewLeads() string {
	lines := []string{m.theme.Title.Render("Leads")}
	lines = append(lines, m.theme.Faint.Render("Enter a number or name to open a lead. Commands: name/score/stage/priority <v>, clear,"))
	lines = append(lines, m.theme.Faint.Render("page <n>, next, prev, add, delete <lead>, import/export/template <path>, refresh, '/' back."))
	lines = append(lines, "")

	if m.importing {
		lines = append(lines, m.theme.Warning.Render("Importing leads... please wait"))
		lines = append(lines, "")
	}
	if summary := m.filterSummary(); summary != "" {
		lines = append(lines, m.theme.Secondary.Render("Filters: "+summary))
		lines = append(lines, "")
	}

	items := m.store.Items()
	switch {
	case m.store.Loading():
		lines = append(lines, m.theme.Faint.Render("Loading..."))
	case len(items) == 0:
		lines = append(lines, m.theme.Warning.Render("No leads found."))
	default:
		for i, lead := range items {
			header := fmt.Sprintf("%d. %s", i+1, lead.Name)
			lines = append(lines, m.theme.Primary.Render(header))
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
				lines = append(lines, "  "+m.theme.Secondary.Render(strings.Join(meta, "  |  ")))
			}
			tail := []string{}
			if lead.Score != "" {
				tail = append(tail, m.theme.Score(lead.Score).Render(lead.Score))
			}
			tail = append(tail, m.theme.Faint.Render(fmt.Sprintf("%d note(s), %d reminder(s)", len(lead.Notes), len(lead.Reminders))))
			lines = append(lines, "  "+strings.Join(tail, "  "))
		}
	}

	lines = append(lines, "")
	lines = append(lines, m.theme.Faint.Render(fmt.Sprintf("Page %d/%d (%d total)", m.store.Page(), m.store.Pages(), m.store.Total())))
	if m.infoMessage != "" {
		lines = append(lines, m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	lines = append(lines, m.theme.Border.Render(strings.Repeat("─", 48)))
	lines = append(lines, m.theme.Accent.Render("leads> ")+m.leadFilter.View())
	return strings.Join(lines, "\n") + "\n"
}

func (m *model) filterSummary() string {
	parts := []string{}
	if strings.TrimSpace(m.filters.Name) != "" {
		parts = append(parts, "name="+m.filters.Name)
	}
	if m.filters.Score != "" {
		parts = append(parts, "score="+m.filters.Score)
	}
	if m.filters.Stage != "" {
		parts = append(parts, "stage="+m.filters.Stage)
	}
	if m.filters.Priority != "" {
		parts = append(parts, "priority="+m.filters.Priority)
	}
	return strings.Join(parts, "  ")
}

func splitCommand(value string) (string, string) {
	fields := strings.SplitN(strings.TrimSpace(value), " ", 2)
	word := strings.ToLower(fields[0])
	rest := ""
	if len(fields) > 1 {
		rest = strings.TrimSpace(fields[1])
	}
	return word, rest
}

func canonicalScore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hot":
		return api.ScoreHot
	case "warm":
		return api.ScoreWarm
	case "cold":
		return api.ScoreCold
	default:
		return strings.TrimSpace(raw)
	}
}

func canonicalPriority(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return api.PriorityHigh
	case "medium", "med":
		return api.PriorityMedium
	case "low":
		return api.PriorityLow
	default:
		return strings.TrimSpace(raw)
	}
}

// resolveStage accepts a 1-based stage number or a case-insensitive name.
func resolveStage(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", true
	}
	stages := api.Stages()
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n >= 1 && n <= len(stages) {
			return stages[n-1], true
		}
		return "", false
	}
	for _, stage := range stages {
		if strings.EqualFold(stage, trimmed) {
			return stage, true
		}
	}
	return "", false
}

func expandPath(p string) (string, error) {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			switch {
			case len(trimmed) == 1:
				trimmed = home
			case trimmed[1] == '/', trimmed[1] == '\\':
				trimmed = filepath.Join(home, trimmed[2:])
			}
		}
	}
	return filepath.Abs(trimmed)
}
