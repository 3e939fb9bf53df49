package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"leadterm/internal/api"
	"leadterm/internal/config"
	"leadterm/internal/importer"
	"leadterm/internal/store"
	"leadterm/internal/theme"
)

// Program wraps the Bubble Tea program lifecycle.
type Program struct {
	program *tea.Program
}

// NewProgram constructs a new interactive lead session.
func NewProgram(client *api.Client, pipeline *importer.Pipeline, cfg *config.Store, logger zerolog.Logger) *Program {
	m := newModel(client, pipeline, cfg, logger)
	return &Program{program: tea.NewProgram(m)}
}

// Start launches the Bubble Tea program.
func (p *Program) Start() error {
	if p == nil || p.program == nil {
		return fmt.Errorf("nil program")
	}
	return p.program.Start()
}

type viewState int

const (
	stateMainMenu viewState = iota
	stateLeads
	stateLeadDetail
	stateLeadForm
	stateNoteForm
	stateReminderForm
	stateReminders
	stateSettings
)

type model struct {
	state      viewState
	prevStates []viewState

	client   *api.Client
	pipeline *importer.Pipeline
	store    *store.Store
	cfg      *config.Store
	theme    theme.Theme
	logger   zerolog.Logger
	requests *requestRegistry

	width       int
	height      int
	infoMessage string
	errMessage  string
	showSplash  bool

	menuInput  textinput.Model
	leadFilter textinput.Model
	filters    api.Filters

	importing  bool
	lastImport *importer.Report

	leadForm     leadForm
	noteForm     noteForm
	reminderForm reminderForm

	detail       detailModel
	reminderPick reminderPickModel
	settings     settingsModel
}

type menuOption struct {
	id       string
	keywords []string
	synonyms []string
}

const (
	menuLeads     = "leads"
	menuAddLead   = "add-lead"
	menuReminders = "reminders"
	menuSettings  = "settings"
	menuQuit      = "quit"
)

var mainMenuOptions = []menuOption{
	{
		id:       menuLeads,
		keywords: []string{"leads"},
		synonyms: []string{"1", "l", "leads", "lead", "view", "view leads"},
	},
	{
		id:       menuAddLead,
		keywords: []string{"add", "new"},
		synonyms: []string{"2", "add", "add lead", "new lead"},
	},
	{
		id:       menuReminders,
		keywords: []string{"reminders", "reminder"},
		synonyms: []string{"3", "r", "reminders", "reminder"},
	},
	{
		id:       menuSettings,
		keywords: []string{"settings", "help"},
		synonyms: []string{"4", "settings", "help", "settings & help"},
	},
	{
		id:       menuQuit,
		keywords: []string{"quit", "exit"},
		synonyms: []string{"5", "quit", "exit", "exit.", "q"},
	},
}

const splashBanner = `    __                   ________
   / /   ___  ____ _____/ /_  __/__  _________ ___
  / /   / _ \/ __ '/ __  / / / / _ \/ ___/ __ '__ \
 / /___/  __/ /_/ / /_/ / / / /  __/ /  / / / / / /
/_____/\___/\__,_/\__,_/ /_/  \___/_/  /_/ /_/ /_/
`

func newModel(client *api.Client, pipeline *importer.Pipeline, cfg *config.Store, logger zerolog.Logger) *model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Choose an option"
	ti.CharLimit = 32
	ti.Focus()

	filter := textinput.New()
	filter.Prompt = ""
	filter.Placeholder = "Search or type a command, / to go back"
	filter.CharLimit = 96

	uiLogger := logger.With().Str("component", "ui").Logger()
	m := model{
		state:      stateMainMenu,
		client:     client,
		pipeline:   pipeline,
		store:      store.New(),
		cfg:        cfg,
		theme:      theme.Default(),
		logger:     uiLogger,
		requests:   newRequestRegistry(uiLogger),
		menuInput:  ti,
		leadFilter: filter,
		showSplash: true,
	}
	m.leadForm = newLeadForm(nil)
	m.noteForm = noteForm{input: newTextInput("Note text", 256)}
	m.reminderForm = newReminderForm("", "")
	m.reminderPick = newReminderPick()
	m.settings = newSettings()
	return &m
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return ti
}

func (m *model) Init() tea.Cmd {
	// Hydrate the full collection up front; the reminder screen needs it
	// even when the list view is filtered later.
	return tea.Batch(textinput.Blink, m.startFetch(scopeGlobal, api.Filters{}))
}

// startFetch stamps and issues one fetch command under the given scope.
func (m *model) startFetch(scope viewState, filters api.Filters) tea.Cmd {
	seq := m.store.BeginFetch()
	token, ctx := m.requests.begin(scope)
	return fetchLeadsCmd(ctx, m.client, token, seq, filters)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	// Command completions fold into the store before any input handling.
	if cmd, handled := m.foldResult(msg); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.state {
	case stateMainMenu:
		cmd = m.updateMainMenu(msg)
	case stateLeads:
		cmd = m.updateLeads(msg)
	case stateLeadDetail:
		cmd = m.updateLeadDetail(msg)
	case stateLeadForm:
		cmd = m.updateLeadForm(msg)
	case stateNoteForm:
		cmd = m.updateNoteForm(msg)
	case stateReminderForm:
		cmd = m.updateReminderForm(msg)
	case stateReminders:
		cmd = m.updateReminders(msg)
	case stateSettings:
		cmd = m.updateSettings(msg)
	default:
		m.state = stateMainMenu
		cmd = m.updateMainMenu(msg)
	}
	return m, cmd
}

// foldResult applies one command completion to the cached state. Each fold is
// atomic on the event loop; different commands settle in completion order.
func (m *model) foldResult(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case leadsFetchedMsg:
		if !m.requests.settle(msg.token) {
			return nil, true
		}
		if !m.store.ApplyFetch(msg.seq, msg.res) {
			m.logger.Debug().Uint64("seq", msg.seq).Msg("discarded stale fetch")
		}
		return nil, true

	case fetchFailedMsg:
		if !m.requests.settle(msg.token) {
			return nil, true
		}
		if m.store.FailFetch(msg.seq, msg.err) {
			m.errMessage = msg.err.Error()
		}
		return nil, true

	case leadCreatedMsg:
		if !m.requests.settle(msg.token) {
			return nil, true
		}
		m.store.ApplyCreate(msg.lead)
		m.infoMessage = fmt.Sprintf("Lead '%s' created", msg.lead.Name)
		return nil, true

	case leadDeletedMsg:
		if !m.requests.settle(msg.token) {
			return nil, true
		}
		m.store.ApplyDelete(msg.id)
		m.infoMessage = "Lead deleted"
		if m.state == stateLeadDetail && m.detail.lead.ID == msg.id {
			m.popState()
		}
		return nil, true

	case leadReplacedMsg:
		if !m.requests.settle(msg.token) {
			return nil, true
		}
		m.store.ApplyLead(msg.lead)
		if m.detail.lead.ID == msg.lead.ID {
			m.detail.lead = msg.lead
		}
		m.infoMessage = fmt.Sprintf("Lead '%s' updated", msg.lead.Name)
		return nil, true

	case leadLoadedMsg:
		if !m.requests.settle(msg.token) {
			return nil, true
		}
		if m.detail.lead.ID == msg.lead.ID {
			m.detail.lead = msg.lead
			m.detail.err = ""
		}
		return nil, true

	case opFailedMsg:
		if !m.requests.settle(msg.token) {
			return nil, true
		}
		// Mutation failures never touch cached state; report at the
		// point of action.
		m.errMessage = msg.err.Error()
		return nil, true

	case importDoneMsg:
		if !m.requests.settle(msg.token) {
			return nil, true
		}
		m.importing = false
		report := msg.report
		m.lastImport = &report
		for _, lead := range report.Leads {
			m.store.ApplyCreate(lead)
		}
		m.infoMessage = fmt.Sprintf("Imported %d lead(s), skipped %d", report.Created, report.Skipped)
		if report.State == importer.Failed {
			m.errMessage = strings.Join(report.Errors, "; ")
			if m.errMessage == "" {
				m.errMessage = "Import failed"
			}
		} else {
			m.errMessage = ""
		}
		// Reconcile with server-assigned ids and derived fields.
		return m.startFetch(scopeGlobal, api.Filters{}), true

	case fileWrittenMsg:
		if !m.requests.settle(msg.token) {
			return nil, true
		}
		if msg.err != nil {
			m.errMessage = fmt.Sprintf("%s: %v", msg.kind, msg.err)
			return nil, true
		}
		if msg.kind == "export" {
			m.infoMessage = fmt.Sprintf("Exported %d lead(s) to %s", msg.count, msg.path)
		} else {
			m.infoMessage = "Template written to " + msg.path
		}
		return nil, true
	}
	return nil, false
}

func (m *model) View() string {
	switch m.state {
	case stateMainMenu:
		return m.viewMainMenu()
	case stateLeads:
		return m.viewLeads()
	case stateLeadDetail:
		return m.viewLeadDetail()
	case stateLeadForm:
		return m.viewLeadForm()
	case stateNoteForm:
		return m.viewNoteForm()
	case stateReminderForm:
		return m.viewReminderForm()
	case stateReminders:
		return m.viewReminders()
	case stateSettings:
		return m.viewSettings()
	default:
		return ""
	}
}

// Navigation helpers
func (m *model) pushState(next viewState) {
	m.prevStates = append(m.prevStates, m.state)
	m.state = next
}

func (m *model) popState() {
	m.requests.cancelScope(m.state)
	if len(m.prevStates) == 0 {
		m.state = stateMainMenu
		return
	}
	idx := len(m.prevStates) - 1
	m.state = m.prevStates[idx]
	m.prevStates = m.prevStates[:idx]
}

func (m *model) goHome() {
	m.requests.cancelScope(m.state)
	m.prevStates = nil
	m.state = stateMainMenu
}

func (m *model) resetMessages() {
	m.errMessage = ""
	m.infoMessage = ""
}

func (m *model) setMenuInput(placeholder string, limit int) tea.Cmd {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	if limit > 0 {
		input.CharLimit = limit
	}
	cmd := input.Focus()
	m.menuInput = input
	return cmd
}

func (m *model) ensureMenuInput(placeholder string, limit int) tea.Cmd {
	if strings.TrimSpace(m.menuInput.Placeholder) == placeholder {
		if limit <= 0 || m.menuInput.CharLimit == limit {
			if !m.menuInput.Focused() {
				return m.menuInput.Focus()
			}
			return nil
		}
	}
	return m.setMenuInput(placeholder, limit)
}

func resolveMenuSelection(options []menuOption, input string) (string, bool) {
	value := strings.TrimSpace(strings.ToLower(input))
	if value == "" {
		return "", false
	}
	for _, option := range options {
		for _, syn := range option.synonyms {
			if value == syn {
				return option.id, true
			}
		}
	}

	matches := make(map[string]struct{})
	for _, option := range options {
		for _, keyword := range option.keywords {
			if strings.HasPrefix(keyword, value) {
				matches[option.id] = struct{}{}
				break
			}
		}
	}
	if len(matches) == 1 {
		for id := range matches {
			return id, true
		}
	}
	return "", false
}

func batchCmds(cmds []tea.Cmd) tea.Cmd {
	filtered := cmds[:0]
	for _, c := range cmds {
		if c != nil {
			filtered = append(filtered, c)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return tea.Batch(filtered...)
	}
}

// global command helpers
func isExitCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "exit." || v == "quit"
}

func isBackCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "/" || v == "back"
}

// MAIN MENU
func (m *model) updateMainMenu(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if focus := m.ensureMenuInput("Choose an option", 32); focus != nil {
		cmds = append(cmds, focus)
	}

	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		choice := strings.TrimSpace(strings.ToLower(m.menuInput.Value()))
		m.menuInput.SetValue("")
		m.showSplash = false
		action, ok := resolveMenuSelection(mainMenuOptions, choice)
		if !ok {
			if choice == "" || choice == "0" {
				return batchCmds(cmds)
			}
			m.errMessage = "Unknown choice"
			return batchCmds(cmds)
		}
		switch action {
		case menuLeads:
			m.resetMessages()
			m.pushState(stateLeads)
			if !m.leadFilter.Focused() {
				if focus := m.leadFilter.Focus(); focus != nil {
					cmds = append(cmds, focus)
				}
			}
			cmds = append(cmds, m.startFetch(stateLeads, m.filters))
		case menuAddLead:
			m.resetMessages()
			m.leadForm = newLeadForm(nil)
			m.pushState(stateLeadForm)
		case menuReminders:
			m.resetMessages()
			m.reminderPick = newReminderPick()
			m.pushState(stateReminders)
			if len(m.store.AllItems()) == 0 {
				cmds = append(cmds, m.startFetch(stateReminders, api.Filters{}))
			}
			if focus := m.setMenuInput("Lead number or name, / to go back", 96); focus != nil {
				cmds = append(cmds, focus)
			}
		case menuSettings:
			m.resetMessages()
			m.settings = newSettings()
			m.pushState(stateSettings)
			if focus := m.setMenuInput("1=Name  2=Timezone  3=Service URL  4=Back", 48); focus != nil {
				cmds = append(cmds, focus)
			}
		case menuQuit:
			cmds = append(cmds, tea.Quit)
		}
	}

	return batchCmds(cmds)
}

func (m *model) viewMainMenu() string {
	lines := []string{}
	if m.showSplash {
		lines = append(lines, splashBanner)
		lines = append(lines, "")
	}
	lines = append(lines, m.theme.Title.Render("LeadTerm"))
	lines = append(lines, m.theme.Secondary.Render("Real-estate leads from your terminal"))
	if m.store.Loading() {
		lines = append(lines, m.theme.Faint.Render("Syncing leads..."))
	}
	if m.infoMessage != "" {
		lines = append(lines, m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	menu := []string{
		"1. View leads",
		"2. Add lead",
		"3. Reminders",
		"4. Settings & Help",
		"5. Quit",
	}
	lines = append(lines, "")
	for _, item := range menu {
		lines = append(lines, m.theme.Primary.Render(item))
	}
	lines = append(lines, "")
	lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}
