package ui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"leadterm/internal/api"
	"leadterm/internal/importer"
	"leadterm/internal/sheet"
)

// Messages produced by asynchronous commands. Every message carries the
// request token it was issued under; folds drop messages whose token was
// cancelled in the meantime.

type leadsFetchedMsg struct {
	token string
	seq   uint64
	res   api.FetchResult
}

type fetchFailedMsg struct {
	token string
	seq   uint64
	err   error
}

type leadCreatedMsg struct {
	token string
	lead  api.Lead
}

type leadDeletedMsg struct {
	token string
	id    string
}

// leadReplacedMsg is the shared success shape of update, note and reminder
// commands: the server returns the full parent lead.
type leadReplacedMsg struct {
	token string
	lead  api.Lead
}

type leadLoadedMsg struct {
	token string
	lead  api.Lead
}

type opFailedMsg struct {
	token string
	err   error
}

type importDoneMsg struct {
	token  string
	report importer.Report
}

type fileWrittenMsg struct {
	token string
	kind  string // "export" or "template"
	path  string
	count int
	err   error
}

func fetchLeadsCmd(ctx context.Context, client *api.Client, token string, seq uint64, filters api.Filters) tea.Cmd {
	return func() tea.Msg {
		res, err := client.FetchLeads(ctx, filters)
		if err != nil {
			return fetchFailedMsg{token: token, seq: seq, err: err}
		}
		return leadsFetchedMsg{token: token, seq: seq, res: res}
	}
}

func createLeadCmd(ctx context.Context, client *api.Client, token string, req api.LeadRequest) tea.Cmd {
	return func() tea.Msg {
		lead, err := client.CreateLead(ctx, req)
		if err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadCreatedMsg{token: token, lead: lead}
	}
}

func updateLeadCmd(ctx context.Context, client *api.Client, token, id string, req api.LeadRequest) tea.Cmd {
	return func() tea.Msg {
		lead, err := client.UpdateLead(ctx, id, req)
		if err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadReplacedMsg{token: token, lead: lead}
	}
}

func deleteLeadCmd(ctx context.Context, client *api.Client, token, id string) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteLead(ctx, id); err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadDeletedMsg{token: token, id: id}
	}
}

func getLeadCmd(ctx context.Context, client *api.Client, token, id string) tea.Cmd {
	return func() tea.Msg {
		lead, err := client.GetLead(ctx, id)
		if err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadLoadedMsg{token: token, lead: lead}
	}
}

func addNoteCmd(ctx context.Context, client *api.Client, token, leadID, text string) tea.Cmd {
	return func() tea.Msg {
		lead, err := client.AddNote(ctx, leadID, api.NoteRequest{Text: text})
		if err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadReplacedMsg{token: token, lead: lead}
	}
}

func editNoteCmd(ctx context.Context, client *api.Client, token, leadID, noteID, text string) tea.Cmd {
	return func() tea.Msg {
		lead, err := client.EditNote(ctx, leadID, noteID, api.NoteRequest{Text: text})
		if err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadReplacedMsg{token: token, lead: lead}
	}
}

func deleteNoteCmd(ctx context.Context, client *api.Client, token, leadID, noteID string) tea.Cmd {
	return func() tea.Msg {
		lead, err := client.DeleteNote(ctx, leadID, noteID)
		if err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadReplacedMsg{token: token, lead: lead}
	}
}

func addReminderCmd(ctx context.Context, client *api.Client, token, leadID string, req api.ReminderRequest) tea.Cmd {
	return func() tea.Msg {
		lead, err := client.AddReminder(ctx, leadID, req)
		if err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadReplacedMsg{token: token, lead: lead}
	}
}

func editReminderCmd(ctx context.Context, client *api.Client, token, leadID, reminderID string, req api.ReminderRequest) tea.Cmd {
	return func() tea.Msg {
		lead, err := client.EditReminder(ctx, leadID, reminderID, req)
		if err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadReplacedMsg{token: token, lead: lead}
	}
}

func deleteReminderCmd(ctx context.Context, client *api.Client, token, leadID, reminderID string) tea.Cmd {
	return func() tea.Msg {
		lead, err := client.DeleteReminder(ctx, leadID, reminderID)
		if err != nil {
			return opFailedMsg{token: token, err: err}
		}
		return leadReplacedMsg{token: token, lead: lead}
	}
}

func importCmd(ctx context.Context, pipeline *importer.Pipeline, token, path string) tea.Cmd {
	return func() tea.Msg {
		file, err := os.Open(path)
		if err != nil {
			report := importer.Report{State: importer.Failed, Errors: []string{err.Error()}}
			return importDoneMsg{token: token, report: report}
		}
		defer file.Close()
		return importDoneMsg{token: token, report: pipeline.Run(ctx, file)}
	}
}

func exportCmd(token, path string, leads []api.Lead) tea.Cmd {
	return func() tea.Msg {
		msg := fileWrittenMsg{token: token, kind: "export", path: path, count: len(leads)}
		file, err := os.Create(path)
		if err != nil {
			msg.err = err
			return msg
		}
		defer file.Close()
		msg.err = sheet.WriteLeads(file, leads)
		return msg
	}
}

func templateCmd(token, path string) tea.Cmd {
	return func() tea.Msg {
		msg := fileWrittenMsg{token: token, kind: "template", path: path}
		file, err := os.Create(path)
		if err != nil {
			msg.err = err
			return msg
		}
		defer file.Close()
		msg.err = sheet.WriteTemplate(file)
		return msg
	}
}
