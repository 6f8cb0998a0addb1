package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/filtering"
	"github.com/spigell/resudoc/internal/history"
	"github.com/spigell/resudoc/internal/resudoc"
)

type sidebarLoadedMsg struct {
	folders *resudoc.Folders
	total   int
	err     error
}

type resumesLoadedMsg struct {
	tag     string
	name    string
	resumes *resudoc.Resumes
	err     error
}

type deletedMsg struct {
	resume *resudoc.Resume
	err    error
}

type uploadedMsg struct {
	result *resudoc.BatchUpload
	err    error
}

type matchedMsg struct {
	request *resudoc.MatchRequest
	results *resudoc.MatchResults
	err     error
}

// loadSidebar fetches the folders and the overall résumé count.
func (m Model) loadSidebar() tea.Cmd {
	ctx, api, userID := m.ctx, m.api, m.userID

	return func() tea.Msg {
		folders, err := api.Folders(ctx, userID)
		if err != nil {
			return sidebarLoadedMsg{err: err}
		}

		resumes, err := api.Resumes(ctx, userID)
		if err != nil {
			return sidebarLoadedMsg{err: err}
		}

		return sidebarLoadedMsg{folders: folders, total: resumes.Total}
	}
}

// loadResumes fetches every résumé and narrows the list on the client.
func (m Model) loadResumes(tag, name string) tea.Cmd {
	ctx, api, userID, logger := m.ctx, m.api, m.userID, m.logger

	return func() tea.Msg {
		all, err := api.Resumes(ctx, userID)
		if err != nil {
			return resumesLoadedMsg{tag: tag, name: name, err: err}
		}

		cfg := &filtering.Config{Tag: tag, Filename: name}
		list, err := filtering.Run(ctx, cfg, filtering.Deps{Logger: logger}, filtering.Default(), all)
		return resumesLoadedMsg{tag: tag, name: name, resumes: list, err: err}
	}
}

func (m Model) deleteResume(resume *resudoc.Resume) tea.Cmd {
	ctx, api := m.ctx, m.api

	return func() tea.Msg {
		return deletedMsg{resume: resume, err: api.DeleteResume(ctx, resume.ID)}
	}
}

func (m Model) upload(req *resudoc.UploadRequest) tea.Cmd {
	ctx, api := m.ctx, m.api

	return func() tea.Msg {
		result, err := api.UploadBatch(ctx, req)
		return uploadedMsg{result: result, err: err}
	}
}

func (m Model) match(req *resudoc.MatchRequest) tea.Cmd {
	ctx, api, recorder, logger := m.ctx, m.api, m.history, m.logger

	return func() tea.Msg {
		results, err := api.Match(ctx, req)
		if err != nil {
			return matchedMsg{request: req, err: err}
		}

		if recorder != nil {
			run := &history.Run{UserID: req.UserID, JDText: req.JDText, K: req.K, Tags: req.Tags, Results: results}
			if _, err := recorder.Record(ctx, run); err != nil {
				logger.Warn("recording match run failed", zap.Error(err))
			}
		}

		return matchedMsg{request: req, results: results}
	}
}
