package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/history"
	"github.com/spigell/resudoc/internal/render"
	"github.com/spigell/resudoc/internal/resudoc"
	"github.com/spigell/resudoc/internal/selection"
)

// API is the part of the resudoc client the browser needs.
type API interface {
	Folders(ctx context.Context, userID string) (*resudoc.Folders, error)
	Resumes(ctx context.Context, userID string) (*resudoc.Resumes, error)
	DeleteResume(ctx context.Context, resumeID string) error
	UploadBatch(ctx context.Context, r *resudoc.UploadRequest) (*resudoc.BatchUpload, error)
	Match(ctx context.Context, r *resudoc.MatchRequest) (*resudoc.MatchResults, error)
}

// Recorder stores finished match runs.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) (int64, error)
}

type View int

const (
	ViewBrowse View = iota
	ViewUpload
	ViewMatch
	ViewResults
	ViewConfirmDelete
	ViewHelp
)

type pane int

const (
	paneSidebar pane = iota
	paneList
)

const (
	uploadFocusPath = iota
	uploadFocusTags
	uploadFocusFiles
	uploadFocusCount
)

const (
	matchFocusJD = iota
	matchFocusTags
)

var topKChoices = []int{3, 5, 10, 20}

type Options struct {
	UserID  string
	TopK    int
	History Recorder
	Logger  *zap.Logger
}

type Model struct {
	ctx     context.Context
	api     API
	history Recorder
	logger  *zap.Logger
	userID  string

	view          View
	previous      View
	width, height int

	folders       *resudoc.Folders
	total         int
	resumes       *resudoc.Resumes
	tag           string
	nameFilter    string
	focus         pane
	sidebarCursor int
	listCursor    int
	searching     bool
	search        textinput.Model

	files       selection.Files
	fileCursor  int
	uploadFocus int
	pathInput   textinput.Model
	tagInput    textinput.Model

	jd         textarea.Model
	tags       *selection.Tags
	tagCursor  int
	topK       int
	matchFocus int

	results  *resudoc.MatchResults
	viewport viewport.Model

	pendingDelete *resudoc.Resume

	spinner spinner.Model
	pending int
	alerts  []render.Alert
}

func New(ctx context.Context, api API, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TopK <= 0 {
		opts.TopK = resudoc.DefaultTopK
	}

	search := textinput.New()
	search.Prompt = "🔎 "
	search.Placeholder = "filename contains..."

	pathInput := textinput.New()
	pathInput.Prompt = "> "
	pathInput.Placeholder = "path to a PDF or a folder of PDFs"

	tagInput := textinput.New()
	tagInput.Prompt = "> "
	tagInput.Placeholder = "e.g. Software Engineering, Senior"

	jd := textarea.New()
	jd.Placeholder = "Paste the job description here..."
	jd.ShowLineNumbers = false
	jd.CharLimit = 0
	jd.MaxHeight = 0
	jd.SetWidth(72)
	jd.SetHeight(10)

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = render.HeadingStyle

	return Model{
		ctx:       ctx,
		api:       api,
		history:   opts.History,
		logger:    opts.Logger,
		userID:    opts.UserID,
		folders:   &resudoc.Folders{Items: []*resudoc.Folder{}},
		resumes:   &resudoc.Resumes{Items: []*resudoc.Resume{}},
		search:    search,
		pathInput: pathInput,
		tagInput:  tagInput,
		jd:        jd,
		tags:      selection.NewTags(nil),
		topK:      opts.TopK,
		viewport:  viewport.New(80, 20),
		spinner:   s,
		// Init issues the folder and résumé requests.
		pending:   2,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadSidebar(), m.loadResumes(m.tag, m.nameFilter))
}

// Run starts the browser on the terminal and blocks until it exits.
func Run(ctx context.Context, api API, opts Options) error {
	_, err := tea.NewProgram(New(ctx, api, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sidebarLoadedMsg:
		return m.onSidebarLoaded(msg)
	case resumesLoadedMsg:
		return m.onResumesLoaded(msg)
	case deletedMsg:
		return m.onDeleted(msg)
	case uploadedMsg:
		return m.onUploaded(msg)
	case matchedMsg:
		return m.onMatched(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Input is held while a request is in flight.
		if m.pending > 0 {
			return m, nil
		}

		switch m.view {
		case ViewBrowse:
			return m.updateBrowse(msg)
		case ViewUpload:
			return m.updateUpload(msg)
		case ViewMatch:
			return m.updateMatch(msg)
		case ViewResults:
			return m.updateResults(msg)
		case ViewConfirmDelete:
			return m.updateConfirmDelete(msg)
		case ViewHelp:
			return m.updateHelp(msg)
		}
	}

	return m, nil
}

// CurrentView reports which screen is shown.
func (m Model) CurrentView() View {
	return m.view
}

// Alerts returns the messages shown in the status line.
func (m Model) Alerts() []render.Alert {
	return m.alerts
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.viewport.Width = max(width-4, 20)
	m.viewport.Height = max(height-8, 5)
	m.jd.SetWidth(max(min(width-6, 100), 20))
}

// begin counts the given requests as pending and starts the spinner when idle.
func (m *Model) begin(cmds ...tea.Cmd) tea.Cmd {
	idle := m.pending == 0
	m.pending += len(cmds)
	if idle {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) finish() {
	if m.pending > 0 {
		m.pending--
	}
}

func (m *Model) alert(alerts ...render.Alert) {
	m.alerts = slices.Clone(alerts)
}

// reload refreshes the folder counts and the list shown in the browser.
func (m *Model) reload() tea.Cmd {
	return m.begin(m.loadSidebar(), m.loadResumes(m.tag, m.nameFilter))
}
