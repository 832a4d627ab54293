package tui

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmercer/camdeck/internal/adb"
	"github.com/cmercer/camdeck/internal/cache"
	"github.com/cmercer/camdeck/internal/catalog"
	"github.com/cmercer/camdeck/internal/config"
	"github.com/cmercer/camdeck/internal/intake"
	"github.com/cmercer/camdeck/internal/review"
	"github.com/cmercer/camdeck/internal/search"
	"github.com/cmercer/camdeck/internal/tui/styles"
)

// screenState identifies which screen has input focus
type screenState int

const (
	stateMenu screenState = iota
	stateReview
	stateReviewJump
	stateReviewFilter
	stateReviewExport
	stateIntakeTag
	stateIntakeConflict
	stateIntakeCapture
	stateIntakeChoice
	stateSaveDir
	stateHelp
)

// menu entries, in display order
const (
	menuConnect = iota
	menuOpenCamera
	menuTakePhoto
	menuLiveView
	menuReview
	menuDownloadAll
	menuIntake
	menuSaveDir
	menuQuit
	menuCount
)

var menuLabels = [menuCount]string{
	"Connect wirelessly",
	"Open camera app",
	"Take photo",
	"Live view",
	"Review phone photos",
	"Download all photos",
	"Process phone",
	"Set save folder",
	"Quit",
}

// Model is the main Bubble Tea model for the application
type Model struct {
	state screenState
	keys  KeyMap

	cfg    *config.Config
	logger *slog.Logger

	// Core services
	session *adb.Session
	catalog *catalog.Catalog
	puller  *cache.Puller
	live    *adb.LiveView
	ledger  *intake.Ledger

	// Menu
	menuCursor int
	recent     []intakeRow

	// Review
	review          *review.Session
	metaLine        string
	exportSelOnly   bool
	reviewTransient bool

	// Intake
	workflow *intake.Workflow

	// Shared chrome
	input   textinput.Model
	spin    spinner.Model
	busy    bool
	status  string
	errText string

	width  int
	height int
}

type intakeRow struct {
	When   string
	Tag    string
	Pulled int
}

// NewModel wires the presentation layer over the core services.
func NewModel(cfg *config.Config, session *adb.Session, cat *catalog.Catalog, puller *cache.Puller, live *adb.LiveView, ledger *intake.Ledger, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	return Model{
		state:   stateMenu,
		keys:    DefaultKeyMap(),
		cfg:     cfg,
		logger:  logger,
		session: session,
		catalog: cat,
		puller:  puller,
		live:    live,
		ledger:  ledger,
		input:   ti,
		spin:    sp,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return recentIntakesCmd(m.ledger, 5)
}

// tempReviewDir is where transient review pulls land; not the final
// destination of any intake.
func (m Model) tempReviewDir() string {
	return filepath.Join(m.cfg.Save.Dir, "temp_view")
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case ErrMsg:
		m.busy = false
		m.errText = msg.Error()
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		return m, nil

	case ConnectedMsg:
		m.busy = false
		m.status = "Connected wirelessly to " + msg.Handle.Address
		m.errText = ""
		return m, nil

	case StatusMsg:
		m.busy = false
		m.status = msg.Text
		return m, nil

	case PhotoTakenMsg:
		m.busy = false
		m.status = "Photo saved to " + msg.LocalPath
		return m, nil

	case ReviewReadyMsg:
		m.busy = false
		if len(msg.Assets) == 0 {
			m.status = "No photos found on the phone"
			return m, nil
		}
		m.review = review.NewSession(msg.Assets, m.catalog, m.logger)
		m.reviewTransient = msg.Transient
		m.state = stateReview
		m.status = ""
		return m, m.currentMetaCmd()

	case DownloadDoneMsg:
		m.busy = false
		m.status = "Downloaded " + strconv.Itoa(msg.Count) + " file(s) to " + msg.Dest
		return m, nil

	case RemoteDeletedMsg:
		m.busy = false
		m.status = deleteStatus(msg.Result)
		if m.review != nil && m.review.Ended() {
			return m.leaveReview()
		}
		return m, m.currentMetaCmd()

	case ExportDoneMsg:
		m.busy = false
		m.status = exportStatus(msg.Result, msg.Dest)
		return m, nil

	case FinalizeDoneMsg:
		m.busy = false
		m.workflow = nil
		m.state = stateMenu
		m.status = msg.Result.Message()
		return m, recentIntakesCmd(m.ledger, 5)

	case RecentIntakesMsg:
		m.recent = m.recent[:0]
		for _, rec := range msg.Records {
			m.recent = append(m.recent, intakeRow{
				When:   rec.CompletedAt.Format("Jan 02 15:04"),
				Tag:    rec.Tag,
				Pulled: rec.PulledCount,
			})
		}
		return m, nil

	case MetaLoadedMsg:
		if cur, ok := m.currentAsset(); ok && cur == msg.Path {
			m.metaLine = msg.Line
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text-entry states route everything into the input first
	switch m.state {
	case stateReviewJump, stateReviewFilter, stateReviewExport, stateIntakeTag, stateSaveDir:
		return m.updateInput(msg)
	}

	if m.busy {
		// A batch is running; only quit is honored
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.state {
	case stateMenu:
		return m.updateMenu(msg)
	case stateReview:
		return m.updateReview(msg)
	case stateIntakeConflict:
		return m.updateConflict(msg)
	case stateIntakeCapture:
		return m.updateCapture(msg)
	case stateIntakeChoice:
		return m.updateChoice(msg)
	case stateHelp:
		m.state = stateMenu
		return m, nil
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.live.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.state = stateHelp
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < menuCount-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		return m.runMenuItem()
	}
	return m, nil
}

func (m Model) runMenuItem() (tea.Model, tea.Cmd) {
	m.errText = ""
	switch m.menuCursor {
	case menuConnect:
		m.busy = true
		m.status = "Connecting (phone must be attached over USB first)..."
		return m, tea.Batch(m.spin.Tick, connectCmd(m.session))
	case menuOpenCamera:
		m.busy = true
		return m, tea.Batch(m.spin.Tick, launchCameraCmd(m.session, m.cfg.Device.CameraPackage))
	case menuTakePhoto:
		m.busy = true
		m.status = "Taking photo..."
		return m, tea.Batch(m.spin.Tick, takePhotoCmd(m.session, m.catalog, m.puller, m.cfg.Save.Dir))
	case menuLiveView:
		if err := m.live.Start(); err != nil {
			m.errText = err.Error()
		} else {
			m.status = "Live view started"
		}
		return m, nil
	case menuReview:
		m.busy = true
		m.status = "Pulling photos from phone..."
		return m, tea.Batch(m.spin.Tick, pullForReviewCmd(m.catalog, m.puller, m.tempReviewDir()))
	case menuDownloadAll:
		m.busy = true
		m.status = "Downloading all photos..."
		return m, tea.Batch(m.spin.Tick, downloadAllCmd(m.catalog, m.puller, m.cfg.Save.Dir))
	case menuIntake:
		m.workflow = intake.NewWorkflow(
			m.catalog, m.puller, m.ledger,
			m.cfg.Save.Dir,
			m.cfg.Cleanup.DeleteAfterSave,
			catalog.Options{
				ClearThumbnails: m.cfg.Cleanup.ClearThumbnails,
				RescanMedia:     m.cfg.Cleanup.RescanMedia,
			},
			m.logger,
		)
		return m.promptInput(stateIntakeTag, "Scan or enter asset tag", "")
	case menuSaveDir:
		return m.promptInput(stateSaveDir, "Save folder path", m.cfg.Save.Dir)
	case menuQuit:
		m.live.Stop()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		return m.leaveReview()
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		m.review.Next()
		return m, m.currentMetaCmd()
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		m.review.Prev()
		return m, m.currentMetaCmd()
	case key.Matches(msg, m.keys.Select):
		m.review.ToggleSelect()
		return m, nil
	case key.Matches(msg, m.keys.DeleteLocal):
		if ended := m.review.DeleteLocalCurrent(); ended {
			m.status = "All photos reviewed"
			return m.leaveReview()
		}
		return m, m.currentMetaCmd()
	case key.Matches(msg, m.keys.DeleteRemote):
		if m.review.SelectedCount() == 0 {
			m.status = "Nothing selected"
			return m, nil
		}
		m.busy = true
		m.status = "Deleting from phone..."
		return m, tea.Batch(m.spin.Tick, deleteRemoteSelectedCmd(m.review))
	case key.Matches(msg, m.keys.Export):
		if m.review.SelectedCount() == 0 {
			m.status = "Nothing selected"
			return m, nil
		}
		m.exportSelOnly = true
		return m.promptInput(stateReviewExport, "Export folder path", "")
	case key.Matches(msg, m.keys.ExportAll):
		m.exportSelOnly = false
		return m.promptInput(stateReviewExport, "Export folder path", "")
	case key.Matches(msg, m.keys.Jump):
		return m.promptInput(stateReviewJump, "Photo number (1-"+strconv.Itoa(m.review.Len())+")", "")
	case key.Matches(msg, m.keys.Filter):
		return m.promptInput(stateReviewFilter, "Jump to name", "")
	}
	return m, nil
}

func (m Model) updateConflict(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a": // append to existing folder
		m.workflow.ResolveConflict(intake.ConflictAppend)
		m.state = stateIntakeCapture
	case "t": // try a different tag
		m.workflow.ResolveConflict(intake.ConflictRetry)
		return m.promptInput(stateIntakeTag, "Scan or enter asset tag", "")
	case "esc", "q": // abort the workflow
		m.workflow.ResolveConflict(intake.ConflictAbort)
		m.workflow = nil
		m.state = stateMenu
		m.status = "Intake cancelled"
	}
	return m, nil
}

func (m Model) updateCapture(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.workflow = nil
		m.state = stateMenu
		m.status = "Intake cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.workflow.CaptureAcknowledged()
		m.state = stateIntakeChoice
		return m, nil
	}
	return m, nil
}

func (m Model) updateChoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f": // finish: pull into destination, then clear phone
		m.workflow.Choose(intake.LoopFinish)
		m.busy = true
		m.status = "Saving photos from phone..."
		return m, tea.Batch(m.spin.Tick, finalizeCmd(m.workflow))
	case "v": // view what's on the phone right now
		m.workflow.Choose(intake.LoopView)
		m.busy = true
		m.status = "Pulling photos for review..."
		return m, tea.Batch(m.spin.Tick, intakeReviewCmd(m.workflow, m.tempReviewDir()))
	case "m": // take more photos
		m.workflow.Choose(intake.LoopMore)
		m.state = stateIntakeCapture
		return m, nil
	case "esc", "q":
		m.workflow = nil
		m.state = stateMenu
		m.status = "Intake cancelled"
		return m, nil
	}
	return m, nil
}

// updateInput handles every text-entry state
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.cancelInput()
	case "enter":
		return m.submitInput()
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) cancelInput() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateIntakeTag:
		// Cancelled tag input aborts the whole workflow
		m.workflow.SubmitTag("")
		m.workflow = nil
		m.state = stateMenu
		m.status = "Intake cancelled"
	case stateSaveDir:
		m.state = stateMenu
	default:
		m.state = stateReview
	}
	m.input.Blur()
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	m.input.Blur()

	switch m.state {
	case stateReviewJump:
		m.state = stateReview
		if n, err := strconv.Atoi(value); err == nil {
			m.review.JumpTo(n) // out-of-range input is a silent no-op
		}
		return m, m.currentMetaCmd()

	case stateReviewFilter:
		m.state = stateReview
		names := make([]string, 0, m.review.Len())
		for i := 0; i < m.review.Len(); i++ {
			asset, _ := m.review.Asset(i)
			names = append(names, asset.RemoteName)
		}
		if idx, ok := search.BestMatch(value, names); ok {
			m.review.JumpTo(idx + 1)
		} else if len(search.FilterNames(value, names)) == 0 {
			m.status = "No matching photo"
		}
		return m, m.currentMetaCmd()

	case stateReviewExport:
		m.state = stateReview
		if value == "" {
			return m, nil
		}
		m.busy = true
		m.status = "Exporting..."
		return m, tea.Batch(m.spin.Tick, exportCmd(m.review, value, m.exportSelOnly))

	case stateIntakeTag:
		stage := m.workflow.SubmitTag(value)
		switch stage {
		case intake.StageResolveConflict:
			m.state = stateIntakeConflict
		case intake.StageAwaitCapture:
			m.state = stateIntakeCapture
		default: // aborted on empty input
			m.workflow = nil
			m.state = stateMenu
			m.status = "Intake cancelled"
		}
		return m, nil

	case stateSaveDir:
		m.state = stateMenu
		if value == "" {
			return m, nil
		}
		if err := config.SetSaveDir(m.cfg, value); err != nil {
			m.errText = err.Error()
		} else {
			m.status = "Save folder set to " + value
		}
		return m, nil
	}

	m.state = stateMenu
	return m, nil
}

// leaveReview closes the review screen. A transient pull belongs to a
// mid-flight intake, so it returns to the choice point instead of the
// menu.
func (m Model) leaveReview() (tea.Model, tea.Cmd) {
	m.review = nil
	m.metaLine = ""
	if m.reviewTransient {
		m.reviewTransient = false
		m.state = stateIntakeChoice
	} else {
		m.state = stateMenu
	}
	return m, nil
}

func (m Model) promptInput(next screenState, placeholder, value string) (tea.Model, tea.Cmd) {
	m.state = next
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) currentAsset() (string, bool) {
	if m.review == nil {
		return "", false
	}
	asset, ok := m.review.Current()
	if !ok {
		return "", false
	}
	return asset.LocalPath, true
}

func (m Model) currentMetaCmd() tea.Cmd {
	path, ok := m.currentAsset()
	if !ok {
		return nil
	}
	return loadMetaCmd(path)
}

func deleteStatus(result review.RemoteDeleteResult) string {
	s := "Deleted " + strconv.Itoa(result.Removed) + " photo(s) from phone"
	if len(result.Errors) > 0 {
		s += "; " + strconv.Itoa(len(result.Errors)) + " failed"
	}
	return s
}

func exportStatus(result review.ExportResult, dest string) string {
	s := "Exported " + strconv.Itoa(result.Exported) + " file(s) to " + dest
	if result.Skipped > 0 {
		s += " (" + strconv.Itoa(result.Skipped) + " already there)"
	}
	if len(result.Errors) > 0 {
		s += "; " + strconv.Itoa(len(result.Errors)) + " failed"
	}
	return s
}
