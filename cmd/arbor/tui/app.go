package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/jamesainslie/arbor/pkg/arbor/edit"
	"github.com/jamesainslie/arbor/pkg/arbor/journal"
	"github.com/jamesainslie/arbor/pkg/arbor/logging"
	"github.com/jamesainslie/arbor/pkg/arbor/session"
	"github.com/jamesainslie/arbor/pkg/arbor/store"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeRename
	ModeMoveInto
	ModeSearch
	ModeImport
)

// logPanelHeight is the number of lines the open log panel takes.
const logPanelHeight = 8

// Options configures the TUI.
type Options struct {
	Session *session.Session
	// Journal, when set, feeds the "last edit" header entry.
	Journal *journal.Journal
}

// Model is the Bubble Tea model of the tree editor. Every edit goes through
// the session; the model only keeps view state.
type Model struct {
	sess    *session.Session
	journal *journal.Journal

	keys     keyMap
	help     help.Model
	showHelp bool
	tree     *TreeView
	logs     *LogViewerState
	input    textinput.Model

	mode        Mode
	renamePath  string
	searchSaved string
	marked      string

	status    string
	statusErr bool

	width  int
	height int
}

// NewModel returns a model over opts.Session.
func NewModel(opts Options) Model {
	in := textinput.New()
	in.Prompt = "› "

	m := Model{
		sess:    opts.Session,
		journal: opts.Journal,
		keys:    defaultKeyMap(),
		help:    help.New(),
		tree:    NewTreeView(),
		logs:    NewLogViewerState(logging.Ring()),
		input:   in,
		width:   80,
		height:  24,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Mode returns the current input mode.
func (m Model) Mode() Mode { return m.mode }

// Status returns the last status line and whether it reports an error.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

// Marked returns the picked-up path.
func (m Model) Marked() string { return m.marked }

// Cursor returns the path under the cursor.
func (m Model) Cursor() string { return m.tree.CurrentPath() }

func (m *Model) refresh() {
	m.tree.SetRows(m.sess.Rows())
}

// report shows the outcome of a gesture and reloads the rows.
func (m *Model) report(err error, ok string) {
	m.refresh()
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return
	}
	m.status, m.statusErr = ok, false
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-20, 10)
		return m, nil
	case tea.KeyMsg:
		if m.mode != ModeBrowse {
			return m.handlePrompt(msg)
		}
		return m.handleBrowse(msg)
	}
	return m, nil
}

func (m Model) handleBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	if m.logs.Open {
		switch msg.String() {
		case "1", "2", "3", "4":
			levels := []log.Level{log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel}
			m.logs.SetFilterLevel(levels[msg.String()[0]-'1'])
			return m, nil
		}
	}

	row, hasRow := m.tree.Current()
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, k.Logs):
		m.logs.Toggle()
	case key.Matches(msg, k.Cancel):
		m.marked = ""
		m.status = ""

	case key.Matches(msg, k.Up):
		m.tree.Move(-1)
	case key.Matches(msg, k.Down):
		m.tree.Move(1)
	case key.Matches(msg, k.PageUp):
		m.tree.Move(-m.treeHeight())
	case key.Matches(msg, k.PageDown):
		m.tree.Move(m.treeHeight())
	case key.Matches(msg, k.Top):
		m.tree.Top()
	case key.Matches(msg, k.Bottom):
		m.tree.Bottom()

	case key.Matches(msg, k.Import):
		m.openPrompt(ModeImport, m.savedInput())
	case key.Matches(msg, k.Search):
		m.searchSaved = m.sess.Snapshot().Search
		m.openPrompt(ModeSearch, m.searchSaved)
	case key.Matches(msg, k.Delete):
		n := len(m.sess.Snapshot().Selection)
		before := tree.Count(m.sess.Tree())
		err := m.sess.BatchDeleteRequested()
		m.report(err, deletedMessage(n, before-tree.Count(m.sess.Tree())))
	case key.Matches(msg, k.MoveInto):
		if len(m.sess.Snapshot().Selection) == 0 {
			m.report(nil, "Nothing selected")
			break
		}
		m.openPrompt(ModeMoveInto, row.Path)
	case key.Matches(msg, k.Expand):
		m.report(m.sess.BatchExpandCollapseRequested(true), "Expanded selection")
	case key.Matches(msg, k.Collapse):
		m.report(m.sess.BatchExpandCollapseRequested(false), "Collapsed selection")
	}

	if !hasRow {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Select):
		m.report(m.sess.NodeClicked(row.Path, false), "Selected "+row.Path)
	case key.Matches(msg, k.AddSelect):
		m.report(m.sess.NodeClicked(row.Path, true), "")
	case key.Matches(msg, k.Toggle):
		m.report(m.sess.NodeToggled(row.Path), "")
	case key.Matches(msg, k.Rename):
		m.renamePath = row.Path
		m.openPrompt(ModeRename, row.Node.Name)
	case key.Matches(msg, k.Mark):
		if m.marked == row.Path {
			m.marked = ""
			m.report(nil, "Dropped pick")
		} else {
			m.marked = row.Path
			m.report(nil, "Picked "+row.Path+": p drops it under another node, s swaps")
		}
	case key.Matches(msg, k.Drop):
		m.dropOn(row.Path)
	case key.Matches(msg, k.Swap):
		m.swapWith(row.Path)
	}
	return m, nil
}

func (m *Model) dropOn(target string) {
	if m.marked == "" {
		m.report(nil, "Pick a node with x first")
		return
	}
	src := m.marked
	err := m.sess.NodeDragDropped(src, target)
	if err == nil {
		m.marked = ""
	}
	m.report(err, fmt.Sprintf("Moved %s into %s", treepath.Base(src), target))
	if err == nil {
		m.tree.Focus(treepath.Child(target, treepath.Base(src)))
	}
}

func (m *Model) swapWith(other string) {
	if m.marked == "" {
		m.report(nil, "Pick a node with x first")
		return
	}
	src := m.marked
	err := m.sess.NodesSwapped(src, other)
	if err == nil {
		m.marked = ""
	}
	m.report(err, fmt.Sprintf("Swapped %s and %s", treepath.Base(src), treepath.Base(other)))
}

func deletedMessage(selected, removed int) string {
	if selected == 0 {
		return "Nothing selected"
	}
	return fmt.Sprintf("Deleted %d node(s)", removed)
}

// savedInput is the last text entered for the current input mode.
func (m Model) savedInput() string {
	snap := m.sess.Snapshot()
	if snap.InputType == store.InputPath {
		return snap.PathInput
	}
	return snap.JSONInput
}

func (m *Model) openPrompt(mode Mode, value string) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	m.status = ""
}

func (m *Model) closePrompt() {
	m.mode = ModeBrowse
	m.input.Blur()
	m.renamePath = ""
}

func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.mode == ModeSearch {
			m.report(m.sess.SearchChanged(m.searchSaved), "")
		}
		m.closePrompt()
		return m, nil
	case "ctrl+t":
		if m.mode == ModeImport {
			next := store.InputPath
			if m.sess.Snapshot().InputType == store.InputPath {
				next = store.InputJSON
			}
			if err := m.sess.InputModeChanged(next); err != nil {
				m.report(err, "")
				return m, nil
			}
			m.input.SetValue(m.savedInput())
			m.input.CursorEnd()
			return m, nil
		}
	case "enter":
		return m.submitPrompt()
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.mode == ModeSearch && m.input.Value() != before {
		m.report(m.sess.SearchChanged(m.input.Value()), "")
		if p, ok := m.sess.Snapshot().Selection.Primary(); ok {
			m.tree.Focus(p)
		}
	}
	return m, cmd
}

func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	switch m.mode {
	case ModeRename:
		path := m.renamePath
		if err := m.sess.RenameSubmitted(path, value); err != nil {
			// Keep the prompt open so the name can be fixed.
			m.status, m.statusErr = err.Error(), true
			return m, nil
		}
		m.closePrompt()
		m.report(nil, "Renamed to "+strings.TrimSpace(value))
		m.tree.Focus(edit.RenamedPath(path, value))

	case ModeMoveInto:
		m.closePrompt()
		n := len(m.sess.Snapshot().Selection)
		m.report(m.sess.BatchMoveRequested(value), fmt.Sprintf("Moved %d node(s) into %s", n, strings.TrimSpace(value)))

	case ModeSearch:
		m.closePrompt()
		m.report(nil, "")

	case ModeImport:
		mode := m.sess.Snapshot().InputType
		err := m.sess.TreeImportSubmitted(mode, value)
		if err != nil {
			m.status, m.statusErr = err.Error(), true
			m.refresh()
			return m, nil
		}
		m.closePrompt()
		m.report(nil, fmt.Sprintf("Imported %d nodes from %s", tree.Count(m.sess.Tree()), mode))
		m.tree.Top()
	}
	return m, nil
}

func (m Model) treeHeight() int {
	h := m.height - 6
	if m.logs.Open {
		h -= logPanelHeight
	}
	if m.showHelp {
		h -= 5
	}
	return max(h, 1)
}

// View implements tea.Model.
func (m Model) View() string {
	contentWidth := max(m.width-4, 20)
	snap := m.sess.Snapshot()

	stats := headerStats{
		Nodes:    tree.Count(m.sess.Tree()),
		Visible:  m.tree.Len(),
		Selected: len(snap.Selection),
		Search:   snap.Search,
	}
	if m.journal != nil {
		if recs, err := m.journal.List(1); err == nil && len(recs) > 0 {
			stats.LastEdit, stats.EditedAt = string(recs[0].Op), recs[0].Time
		}
	}

	var b strings.Builder
	b.WriteString(renderAppHeader(stats))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.tree.View(contentWidth, m.treeHeight(), m.sess.Highlight, m.marked))

	if m.logs.Open {
		b.WriteString(m.logs.View(contentWidth, logPanelHeight))
	}

	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.footer(contentWidth))
	return outerBoxStyle.Width(max(m.width-2, 22)).Render(b.String())
}

func (m Model) footer(width int) string {
	var b strings.Builder
	if m.mode != ModeBrowse {
		labels := map[Mode]string{
			ModeRename:   "Rename",
			ModeMoveInto: "Move selected into",
			ModeSearch:   "Search",
			ModeImport:   "Import " + m.sess.Snapshot().InputType + " (ctrl+t switches)",
		}
		b.WriteString(promptLabelStyle.Render(labels[m.mode]))
		b.WriteString(" ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		style := successTextStyle
		if m.statusErr {
			style = errorTextStyle
		}
		b.WriteString(style.Render(clip(m.status, width)))
		b.WriteString("\n")
	} else if m.marked != "" {
		b.WriteString(warningTextStyle.Render("Picked " + shortPath(m.marked, width-7)))
		b.WriteString("\n")
	}
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

// Run starts the TUI and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
