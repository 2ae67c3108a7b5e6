package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"foldsort/internal/journal"
	"foldsort/internal/renumber"
	"foldsort/internal/scan"
	"foldsort/internal/state"
	"foldsort/internal/sysopen"
	"foldsort/internal/watch"
)

type mode int

const (
	modeList mode = iota
	modeNotes
	modeRename
	modeNewFolder
	modeConfirmDelete
)

type statusKind int

const (
	statusPlain statusKind = iota
	statusGood
	statusBad
)

type (
	pollTickMsg  struct{}
	fsChangedMsg struct{}
)

const pollInterval = 2 * time.Second

type appModel struct {
	dir       string
	st        *state.State
	statePath string
	jnl       *journal.Journal
	watcher   *watch.Watcher

	keys keyMap
	list list.Model

	// entries holds the desired order, which may differ from the on-disk
	// listing while a reorder is pending.
	entries   []renumber.Entry
	diskNames []string

	mode         mode
	input        textinput.Model
	renameFrom   string
	deleteTarget string
	notes        notesModel

	applying bool

	status     string
	statusKind statusKind

	width, height int
}

func newAppModel(opts Options) (appModel, error) {
	m := appModel{
		dir:       opts.Dir,
		st:        opts.State,
		statePath: opts.StatePath,
		keys:      defaultKeyMap(),
		notes:     newNotesModel(opts.State.Notes),
	}

	l := list.New(nil, newFolderDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	m.list = l

	m.input = textinput.New()
	m.input.CharLimit = 255

	if err := m.reload(false); err != nil {
		return appModel{}, err
	}

	// Remember the directory for next launch.
	m.st.LastPath = m.dir
	m.saveState()

	// Watcher and journal are conveniences; run without them if they fail.
	if w, err := watch.New(m.dir, 0); err == nil {
		m.watcher = w
	} else {
		m.setStatus(fmt.Sprintf("watch disabled: %v", err), statusPlain)
	}
	if j, err := journal.Open(context.Background(), journal.Path(m.statePath)); err == nil {
		m.jnl = j
	} else {
		m.setStatus(fmt.Sprintf("journal disabled: %v", err), statusPlain)
	}

	return m, nil
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(pollTick(), m.waitForChange())
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollTickMsg{} })
}

func (m appModel) waitForChange() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return fsChangedMsg{}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case pollTickMsg:
		if m.mode == modeList && m.diskChanged() {
			_ = m.reload(true)
		}
		return m, pollTick()

	case fsChangedMsg:
		if m.mode == modeList {
			_ = m.reload(true)
		}
		return m, m.waitForChange()

	case tea.KeyMsg:
		switch m.mode {
		case modeNotes:
			return m.updateNotes(msg)
		case modeRename, modeNewFolder:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.MoveUp):
		m.moveSelected(-1)
		return m, nil

	case key.Matches(msg, m.keys.MoveDown):
		m.moveSelected(1)
		return m, nil

	case key.Matches(msg, m.keys.Reserve):
		m.toggleReserved()
		return m, nil

	case key.Matches(msg, m.keys.Apply):
		m.applyNow(journal.KindRenumber)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.applyNow(journal.KindClear)
		return m, nil

	case key.Matches(msg, m.keys.AutoApply):
		m.st.AutoApply = !m.st.AutoApply
		m.saveState()
		if m.st.AutoApply {
			m.setStatus("auto-apply on: reorders rename immediately", statusGood)
			m.applyNow(journal.KindRenumber)
		} else {
			m.setStatus("auto-apply off: press enter to apply", statusPlain)
		}
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		m.undoNow()
		return m, nil

	case key.Matches(msg, m.keys.NewFolder):
		m.mode = modeNewFolder
		m.input.SetValue("")
		m.input.Placeholder = "folder name"
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Rename):
		if fi, ok := m.selected(); ok {
			m.mode = modeRename
			m.renameFrom = fi.entry.CurrentName
			m.input.SetValue(fi.entry.CurrentName)
			m.input.CursorEnd()
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if fi, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
			m.deleteTarget = fi.entry.CurrentName
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if fi, ok := m.selected(); ok {
			if err := sysopen.Open(filepath.Join(m.dir, fi.entry.CurrentName)); err != nil {
				m.setStatus(err.Error(), statusBad)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Notes):
		m.mode = modeNotes
		return m, m.notes.focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		if name == "" {
			m.mode = modeList
			return m, nil
		}
		switch m.mode {
		case modeNewFolder:
			created, err := scan.CreateFolder(m.dir, name)
			if err != nil {
				m.setStatus(err.Error(), statusBad)
			} else {
				m.setStatus(fmt.Sprintf("created %q", created), statusGood)
			}
		case modeRename:
			if err := scan.RenameFolder(m.dir, m.renameFrom, name); err != nil {
				m.setStatus(err.Error(), statusBad)
			} else if name != m.renameFrom {
				m.setStatus(fmt.Sprintf("renamed %q to %q", m.renameFrom, name), statusGood)
			}
		}
		m.mode = modeList
		_ = m.reload(false)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := scan.DeleteFolder(m.dir, m.deleteTarget); err != nil {
			m.setStatus(err.Error(), statusBad)
		} else {
			m.setStatus(fmt.Sprintf("deleted %q", m.deleteTarget), statusGood)
		}
		m.mode = modeList
		m.deleteTarget = ""
		_ = m.reload(false)
		return m, nil
	case "n", "N", "esc":
		m.mode = modeList
		m.deleteTarget = ""
		return m, nil
	}
	return m, nil
}

func (m appModel) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, cmd := m.notes.update(msg)
	if done {
		m.mode = modeList
		if m.notes.text() != m.st.Notes {
			m.st.Notes = m.notes.text()
			m.saveState()
			m.setStatus("notes saved", statusGood)
		}
		return m, nil
	}
	return m, cmd
}

// moveSelected shifts the selected folder one slot and renumbers positions.
func (m *appModel) moveSelected(delta int) {
	idx := m.list.Index()
	to := idx + delta
	if idx < 0 || to < 0 || to >= len(m.entries) {
		return
	}
	m.entries[idx], m.entries[to] = m.entries[to], m.entries[idx]
	for i := range m.entries {
		m.entries[i].Position = i
	}
	m.syncList()
	m.list.Select(to)
	if m.st.AutoApply {
		m.applyNow(journal.KindRenumber)
	}
}

func (m *appModel) toggleReserved() {
	fi, ok := m.selected()
	if !ok {
		return
	}
	on := !fi.entry.Reserved
	m.st.SetReserved(m.dir, fi.entry.BaseName, on)
	m.saveState()
	reserved := m.st.ReservedFor(m.dir)
	for i := range m.entries {
		m.entries[i].Reserved = reserved[m.entries[i].BaseName]
	}
	m.syncList()
	if on {
		m.setStatus(fmt.Sprintf("%q reserved: kept out of renumbering", fi.entry.CurrentName), statusPlain)
	} else {
		m.setStatus(fmt.Sprintf("%q back in the sequence", fi.entry.CurrentName), statusPlain)
	}
}

// applyNow computes and applies the plan for the current order. Applies are
// serialized: the engine is not reentrant-safe, so a second request while
// one runs is refused.
func (m *appModel) applyNow(kind string) {
	if m.applying {
		m.setStatus("an apply is already running", statusBad)
		return
	}
	var plan renumber.Plan
	if kind == journal.KindClear {
		plan = renumber.ClearPlan(m.entries)
	} else {
		plan = renumber.ComputePlan(m.entries)
	}
	if !plan.Changed() {
		m.setStatus("already consistent; nothing to rename", statusPlain)
		return
	}

	m.applying = true
	res := renumber.NewApplier(m.dir).Apply(plan)
	m.applying = false

	m.recordJournal(kind, res)
	_ = m.reload(false)
	m.reportResult(res)
}

func (m *appModel) undoNow() {
	if m.jnl == nil {
		m.setStatus("journal unavailable; undo disabled", statusBad)
		return
	}
	if m.applying {
		m.setStatus("an apply is already running", statusBad)
		return
	}
	last, err := m.jnl.LastUndoable(context.Background(), m.dir)
	if err != nil {
		m.setStatus(err.Error(), statusBad)
		return
	}
	if last == nil {
		m.setStatus("nothing to undo", statusPlain)
		return
	}

	m.applying = true
	res := renumber.NewApplier(m.dir).Apply(journal.UndoPlan(last))
	m.applying = false

	m.recordJournal(journal.KindUndo, res)
	_ = m.reload(false)
	m.reportResult(res)
}

// reportResult distinguishes full success from partial success; the two
// must never look alike.
func (m *appModel) reportResult(res renumber.Result) {
	if !res.Partial() {
		m.setStatus(fmt.Sprintf("renamed %d folder(s)", res.Renamed), statusGood)
		return
	}
	parts := make([]string, 0, res.Failed)
	for _, e := range res.FailedEntries() {
		parts = append(parts, fmt.Sprintf("%s: %s", e.From, e.Reason))
	}
	m.setStatus(fmt.Sprintf("partial: %d renamed, %d failed (%s)", res.Renamed, res.Failed, strings.Join(parts, ", ")), statusBad)
}

func (m *appModel) recordJournal(kind string, res renumber.Result) {
	if m.jnl == nil {
		return
	}
	if _, err := m.jnl.Record(context.Background(), kind, res); err != nil {
		m.setStatus(fmt.Sprintf("journal write failed: %v", err), statusBad)
	}
}

// reload re-lists the directory. With keepOrder, a pending user order
// survives as long as the on-disk name set is unchanged; any external
// change resets to the listing.
func (m *appModel) reload(keepOrder bool) error {
	entries, err := scan.List(m.dir, m.st.ReservedFor(m.dir))
	if err != nil {
		m.setStatus(err.Error(), statusBad)
		return err
	}
	if keepOrder && sameNameSet(m.entries, entries) {
		reserved := m.st.ReservedFor(m.dir)
		for i := range m.entries {
			m.entries[i].Reserved = reserved[m.entries[i].BaseName]
		}
	} else {
		m.entries = entries
	}
	m.diskNames = scan.Names(entries)
	m.syncList()
	return nil
}

func (m *appModel) diskChanged() bool {
	entries, err := scan.List(m.dir, m.st.ReservedFor(m.dir))
	if err != nil {
		return false
	}
	current := scan.Names(entries)
	if len(current) != len(m.diskNames) {
		return true
	}
	for i := range current {
		if current[i] != m.diskNames[i] {
			return true
		}
	}
	return false
}

func (m *appModel) syncList() {
	idx := m.list.Index()
	plan := renumber.ComputePlan(m.entries)
	m.list.SetItems(folderItems(m.entries, plan))
	if idx >= len(m.entries) {
		idx = len(m.entries) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m appModel) selected() (folderItem, bool) {
	it := m.list.SelectedItem()
	if it == nil {
		return folderItem{}, false
	}
	fi, ok := it.(folderItem)
	return fi, ok
}

func (m *appModel) setStatus(s string, kind statusKind) {
	m.status = s
	m.statusKind = kind
}

func (m *appModel) saveState() {
	if err := state.Save(m.statePath, m.st); err != nil {
		m.setStatus(fmt.Sprintf("save state failed: %v", err), statusBad)
	}
}

func (m appModel) quit() tea.Cmd {
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	if m.jnl != nil {
		_ = m.jnl.Close()
	}
	m.saveState()
	return tea.Quit
}

func (m *appModel) resize() {
	headerH := 2
	footerH := 2
	h := m.height - headerH - footerH
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width, h)
	m.notes.resize(m.width, h)
}

func (m appModel) View() string {
	header := m.viewHeader()
	var body string
	switch m.mode {
	case modeNotes:
		body = m.notes.view()
	case modeRename:
		body = m.viewPrompt(fmt.Sprintf("Rename %q to:", m.renameFrom))
	case modeNewFolder:
		body = m.viewPrompt("New folder name:")
	case modeConfirmDelete:
		body = fmt.Sprintf("\n  Delete %q and everything inside it? (y/n)\n", m.deleteTarget)
	default:
		body = m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.viewFooter())
}

func (m appModel) viewHeader() string {
	mode := "manual"
	if m.st.AutoApply {
		mode = "auto-apply"
	}
	title := titleStyle.Render("foldsort")
	crumb := breadcrumb.Render(fmt.Sprintf("%s · %s", m.dir, mode))
	return title + "  " + crumb + "\n"
}

func (m appModel) viewPrompt(prompt string) string {
	return "\n  " + prompt + "\n  " + m.input.View() + "\n"
}

func (m appModel) viewFooter() string {
	status := m.status
	switch m.statusKind {
	case statusGood:
		status = statusOK.Render(status)
	case statusBad:
		status = statusError.Render(status)
	default:
		status = statusStyle.Render(status)
	}

	if m.mode == modeNotes {
		return status + "\n" + helpStyle.Render("esc save+close · ctrl+p preview")
	}
	hints := make([]string, 0, 8)
	for _, b := range m.keys.shortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	return status + "\n" + faintIfDark(helpStyle).Render(strings.Join(hints, " · "))
}

func sameNameSet(a, b []renumber.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, e := range a {
		set[e.CurrentName] = true
	}
	for _, e := range b {
		if !set[e.CurrentName] {
			return false
		}
	}
	return true
}
