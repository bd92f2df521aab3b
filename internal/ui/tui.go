// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todotxt-go/internal/config"
	"github.com/nibzard/todotxt-go/internal/scan"
	"github.com/nibzard/todotxt-go/internal/todo"
)

// recentLimit caps the "Recently Completed" section.
const recentLimit = 5

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	interval time.Duration
	now      func() time.Time
}

// WithRefreshInterval sets how often the task files are re-read.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock replaces the clock used when no fixed date is configured.
func WithClock(now func() time.Time) TUIOption {
	return func(c *tuiConfig) {
		c.now = now
	}
}

// RunTUI starts the read-only task viewer for a file or directory.
func RunTUI(ctx context.Context, cfg *config.Config, target string, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(cfg, target, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// filterMode limits the viewer to one section.
type filterMode int

const (
	filterNone filterMode = iota
	filterPastDue
	filterSoon
	filterDone
)

func (f filterMode) String() string {
	switch f {
	case filterPastDue:
		return "past due"
	case filterSoon:
		return "due soon"
	case filterDone:
		return "done"
	default:
		return ""
	}
}

type tuiModel struct {
	cfg          *config.Config
	target       string
	now          func() time.Time
	tickInterval time.Duration
	loadErr      error
	data         *tuiData
	filter       filterMode
	showHelp     bool
}

// entry is a task with the file it came from.
type entry struct {
	path string
	task todo.Task
}

type tuiData struct {
	today      todo.Date
	soonDays   int
	files      int
	open       int
	done       int
	recurring  int
	pastDue    []entry
	soon       []entry
	recent     []entry
	fatal      []error
	conditions []error
}

type tickMsg time.Time

func newTUIModel(cfg *config.Config, target string, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{
		interval: 2 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return &tuiModel{
		cfg:          cfg,
		target:       cfg.ResolvePath(target),
		now:          c.now,
		tickInterval: c.interval,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1":
			m.filter = filterPastDue
			return m, nil
		case "2":
			m.filter = filterSoon
			return m, nil
		case "3":
			m.filter = filterDone
			return m, nil
		case "0":
			m.filter = filterNone
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	pastDueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	soonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != filterNone {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	if m.loadErr != nil {
		b.WriteString("Error loading tasks:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.data == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.data)
	if m.filter == filterNone || m.filter == filterPastDue {
		writeSection(&b, "Past Due", m.data.pastDue, pastDueStyle, "Nothing is past due.")
	}
	if m.filter == filterNone || m.filter == filterSoon {
		title := fmt.Sprintf("Due Within %d Days", m.data.soonDays)
		writeSection(&b, title, m.data.soon, soonStyle, "Nothing due soon.")
	}
	if m.filter == filterNone || m.filter == filterDone {
		writeSection(&b, "Recently Completed", m.data.recent, doneStyle, "No completed tasks yet.")
	}
	if m.filter == filterNone {
		writeProblems(&b, m.data)
		writeConfig(&b, m.data, m.target)
	}
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	today, err := m.cfg.TodayDate(m.now())
	if err != nil {
		m.loadErr = err
		m.data = nil
		return
	}
	results, err := m.load()
	if err != nil {
		m.loadErr = err
		m.data = nil
		return
	}
	m.loadErr = nil
	m.data = buildTUIData(results, today, m.cfg.SoonDays)
}

// load reads the target file, or every matching file when the target
// is a directory.
func (m *tuiModel) load() ([]scan.Result, error) {
	info, err := os.Stat(m.target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return scan.ReadDir(m.target, m.cfg.Pattern)
	}
	res := scan.Result{Path: m.target}
	res.Doc, res.Fatal = scan.ReadFile(m.target)
	return []scan.Result{res}, nil
}

func buildTUIData(results []scan.Result, today todo.Date, soonDays int) *tuiData {
	data := &tuiData{today: today, soonDays: soonDays, files: len(results)}

	for _, res := range results {
		if res.Fatal != nil {
			data.fatal = append(data.fatal, res.Fatal)
			continue
		}
		doc := res.Doc
		for i := range doc.Tasks {
			t := &doc.Tasks[i]
			if t.Done {
				data.done++
				data.recent = append(data.recent, entry{path: res.Path, task: *t})
			} else {
				data.open++
			}
			if t.Meta.Has(todo.KeyRec) {
				data.recurring++
			}
		}

		pastDue, errs := doc.PastDue(today)
		for _, t := range pastDue {
			data.pastDue = append(data.pastDue, entry{path: res.Path, task: t})
		}
		data.conditions = append(data.conditions, errs...)
		for _, t := range doc.DueWithin(today, soonDays) {
			data.soon = append(data.soon, entry{path: res.Path, task: t})
		}
	}

	// Most recent completion first; undated completions last.
	sort.SliceStable(data.recent, func(i, j int) bool {
		left, lok, _ := data.recent[i].task.DoneDate()
		right, rok, _ := data.recent[j].task.DoneDate()
		if lok != rok {
			return lok
		}
		return left.After(right)
	})
	if len(data.recent) > recentLimit {
		data.recent = data.recent[:recentLimit]
	}

	return data
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("todotxt") + "\n\n")
}

func writeOverview(b *strings.Builder, data *tuiData) {
	b.WriteString(sectionStyle.Render("Task Overview") + "\n\n")
	b.WriteString(fmt.Sprintf("  Open: %d  Done: %d  Past due: %d  Due soon: %d  Recurring: %d\n\n",
		data.open,
		data.done,
		len(data.pastDue),
		len(data.soon),
		data.recurring,
	))
}

func writeSection(b *strings.Builder, title string, entries []entry, style lipgloss.Style, empty string) {
	b.WriteString(sectionStyle.Render(title) + "\n\n")
	if len(entries) == 0 {
		b.WriteString("  " + empty + "\n\n")
		return
	}
	for _, e := range entries {
		b.WriteString(formatEntry(e, style))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeProblems(b *strings.Builder, data *tuiData) {
	if len(data.fatal) == 0 && len(data.conditions) == 0 {
		return
	}
	b.WriteString(sectionStyle.Render("Problems") + "\n\n")
	for _, err := range data.fatal {
		b.WriteString(pastDueStyle.Render("  skipped: "+err.Error()) + "\n")
	}
	for _, err := range data.conditions {
		b.WriteString("  " + err.Error() + "\n")
	}
	b.WriteString("\n")
}

func writeConfig(b *strings.Builder, data *tuiData, target string) {
	b.WriteString(sectionStyle.Render("Configuration") + "\n\n")
	b.WriteString(fmt.Sprintf("  Today:  %s\n", data.today))
	b.WriteString(fmt.Sprintf("  Files:  %d\n", data.files))
	b.WriteString(fmt.Sprintf("  Target: %s\n\n", target))
}

func writeHelp(b *strings.Builder) {
	b.WriteString(sectionStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Show past due only\n")
	b.WriteString("  2            Show due soon only\n")
	b.WriteString("  3            Show completed only\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(helpStyle.Render(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s", interval)) + "\n")
}

func formatEntry(e entry, style lipgloss.Style) string {
	loc := filepath.Base(e.path)
	if e.task.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.task.Line)
	}
	return "  " + style.Render(e.task.String()) + " " + fileStyle.Render("("+loc+")")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
