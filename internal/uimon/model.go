package uimon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type threadRow struct {
	tid      uint64
	name     string
	depth    int
	lastSpan string
	depthBar progress.Model
	counters map[string]progress.Model
	order    []string // counter display order, first-seen
}

type model struct {
	title    string
	samples  <-chan Sample
	spinner  spinner.Model
	rows     map[uint64]*threadRow
	order    []uint64 // TIDs in first-seen order; View sorts them by TID
	width    int
	done     bool
	maxDepth int
}

type sampleMsg Sample
type closedMsg struct{}

// NewModel returns a bubbletea model that renders live capture progress
// from samples. maxDepth normalizes the open-span depth gauge; a
// goroutine whose depth exceeds it simply clamps the bar to full.
func NewModel(title string, samples <-chan Sample, maxDepth int) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	if maxDepth <= 0 {
		maxDepth = 16
	}
	return &model{
		title:    title,
		samples:  samples,
		spinner:  sp,
		rows:     make(map[uint64]*threadRow),
		width:    80,
		maxDepth: maxDepth,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *model) listen() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-m.samples
		if !ok {
			return closedMsg{}
		}
		return sampleMsg(s)
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sampleMsg:
		cmd := m.applySample(Sample(msg))
		return m, tea.Batch(cmd, m.listen())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case progress.FrameMsg:
		var cmds []tea.Cmd
		for _, row := range m.rows {
			updated, cmd := row.depthBar.Update(msg)
			row.depthBar = updated.(progress.Model)
			cmds = append(cmds, cmd)
			for name, bar := range row.counters {
				updated, cmd := bar.Update(msg)
				row.counters[name] = updated.(progress.Model)
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *model) applySample(s Sample) tea.Cmd {
	row, ok := m.rows[s.TID]
	if !ok {
		row = &threadRow{
			tid:      s.TID,
			depthBar: newBar(),
			counters: make(map[string]progress.Model),
		}
		m.rows[s.TID] = row
		m.order = append(m.order, s.TID)
	}
	if s.ThreadName != "" {
		row.name = s.ThreadName
	}
	row.depth = s.OpenDepth
	row.lastSpan = s.LastSpan

	var cmds []tea.Cmd
	depthPct := float64(row.depth) / float64(m.maxDepth)
	if depthPct > 1 {
		depthPct = 1
	}
	cmds = append(cmds, row.depthBar.SetPercent(depthPct))

	for name, value := range s.Counters {
		bar, ok := row.counters[name]
		if !ok {
			bar = newBar()
			row.counters[name] = bar
			row.order = append(row.order, name)
		}
		pct := value
		if pct < 0 {
			pct = 0
		}
		if pct > 1 {
			pct = 1
		}
		cmds = append(cmds, bar.SetPercent(pct))
	}
	return tea.Batch(cmds...)
}

func newBar() progress.Model {
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40
	return p
}

func (m *model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if len(m.order) == 0 {
		b.WriteString("  waiting for the first sample...\n")
		return b.String()
	}

	tids := append([]uint64(nil), m.order...)
	sort.Slice(tids, func(i, j int) bool { return tids[i] < tids[j] })

	for _, tid := range tids {
		row := m.rows[tid]
		name := row.name
		if name == "" {
			name = fmt.Sprintf("goroutine %d", row.tid)
		}
		b.WriteString(fmt.Sprintf("  %s  depth=%-3d last=%s\n",
			labelStyle.Render(truncate(name, 24)), row.depth, truncate(row.lastSpan, 24)))
		b.WriteString("    ")
		b.WriteString(row.depthBar.View())
		b.WriteString("\n")

		for _, cname := range row.order {
			bar, ok := row.counters[cname]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("    %s ", truncate(cname, 16)))
			b.WriteString(bar.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
