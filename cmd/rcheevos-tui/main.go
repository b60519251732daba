// Command rcheevos-tui is a live dashboard over a single compiled
// achievement, showing a watched memory byte and the trigger events the
// achievement emits as that hand-editable memory map changes. Grounded on hejops-gone/cpu/debugger.go's
// Init/Update/View shape: a tea.Model wrapping the thing being inspected,
// lipgloss for pane layout, go-spew for an on-demand structure dump.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	rcheevos "github.com/RetroAchievements/rcheevos-sub001"
)

const watchedAddress = 0x1000

type tickMsg time.Time

type model struct {
	runtime *rcheevos.Runtime
	mem     map[uint32]uint32
	source  string
	events  []string
	dump    string
}

func peekFrom(mem map[uint32]uint32) rcheevos.PeekFunc {
	return func(address uint32, numBytes uint8, userdata any) uint32 {
		return mem[address]
	}
}

func (m model) Init() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "i":
			m.mem[watchedAddress]++
		case "d":
			if m.mem[watchedAddress] > 0 {
				m.mem[watchedAddress]--
			}
		case " ":
			m.dump = spew.Sdump(m.mem)
		}
		return m, nil

	case tickMsg:
		m.runtime.DoFrame(peekFrom(m.mem), nil, func(ev rcheevos.RuntimeEvent) {
			m.events = append(m.events, fmt.Sprintf("trigger %d -> %v", ev.ID, ev.TriggerEvent))
			if len(m.events) > 8 {
				m.events = m.events[len(m.events)-8:]
			}
		})
		return m, tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

var (
	paneStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func (m model) View() string {
	status := fmt.Sprintf("watched 0x%04X = %d\n\n[i] increment  [d] decrement  [space] dump  [q] quit",
		watchedAddress, m.mem[watchedAddress])
	statusPane := paneStyle.Render(titleStyle.Render("Memory") + "\n" + status)

	eventsPane := paneStyle.Render(titleStyle.Render("Events") + "\n" + strings.Join(m.events, "\n"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, statusPane, eventsPane)
	if m.dump != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, paneStyle.Render(titleStyle.Render("Dump")+"\n"+m.dump))
	}
	return view
}

func main() {
	source := flag.String("trigger", "0xH1000=10.5.", "achievement trigger source to watch")
	flag.Parse()

	rt := rcheevos.NewRuntime(nil)
	if err := rt.ActivateAchievement(1, *source); err != nil {
		fmt.Fprintf(os.Stderr, "rcheevos-tui: %v\n", err)
		os.Exit(1)
	}

	m := model{runtime: rt, mem: map[uint32]uint32{}, source: *source}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "rcheevos-tui: %v\n", err)
		os.Exit(1)
	}
}
