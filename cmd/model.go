package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	statusMsgTimeout    = 3 * time.Second
	networkListMaxWidth = 80
	minListWidth        = 30
	minListHeight       = 5
)

// networkService is the part of wifictl.Client the UI drives.
type networkService interface {
	Interface() string
	PreferredNetworks(ctx context.Context) ([]string, error)
	CurrentNetwork(ctx context.Context) (string, error)
	Switch(ctx context.Context, network string) error
}

// =============================================================================
// View States
// =============================================================================

type viewState int

const (
	viewLoading viewState = iota
	viewReady
	viewSwitching
	viewDone
)

func (v viewState) String() string {
	names := []string{"Loading", "Ready", "Switching", "Done"}
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("Unknown(%d)", v)
}

// =============================================================================
// List Item Delegate
// =============================================================================

type networkItem struct {
	name   string
	active bool
}

func (n networkItem) FilterValue() string { return n.name }

func (n networkItem) StyledTitle() string {
	if n.active {
		return n.name + activeMarkStyle.Render(" ✔")
	}
	return n.name
}

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(networkItem)
	if !ok {
		return
	}
	if index == m.Index() {
		fmt.Fprint(w, listSelectedItemStyle.Render("▸ "+item.StyledTitle()))
		return
	}
	fmt.Fprint(w, listItemStyle.Render("  "+item.StyledTitle()))
}

// =============================================================================
// Messages
// =============================================================================

type networksLoadedMsg struct {
	networks []string
	err      error
}

type currentNetworkMsg struct {
	name string
	err  error
}

type switchResultMsg struct {
	network string
	err     error
}

type clipboardMsg struct {
	network string
	err     error
}

type clearStatusMsg struct{}

// =============================================================================
// Key Bindings
// =============================================================================

type keyMap struct {
	Select       key.Binding
	Refresh      key.Binding
	Copy         key.Binding
	Filter       key.Binding
	Help         key.Binding
	Quit         key.Binding
	currentState viewState
}

func (k keyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Help}
	switch k.currentState {
	case viewReady:
		bindings = append(bindings, k.Select, k.Filter, k.Refresh, k.Copy)
	case viewSwitching:
		bindings = append(bindings, k.Copy)
	}
	return append(bindings, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Help, k.Select, k.Quit},
		{k.Filter, k.Refresh, k.Copy},
	}
}

var defaultKeyBindings = keyMap{
	Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "switch to network")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy name")),
	Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// Main Model
// =============================================================================

// model is the single state container of the command. Every field is owned by
// Update; background work reports back through messages only.
type model struct {
	ctx     context.Context
	service networkService

	state    viewState
	networks []string
	current  string
	// switching is the network of the in-flight switch, "" when idle.
	switching string
	// switched is set once a switch succeeded; main prints it after exit.
	switched string

	list    list.Model
	spinner spinner.Model
	keys    keyMap
	help    help.Model

	statusMsg string
	width     int
	height    int
}

func initialModel(ctx context.Context, service networkService) model {
	l := list.New([]list.Item{}, itemDelegate{}, 0, 0)
	l.Title = fmt.Sprintf("Preferred networks on %s", service.Interface())
	l.Styles.Title = listTitleStyle
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("network", "networks")
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = listNoItemsStyle.SetString("No preferred networks. Try (r)efresh.")

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = busyStyle

	h := help.New()
	subtle := lipgloss.NewStyle().Foreground(colorFaint)
	h.Styles = help.Styles{
		ShortKey:  subtle,
		ShortDesc: subtle,
		FullKey:   subtle,
		FullDesc:  subtle,
		Ellipsis:  subtle,
	}

	m := model{
		ctx:     ctx,
		service: service,
		state:   viewLoading,
		list:    l,
		spinner: s,
		keys:    defaultKeyBindings,
		help:    h,
	}
	m.keys.currentState = m.state
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		fetchNetworksCmd(m.ctx, m.service),
		fetchCurrentNetworkCmd(m.ctx, m.service),
		m.spinner.Tick,
	)
}

// =============================================================================
// Commands
// =============================================================================

func fetchNetworksCmd(ctx context.Context, svc networkService) tea.Cmd {
	return func() tea.Msg {
		log.Println("Fetching preferred networks...")
		networks, err := svc.PreferredNetworks(ctx)
		if err != nil {
			log.Printf("Error fetching networks: %v", err)
		}
		return networksLoadedMsg{networks: networks, err: err}
	}
}

func fetchCurrentNetworkCmd(ctx context.Context, svc networkService) tea.Cmd {
	return func() tea.Msg {
		name, err := svc.CurrentNetwork(ctx)
		if err != nil {
			log.Printf("Error getting current network: %v", err)
		}
		return currentNetworkMsg{name: name, err: err}
	}
}

// switchNetworkCmd resolves the password and joins, in that order.
func switchNetworkCmd(ctx context.Context, svc networkService, network string) tea.Cmd {
	return func() tea.Msg {
		log.Printf("Switching to network '%s'", network)
		err := svc.Switch(ctx, network)
		if err != nil {
			log.Printf("Switch to '%s' failed: %v", network, err)
		} else {
			log.Printf("Switched to '%s'", network)
		}
		return switchResultMsg{network: network, err: err}
	}
}

func copyNetworkCmd(network string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(network)
		return clipboardMsg{network: network, err: err}
	}
}

func clearStatusAfterDelay() tea.Cmd {
	return tea.Tick(statusMsgTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// =============================================================================
// Helper Functions
// =============================================================================

func (m *model) setItems() tea.Cmd {
	items := make([]list.Item, len(m.networks))
	for i, name := range m.networks {
		items[i] = networkItem{name: name, active: name == m.current}
	}
	return m.list.SetItems(items)
}

func (m *model) setStatus(msg string, style lipgloss.Style) {
	m.statusMsg = style.Render(msg)
}

func (m *model) clearStatus() {
	m.statusMsg = ""
}

func (m *model) busy() bool {
	return m.state == viewLoading || m.state == viewSwitching
}

func (m *model) resizeComponents() {
	availableWidth := m.width - appStyle.GetHorizontalFrameSize()
	availableHeight := m.height - appStyle.GetVerticalFrameSize()

	m.help.Width = availableWidth

	headerHeight := lipgloss.Height(m.headerView(availableWidth))
	m.keys.currentState = m.state
	footerHeight := lipgloss.Height(m.footerView(availableWidth))
	listHeight := availableHeight - headerHeight - footerHeight
	if listHeight < minListHeight {
		listHeight = minListHeight
	}

	listWidth := availableWidth
	if listWidth > networkListMaxWidth {
		listWidth = networkListMaxWidth
	}
	if listWidth < minListWidth {
		listWidth = minListWidth
	}
	m.list.SetSize(listWidth, listHeight)
}

// =============================================================================
// Update
// =============================================================================

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.keys.currentState = m.state

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeComponents()
		return m, nil

	case spinner.TickMsg:
		if m.busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case clearStatusMsg:
		if m.state == viewReady {
			m.clearStatus()
		}

	case networksLoadedMsg:
		if m.state == viewLoading {
			m.state = viewReady
		}
		if msg.err != nil {
			m.networks = nil
			m.setStatus("Failed to fetch networks", errorStyle)
			cmds = append(cmds, clearStatusAfterDelay())
		} else {
			m.networks = msg.networks
		}
		cmds = append(cmds, m.setItems())

	case currentNetworkMsg:
		if msg.err == nil {
			m.current = msg.name
			cmds = append(cmds, m.setItems())
		}

	case switchResultMsg:
		if m.state != viewSwitching || msg.network != m.switching {
			log.Printf("Ignoring stale switch result for '%s'", msg.network)
			return m, nil
		}
		m.switching = ""
		if msg.err != nil {
			m.state = viewReady
			m.setStatus(fmt.Sprintf("🔴 Failed to set network %s", msg.network), errorStyle)
			cmds = append(cmds, clearStatusAfterDelay())
			break
		}
		m.state = viewDone
		m.switched = msg.network
		m.current = msg.network
		m.setStatus("🟢 Network changed", successStyle)
		return m, tea.Quit

	case clipboardMsg:
		if msg.err != nil {
			log.Printf("Clipboard error: %v", msg.err)
			m.setStatus("Could not copy to clipboard", errorStyle)
		} else {
			m.setStatus(fmt.Sprintf("Copied %s", msg.network), infoStyle)
		}
		cmds = append(cmds, clearStatusAfterDelay())

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		return []tea.Cmd{tea.Quit}
	}

	// The filter input owns the keyboard while it is open.
	if m.list.FilterState() == list.Filtering {
		m.list, cmd = m.list.Update(msg)
		return []tea.Cmd{cmd}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return []tea.Cmd{tea.Quit}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeComponents()
		return nil

	case key.Matches(msg, m.keys.Refresh):
		// A reload during a switch would wipe its progress line.
		if m.state != viewReady {
			return nil
		}
		m.state = viewLoading
		m.clearStatus()
		return []tea.Cmd{fetchNetworksCmd(m.ctx, m.service), fetchCurrentNetworkCmd(m.ctx, m.service), m.spinner.Tick}

	case key.Matches(msg, m.keys.Copy):
		if item, ok := m.list.SelectedItem().(networkItem); ok {
			return []tea.Cmd{copyNetworkCmd(item.name)}
		}
		return nil

	case key.Matches(msg, m.keys.Select):
		return m.selectNetwork()
	}

	m.list, cmd = m.list.Update(msg)
	return []tea.Cmd{cmd}
}

// selectNetwork starts a switch to the highlighted network. Only one switch
// may be in flight at a time.
func (m *model) selectNetwork() []tea.Cmd {
	item, ok := m.list.SelectedItem().(networkItem)
	if !ok {
		return nil
	}
	switch m.state {
	case viewSwitching:
		m.setStatus(fmt.Sprintf("Already changing network to %s", m.switching), warningStyle)
		return nil
	case viewReady:
	default:
		return nil
	}
	m.state = viewSwitching
	m.switching = item.name
	m.setStatus(fmt.Sprintf("⏳ Changing network to %s", item.name), busyStyle)
	return []tea.Cmd{switchNetworkCmd(m.ctx, m.service, item.name), m.spinner.Tick}
}
