package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiswitch/wifictl"
)

type fakeService struct {
	networks   []string
	listErr    error
	current    string
	switchErr  error
	mu         sync.Mutex
	switchedTo []string
}

func (f *fakeService) Interface() string { return "en0" }

func (f *fakeService) PreferredNetworks(context.Context) ([]string, error) {
	return f.networks, f.listErr
}

func (f *fakeService) CurrentNetwork(context.Context) (string, error) { return f.current, nil }

func (f *fakeService) Switch(_ context.Context, network string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switchedTo = append(f.switchedTo, network)
	return f.switchErr
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

// readyModel returns a model that has loaded networks from svc.
func readyModel(t *testing.T, svc networkService) model {
	t.Helper()
	m := initialModel(context.Background(), svc)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	msg := fetchNetworksCmd(context.Background(), svc)()
	m, _ = update(t, m, msg)
	return m
}

func itemNames(m model) []string {
	var names []string
	for _, it := range m.list.Items() {
		names = append(names, it.(networkItem).name)
	}
	return names
}

func TestInitialModel_StartsLoading(t *testing.T) {
	m := initialModel(context.Background(), &fakeService{})
	assert.Equal(t, viewLoading, m.state)
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading networks")
}

func TestNetworksLoaded(t *testing.T) {
	m := readyModel(t, &fakeService{networks: []string{"Home", "Office"}})

	assert.Equal(t, viewReady, m.state)
	assert.Equal(t, []string{"Home", "Office"}, itemNames(m))
	assert.Contains(t, m.View(), "Office")
}

func TestNetworksLoaded_Failure(t *testing.T) {
	m := readyModel(t, &fakeService{listErr: errors.New("boom")})

	assert.Equal(t, viewReady, m.state)
	assert.Empty(t, m.list.Items())
	assert.Contains(t, m.statusMsg, "Failed to fetch networks")
}

func TestCurrentNetworkMarksItem(t *testing.T) {
	svc := &fakeService{networks: []string{"Home", "Office"}, current: "Office"}
	m := readyModel(t, svc)

	m, _ = update(t, m, fetchCurrentNetworkCmd(context.Background(), svc)())

	items := m.list.Items()
	require.Len(t, items, 2)
	assert.False(t, items[0].(networkItem).active)
	assert.True(t, items[1].(networkItem).active)
}

func TestSelect_StartsSwitch(t *testing.T) {
	m := readyModel(t, &fakeService{networks: []string{"Home", "Office"}})

	m, _ = update(t, m, downKey)
	m, cmd := update(t, m, enterKey)

	assert.Equal(t, viewSwitching, m.state)
	assert.Equal(t, "Office", m.switching)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.statusMsg, "Changing network to Office")
}

func TestSelect_IgnoredWhileSwitching(t *testing.T) {
	svc := &fakeService{networks: []string{"Home", "Office"}}
	m := readyModel(t, svc)

	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, downKey)
	m, _ = update(t, m, enterKey)

	assert.Equal(t, viewSwitching, m.state)
	assert.Equal(t, "Home", m.switching)
	assert.Contains(t, m.statusMsg, "Already changing network to Home")
}

func TestSwitchResult_SuccessQuits(t *testing.T) {
	svc := &fakeService{networks: []string{"Home"}}
	m := readyModel(t, svc)
	m, _ = update(t, m, enterKey)

	m, cmd := update(t, m, switchNetworkCmd(context.Background(), svc, "Home")())

	assert.Equal(t, []string{"Home"}, svc.switchedTo)
	assert.Equal(t, viewDone, m.state)
	assert.Equal(t, "Home", m.switched)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSwitchResult_FailureReturnsToReady(t *testing.T) {
	svc := &fakeService{networks: []string{"Home"}, switchErr: wifictl.ErrPasswordNotFound}
	m := readyModel(t, svc)
	m, _ = update(t, m, enterKey)

	m, _ = update(t, m, switchNetworkCmd(context.Background(), svc, "Home")())

	assert.Equal(t, viewReady, m.state)
	assert.Empty(t, m.switching)
	assert.Empty(t, m.switched)
	assert.Contains(t, m.statusMsg, "Failed to set network Home")
	assert.NotContains(t, m.statusMsg, "password")

	// A new selection is accepted again.
	m, _ = update(t, m, enterKey)
	assert.Equal(t, viewSwitching, m.state)
}

func TestSwitchResult_StaleIgnored(t *testing.T) {
	m := readyModel(t, &fakeService{networks: []string{"Home", "Office"}})
	m, _ = update(t, m, enterKey)

	m, cmd := update(t, m, switchResultMsg{network: "Office"})

	assert.Nil(t, cmd)
	assert.Equal(t, viewSwitching, m.state)
	assert.Equal(t, "Home", m.switching)
}

func TestRefresh(t *testing.T) {
	m := readyModel(t, &fakeService{networks: []string{"Home"}})

	m, cmd := update(t, m, runeKey('r'))

	assert.Equal(t, viewLoading, m.state)
	assert.NotNil(t, cmd)
}

func TestRefresh_IgnoredWhileSwitching(t *testing.T) {
	m := readyModel(t, &fakeService{networks: []string{"Home", "Office"}})
	m, _ = update(t, m, enterKey)

	m, cmd := update(t, m, runeKey('r'))

	assert.Nil(t, cmd)
	assert.Equal(t, viewSwitching, m.state)
	assert.Equal(t, "Home", m.switching)
	assert.Contains(t, m.statusMsg, "Changing network to Home")

	// The switch result still lands on the in-flight network.
	m, _ = update(t, m, switchResultMsg{network: "Home", err: errors.New("boom")})
	assert.Equal(t, viewReady, m.state)
	assert.Contains(t, m.statusMsg, "Failed to set network Home")
}

func TestFilteringOwnsKeys(t *testing.T) {
	m := readyModel(t, &fakeService{networks: []string{"Home", "Office"}})

	m, _ = update(t, m, runeKey('/'))
	require.Equal(t, list.Filtering, m.list.FilterState())
	m, _ = update(t, m, runeKey('r'))

	assert.Equal(t, viewReady, m.state)
}

func TestClipboardMsg(t *testing.T) {
	m := readyModel(t, &fakeService{networks: []string{"Home"}})

	m, _ = update(t, m, clipboardMsg{network: "Home"})
	assert.Contains(t, m.statusMsg, "Copied Home")

	m, _ = update(t, m, clipboardMsg{network: "Home", err: errors.New("no clipboard")})
	assert.Contains(t, m.statusMsg, "Could not copy")

	m, _ = update(t, m, clearStatusMsg{})
	assert.Empty(t, m.statusMsg)
}

func TestViewState_String(t *testing.T) {
	assert.Equal(t, "Switching", viewSwitching.String())
	assert.Equal(t, "Unknown(9)", viewState(9).String())
}

// scriptedRunner plays back canned process output keyed by first argument.
type scriptedRunner struct {
	mu      sync.Mutex
	results map[string]wifictl.Result
	calls   []wifictl.Command
}

func (s *scriptedRunner) Run(_ context.Context, cmd wifictl.Command) (wifictl.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, cmd)
	return s.results[cmd.Args[0]], nil
}

func (s *scriptedRunner) argsOf(first string) []string {
	for _, c := range s.calls {
		if c.Args[0] == first {
			return c.Args
		}
	}
	return nil
}

func TestEndToEnd_SelectHomeJoinsWithResolvedPassword(t *testing.T) {
	runner := &scriptedRunner{results: map[string]wifictl.Result{
		"-listpreferredwirelessnetworks": {Stdout: "Header\n  Home\n\nOffice\n"},
		"wifi":                           {Stdout: "wifi/Home: secretA\nwifi/Office: secretB\n"},
		"-setairportnetwork":             {},
	}}
	client := wifictl.NewClient(runner, wifictl.Options{StoreDir: "/tmp/store"})
	m := readyModel(t, client)
	require.Equal(t, []string{"Home", "Office"}, itemNames(m))

	m, _ = update(t, m, enterKey)
	m, cmd := update(t, m, switchNetworkCmd(context.Background(), client, m.switching)())

	assert.Equal(t, []string{"-setairportnetwork", "en0", "Home", "secretA"}, runner.argsOf("-setairportnetwork"))
	assert.Equal(t, "Home", m.switched)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEndToEnd_JoinStderrIsFailure(t *testing.T) {
	runner := &scriptedRunner{results: map[string]wifictl.Result{
		"-listpreferredwirelessnetworks": {Stdout: "Header\nHome\n"},
		"wifi":                           {Stdout: "Home: secretA\n"},
		"-setairportnetwork":             {Stdout: "", Stderr: "Error: -3900"},
	}}
	client := wifictl.NewClient(runner, wifictl.Options{StoreDir: "/tmp/store"})
	m := readyModel(t, client)

	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, switchNetworkCmd(context.Background(), client, "Home")())

	assert.Equal(t, viewReady, m.state)
	assert.Empty(t, m.switched)
	assert.Contains(t, m.statusMsg, "Failed to set network Home")
}
