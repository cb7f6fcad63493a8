package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Styles
// =============================================================================

var (
	appStyle = lipgloss.NewStyle().Margin(1, 1)

	colorPrimary   = lipgloss.Color("5") // Magenta/Purple
	colorSecondary = lipgloss.Color("4") // Blue
	colorAccent    = lipgloss.Color("6") // Cyan
	colorSuccess   = lipgloss.Color("2") // Green
	colorError     = lipgloss.Color("1") // Red
	colorWarning   = lipgloss.Color("3") // Yellow
	colorFaint     = lipgloss.Color("8") // Gray
	colorText      = lipgloss.Color("7") // White/Light gray

	titleStyle            = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1).MarginBottom(1)
	listTitleStyle        = lipgloss.NewStyle().Foreground(colorSecondary).Padding(0, 1).Bold(true)
	listItemStyle         = lipgloss.NewStyle().PaddingLeft(2).Foreground(colorText)
	listSelectedItemStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(colorPrimary).Bold(true)
	listNoItemsStyle      = lipgloss.NewStyle().Faint(true).Margin(1, 0).Foreground(colorFaint)
	activeMarkStyle       = lipgloss.NewStyle().Foreground(colorSuccess)

	statusMessageBaseStyle = lipgloss.NewStyle().MarginTop(1)
	errorStyle             = statusMessageBaseStyle.Foreground(colorError).Bold(true)
	successStyle           = statusMessageBaseStyle.Foreground(colorSuccess).Bold(true)
	warningStyle           = statusMessageBaseStyle.Foreground(colorWarning)
	infoStyle              = statusMessageBaseStyle.Foreground(colorFaint)
	busyStyle              = lipgloss.NewStyle().Foreground(colorAccent)
	helpGlobalStyle        = lipgloss.NewStyle().Foreground(colorFaint)
)

const appName = "Wi-Fi Switch"

// =============================================================================
// View
// =============================================================================

func (m model) View() string {
	availableWidth := m.width - appStyle.GetHorizontalFrameSize()

	header := m.headerView(availableWidth)
	footer := m.footerView(availableWidth)

	var content string
	switch m.state {
	case viewLoading:
		content = busyStyle.Render(m.spinner.View() + " Loading networks...")
		if len(m.networks) > 0 {
			content = lipgloss.JoinVertical(lipgloss.Left, m.list.View(), content)
		}
	case viewReady, viewSwitching, viewDone:
		content = m.list.View()
	}

	if m.statusMsg != "" {
		status := m.statusMsg
		if m.state == viewSwitching {
			status = m.spinner.View() + " " + status
		}
		content = lipgloss.JoinVertical(lipgloss.Left, content, status)
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

func (m model) headerView(width int) string {
	title := titleStyle.Render(appName)
	iface := helpGlobalStyle.Render("Interface: " + m.service.Interface())

	spacing := width - lipgloss.Width(title) - lipgloss.Width(iface)
	if spacing < 1 {
		spacing = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", spacing), iface)
}

func (m model) footerView(width int) string {
	keys := m.keys
	keys.currentState = m.state
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, helpGlobalStyle.MarginTop(1).Render(m.help.View(keys)))
}
