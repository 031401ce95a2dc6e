// Package menu renders the interactive menu and account status views.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// AccountLine is one pooled account's display state.
type AccountLine struct {
	Name        string
	Phone       string
	DisplayName string
	Active      bool
}

// Options carries the header state shown above the menu items.
type Options struct {
	Accounts []AccountLine
	Active   string
}

var items = []string{
	"Add Account",
	"Select Account",
	"Activate Bot",
	"Account Status",
	"Exit",
}

// Render draws the fixed five-item menu with the logged-account header.
func Render(opts Options) string {
	s := newStyles()
	divider := s.divider.Render(strings.Repeat("=", 50))

	lines := []string{
		divider,
		s.title.Render("         TELEGRAM USERBOT MENU"),
		divider,
	}

	if len(opts.Accounts) == 0 {
		lines = append(lines, s.warning.Render("🔴 NO ACCOUNTS LOGGED IN"))
	} else {
		lines = append(lines, s.header.Render(fmt.Sprintf("📱 Logged Accounts: %d", len(opts.Accounts))))
		if opts.Active != "" {
			lines = append(lines, s.active.Render("🎯 Active: "+opts.Active))
		}
	}

	lines = append(lines, divider)
	for i, item := range items {
		lines = append(lines, s.number.Render(fmt.Sprintf("%d)", i+1))+" "+s.item.Render(item))
	}
	lines = append(lines, divider)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderAccounts draws the numbered selection list / status listing.
func RenderAccounts(accounts []AccountLine) string {
	s := newStyles()

	if len(accounts) == 0 {
		return s.empty.Render("🔴 No accounts logged in")
	}

	lines := make([]string, 0, len(accounts))
	for i, account := range accounts {
		marker := s.inactive.Render("⚪ INACTIVE")
		if account.Active {
			marker = s.active.Render("🎯 ACTIVE")
		}
		lines = append(lines, fmt.Sprintf("%s %s (%s) - %s %s",
			s.number.Render(fmt.Sprintf("%d)", i+1)),
			s.account.Render(account.Name),
			account.Phone,
			account.DisplayName,
			marker,
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
