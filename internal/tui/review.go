// Package tui implements the interactive review flow for low-confidence
// categorizations. Accepting a row confirms the engine's category; editing a
// row records the user's category. Either way an override is persisted so
// the merchant categorizes at full confidence next time.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saffron-ledger/saffron/internal/model"
	"github.com/saffron-ledger/saffron/internal/normalize"
	"github.com/saffron-ledger/saffron/internal/service"
)

// savedMsg reports the outcome of persisting a confirmation.
type savedMsg struct {
	err      error
	index    int
	category string
}

// ReviewModel is the bubbletea model for the review session.
type ReviewModel struct {
	storage   service.Storage
	userID    string
	items     []service.CategorizedTransaction
	confirmed map[int]string
	input     textinput.Model
	status    string
	index     int
	editing   bool
}

// NewReviewModel creates a review session over the given low-confidence
// items.
func NewReviewModel(storage service.Storage, userID string, items []service.CategorizedTransaction) ReviewModel {
	input := textinput.New()
	input.Placeholder = "Category"
	input.CharLimit = 40
	input.Width = 30

	return ReviewModel{
		storage:   storage,
		userID:    userID,
		items:     items,
		confirmed: make(map[int]string),
		input:     input,
	}
}

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("save failed: %v", msg.err))
			return m, nil
		}
		m.confirmed[msg.index] = msg.category
		m.status = confirmedStyle.Render(fmt.Sprintf("saved override: %s", msg.category))
		if m.index < len(m.items)-1 {
			m.index++
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m ReviewModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.index > 0 {
			m.index--
		}
	case "down", "j":
		if m.index < len(m.items)-1 {
			m.index++
		}
	case "enter", "a":
		// Accept the engine's category as-is
		item := m.items[m.index]
		return m, m.saveCmd(m.index, item.Record.Category)
	case "e", "c":
		m.editing = true
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m ReviewModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		category := strings.TrimSpace(m.input.Value())
		if !model.IsValidCategory(category) {
			m.status = errorStyle.Render(fmt.Sprintf("unknown category %q", category))
			return m, nil
		}
		m.editing = false
		m.input.Blur()
		return m, m.saveCmd(m.index, category)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// saveCmd persists an override for the item's merchant and marks its
// categorization user-confirmed.
func (m ReviewModel) saveCmd(index int, category string) tea.Cmd {
	item := m.items[index]
	storage := m.storage
	userID := m.userID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		override := &model.Override{
			UserID:   userID,
			Category: category,
			Source:   model.SourceReview,
		}
		if item.Transaction.MerchantID != "" {
			override.MerchantID = item.Transaction.MerchantID
		} else {
			override.NormalizedName = normalize.Normalize(item.Transaction.DisplayName())
		}
		if override.MerchantID == "" && override.NormalizedName == "" {
			return savedMsg{index: index, err: fmt.Errorf("transaction has no merchant identity")}
		}

		if err := storage.SaveOverride(ctx, override); err != nil {
			return savedMsg{index: index, err: err}
		}

		record := item.Record
		record.Category = category
		record.Confidence = 1.0
		record.Status = model.StatusUserConfirmed
		record.CategorizedAt = time.Now()
		if err := storage.SaveCategorization(ctx, &record); err != nil {
			return savedMsg{index: index, err: err}
		}

		return savedMsg{index: index, category: category}
	}
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if len(m.items) == 0 {
		return "Nothing to review.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Review low-confidence categorizations (%d)", len(m.items))))
	b.WriteString("\n")

	for i, item := range m.items {
		line := fmt.Sprintf("%-10s  %-30s  %9.2f  %-15s  %s",
			item.Transaction.Date.Format("2006-01-02"),
			truncate(item.Transaction.DisplayName(), 30),
			item.Transaction.Amount,
			item.Record.Category,
			confidenceStyle.Render(fmt.Sprintf("%.2f", item.Record.Confidence)),
		)

		if category, ok := m.confirmed[i]; ok {
			line += confirmedStyle.Render(fmt.Sprintf("  ✓ %s", category))
		}

		if i == m.index {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(dimStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString("\nNew category: " + m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter: save • esc: cancel"))
	} else {
		if m.status != "" {
			b.WriteString("\n" + m.status + "\n")
		}
		b.WriteString(helpStyle.Render("↑/↓: navigate • enter: accept • e: edit category • q: quit"))
	}

	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
