package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/registry"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

// Difficulties offered by the menu, in display order.
var Difficulties = []string{
	string(config.DifficultyEasy),
	string(config.DifficultyNormal),
	string(config.DifficultyHard),
	string(config.DifficultyFixed),
}

// MenuItem represents a selectable game mode in the menu.
type MenuItem struct {
	GameID string
	Title  string
}

// MenuSelection is what the player picked.
type MenuSelection struct {
	GameID     string
	Difficulty string
}

// MenuModel is the Bubble Tea model for the mode and difficulty picker.
// The last choice is remembered in the store when one is available.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	difficulty     int
	width          int
	height         int
	store          *storage.Store
	logger         *log.Logger
	quitting       bool
	selected       *MenuSelection
	openScoreboard bool
	notice         string
}

// NewMenuModel creates a menu over every registered game followed by any
// extra entries.
func NewMenuModel(store *storage.Store, logger *log.Logger, width, height int, extra ...MenuItem) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+len(extra))
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title})
	}
	items = append(items, extra...)

	m := MenuModel{
		items:      items,
		difficulty: slices.Index(Difficulties, string(config.DifficultyNormal)),
		width:      width,
		height:     height,
		store:      store,
		logger:     logger,
	}
	m.restoreLastChoice()
	return m
}

func (m *MenuModel) restoreLastChoice() {
	if m.store == nil {
		return
	}
	mode, ok, err := m.store.Setting(storage.KeyLastMode)
	if err != nil {
		m.storageFailed("could not load saved settings", err)
		return
	}
	if ok {
		if i := slices.IndexFunc(m.items, func(it MenuItem) bool { return it.GameID == mode }); i >= 0 {
			m.cursor = i
		}
	}
	diff, ok, err := m.store.Setting(storage.KeyLastDifficulty)
	if err != nil {
		m.storageFailed("could not load saved settings", err)
		return
	}
	if ok {
		if i := slices.Index(Difficulties, diff); i >= 0 {
			m.difficulty = i
		}
	}
}

func (m *MenuModel) storageFailed(notice string, err error) {
	if m.logger != nil {
		m.logger.Warn(notice, "err", err)
	}
	m.notice = notice
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.difficulty = (m.difficulty + len(Difficulties) - 1) % len(Difficulties)

	case MenuActionRight:
		m.difficulty = (m.difficulty + 1) % len(Difficulties)

	case MenuActionSelect:
		if len(m.items) > 0 {
			m.selected = &MenuSelection{
				GameID:     m.items[m.cursor].GameID,
				Difficulty: Difficulties[m.difficulty],
			}
			m.rememberChoice()
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

func (m *MenuModel) rememberChoice() {
	if m.store == nil {
		return
	}
	for _, kv := range [][2]string{
		{storage.KeyLastMode, m.selected.GameID},
		{storage.KeyLastDifficulty, m.selected.Difficulty},
	} {
		if err := m.store.SetSetting(kv[0], kv[1]); err != nil {
			m.storageFailed("could not save menu choice", err)
			return
		}
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  P O N G  ", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a mode", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	diff := fmt.Sprintf("Difficulty: < %s >", strings.ToUpper(Difficulties[m.difficulty]))
	b.WriteString(centerText(diff, m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Mode  |  Left/Right: Difficulty  |  Enter: Play  |  Tab: History  |  Q: Quit"
	b.WriteString(dimStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(centerText(noticeStyle.Render(m.notice), m.width))
		b.WriteString("\n")
	}

	return b.String()
}

// Selected returns the selection, or nil if none was made.
func (m MenuModel) Selected() *MenuSelection {
	return m.selected
}

// Notice returns the storage problem shown under the menu, if any.
func (m MenuModel) Notice() string {
	return m.notice
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the match history.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}
