package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-stage/internal/engine"
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/registry"
)

type menuApp struct{ id, title string }

func (a menuApp) ID() string    { return a.id }
func (a menuApp) Title() string { return a.title }

func (menuApp) Build(gfx.Context, *engine.Scheduler, registry.Env) error { return nil }

func init() {
	registry.Register("menu-a", func() registry.App { return menuApp{"menu-a", "Menu A"} })
	registry.Register("menu-b", func() registry.App { return menuApp{"menu-b", "Menu B"} })
}

type bestScores map[string]int

func (b bestScores) SaveScore(string, int, uint64) (int64, error) { return 0, nil }

func (b bestScores) HighScore(appID string) (int, error) {
	if best, ok := b[appID]; ok {
		return best, nil
	}
	return 0, errors.New("no scores")
}

func menuUpdate(t *testing.T, m MenuModel, msg tea.Msg) (MenuModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected MenuModel", next)
	}
	return nm, cmd
}

func TestMenuListsApps(t *testing.T) {
	m := NewMenuModel(bestScores{"menu-b": 12})
	m, _ = menuUpdate(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	v := m.View()
	for _, want := range []string{"Menu A", "Menu B", "best 12"} {
		if !strings.Contains(v, want) {
			t.Errorf("View() lacks %q:\n%s", want, v)
		}
	}
	if strings.Contains(v, "best 0") {
		t.Errorf("View() shows a best score for an app without scores:\n%s", v)
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(nil)

	var idx int
	for i, item := range m.items {
		if item.AppID == "menu-b" {
			idx = i
		}
	}
	for i := 0; i < idx; i++ {
		m, _ = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m, cmd := menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("Enter returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Enter command = %T, expected tea.QuitMsg", cmd())
	}
	if m.Selected() == nil || m.Selected().AppID != "menu-b" {
		t.Errorf("Selected() = %+v, expected menu-b", m.Selected())
	}
}

func TestMenuCursorBounds(t *testing.T) {
	m := NewMenuModel(nil)

	m, _ = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after Up at the top, expected 0", m.cursor)
	}
	for i := 0; i < len(m.items)+3; i++ {
		m, _ = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d after many Downs, expected %d", m.cursor, len(m.items)-1)
	}
}

func TestMenuQuit(t *testing.T) {
	m := NewMenuModel(nil)

	m, cmd := menuUpdate(t, m, runes("q"))
	if cmd == nil || !m.IsQuitting() {
		t.Fatal("q did not quit the menu")
	}
	if m.Selected() != nil {
		t.Errorf("Selected() = %+v after quit, expected nil", m.Selected())
	}
	if v := m.View(); v != "" {
		t.Errorf("View() after quit = %q, expected empty", v)
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"ab", 6, "  ab"},
		{"abc", 2, "abc"},
		{"", 4, "  "},
	}
	for _, tt := range tests {
		if got := centerText(tt.text, tt.width); got != tt.want {
			t.Errorf("centerText(%q, %d) = %q, expected %q", tt.text, tt.width, got, tt.want)
		}
	}
}
