package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMenu_SkipsDisabledAndWraps(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "locked", Disabled: true},
		{Label: "a"},
		{Label: "b"},
	})
	if m.Selected != 1 {
		t.Fatalf("expected first enabled item selected, got %d", m.Selected)
	}

	m, _ = m.Update(specialKey(tea.KeyDown))
	if m.Selected != 2 {
		t.Fatalf("expected 2 after down, got %d", m.Selected)
	}
	m, _ = m.Update(specialKey(tea.KeyDown))
	if m.Selected != 1 {
		t.Fatalf("expected wrap to 1 skipping disabled, got %d", m.Selected)
	}
	m, _ = m.Update(specialKey(tea.KeyUp))
	if m.Selected != 2 {
		t.Fatalf("expected wrap back to 2, got %d", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(specialKey(tea.KeyEnter))
	if !ran {
		t.Fatal("expected action to run on enter")
	}
}

func TestOptionList_NumberSelects(t *testing.T) {
	o := NewOptionList([]string{"was", "were", "be"})
	o = o.Update(keyPress('2'))
	if got, _ := o.Choice(); got != "were" {
		t.Fatalf("expected were, got %q", got)
	}
	o = o.Update(keyPress('9'))
	if got, _ := o.Choice(); got != "were" {
		t.Fatalf("out of range number must not move, got %q", got)
	}
	o.Locked = true
	o = o.Update(specialKey(tea.KeyDown))
	if o.Selected != 1 {
		t.Fatalf("locked list must ignore keys, got %d", o.Selected)
	}
}

func TestTextInput_Filter(t *testing.T) {
	in := NewTextInput("CVV", "123", 3, Digits)
	for _, r := range "1a2-3" {
		in, _ = in.Update(keyPress(r))
	}
	if in.Value() != "123" {
		t.Fatalf("expected 123, got %q", in.Value())
	}
}

func TestTextInput_CardCharsAllowsSpace(t *testing.T) {
	in := NewTextInput("Card", "", 0, CardChars)
	for _, r := range "8600 12x" {
		in, _ = in.Update(keyPress(r))
	}
	if in.Value() != "8600 12" {
		t.Fatalf("expected %q, got %q", "8600 12", in.Value())
	}
}

func TestNodeProgress_View(t *testing.T) {
	v := NodeProgress{Done: 2, Total: 5, Width: 40}.View()
	if v == "" {
		t.Fatal("expected a rendered bar")
	}
	if (NodeProgress{}).View() != "" {
		t.Fatal("empty progress should render nothing")
	}
}
