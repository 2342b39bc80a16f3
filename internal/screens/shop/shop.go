// Package shop lists the catalog and runs the simulated checkout.
package shop

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	catalog "github.com/abhisek/lingua/internal/shop"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
	"github.com/abhisek/lingua/internal/ui/theme"
)

// buttonWidth fits the longest "name  price" label.
const buttonWidth = 34

// ShopScreen shows the catalog. Choosing an item opens its checkout.
type ShopScreen struct {
	deps  screen.Deps
	items []catalog.Item
	menu  components.Menu
}

var _ screen.Screen = (*ShopScreen)(nil)

// New builds the catalog menu. Premium is disabled for accounts that
// already have it.
func New(deps screen.Deps) *ShopScreen {
	s := &ShopScreen{deps: deps, items: catalog.Catalog()}

	premium := false
	if acct := deps.Live.Get(); acct != nil {
		premium = acct.Resources.Premium
	}

	menuItems := make([]components.MenuItem, 0, len(s.items))
	for _, it := range s.items {
		menuItems = append(menuItems, components.MenuItem{
			Label:    fmt.Sprintf("%-20s %s", it.Name, it.PriceLabel()),
			Disabled: premium && it.Effect.Kind == catalog.EffectPremium,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: NewCheckout(deps, it)}
				}
			},
		})
	}
	s.menu = components.NewMenu(menuItems)
	return s
}

func (s *ShopScreen) Init() tea.Cmd { return nil }

func (s *ShopScreen) Title() string { return s.deps.Label("shop") }

func (s *ShopScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: s.deps.Label("buy")},
		{Key: "Esc", Description: s.deps.Label("back")},
	}
}

func (s *ShopScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ShopScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{
		theme.Centered(theme.Title, cw, strings.ToUpper(s.deps.Label("shop"))),
		s.menu.View(buttonWidth, cw),
	}
	if i := s.menu.Selected; i >= 0 && i < len(s.items) {
		it := s.items[i]
		desc := it.Description
		if s.menu.Items[i].Disabled {
			desc = "Already active on this account."
		}
		sections = append(sections, components.BorderedCard(
			lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(it.Name)+"\n"+theme.Body.Render(desc),
			cw, theme.ArcadeCyan))
	}
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
