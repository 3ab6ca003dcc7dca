package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/geo"
	"github.com/tastopo/tastopo/pkg/integrations/listmap"
)

// isInteractive reports whether both ends of the terminal are attached,
// which gates the picker and the spinner.
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

// pickPlace shows an interactive list of candidate places and returns the
// user's choice. Quitting without a selection aborts the lookup.
func pickPlace(ctx context.Context, name string, candidates []listmap.Place) (listmap.Place, error) {
	model := placeListModel{name: name, places: candidates}
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return listmap.Place{}, errors.Wrap(errors.ErrCodeInternal, err, "place selection failed")
	}

	m := final.(placeListModel)
	if m.selected == nil {
		return listmap.Place{}, errors.New(errors.ErrCodeLookup, "no place selected for %q", name)
	}
	return *m.selected, nil
}

// placeListModel is the bubbletea model for ambiguous place selection.
type placeListModel struct {
	name     string
	places   []listmap.Place
	cursor   int
	selected *listmap.Place
}

func (m placeListModel) Init() tea.Cmd {
	return nil
}

func (m placeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.places)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = &m.places[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m placeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Multiple places match %q", m.name)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, p := range m.places {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		uri := geo.FromMercator(p.Name, p.Point).URI()
		line := fmt.Sprintf("%s%-35s %s", cursor, p.Name, listDimStyle.Render(uri))

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.places))))
	return b.String()
}
