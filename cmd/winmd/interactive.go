package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/winmd/gen"
	"github.com/wippyai/winmd/winmd"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	identStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserState int

const (
	stateNamespaces browserState = iota
	stateTypes
	stateDetail
)

type entry struct {
	label string
	ns    string
	def   winmd.TypeDef
}

type browserModel struct {
	err       error
	reader    *winmd.TypeReader
	refs      map[winmd.Row][]winmd.TypeRef
	failed    int
	paths     []string
	prefix    string
	namespace string
	filter    textinput.Model
	entries   []entry
	stack     []winmd.TypeDef
	selected  int
	state     browserState
}

type loadedMsg struct {
	err    error
	reader *winmd.TypeReader
	refs   map[winmd.Row][]winmd.TypeRef
	failed int
}

func newBrowserModel(paths []string, prefix string) *browserModel {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.Width = 40
	ti.Focus()
	return &browserModel{
		paths:  paths,
		prefix: prefix,
		filter: ti,
		state:  stateNamespaces,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return tea.Batch(m.load, textinput.Blink)
}

func (m *browserModel) load() tea.Msg {
	r, err := winmd.Load(m.paths...)
	if err != nil {
		return loadedMsg{err: err}
	}

	refs := make(map[winmd.Row][]winmd.TypeRef)
	failed := 0
	for ref := range r.TypeRefs() {
		def, err := ref.Resolve()
		if err != nil {
			failed++
			continue
		}
		refs[def.Row()] = append(refs[def.Row()], ref)
	}
	return loadedMsg{reader: r, refs: refs, failed: failed}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.selected < len(m.visible())-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			m.open()
			return m, nil

		case "esc":
			if m.state == stateNamespaces {
				return m, tea.Quit
			}
			m.back()
			return m, nil
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.reader = msg.reader
		m.refs = msg.refs
		m.failed = msg.failed
		m.showNamespaces()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.selected = 0
	}
	return m, cmd
}

func (m *browserModel) visible() []entry {
	needle := strings.ToLower(m.filter.Value())
	if needle == "" {
		return m.entries
	}
	var out []entry
	for _, e := range m.entries {
		if strings.Contains(strings.ToLower(e.label), needle) {
			out = append(out, e)
		}
	}
	return out
}

func (m *browserModel) reset(state browserState, entries []entry) {
	m.state = state
	m.entries = entries
	m.selected = 0
	m.filter.SetValue("")
}

func (m *browserModel) showNamespaces() {
	var entries []entry
	for _, ns := range m.reader.Namespaces() {
		if strings.HasPrefix(ns, m.prefix) {
			entries = append(entries, entry{label: displayNamespace(ns), ns: ns})
		}
	}
	m.stack = nil
	m.reset(stateNamespaces, entries)
}

func (m *browserModel) showTypes(ns string) {
	var entries []entry
	for _, def := range m.reader.NamespaceTypes(ns) {
		name, err := def.Name()
		if err != nil {
			m.err = err
			return
		}
		entries = append(entries, entry{label: name.Name, ns: ns, def: def})
	}
	m.stack = nil
	m.namespace = ns
	m.reset(stateTypes, entries)
}

func (m *browserModel) showDetail(def winmd.TypeDef) {
	var entries []entry
	for _, nested := range def.NestedTypes() {
		name, err := nested.Name()
		if err != nil {
			m.err = err
			return
		}
		entries = append(entries, entry{label: name.Name, def: nested})
	}
	m.stack = append(m.stack, def)
	m.reset(stateDetail, entries)
}

func (m *browserModel) open() {
	items := m.visible()
	if m.reader == nil || m.selected >= len(items) {
		return
	}
	e := items[m.selected]
	switch m.state {
	case stateNamespaces:
		m.showTypes(e.ns)
	case stateTypes, stateDetail:
		m.showDetail(e.def)
	}
}

func (m *browserModel) back() {
	switch m.state {
	case stateTypes:
		m.showNamespaces()
	case stateDetail:
		top := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		if len(m.stack) == 0 {
			path, err := top.Path()
			if err != nil {
				m.err = err
				return
			}
			m.showTypes(path[0])
			return
		}
		parent := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		m.showDetail(parent)
	}
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}
	if m.reader == nil {
		return "Loading metadata..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("WinMD Browser"))
	b.WriteString(" ")
	b.WriteString(strings.Join(m.paths, ", "))
	if m.failed > 0 {
		b.WriteString(" ")
		b.WriteString(errorStyle.Render(fmt.Sprintf("(%d unresolved references)", m.failed)))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateNamespaces:
		b.WriteString("Namespaces:\n\n")
	case stateTypes:
		b.WriteString(fmt.Sprintf("Types in %s:\n\n", typeStyle.Render(displayNamespace(m.namespace))))
	case stateDetail:
		m.writeDetail(&b, m.stack[len(m.stack)-1])
		b.WriteString("\nNested types:\n\n")
	}

	for i, e := range m.visible() {
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + e.label))
		} else {
			b.WriteString("  " + e.label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter open • esc back • ctrl+c quit"))
	return b.String()
}

func (m *browserModel) writeDetail(b *strings.Builder, def winmd.TypeDef) {
	path, err := def.Path()
	if err != nil {
		b.WriteString(errorStyle.Render(err.Error()))
		return
	}
	b.WriteString(typeStyle.Render(qualified(path)))
	if ident, err := gen.TypePath(def); err == nil {
		b.WriteString(" => " + identStyle.Render(ident))
	}
	b.WriteString("\n")

	if base, ok, err := def.Extends(); err != nil {
		b.WriteString("  extends: " + errorStyle.Render(err.Error()) + "\n")
	} else if ok {
		if basePath, err := base.Path(); err == nil {
			b.WriteString("  extends: " + qualified(basePath) + "\n")
		}
	}

	if methods, err := def.Methods(); err == nil && len(methods) > 0 {
		b.WriteString("\nMethods:\n")
		for _, method := range methods {
			name, err := method.Name()
			if err != nil {
				continue
			}
			ident, err := gen.MethodName(method)
			if err != nil {
				b.WriteString("  " + name + " " + errorStyle.Render(err.Error()) + "\n")
				continue
			}
			b.WriteString("  " + name + " => " + identStyle.Render(ident) + "\n")
		}
	}

	if refs := m.refs[def.Row()]; len(refs) > 0 {
		b.WriteString("\nReferenced by:\n")
		for _, ref := range refs {
			b.WriteString("  " + ref.String() + "\n")
		}
	}
}

func runInteractive(paths []string, prefix string) error {
	p := tea.NewProgram(newBrowserModel(paths, prefix), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
