package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/lmarchant/dialogue-state/pkg/actions"
	"github.com/lmarchant/dialogue-state/pkg/conditions"
	"github.com/lmarchant/dialogue-state/pkg/vars"
)

const PlaceholderText = "tree | get <path> | set <path> <value> | eval <path> <op> <value> | id <path> | quit"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	groupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	questStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13")).
			Bold(true)
)

// ConsoleUI is the BubbleTea model that runs the console.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config   *ConsoleConfig
	client   *http.Client
	docID    uuid.UUID
	document *vars.Document

	viewport viewport.Model
	input    textinput.Model
	output   []string
	ready    bool
	width    int
	height   int
	err      error
}

type documentMsg struct {
	document *vars.Document
	err      error
}

type evaluatedMsg struct {
	response *evaluateResponse
	err      error
}

type outputMsg struct {
	lines []string
}

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, docID uuid.UUID) *ConsoleUI {
	input := textinput.New()
	input.Placeholder = PlaceholderText
	input.Focus()
	input.CharLimit = 256

	return &ConsoleUI{
		config: cfg,
		client: client,
		docID:  docID,
		input:  input,
	}
}

func (ui *ConsoleUI) Init() tea.Cmd {
	return ui.loadDocument()
}

func (ui *ConsoleUI) loadDocument() tea.Cmd {
	return func() tea.Msg {
		doc, err := getDocument(ui.client, ui.config.APIBaseURL, ui.docID)
		return documentMsg{document: doc, err: err}
	}
}

func (ui *ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		if !ui.ready {
			ui.viewport = viewport.New(msg.Width, msg.Height-4)
			ui.ready = true
		} else {
			ui.viewport.Width = msg.Width
			ui.viewport.Height = msg.Height - 4
		}
		ui.refreshViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return ui, tea.Quit
		case tea.KeyEnter:
			command := strings.TrimSpace(ui.input.Value())
			ui.input.Reset()
			if command == "" {
				break
			}
			if command == "quit" || command == "exit" {
				return ui, tea.Quit
			}
			return ui, ui.runCommand(command)
		}

	case documentMsg:
		if msg.err != nil {
			ui.err = msg.err
			ui.appendOutput(errorStyle.Render("error: " + msg.err.Error()))
			break
		}
		ui.document = msg.document
		ui.appendOutput(ui.renderTree()...)

	case evaluatedMsg:
		if msg.err != nil {
			ui.appendOutput(errorStyle.Render("error: " + msg.err.Error()))
			break
		}
		lines := []string{resultStyle.Render(fmt.Sprintf("result: %t", msg.response.Result))}
		for i, op := range msg.response.Operations {
			lines = append(lines, fmt.Sprintf("  [%d] %t (resolved by %s)", i, op.Result, op.ResolvedBy))
		}
		ui.appendOutput(lines...)

	case outputMsg:
		ui.appendOutput(msg.lines...)
	}

	var cmd tea.Cmd
	ui.input, cmd = ui.input.Update(msg)
	cmds = append(cmds, cmd)
	ui.viewport, cmd = ui.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return ui, tea.Batch(cmds...)
}

func (ui *ConsoleUI) View() string {
	if !ui.ready {
		return "Loading..."
	}
	title := titleStyle.Render("Dialogue State Console") + "  " + ui.docID.String()
	return title + "\n" + ui.viewport.View() + "\n" + ui.input.View()
}

func (ui *ConsoleUI) appendOutput(lines ...string) {
	ui.output = append(ui.output, lines...)
	ui.refreshViewport()
}

func (ui *ConsoleUI) refreshViewport() {
	if !ui.ready {
		return
	}
	content := strings.Join(ui.output, "\n")
	ui.viewport.SetContent(wordwrap.String(content, ui.viewport.Width))
	ui.viewport.GotoBottom()
}

func (ui *ConsoleUI) runCommand(command string) tea.Cmd {
	fields := strings.Fields(command)
	verb := fields[0]
	args := fields[1:]

	switch verb {
	case "tree":
		return func() tea.Msg { return outputMsg{lines: ui.renderTree()} }

	case "get":
		if len(args) != 1 {
			return usage("get <path>")
		}
		return func() tea.Msg { return outputMsg{lines: []string{ui.describe(args[0])}} }

	case "id":
		if len(args) != 1 {
			return usage("id <path>")
		}
		return ui.copyID(args[0])

	case "set":
		if len(args) < 2 {
			return usage("set <path> <value>")
		}
		return ui.setValue(args[0], strings.Join(args[1:], " "))

	case "eval":
		if len(args) < 2 {
			return usage("eval <path> <op> [value]")
		}
		operand := ""
		if len(args) > 2 {
			operand = strings.Join(args[2:], " ")
		}
		return ui.evaluate(args[0], args[1], operand)
	}

	return usage(PlaceholderText)
}

func usage(text string) tea.Cmd {
	return func() tea.Msg {
		return outputMsg{lines: []string{errorStyle.Render("usage: " + text)}}
	}
}

func (ui *ConsoleUI) findLeaf(path string) (*vars.Leaf, tea.Cmd) {
	if ui.document == nil {
		return nil, usage("document not loaded yet")
	}
	found := ui.document.Root.FindByPath(path)
	if found == nil {
		return nil, func() tea.Msg {
			return outputMsg{lines: []string{errorStyle.Render("no variable at " + path)}}
		}
	}
	leaf, ok := found.(*vars.Leaf)
	if !ok {
		return nil, func() tea.Msg {
			return outputMsg{lines: []string{errorStyle.Render(path + " has no scalar value")}}
		}
	}
	return leaf, nil
}

func (ui *ConsoleUI) copyID(path string) tea.Cmd {
	if ui.document == nil {
		return usage("document not loaded yet")
	}
	found := ui.document.Root.FindByPath(path)
	if found == nil {
		return func() tea.Msg {
			return outputMsg{lines: []string{errorStyle.Render("no variable at " + path)}}
		}
	}
	id := found.ID()
	return func() tea.Msg {
		if err := clipboard.WriteAll(id); err != nil {
			return outputMsg{lines: []string{errorStyle.Render("clipboard: " + err.Error())}}
		}
		return outputMsg{lines: []string{valueStyle.Render("copied " + id)}}
	}
}

// setValue maps a typed assignment onto the action kind matching the
// target leaf's kind, then applies it through the API so it persists.
func (ui *ConsoleUI) setValue(path, raw string) tea.Cmd {
	leaf, errCmd := ui.findLeaf(path)
	if errCmd != nil {
		return errCmd
	}

	action := actions.Action{Ref: vars.RefTo(leaf)}
	switch leaf.Kind() {
	case vars.KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return usage("set " + path + " <int>")
		}
		action.Kind = actions.SetInt
		action.IntValue = n
	case vars.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return usage("set " + path + " <true|false>")
		}
		action.Kind = actions.SetBool
		action.BoolValue = b
	case vars.KindString:
		action.Kind = actions.SetString
		action.StringValue = raw
	case vars.KindEnum:
		action.Kind = actions.SetEnum
		action.EnumValue = raw
	default:
		return usage("set supports int, bool, string and enum leaves")
	}

	return func() tea.Msg {
		doc, err := applyActions(ui.client, ui.config.APIBaseURL, ui.docID, []actions.Action{action})
		return documentMsg{document: doc, err: err}
	}
}

func (ui *ConsoleUI) evaluate(path, cmp, operand string) tea.Cmd {
	leaf, errCmd := ui.findLeaf(path)
	if errCmd != nil {
		return errCmd
	}

	comparator, ok := parseComparator(cmp)
	if !ok {
		return usage("eval <path> <==|!=|>|>=|<|<=|contains|starts_with|ends_with|is_true|is_false> [value]")
	}

	op := conditions.Operation{Ref: vars.RefTo(leaf), Comparator: comparator}
	switch leaf.Kind() {
	case vars.KindInt:
		n, err := strconv.Atoi(operand)
		if err != nil && comparator != conditions.IsTrue && comparator != conditions.IsFalse {
			return usage("eval " + path + " " + cmp + " <int>")
		}
		op.IntValue = n
	case vars.KindFloat:
		f, err := strconv.ParseFloat(operand, 64)
		if err != nil {
			return usage("eval " + path + " " + cmp + " <float>")
		}
		op.FloatValue = f
	case vars.KindBool:
		op.BoolValue = operand == "true"
	case vars.KindString:
		op.StringValue = operand
	case vars.KindEnum:
		op.EnumValue = operand
	}

	return func() tea.Msg {
		resp, err := evaluateOperations(ui.client, ui.config.APIBaseURL, ui.docID, []conditions.Operation{op})
		return evaluatedMsg{response: resp, err: err}
	}
}

func parseComparator(s string) (conditions.Comparator, bool) {
	switch strings.ToLower(s) {
	case "==", "eq", "equal":
		return conditions.Equal, true
	case "!=", "ne", "not_equal":
		return conditions.NotEqual, true
	case ">", "gt":
		return conditions.Greater, true
	case ">=", "ge":
		return conditions.GreaterOrEqual, true
	case "<", "lt":
		return conditions.Less, true
	case "<=", "le":
		return conditions.LessOrEqual, true
	case "contains":
		return conditions.Contains, true
	case "starts_with":
		return conditions.StartsWith, true
	case "ends_with":
		return conditions.EndsWith, true
	case "is_true":
		return conditions.IsTrue, true
	case "is_false":
		return conditions.IsFalse, true
	}
	return "", false
}

func (ui *ConsoleUI) describe(path string) string {
	if ui.document == nil {
		return errorStyle.Render("document not loaded yet")
	}
	found := ui.document.Root.FindByPath(path)
	if found == nil {
		return errorStyle.Render("no variable at " + path)
	}
	return renderVariable(found, 0)
}

func (ui *ConsoleUI) renderTree() []string {
	if ui.document == nil {
		return []string{errorStyle.Render("document not loaded yet")}
	}
	lines := []string{titleStyle.Render(ui.document.Name)}
	for _, child := range ui.document.Root.Children() {
		lines = append(lines, renderSubtree(child, 1)...)
	}
	if len(lines) == 1 {
		lines = append(lines, "  (empty)")
	}
	return lines
}

func renderSubtree(v vars.Variable, depth int) []string {
	lines := []string{renderVariable(v, depth)}
	for _, child := range v.Children() {
		lines = append(lines, renderSubtree(child, depth+1)...)
	}
	return lines
}

func renderVariable(v vars.Variable, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch t := v.(type) {
	case *vars.Group:
		return indent + groupStyle.Render(t.Key()+"/")
	case *vars.Quest:
		return indent + questStyle.Render(fmt.Sprintf("%s [quest %s]", t.Key(), t.Status()))
	case *vars.Objective:
		return indent + fmt.Sprintf("%s %s", t.Key(), valueStyle.Render(fmt.Sprintf("%d/%d", t.Progress(), t.Target())))
	case *vars.Leaf:
		return indent + fmt.Sprintf("%s = %s", t.Key(), valueStyle.Render(fmt.Sprintf("%v", t.Value())))
	}
	return indent + v.Key()
}
