package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
)

// editMsg is sent when editing completes with a program that parsed.
type editMsg struct{ program *lang.Program }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "> "
	ctrlPrompt = ": "
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List bound variables with their values
  edit     Compose a program in $EDITOR and run it
  clear    Clear screen
  reset    Discard all variables
  quit     Exit REPL

Usage:
  Type a statement to run it; the final ';' is optional
  Type an expression to print its value
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// lineHelp is printed by ":help" when input is not a terminal.
const lineHelp = `Commands: :help, :list, :reset, :quit
Type a statement to run it, or an expression to print its value.`

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	keywordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// config holds the settings of one REPL run.
type config struct {
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	logger      log.Logger
	historyPath string
	sessionOpts []lang.Option
	terminal    bool
}

// Option configures [Run].
type Option func(*config)

// WithInput sets the input stream. The default is os.Stdin.
func WithInput(r io.Reader) Option { return func(c *config) { c.in = r } }

// WithOutput sets the output stream. The default is os.Stdout.
func WithOutput(w io.Writer) Option { return func(c *config) { c.out = w } }

// WithErrorOutput sets the stream that errors are written to outside the
// line editor. The default is os.Stderr.
func WithErrorOutput(w io.Writer) Option {
	return func(c *config) { c.errOut = w }
}

// WithLogger sets the logger used for trace records.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHistoryFile sets the file input history is loaded from and saved to.
// An empty path keeps history in memory only.
func WithHistoryFile(path string) Option {
	return func(c *config) { c.historyPath = path }
}

// WithTerminal selects the line editor, for input that is an interactive
// terminal. Without it, input is read line by line.
func WithTerminal(terminal bool) Option {
	return func(c *config) { c.terminal = terminal }
}

// WithSessionOptions sets the options of the session that runs input.
func WithSessionOptions(opts ...lang.Option) Option {
	return func(c *config) { c.sessionOpts = append(c.sessionOpts, opts...) }
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	eval         *evaluator
	edit         *editCommand
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session. Bindings persist from one input to
// the next until reset.
//
// With [WithTerminal], Run presents a line editor with completion and history.
// Otherwise it reads input line by line, accepting control commands
// prefixed with ':'.
func Run(ctx context.Context, opts ...Option) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := config{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(&cfg)
	}

	interactive := cfg.terminal

	cfg.logger.TraceContext(
		ctx,
		"repl start",
		slog.String("history", cfg.historyPath),
		slog.Bool("interactive", interactive),
	)

	ev := newEvaluator(cfg.logger, cfg.sessionOpts...)

	if !interactive {
		return runLines(ctx, ev, cfg)
	}

	history := NewHistory(cfg.historyPath)
	if err := history.Load(); err != nil {
		fmt.Fprintf(cfg.errOut, "Warning: could not load history: %v\n", err)
	}

	cfg.logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, ev, history, cfg)

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cfg.in),
		tea.WithOutput(cfg.out),
	)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

// runLines evaluates input line by line without a terminal UI. Values and
// print output go to the output stream, errors to the error stream.
func runLines(ctx context.Context, ev *evaluator, cfg config) error {
	scanner := bufio.NewScanner(cfg.in)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if name, ok := strings.CutPrefix(line, ":"); ok {
			cmd, known := parseCommand(strings.TrimSpace(name))

			switch {
			case !known:
				fmt.Fprintf(cfg.errOut, "unknown command: %s (try ':help')\n", name)
			case cmd == cmdQuit:
				return nil
			case cmd == cmdHelp:
				fmt.Fprintln(cfg.out, lineHelp)
			case cmd == cmdList:
				if list := ev.list(plainBinding); list != "" {
					fmt.Fprintln(cfg.out, list)
				}
			case cmd == cmdReset:
				ev.reset()
			default:
				fmt.Fprintf(cfg.errOut, "%s: requires a terminal\n", cmd)
			}

			continue
		}

		o := ev.eval(ctx, line)

		if o.printed != "" {
			fmt.Fprintln(cfg.out, o.printed)
		}

		switch {
		case o.err != nil:
			fmt.Fprintln(cfg.errOut, o.err)
		case o.value != nil:
			fmt.Fprintln(cfg.out, o.value)
		}
	}

	return scanner.Err()
}

// plainBinding renders a binding for :list without styles.
func plainBinding(name, preview string) string {
	return "  " + name + ": " + preview
}

// styledBinding renders a binding for the list command.
func styledBinding(name, preview string) string {
	return "  " + name + " " + hintStyle.Render(preview)
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	ev *evaluator,
	history *History,
	cfg config,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	ctxFunc := func() context.Context { return ctx }

	return model{
		ctxFunc: ctxFunc,
		input:   ti,
		eval:    ev,
		edit: &editCommand{
			ctxFunc: ctxFunc,
			logger:  cfg.logger,
			opts:    cfg.sessionOpts,
		},
		logger:     cfg.logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editMsg:
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("statement_count", len(msg.program.Statements)),
		)

		return m, printOutcome(m.eval.execute(m.ctxFunc(), msg.program))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	// Completion / hint line.
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		// Show history position indicator
		pos := m.historyIdx + 1 // 1-based for display
		total := m.history.Len()
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			total)
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		// Empty or whitespace-only input: show hint.
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type a statement or expression, or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: help, list, edit, clear, reset, quit (press Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))

	case m.mode == modeEval:
		b.WriteString(identifierHint(m.eval, input, m.input.Position()))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyPrevInMode()

	case tea.KeyShiftDown:
		return m.historyNextInMode()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
		// Check for space as "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		// Reset history index when typing
		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	// Reset history index when typing
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step through the candidates, wrapping
// at either end. A single candidate is completed immediately.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	// Update word boundaries for the replaced text.
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	// Auto-confirm when the typed word already equals the sole candidate.
	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Write(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.String("error", err.Error()),
		)
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	return m, tea.Sequence(
		tea.Println(formatCommand(input)),
		printOutcome(m.eval.eval(m.ctxFunc(), input)),
	)
}

// printOutcome prints the output, value and error of one evaluation above
// the prompt.
func printOutcome(o outcome) tea.Cmd {
	cmds := make([]tea.Cmd, 0, 2)

	if o.printed != "" {
		cmds = append(cmds, tea.Println(o.printed))
	}

	switch {
	case o.err != nil:
		cmds = append(cmds, tea.Println(errorStyle.Render(o.err.Error())))
	case o.value != nil:
		cmds = append(cmds, tea.Println(resultStyle.Render(o.value.String())))
	}

	return tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	// Parse command and arguments
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	cmd, ok := parseCommand(parts[0])
	if !ok {
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}

	switch cmd {
	case cmdQuit:
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case cmdHelp:
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case cmdList:
		list := m.eval.list(styledBinding)
		if list == "" {
			list = hintStyle.Render("  (no variables)")
		}

		return m, tea.Sequence(echoCmd, tea.Println(list))

	case cmdClear:
		return m, tea.ClearScreen

	case cmdReset:
		m.eval.reset()

		return m, tea.Sequence(echoCmd, tea.Println(hintStyle.Render("session reset")))

	case cmdEdit:
		return m, tea.Sequence(echoCmd, m.handleEdit())
	}

	return m, nil
}

func (m model) handleEdit() tea.Cmd {
	cmd := m.edit
	cmd.program = nil

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.program == nil {
			return editCancelledMsg{}
		}

		return editMsg{program: cmd.program}
	})
}

// showEntry loads history entry i into the input, switching modes if the
// entry was made in the other one.
func (m model) showEntry(i int) model {
	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	if m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// clearEntry leaves history navigation with an empty input.
func (m model) clearEntry() model {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		return m.showEntry(m.historyIdx - 1), nil
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		return m.showEntry(m.historyIdx + 1), nil
	}

	return m.clearEntry(), nil
}

func (m model) historyPrevInMode() (model, tea.Cmd) {
	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == m.mode {
			return m.showEntry(i), nil
		}
	}

	return m, nil
}

func (m model) historyNextInMode() (model, tea.Cmd) {
	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == m.mode {
			return m.showEntry(i), nil
		}
	}

	// Reached end of mode-specific history, clear input
	if m.historyIdx < m.history.Len() {
		return m.clearEntry(), nil
	}

	return m, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	// Save current mode's input
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	// Switch to target mode
	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
