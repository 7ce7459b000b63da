package event

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/shaiso/flowweave/internal/domain"
)

// Стили вывода по уровням событий.
var (
	styleFlow    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	styleStage   = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta
	styleTask    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	styleIgnore  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	styleFail    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	styleUnknown = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta
)

// Console — консольный Sink.
//
// Каждая строка выводится под мьютексом, чтобы вывод одновременных
// tasks не перемешивался. Verbose управляет событиями Print (режим -l).
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// NewConsole создаёт консольный Sink.
// Если w == nil, используется os.Stdout.
func NewConsole(w io.Writer, verbose bool) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w, verbose: verbose}
}

// println выводит одну строку под мьютексом.
func (c *Console) println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, text)
}

// resultText возвращает раскрашенное имя результата.
func resultText(result domain.Result) string {
	switch result {
	case domain.ResultSuccess:
		return styleSuccess.Render("SUCCESS")
	case domain.ResultIgnore:
		return styleIgnore.Render("IGNORE")
	case domain.ResultFail:
		return styleFail.Render("FAIL")
	default:
		return styleUnknown.Render(fmt.Sprintf("UNKNOWN(%d)", int(result)))
	}
}

// FlowStart — начало выполнения комбинации.
func (c *Console) FlowStart(part, all int) {
	c.println(styleFlow.Render(fmt.Sprintf("[Flow %d / %d] Start", part, all)))
}

// FlowOption — активная комбинация глобальных опций.
func (c *Console) FlowOption(part, all int, combo domain.Combination) {
	c.println(fmt.Sprintf("[Flow %d / %d] %s", part, all, combo.String()))
}

// FlowEnd — завершение комбинации.
func (c *Console) FlowEnd(part, all int, result domain.Result) {
	c.println(styleFlow.Render(fmt.Sprintf("[Flow %d / %d] Finish - ", part, all)) +
		resultText(result))
}

// StageStart — начало stage.
func (c *Console) StageStart(stage string, part, all int) {
	c.println(styleStage.Render(fmt.Sprintf("[Flow %d / %d] Start Stage %s", part, all, stage)))
}

// StageIgnore — stage пропущен после падения предыдущего.
func (c *Console) StageIgnore(stage string, part, all int) {
	c.println(styleStage.Render(fmt.Sprintf("[Flow %d / %d] Ignore Stage %s", part, all, stage)))
}

// StageEnd — завершение stage.
func (c *Console) StageEnd(stage string, part, all int, result domain.Result) {
	c.println(styleStage.Render(fmt.Sprintf("[Flow %d / %d] Finish Stage %s - ", part, all, stage)) +
		resultText(result))
}

// TaskStart — начало task без предшественника.
func (c *Console) TaskStart(stage, task string, part, all int) {
	c.println(styleTask.Render(fmt.Sprintf("[Flow %d / %d] Start Task %s/%s",
		part, all, stage, task)))
}

// TaskStartLink — начало task в цепочке.
func (c *Console) TaskStartLink(stage, prev, task string, part, all int) {
	c.println(styleTask.Render(fmt.Sprintf("[Flow %d / %d] Start Link Task %s/%s -> %s",
		part, all, stage, prev, task)))
}

// TaskIgnore — task подавлен гейтингом.
func (c *Console) TaskIgnore(stage, task, doOnly string, part, all int) {
	c.println(styleTask.Render(fmt.Sprintf("[Flow %d / %d] Ignore %s (do_only : %s)",
		part, all, task, doOnly)))
}

// TaskIgnoreLink — task в цепочке подавлен гейтингом.
func (c *Console) TaskIgnoreLink(stage, prev, task, doOnly string, part, all int) {
	c.println(styleTask.Render(fmt.Sprintf("[Flow %d / %d] Ignore %s -> %s (do_only : %s)",
		part, all, prev, task, doOnly)))
}

// TaskEnd — завершение task.
func (c *Console) TaskEnd(stage, task string, part, all int, result domain.Result) {
	c.println(styleTask.Render(fmt.Sprintf("[Flow %d / %d] Finish Task %s/%s - ",
		part, all, stage, task)) + resultText(result))
}

// Error — трасса ошибки выполнения.
func (c *Console) Error(msg string) {
	c.println(styleError.Render(msg))
}

// Print — текст подробного лога; выводится только при verbose.
func (c *Console) Print(text string) {
	if !c.verbose {
		return
	}
	c.println(text)
}
