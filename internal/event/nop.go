package event

import "github.com/shaiso/flowweave/internal/domain"

// Nop — Sink, игнорирующий все события. Используется в тестах
// и там, где консольный вывод не нужен.
type Nop struct{}

// NewNop создаёт пустой Sink.
func NewNop() *Nop {
	return &Nop{}
}

func (*Nop) FlowStart(part, all int)                                   {}
func (*Nop) FlowOption(part, all int, combo domain.Combination)        {}
func (*Nop) FlowEnd(part, all int, result domain.Result)               {}
func (*Nop) StageStart(stage string, part, all int)                    {}
func (*Nop) StageIgnore(stage string, part, all int)                   {}
func (*Nop) StageEnd(stage string, part, all int, r domain.Result)     {}
func (*Nop) TaskStart(stage, task string, part, all int)               {}
func (*Nop) TaskStartLink(stage, prev, task string, part, all int)     {}
func (*Nop) TaskIgnore(stage, task, doOnly string, part, all int)      {}
func (*Nop) TaskIgnoreLink(stage, prev, task, do string, p, a int)     {}
func (*Nop) TaskEnd(stage, task string, part, all int, r domain.Result) {}
func (*Nop) Error(msg string)                                          {}
func (*Nop) Print(text string)                                         {}
