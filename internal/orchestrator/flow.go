package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/shaiso/flowweave/internal/domain"
)

// runFlow выполняет одну комбинацию: stages в объявленном порядке.
//
// После первого stage с FAIL оставшиеся stages не выполняются и
// сообщаются как пропущенные; результат flow при этом уже FAIL и
// дальнейших подтверждений не требует.
func (o *Orchestrator) runFlow(ctx context.Context, spec *domain.FlowSpec, combo domain.Combination, part, all int) domain.Result {
	o.sink.Print(describeFlow(spec))

	flowResult := domain.ResultSuccess

	for _, stageName := range spec.Flow {
		if flowResult == domain.ResultFail {
			o.sink.StageIgnore(stageName, part, all)
			continue
		}

		o.sink.StageStart(stageName, part, all)

		sc := &stageContext{
			name:          stageName,
			tasks:         spec.Stages[stageName],
			defaultOption: spec.DefaultOption,
			globalOption:  combo.StageOption(stageName),
			part:          part,
			all:           all,
		}
		o.sink.Print(describeStage(sc))

		result := o.runStage(ctx, sc)
		if result == domain.ResultFail {
			flowResult = domain.ResultFail
		}

		o.sink.StageEnd(stageName, part, all, result)
	}

	return flowResult
}

// describeFlow возвращает текст подробного лога flow (режим -l).
func describeFlow(spec *domain.FlowSpec) string {
	var b strings.Builder
	b.WriteString("= Flow =\n")
	fmt.Fprintf(&b, "Stage: %v\n", spec.Flow)
	b.WriteString("========")
	return b.String()
}

// describeStage возвращает текст подробного лога stage (режим -l).
func describeStage(sc *stageContext) string {
	var b strings.Builder
	b.WriteString("== Stage ==\n")
	fmt.Fprintf(&b, "Name: %s\n", sc.name)
	fmt.Fprintf(&b, "Default: %v\n", sc.defaultOption)
	fmt.Fprintf(&b, "Global: %v\n", sc.globalOption)
	b.WriteString("===========")
	return b.String()
}
