// Package scheduler запускает flow по cron-расписанию.
//
// Структура:
//   - scheduler.go — Scheduler: регистрация flow и жизненный цикл
//   - cron.go      — парсинг cron-выражений (5 полей)
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Orchestrator: orch,
//	    Logger:       logger,
//	})
//	if err := sched.Add(ctx, spec, "*/5 * * * *", false); err != nil {
//	    return err
//	}
//	sched.Start()
//	defer sched.Stop()
//
// Все регистрации выполняются до Start. Пересекающиеся срабатывания
// одного flow не допускаются: тик при незавершённом запуске
// пропускается с предупреждением в лог.
package scheduler
