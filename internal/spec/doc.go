// Package spec загружает и валидирует YAML описания flow.
//
// Загрузка отделена от выполнения: Load/Parse возвращают
// структурно корректный domain.FlowSpec либо ошибку с контекстом
// (stage, task, поле). Разрешимость кодов операций проверяется
// отдельно (ValidateOps), после регистрации источников операций.
package spec
