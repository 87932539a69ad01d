package models

// SyncStats aggregates the progress of a single reconciliation pass.
// Не персистится: пересчитывается на каждом прогоне и рассылается подписчикам.
type SyncStats struct {
	Total     int `json:"total"`     // Total количество элементов очереди в начале прогона
	Processed int `json:"processed"` // Processed сколько элементов уже обработано (успех или ошибка)
	Errors    int `json:"errors"`    // Errors количество неудачных элементов
	Success   int `json:"success"`   // Success количество успешно реплицированных элементов
}
