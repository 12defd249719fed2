package apikey

import "errors"

var (
	// ErrKeyNotFound возвращается, когда ключ не найден или деактивирован
	ErrKeyNotFound = errors.New("apikey.repository: api key not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("apikey.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("apikey.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("apikey.repository: failed to scan row")
)
