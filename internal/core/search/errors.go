package search

import "errors"

var (
	// ErrNotConfigured は埋め込みプロバイダの認証情報が未設定の場合に
	// 返却されます。データベースへのアクセスより先に検出されます。
	ErrNotConfigured = errors.New("embedding provider not configured")
	// ErrEmbeddingFailed は埋め込み API の呼び出しが失敗したか、空の
	// ベクトルが返された場合に返却されます。
	ErrEmbeddingFailed = errors.New("embedding request failed")
	// ErrEmptyPrompt はプロンプトが空の場合に返却されます。
	ErrEmptyPrompt = errors.New("empty prompt")
	// ErrInvalidLimit は取得件数が不正な場合に返却されます。
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrInvalidMinVisits は最小訪問数の指定が不正な場合に返却されます。
	ErrInvalidMinVisits = errors.New("invalid min visits")
)
