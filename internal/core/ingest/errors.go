package ingest

import "errors"

var (
	// ErrInvalidDomain はドメイン欄が空または不正な行に対して記録されます。
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrUnknownDomain は companies に存在しないドメインの指標行に対して
	// 記録されます。
	ErrUnknownDomain = errors.New("unknown domain")
	// ErrInvalidMonth は月欄が解釈できない行に対して記録されます。
	ErrInvalidMonth = errors.New("invalid month")
	// ErrInvalidNumeric は必須の数値欄が解釈できない行に対して記録されます。
	ErrInvalidNumeric = errors.New("invalid numeric field")
	// ErrEmptySourceText は埋め込み対象の属性がすべて欠損している会社に
	// 対して記録されます。
	ErrEmptySourceText = errors.New("empty source text")
	// ErrMissingHeader は取り込み元 CSV に必須列が無い場合に返却されます。
	ErrMissingHeader = errors.New("missing header column")
	// ErrEmbedderNotConfigured は埋め込みプロバイダの認証情報が未設定の
	// 場合に返却されます。
	ErrEmbedderNotConfigured = errors.New("embedder is not configured")
)
