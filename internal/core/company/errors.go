package company

import "errors"

var (
	// ErrCompanyNotFound は会社が存在しない場合に返却されます。
	ErrCompanyNotFound = errors.New("company not found")
	// ErrInvalidDomain はドメインが不正な場合に返却されます。
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrInvalidQuery は検索クエリが空の場合に返却されます。
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidLimit は取得件数が不正な場合に返却されます。
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrInvalidOffset はオフセットが不正な場合に返却されます。
	ErrInvalidOffset = errors.New("invalid offset")
	// ErrInvalidMinVisits は最小訪問数の指定が不正な場合に返却されます。
	ErrInvalidMinVisits = errors.New("invalid min visits")
)
