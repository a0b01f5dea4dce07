package list

import "errors"

var (
	// ErrListNotFound は slug に対応するリストが存在しない場合に返却されます。
	ErrListNotFound = errors.New("list not found")
	// ErrCompanyNotFound はドメインに対応する会社が存在しない場合に返却されます。
	ErrCompanyNotFound = errors.New("company not found")
	// ErrRequiredListMissing は promote に必要なリストが未シードの場合に返却されます。
	ErrRequiredListMissing = errors.New("required list missing")
	// ErrInvalidSlug は slug が不正な場合に返却されます。
	ErrInvalidSlug = errors.New("invalid slug")
	// ErrInvalidDomain はドメインが不正な場合に返却されます。
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrInvalidPage はページ番号が不正な場合に返却されます。
	ErrInvalidPage = errors.New("invalid page")
	// ErrInvalidPerPage は 1 ページあたりの件数が不正な場合に返却されます。
	ErrInvalidPerPage = errors.New("invalid per page")
	// ErrInvalidLimit は取得件数が不正な場合に返却されます。
	ErrInvalidLimit = errors.New("invalid limit")
)
