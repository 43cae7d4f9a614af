package repository

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrBadOffset = errors.New("page offset must not be negative")
)
