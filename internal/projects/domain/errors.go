package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrOwnerNotFound   = errors.New("owner user not found")
)
