package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrProjectNotFound    = errors.New("project not found")
	ErrSectionNotFound    = errors.New("section not found")
)
