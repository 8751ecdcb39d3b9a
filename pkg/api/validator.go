package api

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxNameLength bounds player names, in runes.
const MaxNameLength = 24

// Validator is implemented by payloads that can check themselves.
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return errors.New("movement vector cannot be zero")
	}
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return errors.New("movement step too large")
	}
	return nil
}

func (p PositionPayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return errors.New("position must not be negative")
	}
	return nil
}

func (p RenamePayload) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.New("name too long")
	}
	return nil
}

func (p RegeneratePayload) Validate() error {
	if p.CrateCount < 0 {
		return errors.New("crate count must not be negative")
	}
	return nil
}
