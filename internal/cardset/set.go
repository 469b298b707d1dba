package cardset

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a set is not found.
var ErrNotFound = errors.New("set not found")

// Set is a named collection of cards sharing a set code.
type Set struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	SetSymbol string    `json:"set_symbol"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Set) String() string {
	return s.Name + " (" + s.Code + ")"
}

// Input is the writable part of a set.
type Input struct {
	Name      string `json:"name" validate:"required,max=100"`
	Code      string `json:"code" validate:"required,setcode"`
	SetSymbol string `json:"set_symbol" validate:"max=16"`
}

func (in Input) normalize() Input {
	return Input{
		Name:      strings.TrimSpace(in.Name),
		Code:      strings.TrimSpace(in.Code),
		SetSymbol: strings.TrimSpace(in.SetSymbol),
	}
}
