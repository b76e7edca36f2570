package model

type ClientPlayer struct {
	ID    string `json:"name"`
	Color string `json:"color"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)
