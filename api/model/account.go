package model

type CreateAccount struct {
	Type string `json:"type"`
}
