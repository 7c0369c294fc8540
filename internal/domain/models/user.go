package models

import "time"

// User представляет покупателя магазина
type User struct {
	ID           int64
	Username     string
	PassHash     []byte
	Email        string
	FullName     string
	Phone        string
	RegisteredAt time.Time
}
