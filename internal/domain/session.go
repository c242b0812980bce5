package domain

import "time"

// Session representa un intento de verificación de dispositivo en curso,
// desde la emisión del enlace hasta la vinculación del dispositivo.
type Session struct {
	Token      string    `json:"sessionToken"`
	ShortID    string    `json:"shortId"`
	CreatedAt  time.Time `json:"createdAt"`
	Verified   bool      `json:"verified"`
	DeviceHash string    `json:"deviceHash,omitempty"`
}
