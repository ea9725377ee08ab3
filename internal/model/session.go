package model

import "time"

// UserInfo is the identity established at login and carried through
// every request.  The registration number is what the reservation core
// keys ownership on; the name is display only and not unique.  The
// service layer receives this struct explicitly with each call rather
// than reading ambient session state.
//
// Fields:
//  RegistrationNumber – unique registration identifier of the caller.
//  Name               – display name entered at login.
//  LoginTime          – when the session was established.
type UserInfo struct {
	RegistrationNumber string    `json:"registration_number"`
	Name               string    `json:"name"`
	LoginTime          time.Time `json:"login_time"`
}

// IsZero reports whether no identity is present.  A UserInfo without a
// registration number cannot own a reservation.
func (u UserInfo) IsZero() bool {
	return u.RegistrationNumber == ""
}
