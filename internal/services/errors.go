package services

import "errors"

var (
	ErrUnknownMoodType = errors.New("nepoznat tip raspoloženja")
	ErrUnknownPlan     = errors.New("nepoznat plan")
	ErrUnknownSession  = errors.New("nepoznata sesija plaćanja")
	ErrInvalidSession  = errors.New("nevažeća sesija")
	ErrSessionExpired  = errors.New("sesija je istekla")
	ErrInvalidLink     = errors.New("nevažeći ili iskorišćen link za prijavu")
	ErrUserNotFound    = errors.New("korisnik nije pronađen")
	ErrPremiumRequired = errors.New("potrebna je premium pretplata")
)
