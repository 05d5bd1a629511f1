package guestpix

import "errors"

var (
	ErrNoSelection  = errors.New("guestpix: no file selected")
	ErrNotAnImage   = errors.New("guestpix: selected file is not an image")
	ErrFileTooLarge = errors.New("guestpix: selected file exceeds the 50 MB limit")
	ErrInvalidStyle = errors.New("guestpix: invalid style index")
	ErrSuperseded   = errors.New("guestpix: result superseded by a newer selection")
)
