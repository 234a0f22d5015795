package models

/*
Flash is a one-shot message carried across a redirect in the cookie session.
*/
type Flash struct {
	Kind    string
	Message string
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
)
