package model

// AskRequest is the inbound question payload
type AskRequest struct {
	Message string `json:"message"`
}

// AskResponse is the only shape ever returned to the caller
type AskResponse struct {
	Response string `json:"response"`
}
