package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// QuiesceResponse reports the posting gate state.
type QuiesceResponse struct {
	Quiesced bool `json:"quiesced"`
}
