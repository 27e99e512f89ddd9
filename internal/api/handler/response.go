package handler

// successResponse is the standard envelope for all 2xx responses. Token is
// present only on operations that establish a session.
type successResponse struct {
	Status string `json:"status"`
	Token  string `json:"token,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// errorResponse mirrors the envelope rendered by the API error handler.
// Declared here so swagger annotations can reference it.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// messageResponse is used where the success outcome is a statement rather
// than a resource (e.g. "token sent to email").
type messageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func success(data any) successResponse {
	return successResponse{Status: "success", Data: data}
}

func successWithToken(token string, data any) successResponse {
	return successResponse{Status: "success", Token: token, Data: data}
}
