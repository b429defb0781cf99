package api

const (
	ErrorTypeHTTP          = "http_error"
	ErrorTypeUnprocessable = "unprocessable_input"
	ErrorTypeServer        = "server_error"
)

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
	App    string `json:"app"`
	Env    string `json:"env"`
}
