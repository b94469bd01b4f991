package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []string    `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func ErrorResponse(message string, errors ...error) Response {
	out := make([]string, 0, len(errors))
	for _, err := range errors {
		out = append(out, err.Error())
	}
	return Response{Success: false, Message: message, Errors: out}
}
