package apimodels

type Response struct {
	Status  string      `json:"status"`            // fail/success
	Message string      `json:"message,omitempty"` // error message
	Error   string      `json:"error,omitempty"`   // upstream error text
	Data    interface{} `json:"data,omitempty"`    // payload
}

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

func NewUpstreamError(message, detail string) Response {
	return Response{
		Status:  "fail",
		Message: message,
		Error:   detail,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}
