package apierror

// Envelope is the JSON shape of every response: {success, data|error, ...}.
// Count is included on list endpoints, Message on mutations.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

func OKMessage(msg string, data interface{}) Envelope {
	return Envelope{Success: true, Message: msg, Data: data}
}

func OKList(count int, data interface{}) Envelope {
	return Envelope{Success: true, Count: &count, Data: data}
}

func Fail(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}
