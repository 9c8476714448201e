package response

type ErrorResponse struct {
	Error       string `json:"error"`
	ErrorCode   string `json:"error_code,omitempty"`
	Unavailable []int  `json:"unavailable,omitempty"`
}
