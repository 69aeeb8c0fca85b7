package remote

import "fmt"

// EncodeRequest ist der Body von POST /api/vision/encode
type EncodeRequest struct {
	Model string `json:"model"`
	Image string `json:"image"` // Base64
}

// EncodeResponse ist die Antwort mit dem Embedding
type EncodeResponse struct {
	Embedding  []float32 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
	Model      string    `json:"model"`
}

// StatusError ist ein Fehler-Response des Encoder-Dienstes.
// Der Dienst antwortet entweder mit {"code","message"} oder mit {"error"}.
type StatusError struct {
	StatusCode   int
	Code         string `json:"code"`
	Message      string `json:"message"`
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorMessage
	}

	switch {
	case e.Code != "" && msg != "":
		return fmt.Sprintf("remote encoder: %s: %s (status %d)", e.Code, msg, e.StatusCode)
	case msg != "":
		return fmt.Sprintf("remote encoder: %s (status %d)", msg, e.StatusCode)
	default:
		return fmt.Sprintf("remote encoder: status %d", e.StatusCode)
	}
}
