package domain

type ContentClass string

const (
	ClassOfficial ContentClass = "official"
	ClassAd       ContentClass = "ad"
	ClassUnknown  ContentClass = "unknown"
)

// OCREvent is the inbound webhook payload: free text recognized from a
// scanned image, plus the sender channel that produced it.
type OCREvent struct {
	Source  string         `json:"source"`
	ImageID string         `json:"imageId"`
	Text    string         `json:"text"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func (e OCREvent) Validate() error {
	switch {
	case e.Source == "":
		return WrapError(ErrInvalidInput, "validate webhook", errRequired("source"))
	case e.ImageID == "":
		return WrapError(ErrInvalidInput, "validate webhook", errRequired("imageId"))
	case e.Text == "":
		return WrapError(ErrInvalidInput, "validate webhook", errRequired("text"))
	}
	return nil
}

// WebhookResult is a structured outcome, never an error: non-ad text,
// a missing unsubscribe target, and a hit rate limit are all expected
// business results.
type WebhookResult struct {
	ImageID        string       `json:"imageId"`
	Classification ContentClass `json:"classification"`
	Processed      bool         `json:"processed"`
	TaskID         string       `json:"taskId,omitempty"`
	Reason         string       `json:"reason,omitempty"`
}
