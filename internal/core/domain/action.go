package domain

const (
	ActionMakeDocument    = "make_document"
	ActionMakeCSV         = "make_csv"
	ActionMakeSpreadsheet = "make_spreadsheet"
)

type ActionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ActionRequest runs one or more generation actions over a document
// scope. Unsupported action names are ignored.
type ActionRequest struct {
	Scope    Scope           `json:"scope"`
	Messages []ActionMessage `json:"messages"`
	Actions  []string        `json:"actions"`
}

func (r ActionRequest) Validate() error {
	if len(r.Actions) == 0 {
		return WrapError(ErrInvalidInput, "validate action", errRequired("actions"))
	}
	return r.Scope.Validate()
}

type ActionResult struct {
	Success          bool       `json:"success"`
	CreatedDocuments []Document `json:"createdDocuments"`
	CreditsUsed      int        `json:"creditsUsed"`
}
