package domain

// Stats is the operational snapshot served by the stats endpoint.
type Stats struct {
	DocsTotal    int `json:"docs_total"`
	FoldersTotal int `json:"folders_total"`
	ActionsMonth int `json:"actions_month"`
	TasksToday   int `json:"tasks_today"`
}
