package api

import "time"

type UploadResponse struct {
	Status   string   `json:"status" example:"success"`
	Message  string   `json:"message"`
	FilePath string   `json:"file_path"`
	Rows     int      `json:"rows"`
	Columns  []string `json:"columns"`
}

type AnalyzeResponse struct {
	Status            string              `json:"status"`
	Columns           []string            `json:"columns"`
	SuggestedMappings map[string]string   `json:"suggested_mappings"`
	PreviewData       []map[string]string `json:"preview_data"`
	FilePath          string              `json:"file_path"`
}

type ProcessMappedRequest struct {
	FilePath string            `json:"file_path" validate:"required"`
	Mappings map[string]string `json:"mappings" validate:"required"`
}

type ProcessedResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"File type not allowed"`
}

type TemplateItem struct {
	Id     string `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

type DatasetResponse struct {
	Id          string    `json:"id"`
	FileName    string    `json:"file_name"`
	Columns     []string  `json:"columns"`
	RowsLoaded  int       `json:"rows_loaded"`
	RowsIndexed int       `json:"rows_indexed"`
	Generation  string    `json:"generation"`
	Status      string    `json:"status"`
	CreatedTime time.Time `json:"created_time"`
}

// websocket---------------------

// ChatTurn is one element of the conversation array the client sends.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	ActionInit   = "init_system_response"
	ActionAppend = "append_system_response"
	ActionFinish = "finish_system_response"
	ActionError  = "error"
)

type SocketMessage struct {
	Action  string `json:"action"`
	Content string `json:"content,omitempty"`
}
