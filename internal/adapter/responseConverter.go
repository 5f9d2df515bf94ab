package adapter

import (
	"github.com/rcastellanos/InvoiceRAG/internal/api"
	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
)

func ToDatasetResponse(info invoiceModel.DatasetInfo) api.DatasetResponse {
	return api.DatasetResponse{
		Id:          info.Id,
		FileName:    info.FileName,
		Columns:     info.Columns,
		RowsLoaded:  info.RowsLoaded,
		RowsIndexed: info.RowsIndexed,
		Generation:  info.Generation,
		Status:      string(info.Status),
		CreatedTime: info.CreatedTime,
	}
}

func ErrorMessage(message string) api.ErrorResponse {
	return api.ErrorResponse{
		Status:  "error",
		Message: message,
	}
}
