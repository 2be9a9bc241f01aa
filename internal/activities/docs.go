package activities

import (
	"context"

	"datastudio/internal/docs"
	"datastudio/internal/models"
	"datastudio/internal/template"
)

// EnsureFolderInput is the input for the EnsureFolder activity.
type EnsureFolderInput struct {
	Name string `json:"name"`
}

// EnsureFolderOutput is the output from the EnsureFolder activity.
type EnsureFolderOutput struct {
	FolderID string `json:"folder_id"`
}

// GenerateRowDocumentInput is the input for the GenerateRowDocument activity.
type GenerateRowDocumentInput struct {
	TemplateDocID   string             `json:"template_doc_id"`
	FolderID        string             `json:"folder_id,omitempty"`
	FilenamePattern string             `json:"filename_pattern"`
	Row             models.RowSnapshot `json:"row"`
}

// GenerateRowDocumentOutput is the output from the GenerateRowDocument activity.
type GenerateRowDocumentOutput struct {
	DocID  string `json:"doc_id"`
	Name   string `json:"name"`
	DocURL string `json:"doc_url"`
	PDFURL string `json:"pdf_url"`
}

// DocActivities contains document generation activities.
type DocActivities struct {
	client *docs.Client
}

// NewDocActivities creates a new DocActivities instance.
func NewDocActivities(client *docs.Client) *DocActivities {
	return &DocActivities{client: client}
}

// EnsureFolder finds or creates the Drive folder generated documents go in.
func (a *DocActivities) EnsureFolder(ctx context.Context, input EnsureFolderInput) (EnsureFolderOutput, error) {
	folderID, err := a.client.EnsureFolder(ctx, input.Name)
	if err != nil {
		return EnsureFolderOutput{}, err
	}
	return EnsureFolderOutput{FolderID: folderID}, nil
}

// GenerateRowDocument copies the template for one worklist row, fills in the
// row's placeholders, and returns the document links. The document name comes
// from the filename pattern with the row's values substituted; unknown
// pattern tokens are left as-is so a bad pattern is visible in the name
// rather than a failure.
func (a *DocActivities) GenerateRowDocument(ctx context.Context, input GenerateRowDocumentInput) (GenerateRowDocumentOutput, error) {
	name := template.Render(input.FilenamePattern, input.Row.Values)

	docID, err := a.client.CopyDoc(ctx, input.TemplateDocID, name, input.FolderID)
	if err != nil {
		return GenerateRowDocumentOutput{}, err
	}
	if err := a.client.ReplacePlaceholders(ctx, docID, input.Row.Values); err != nil {
		return GenerateRowDocumentOutput{}, err
	}

	return GenerateRowDocumentOutput{
		DocID:  docID,
		Name:   name,
		DocURL: docs.DocURL(docID),
		PDFURL: docs.PDFExportURL(docID),
	}, nil
}
