// Package docs wraps the Google Docs and Drive APIs for template-driven
// document generation: copying a template, replacing {{placeholder}} tokens,
// and producing share and PDF-export links.
package docs

import (
	"context"
	"fmt"
	"io"
	"os"

	docsapi "google.golang.org/api/docs/v1"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	googleDocMIMEType = "application/vnd.google-apps.document"
	folderMIMEType    = "application/vnd.google-apps.folder"
	docxMIMEType      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Client wraps the Docs and Drive services with document-level operations.
type Client struct {
	docs  *docsapi.Service
	drive *driveapi.Service
}

// NewClient creates a Docs client. With no options, credentials are taken
// from the file named by GOOGLE_SERVICE_ACCOUNT_JSON.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	if len(opts) == 0 {
		credsPath := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
		if credsPath == "" {
			return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON is not set")
		}
		opts = append(opts,
			option.WithCredentialsFile(credsPath),
			option.WithScopes(docsapi.DocumentsScope, driveapi.DriveScope),
		)
	}
	docsSvc, err := docsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	driveSvc, err := driveapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{docs: docsSvc, drive: driveSvc}, nil
}

// CopyDoc copies the template document under the given name and returns the
// new document ID. When folderID is non-empty the copy is placed there.
func (c *Client) CopyDoc(ctx context.Context, templateID, name, folderID string) (string, error) {
	file := &driveapi.File{Name: name}
	if folderID != "" {
		file.Parents = []string{folderID}
	}
	copied, err := c.drive.Files.Copy(templateID, file).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("copy template %s: %w", templateID, err)
	}
	return copied.Id, nil
}

// ReplacePlaceholders replaces every {{column}} token in the document with
// its value in a single batch update. Tokens match case-sensitively so that
// column names that differ only by case stay distinct.
func (c *Client) ReplacePlaceholders(ctx context.Context, docID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	requests := make([]*docsapi.Request, 0, len(values))
	for column, value := range values {
		requests = append(requests, &docsapi.Request{
			ReplaceAllText: &docsapi.ReplaceAllTextRequest{
				ContainsText: &docsapi.SubstringMatchCriteria{
					Text:      fmt.Sprintf("{{%s}}", column),
					MatchCase: true,
				},
				ReplaceText: value,
			},
		})
	}
	_, err := c.docs.Documents.BatchUpdate(docID, &docsapi.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("replace placeholders in %s: %w", docID, err)
	}
	return nil
}

// Title fetches the document's title, verifying the ID is reachable with the
// current credentials.
func (c *Client) Title(ctx context.Context, docID string) (string, error) {
	doc, err := c.docs.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get document %s: %w", docID, err)
	}
	return doc.Title, nil
}

// CreateFromText creates a new document with the given title and body text
// and returns its ID. Documents.Create cannot place the document directly,
// so a non-empty folderID is applied with a Drive move afterwards.
func (c *Client) CreateFromText(ctx context.Context, title, folderID, body string) (string, error) {
	doc, err := c.docs.Documents.Create(&docsapi.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	if folderID != "" {
		_, err = c.drive.Files.Update(doc.DocumentId, &driveapi.File{}).
			AddParents(folderID).
			Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("move document to folder: %w", err)
		}
	}
	if body == "" {
		return doc.DocumentId, nil
	}
	_, err = c.docs.Documents.BatchUpdate(doc.DocumentId, &docsapi.BatchUpdateDocumentRequest{
		Requests: []*docsapi.Request{{
			InsertText: &docsapi.InsertTextRequest{
				Location: &docsapi.Location{Index: 1},
				Text:     body,
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write document body: %w", err)
	}
	return doc.DocumentId, nil
}

// UploadDocxAsDoc uploads a .docx file and converts it to a native Google
// Doc, returning the new document ID. When folderID is non-empty the document
// is placed there.
func (c *Client) UploadDocxAsDoc(ctx context.Context, name, folderID string, content io.Reader) (string, error) {
	file := &driveapi.File{
		Name:     name,
		MimeType: googleDocMIMEType,
	}
	if folderID != "" {
		file.Parents = []string{folderID}
	}
	created, err := c.drive.Files.Create(file).
		Media(content, googleapi.ContentType(docxMIMEType)).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload docx %q: %w", name, err)
	}
	return created.Id, nil
}

// EnsureFolder finds a Drive folder by name, creating it when absent, and
// returns its ID.
func (c *Client) EnsureFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("mimeType='%s' and name='%s' and trashed=false", folderMIMEType, name)
	list, err := c.drive.Files.List().Q(query).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find folder %q: %w", name, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	created, err := c.drive.Files.Create(&driveapi.File{
		Name:     name,
		MimeType: folderMIMEType,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	return created.Id, nil
}

// DocURL returns the browser edit URL for a document.
func DocURL(docID string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", docID)
}

// PDFExportURL returns the direct PDF export URL for a document.
func PDFExportURL(docID string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=pdf", docID)
}
