package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Model review lifecycle.
const (
	ModelStatusInitial  = 0
	ModelStatusPending  = 10
	ModelStatusApproved = 20
	ModelStatusRejected = 30
)

// Model is a catalog record.
type Model struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	UserID            int64  `json:"userId"`
	AttrType          string `json:"attrType,omitempty"`
	AttrProtocol      string `json:"attrProtocol,omitempty"`
	AttrBillingMethod string `json:"attrBillingMethod,omitempty"`
	AttrBuildTool     string `json:"attrBuildTool,omitempty"`
	AttrFormat        string `json:"attrFormat,omitempty"`
	AttrLabelIDs      string `json:"attrLabelIds,omitempty"`
	AttrLabelNames    string `json:"attrLabelNames,omitempty"`
	AttrDependencyLib string `json:"attrDependencyLib,omitempty"`
	AttrParamsNumber  string `json:"attrParamsNumber,omitempty"`
	Description       string `json:"description,omitempty"`
	UseDescription    string `json:"useDescription,omitempty"`
	Dimension         int64  `json:"dimension,omitempty"`
	Status            int    `json:"status"`
	IsPublic          int    `json:"isPublic"`
	RepoName          string `json:"repoName,omitempty"`
	RepoURL           string `json:"repoUrl,omitempty"`
	CoverImage        string `json:"coverImage,omitempty"`
	CreateTime        string `json:"createTime,omitempty"`
	UpdateTime        string `json:"updateTime,omitempty"`
	AuthorName        string `json:"authorName,omitempty"`
}

// StatusText renders the review status for display.
func (m *Model) StatusText() string {
	switch m.Status {
	case ModelStatusInitial:
		return "draft"
	case ModelStatusPending:
		return "pending review"
	case ModelStatusApproved:
		return "approved"
	case ModelStatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("status %d", m.Status)
	}
}

// Label is a model tag.
type Label struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId,omitempty"`
}

// LabelCategory groups labels.
type LabelCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Statistics is the dashboard snapshot shown on the home view.
type Statistics struct {
	TotalCount     int64 `json:"totalCount"`
	MyUploadCount  int64 `json:"myUploadCount"`
	MyCollectCount int64 `json:"myCollectCount"`
	ViewCount      int64 `json:"viewCount"`
}

// ModelQuery filters the paged model listing.
type ModelQuery struct {
	Keyword  string
	PageNum  int
	PageSize int
}

func (q ModelQuery) values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.PageNum > 0 {
		v.Set("pageNum", strconv.Itoa(q.PageNum))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

// ModelUpload carries the multipart payload for a new model. ModelFile
// is required; CoverImage is optional.
type ModelUpload struct {
	Name          string
	Description   string
	Tags          []string
	License       string
	Format        string
	Public        bool
	ModelFile     io.Reader
	ModelFileName string
	CoverImage    io.Reader
	CoverFileName string
}

// ModelUpdateRequest edits a model's descriptive attributes.
type ModelUpdateRequest struct {
	Name           string `json:"name,omitempty"`
	Description    string `json:"description,omitempty"`
	UseDescription string `json:"useDescription,omitempty"`
	AttrProtocol   string `json:"attrProtocol,omitempty"`
	AttrFormat     string `json:"attrFormat,omitempty"`
}

// SourceCode is a model's source file contents.
type SourceCode struct {
	FileName   string `json:"fileName"`
	SourceCode string `json:"sourceCode"`
}

// ModelPage queries the public model listing.
func (c *Client) ModelPage(ctx context.Context, query ModelQuery) (*Page[Model], error) {
	var page Page[Model]
	if err := c.get(ctx, "/business/model/list", query.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ModelDetail fetches a single model.
func (c *Client) ModelDetail(ctx context.Context, id int64) (*Model, error) {
	var model Model
	if err := c.get(ctx, fmt.Sprintf("/business/model/%d", id), nil, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// UploadModel submits a new model as a multipart form.
func (c *Client) UploadModel(ctx context.Context, upload ModelUpload) (*Model, error) {
	form := NewForm()
	if err := form.AddField("name", upload.Name); err != nil {
		return nil, err
	}
	if err := form.AddField("description", upload.Description); err != nil {
		return nil, err
	}
	for _, tag := range upload.Tags {
		if err := form.AddField("tags", tag); err != nil {
			return nil, err
		}
	}
	if upload.License != "" {
		if err := form.AddField("license", upload.License); err != nil {
			return nil, err
		}
	}
	if upload.Format != "" {
		if err := form.AddField("format", upload.Format); err != nil {
			return nil, err
		}
	}
	public := "0"
	if upload.Public {
		public = "1"
	}
	if err := form.AddField("isPublic", public); err != nil {
		return nil, err
	}
	if err := form.AddFile("modelFile", upload.ModelFileName, upload.ModelFile); err != nil {
		return nil, err
	}
	if upload.CoverImage != nil {
		if err := form.AddFile("coverImage", upload.CoverFileName, upload.CoverImage); err != nil {
			return nil, err
		}
	}

	var model Model
	if err := c.submitForm(ctx, http.MethodPost, "/business/model/upload", form, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// UpdateModel edits a model's attributes.
func (c *Client) UpdateModel(ctx context.Context, id int64, req ModelUpdateRequest) error {
	return c.put(ctx, fmt.Sprintf("/business/model/%d", id), req, nil)
}

// DeleteModel removes a model.
func (c *Client) DeleteModel(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/business/model/%d", id), nil, nil)
}

// LabelList fetches all labels.
func (c *Client) LabelList(ctx context.Context) ([]Label, error) {
	var labels []Label
	if err := c.get(ctx, "/business/label/list", nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// LabelCategoryList fetches all label categories.
func (c *Client) LabelCategoryList(ctx context.Context) ([]LabelCategory, error) {
	var categories []LabelCategory
	if err := c.get(ctx, "/business/label/category/list", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ModelStatistics fetches the dashboard snapshot.
func (c *Client) ModelStatistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	if err := c.get(ctx, "/business/model/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CollectModel adds a model to the caller's favorites.
func (c *Client) CollectModel(ctx context.Context, modelID int64) error {
	return c.post(ctx, fmt.Sprintf("/business/collect/%d", modelID), nil, nil)
}

// UncollectModel removes a model from the caller's favorites.
func (c *Client) UncollectModel(ctx context.Context, modelID int64) error {
	return c.del(ctx, fmt.Sprintf("/business/collect/%d", modelID), nil, nil)
}

// CheckCollected reports whether the caller has favorited the model.
func (c *Client) CheckCollected(ctx context.Context, modelID int64) (bool, error) {
	var collected bool
	if err := c.get(ctx, fmt.Sprintf("/business/collect/check/%d", modelID), nil, &collected); err != nil {
		return false, err
	}
	return collected, nil
}

// MyCollects queries the caller's favorites.
func (c *Client) MyCollects(ctx context.Context, query ModelQuery) (*Page[Model], error) {
	var page Page[Model]
	if err := c.get(ctx, "/business/collect/list", query.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MyModels queries the caller's own models.
func (c *Client) MyModels(ctx context.Context, query ModelQuery) (*Page[Model], error) {
	var page Page[Model]
	if err := c.get(ctx, "/business/model/my", query.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetModelPublic toggles a model's visibility.
func (c *Client) SetModelPublic(ctx context.Context, id int64, public bool) error {
	isPublic := 0
	if public {
		isPublic = 1
	}
	body := map[string]int{"isPublic": isPublic}
	return c.put(ctx, fmt.Sprintf("/business/model/%d/public", id), body, nil)
}

// PendingModels queries models awaiting review (admin only).
func (c *Client) PendingModels(ctx context.Context, query ModelQuery) (*Page[Model], error) {
	var page Page[Model]
	if err := c.get(ctx, "/business/model/pending", query.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AuditModel approves or rejects a pending model (admin only).
func (c *Client) AuditModel(ctx context.Context, id int64, approved bool) error {
	body := map[string]bool{"approved": approved}
	return c.post(ctx, fmt.Sprintf("/business/model/%d/audit", id), body, nil)
}

// MyActivities fetches the caller's recent model activity.
func (c *Client) MyActivities(ctx context.Context, limit int) ([]Model, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var activities []Model
	if err := c.get(ctx, "/business/model/my-activities", v, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// UpdateModelCover replaces a model's cover image (multipart).
func (c *Client) UpdateModelCover(ctx context.Context, id int64, filename string, image io.Reader) error {
	form := NewForm()
	if err := form.AddFile("coverImage", filename, image); err != nil {
		return err
	}
	return c.submitForm(ctx, http.MethodPut, fmt.Sprintf("/business/model/%d/cover", id), form, nil)
}

// UpdateModelDescription replaces a model's description.
func (c *Client) UpdateModelDescription(ctx context.Context, id int64, description string) error {
	body := map[string]string{"description": description}
	return c.put(ctx, fmt.Sprintf("/business/model/%d/description", id), body, nil)
}

// ModelSourceCode fetches a model's source file.
func (c *Client) ModelSourceCode(ctx context.Context, id int64) (*SourceCode, error) {
	var source SourceCode
	if err := c.get(ctx, fmt.Sprintf("/business/model/%d/source", id), nil, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// UpdateModelSourceCode replaces a model's source file.
func (c *Client) UpdateModelSourceCode(ctx context.Context, id int64, source SourceCode) error {
	return c.put(ctx, fmt.Sprintf("/business/model/%d/source", id), source, nil)
}
