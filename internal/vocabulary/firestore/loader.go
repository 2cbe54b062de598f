// Package firestore loads vocabulary items from a Cloud Firestore collection through its REST API.
package firestore

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

const DefaultBaseURL = "https://firestore.googleapis.com"

type Config struct {
	BaseURL    string
	ProjectID  string
	DatabaseID string
	Collection string
	// APIKey is sent as the key query parameter when set.
	APIKey string
	// AccessToken is sent as a bearer token when set.
	AccessToken string
	PageSize    int
}

type Loader struct {
	httpClient *resty.Client
	config     Config
}

func NewLoader(config Config) *Loader {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.DatabaseID == "" {
		config.DatabaseID = "(default)"
	}

	client := resty.New()
	client.SetBaseURL(config.BaseURL)
	client.SetHeader("Accept", "application/json")
	if config.AccessToken != "" {
		client.SetAuthToken(config.AccessToken)
	}

	return &Loader{
		httpClient: client,
		config:     config,
	}
}

type listDocumentsResponse struct {
	Documents     []document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

type document struct {
	Name   string           `json:"name"`
	Fields map[string]value `json:"fields"`
}

// value is a Firestore typed value. Only scalar kinds that can be shown as text are decoded.
type value struct {
	StringValue  *string  `json:"stringValue,omitempty"`
	IntegerValue *string  `json:"integerValue,omitempty"`
	DoubleValue  *float64 `json:"doubleValue,omitempty"`
}

func (v value) text() string {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntegerValue != nil:
		return *v.IntegerValue
	case v.DoubleValue != nil:
		return strconv.FormatFloat(*v.DoubleValue, 'f', -1, 64)
	}
	return ""
}

func (d document) toItem() vocabulary.Item {
	return vocabulary.Item{
		Word:    d.Fields["word"].text(),
		Meaning: d.Fields["meaning"].text(),
		Example: d.Fields["example"].text(),
	}
}

func (loader *Loader) documentsPath() string {
	return fmt.Sprintf("/v1/projects/%s/databases/%s/documents/%s",
		loader.config.ProjectID, loader.config.DatabaseID, loader.config.Collection)
}

// LoadAll returns every document of the collection, following page tokens until the last page.
func (loader *Loader) LoadAll(ctx context.Context) ([]vocabulary.Item, error) {
	var items []vocabulary.Item
	pageToken := ""
	for {
		page, err := loader.listDocuments(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		for _, doc := range page.Documents {
			items = append(items, doc.toItem())
		}
		slog.Default().Debug("firestore page loaded",
			"collection", loader.config.Collection,
			"documents", len(page.Documents),
			"hasNext", page.NextPageToken != "",
		)
		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}

func (loader *Loader) listDocuments(ctx context.Context, pageToken string) (*listDocumentsResponse, error) {
	request := loader.httpClient.R().
		SetContext(ctx).
		SetResult(&listDocumentsResponse{})
	if loader.config.PageSize > 0 {
		request.SetQueryParam("pageSize", strconv.Itoa(loader.config.PageSize))
	}
	if pageToken != "" {
		request.SetQueryParam("pageToken", pageToken)
	}
	if loader.config.APIKey != "" {
		request.SetQueryParam("key", loader.config.APIKey)
	}

	res, err := request.Get(loader.documentsPath())
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get(%s) > %w", loader.config.Collection, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}

	page, ok := res.Result().(*listDocumentsResponse)
	if !ok || page == nil {
		return nil, fmt.Errorf("unexpected response body: %s", string(res.Body()))
	}
	return page, nil
}
