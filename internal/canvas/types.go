package canvas

import (
	"strconv"

	"github.com/geocine/canvasdocs/internal/models"
)

// Item type tags as returned by the modules API
const (
	typePage        = "Page"
	typeAssignment  = "Assignment"
	typeExternalURL = "ExternalUrl"
	typeSubHeader   = "SubHeader"
)

type apiCourse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type apiModule struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
	ItemsCount int    `json:"items_count"`
}

type apiModuleItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Position    int    `json:"position"`
	Indent      int    `json:"indent"`
	PageURL     string `json:"page_url"`
	ContentID   int64  `json:"content_id"`
	ExternalURL string `json:"external_url"`
}

type apiPage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type apiAssignment struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type apiFile struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Filename    string `json:"filename"`
	URL         string `json:"url"`
}

// toModuleItem maps the API's type tag onto the closed item variant
func toModuleItem(raw apiModuleItem) models.ModuleItem {
	switch raw.Type {
	case typePage:
		return models.Page{Title: raw.Title, Ref: raw.PageURL}
	case typeAssignment:
		return models.Assignment{Title: raw.Title, Ref: strconv.FormatInt(raw.ContentID, 10)}
	case typeExternalURL:
		return models.ExternalLink{Title: raw.Title, URL: raw.ExternalURL}
	case typeSubHeader:
		return models.SubHeader{Title: raw.Title}
	default:
		return models.Unsupported{Title: raw.Title, TypeTag: raw.Type}
	}
}

func (f apiFile) attachment() models.Attachment {
	name := f.DisplayName
	if name == "" {
		name = f.Filename
	}
	return models.Attachment{
		ID:          strconv.FormatInt(f.ID, 10),
		DisplayName: name,
		URL:         f.URL,
	}
}
