package content

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/geocine/canvasdocs/internal/models"
	"github.com/geocine/canvasdocs/internal/utils"
)

// FileService resolves and downloads attachments
type FileService interface {
	File(ctx context.Context, id string) (models.Attachment, error)
	Download(ctx context.Context, att models.Attachment, w io.Writer) error
}

// fileRef matches the numeric file id in LMS attachment urls such as
// /courses/1/files/2345/preview or https://host/files/2345/download
var fileRef = regexp.MustCompile(`/files/(\d+)(?:[/?#]|$)`)

// ImageRewriter materializes embedded attachments next to the content and
// points the image tags at the local copies.
type ImageRewriter struct {
	files FileService
	log   *slog.Logger
}

// NewImageRewriter creates a rewriter backed by files
func NewImageRewriter(files FileService, log *slog.Logger) *ImageRewriter {
	return &ImageRewriter{files: files, log: log}
}

// Rewrite scans html for attachment images, downloads each distinct
// attachment into destDir unless a file with its name already exists, and
// rewrites every matching tag to the local name. Tags whose attachment
// cannot be resolved are left untouched.
func (r *ImageRewriter) Rewrite(ctx context.Context, html, destDir string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	// Distinct ids in order of first appearance
	var ids []string
	tags := map[string][]*goquery.Selection{}
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		m := fileRef.FindStringSubmatch(src)
		if m == nil {
			return
		}
		id := m[1]
		if _, seen := tags[id]; !seen {
			ids = append(ids, id)
		}
		tags[id] = append(tags[id], img)
	})

	if len(ids) == 0 {
		return html, nil
	}

	for _, id := range ids {
		name, ok, err := r.materialize(ctx, id, destDir)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		for _, img := range tags[id] {
			img.SetAttr("src", name)
			img.SetAttr("alt", utils.StripExt(name))
		}
	}

	return doc.Find("body").Html()
}

// materialize makes sure the attachment exists in destDir and returns its
// local name. ok is false when the attachment is degraded.
func (r *ImageRewriter) materialize(ctx context.Context, id, destDir string) (string, bool, error) {
	att, err := r.files.File(ctx, id)
	if err != nil {
		if models.IsFatal(err) {
			return "", false, err
		}
		r.log.Warn("leaving image unresolved", "file", id, "error", err)
		return "", false, nil
	}

	name := utils.SafeFileName(att.DisplayName, "file-"+id)
	dest := filepath.Join(destDir, name)
	if utils.FileExists(dest) {
		r.log.Debug("attachment already present", "file", id, "path", dest)
		return name, true, nil
	}

	err = utils.WriteStream(dest, func(w io.Writer) error {
		return r.files.Download(ctx, att, w)
	})
	if err != nil {
		if models.IsFatal(err) {
			return "", false, err
		}
		r.log.Warn("leaving image unresolved", "file", id, "error", err)
		return "", false, nil
	}

	r.log.Info("downloaded attachment", "file", id, "path", dest)
	return name, true, nil
}

// ImageStage runs the rewriter for pages and assignments
type ImageStage struct {
	rewriter *ImageRewriter
}

// NewImageStage wraps rewriter as a pipeline stage
func NewImageStage(rewriter *ImageRewriter) *ImageStage {
	return &ImageStage{rewriter: rewriter}
}

// Name returns the stage name
func (s *ImageStage) Name() string {
	return "images"
}

// Process rewrites attachment images of HTML bodies
func (s *ImageStage) Process(ctx context.Context, doc *Document) error {
	if doc.Format != HTML {
		return nil
	}
	switch doc.Item.Kind() {
	case models.PageItem, models.AssignmentItem:
	default:
		return nil
	}

	body, err := s.rewriter.Rewrite(ctx, doc.Body, doc.Dir)
	if err != nil {
		return err
	}
	doc.Body = body
	return nil
}
