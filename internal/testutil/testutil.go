package testutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/geocine/canvasdocs/internal/models"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to a file in the test directory
func WriteFile(t *testing.T, dir, path, content string) {
	fullPath := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
}

// ReadFile reads content from a test file
func ReadFile(t *testing.T, dir, path string) string {
	fullPath := filepath.Join(dir, path)
	content, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	return string(content)
}

// ListFiles returns every file under dir as sorted slash separated relative paths
func ListFiles(t *testing.T, dir string) []string {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

// FakeFile is an attachment served by FakeLMS
type FakeFile struct {
	Name string
	Data string
}

// FakeLMS is an in-memory content service. Missing entries answer with
// models.ErrNotFound, like a deleted resource on the real service.
type FakeLMS struct {
	CourseInfo  models.Course
	ModuleList  []models.Module
	Items       map[string][]models.ModuleItem // by module id
	Pages       map[string]string              // by page url
	Assignments map[string]string              // by assignment id
	Files       map[string]FakeFile            // by file id

	mu        sync.Mutex
	downloads map[string]int
}

// NewFakeLMS creates an empty fake for the named course
func NewFakeLMS(courseName string) *FakeLMS {
	return &FakeLMS{
		CourseInfo:  models.Course{ID: "1", Name: courseName},
		Items:       map[string][]models.ModuleItem{},
		Pages:       map[string]string{},
		Assignments: map[string]string{},
		Files:       map[string]FakeFile{},
		downloads:   map[string]int{},
	}
}

// AddModule appends a module with its items and returns it
func (f *FakeLMS) AddModule(name string, items ...models.ModuleItem) models.Module {
	m := models.Module{
		ID:       fmt.Sprintf("m%d", len(f.ModuleList)+1),
		Name:     name,
		Position: len(f.ModuleList),
	}
	f.ModuleList = append(f.ModuleList, m)
	f.Items[m.ID] = items
	return m
}

// Downloads returns how often the file id was downloaded
func (f *FakeLMS) Downloads(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads[id]
}

func (f *FakeLMS) Course(ctx context.Context) (models.Course, error) {
	return f.CourseInfo, nil
}

func (f *FakeLMS) Modules(ctx context.Context) ([]models.Module, error) {
	return f.ModuleList, nil
}

func (f *FakeLMS) ModuleItems(ctx context.Context, m models.Module) ([]models.ModuleItem, error) {
	items, ok := f.Items[m.ID]
	if !ok {
		return nil, fmt.Errorf("module %s: %w", m.ID, models.ErrNotFound)
	}
	return items, nil
}

func (f *FakeLMS) PageBody(ctx context.Context, ref string) (string, error) {
	body, ok := f.Pages[ref]
	if !ok {
		return "", fmt.Errorf("page %s: %w", ref, models.ErrNotFound)
	}
	return body, nil
}

func (f *FakeLMS) AssignmentDescription(ctx context.Context, ref string) (string, error) {
	body, ok := f.Assignments[ref]
	if !ok {
		return "", fmt.Errorf("assignment %s: %w", ref, models.ErrNotFound)
	}
	return body, nil
}

func (f *FakeLMS) File(ctx context.Context, id string) (models.Attachment, error) {
	file, ok := f.Files[id]
	if !ok {
		return models.Attachment{}, fmt.Errorf("file %s: %w", id, models.ErrNotFound)
	}
	return models.Attachment{ID: id, DisplayName: file.Name, URL: "fake://files/" + id}, nil
}

func (f *FakeLMS) Download(ctx context.Context, att models.Attachment, w io.Writer) error {
	file, ok := f.Files[att.ID]
	if !ok {
		return fmt.Errorf("file %s: %w", att.ID, models.ErrNotFound)
	}
	f.mu.Lock()
	f.downloads[att.ID]++
	f.mu.Unlock()
	_, err := io.Copy(w, strings.NewReader(file.Data))
	return err
}
