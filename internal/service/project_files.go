package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"docingest/internal/ingest"
	"docingest/internal/model"
	"docingest/internal/notify"
	"docingest/internal/repository"
	"docingest/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrProjectNotFound  = errors.New("project not found")
	ErrTextNotFound     = errors.New("file not found")
	ErrNoFiles          = errors.New("at least one file is required")
	ErrReaderNil        = ingest.ErrNilReader
	ErrIncompatibleTags = errors.New("tags are not compatible with project")
)

var tracer = otel.Tracer("docingest/internal/service")

// Ingester extracts records from one uploaded file.
type Ingester interface {
	Ingest(ctx context.Context, filename string, r io.Reader) ([]model.Record, error)
}

// FileUpload is one named payload of a multi-file upload.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// TextListResult is the service-level DTO for paginated texts.
type TextListResult struct {
	Items []model.TextDocument `json:"data"`
	Total int                  `json:"total"`
}

// ProjectFileService defines the use cases for a project's files.
type ProjectFileService interface {
	// Upload ingests every file, checks all resulting tags against the project's
	// vocabulary and stores the texts. Any failure rejects the whole upload.
	Upload(ctx context.Context, projectID string, files []FileUpload) ([]model.TextDocument, error)

	// ListTexts returns a project's texts using limit/offset and a total count.
	ListTexts(ctx context.Context, projectID string, limit, offset int) (*TextListResult, error)

	// Export renders all texts of a project as a ';'-delimited name;text;tag table.
	Export(ctx context.Context, projectID string) ([]byte, error)

	// DeleteText removes one text from a project.
	DeleteText(ctx context.Context, projectID, textID string) error

	// ClearTags removes the tags of every text in a project.
	ClearTags(ctx context.Context, projectID string) error
}

type projectFileService struct {
	projects repository.ProjectRepository
	texts    repository.TextRepository
	store    storage.Storage
	ingester Ingester
	notifier notify.Notifier
	workers  int
	logger   *slog.Logger
}

// Option configures the project file service.
type Option func(*projectFileService)

// WithWorkers bounds how many files of one upload are ingested in parallel.
func WithWorkers(n int) Option {
	return func(s *projectFileService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *projectFileService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewProjectFileService constructs a new ProjectFileService.
func NewProjectFileService(
	projects repository.ProjectRepository,
	texts repository.TextRepository,
	store storage.Storage,
	ingester Ingester,
	notifier notify.Notifier,
	opts ...Option,
) ProjectFileService {
	s := &projectFileService{
		projects: projects,
		texts:    texts,
		store:    store,
		ingester: ingester,
		notifier: notifier,
		workers:  4,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *projectFileService) project(ctx context.Context, id string) (*model.Project, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

// ingested is the outcome of one file of an upload.
type ingested struct {
	records []model.Record
	source  model.SourceFile
}

func (s *projectFileService) Upload(ctx context.Context, projectID string, files []FileUpload) ([]model.TextDocument, error) {
	ctx, span := tracer.Start(ctx, "service.upload")
	defer span.End()
	span.SetAttributes(attribute.String("project.id", projectID), attribute.Int("upload.files", len(files)))

	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	project, err := s.project(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		stored []string
	)
	rollback := func() {
		mu.Lock()
		keys := append([]string(nil), stored...)
		mu.Unlock()
		if len(keys) == 0 {
			return
		}
		// The request context may already be cancelled; cleanup must still run.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.store.Delete(cctx, keys...); err != nil {
			s.logger.Error("rollback of stored uploads failed", "project_id", projectID, "keys", keys, "error", err)
		}
	}

	results := make([]ingested, len(files))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)
	for i, f := range files {
		eg.Go(func() error {
			res, key, err := s.ingestOne(gctx, projectID, f)
			if key != "" {
				mu.Lock()
				stored = append(stored, key)
				mu.Unlock()
			}
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		rollback()
		return nil, err
	}

	now := time.Now().UTC()
	var (
		sources []model.SourceFile
		texts   []model.TextDocument
	)
	for _, res := range results {
		for _, rec := range res.records {
			if !project.AllowsTags(rec.Tags) {
				rollback()
				return nil, fmt.Errorf("%w: %v", ErrIncompatibleTags, rec.Tags)
			}
			texts = append(texts, model.TextDocument{
				ID:        uuid.NewString(),
				ProjectID: projectID,
				Name:      rec.Name,
				Value:     rec.Value,
				Tags:      rec.Tags,
				CreatedAt: now,
			})
		}
		sources = append(sources, res.source)
	}

	if err := s.texts.CreateBatch(ctx, sources, texts); err != nil {
		rollback()
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	span.SetAttributes(attribute.Int("upload.texts", len(texts)))
	s.logger.Info("upload stored", "project_id", projectID, "files", len(files), "texts", len(texts))
	s.notifier.Publish(projectID, notify.ActionFileAdded)

	if texts == nil {
		texts = make([]model.TextDocument, 0)
	}
	return texts, nil
}

// ingestOne extracts one file and, if it is accepted, archives its raw bytes.
// The returned key names the archived object.
func (s *projectFileService) ingestOne(ctx context.Context, projectID string, f FileUpload) (ingested, string, error) {
	if f.Content == nil {
		return ingested{}, "", ErrReaderNil
	}
	data, err := io.ReadAll(f.Content)
	if err != nil {
		return ingested{}, "", fmt.Errorf("read %s: %w", f.Filename, err)
	}

	records, err := s.ingester.Ingest(ctx, f.Filename, bytes.NewReader(data))
	if err != nil {
		return ingested{}, "", err
	}

	_, ext := ingest.SplitName(f.Filename)
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := storage.SourceKey(projectID, ext)
	info, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": f.Filename,
		},
	})
	if err != nil {
		return ingested{}, "", fmt.Errorf("upload to storage: %w", err)
	}

	return ingested{
		records: records,
		source: model.SourceFile{
			ID:          uuid.NewString(),
			ProjectID:   projectID,
			Filename:    f.Filename,
			StoragePath: info.Key,
			Size:        int64(len(data)),
			ContentType: contentType,
			CreatedAt:   time.Now().UTC(),
		},
	}, key, nil
}

// ListTexts returns paginated texts without exposing repository types.
func (s *projectFileService) ListTexts(ctx context.Context, projectID string, limit, offset int) (*TextListResult, error) {
	if _, err := s.project(ctx, projectID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.texts.ListByProject(ctx, projectID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &TextListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *projectFileService) Export(ctx context.Context, projectID string) ([]byte, error) {
	if _, err := s.project(ctx, projectID); err != nil {
		return nil, err
	}
	texts, err := s.texts.AllByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write([]string{"name", "text", "tag"}); err != nil {
		return nil, err
	}
	for _, t := range texts {
		if err := w.Write([]string{t.Name, t.Value, strings.Join(t.Tags, ", ")}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *projectFileService) DeleteText(ctx context.Context, projectID, textID string) error {
	if textID == "" {
		return ErrIDRequired
	}
	if _, err := s.project(ctx, projectID); err != nil {
		return err
	}
	doc, err := s.texts.FindByID(ctx, textID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTextNotFound
		}
		return err
	}
	if doc.ProjectID != projectID {
		return ErrTextNotFound
	}
	if err := s.texts.Delete(ctx, textID); err != nil {
		return err
	}
	s.notifier.Publish(projectID, notify.ActionFileDeleted)
	return nil
}

func (s *projectFileService) ClearTags(ctx context.Context, projectID string) error {
	if _, err := s.project(ctx, projectID); err != nil {
		return err
	}
	n, err := s.texts.ClearTags(ctx, projectID)
	if err != nil {
		return err
	}
	s.logger.Info("tags cleared", "project_id", projectID, "texts", n)
	s.notifier.Publish(projectID, notify.ActionTagsCleared)
	return nil
}
