package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"dconn.dev/portfolio-api/internal/metrics"
	"dconn.dev/portfolio-api/internal/models"
	"dconn.dev/portfolio-api/internal/store"
)

// ErrProjectNotFound is returned when no project has the requested id
var ErrProjectNotFound = errors.New("project not found")

// ProjectService handles project-related operations.
// Every call loads the catalog from the store; mutations save the whole document back.
type ProjectService struct {
	store   store.Store
	logger  *zap.Logger
	metrics *metrics.Metrics

	// mu serialises load-modify-save cycles within this process.
	mu sync.Mutex
}

// NewProjectService creates a new ProjectService
func NewProjectService(st store.Store, logger *zap.Logger, m *metrics.Metrics) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{store: st, logger: logger, metrics: m}
}

// GetAll returns all projects
func (s *ProjectService) GetAll(ctx context.Context) ([]models.Project, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Projects, nil
}

// Create appends a project without checking id uniqueness
func (s *ProjectService) Create(ctx context.Context, project models.Project) (models.Project, error) {
	err := s.mutate(ctx, func(catalog *models.Catalog) error {
		catalog.Projects = append(catalog.Projects, project)
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}

	id, _ := project.ID()
	s.logger.Info("project created", zap.Stringer("id", id))
	return project, nil
}

// Update overwrites every editable field of the first project matching the id of changes.
// Fields changes does not carry are removed from the stored record.
func (s *ProjectService) Update(ctx context.Context, changes models.Project) (models.Project, error) {
	id, ok := changes.ID()
	if !ok {
		return models.Project{}, ErrProjectNotFound
	}

	var updated models.Project
	err := s.mutate(ctx, func(catalog *models.Catalog) error {
		idx := store.FindIndex(catalog, id)
		if idx == -1 {
			return ErrProjectNotFound
		}
		catalog.Projects[idx].Overwrite(changes)
		updated = catalog.Projects[idx]
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}

	s.logger.Info("project updated", zap.Stringer("id", id))
	return updated, nil
}

// Delete removes the first project with the given id and returns it
func (s *ProjectService) Delete(ctx context.Context, id models.ID) (models.Project, error) {
	var deleted models.Project
	err := s.mutate(ctx, func(catalog *models.Catalog) error {
		idx := store.FindIndex(catalog, id)
		if idx == -1 {
			return ErrProjectNotFound
		}
		deleted = catalog.Projects[idx]
		catalog.Projects = append(catalog.Projects[:idx], catalog.Projects[idx+1:]...)
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}

	s.logger.Info("project deleted", zap.Stringer("id", id))
	return deleted, nil
}

// mutate runs fn between a load and a save while holding the service lock.
// The catalog is not saved when fn fails.
func (s *ProjectService) mutate(ctx context.Context, fn func(*models.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(catalog); err != nil {
		return err
	}

	err = s.store.Save(ctx, catalog)
	s.metrics.StoreOperation(store.OpSave, err)
	if err != nil {
		return err
	}
	s.metrics.SetCatalogSize(len(catalog.Projects))
	return nil
}

func (s *ProjectService) load(ctx context.Context) (*models.Catalog, error) {
	catalog, err := s.store.Load(ctx)
	s.metrics.StoreOperation(store.OpLoad, err)
	if err != nil {
		return nil, err
	}
	s.metrics.SetCatalogSize(len(catalog.Projects))
	return catalog, nil
}
