package engine

import (
	"go.uber.org/zap"

	"github.com/gcbaptista/go-fuzzy-search/config"
	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
)

// UpdateCollectionSettings replaces the match defaults of a collection.
// The name cannot change here; use RenameCollection. Calls already running
// keep the settings they started with.
func (e *Engine) UpdateCollectionSettings(name string, newSettings config.CollectionSettings) error {
	if newSettings.Name == "" {
		newSettings.Name = name
	}
	if newSettings.Name != name {
		return internalErrors.NewValidationError("name", "use rename to change a collection name")
	}
	if problems := newSettings.Validate(); len(problems) > 0 {
		return internalErrors.NewValidationError("settings", problems[0])
	}
	newSettings.ApplyDefaults()

	e.mu.RLock()
	instance, exists := e.collections[name]
	e.mu.RUnlock()
	if !exists {
		return internalErrors.NewCollectionNotFoundError(name)
	}

	instance.setSettings(newSettings)
	e.logger.Info("Collection settings updated",
		zap.String("collection", name),
		zap.Bool("smart_case", newSettings.SmartCase),
		zap.Int("max_results", newSettings.MaxResults),
		zap.Int("parallel_threshold", newSettings.ParallelThreshold))
	return nil
}

// RenameCollection moves a collection, with its candidates, to a new name.
func (e *Engine) RenameCollection(oldName, newName string) error {
	if oldName == newName {
		return internalErrors.NewSameNameError(oldName)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.collections[oldName]
	if !exists {
		return internalErrors.NewCollectionNotFoundError(oldName)
	}
	if _, exists := e.collections[newName]; exists {
		return internalErrors.NewCollectionAlreadyExistsError(newName)
	}

	settings := instance.Settings()
	settings.Name = newName
	if problems := settings.Validate(); len(problems) > 0 {
		return internalErrors.NewValidationError("name", problems[0])
	}
	instance.setSettings(settings)

	e.collections[newName] = instance
	delete(e.collections, oldName)

	e.logger.Info("Collection renamed",
		zap.String("from", oldName),
		zap.String("to", newName))
	return nil
}
