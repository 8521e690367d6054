package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"quality-portal-api/config"
	"quality-portal-api/models"
)

var (
	catalogCacheMu sync.RWMutex
	catalogCache   *catalogCacheEntry
	catalogTTL     = 5 * time.Minute
)

type catalogCacheEntry struct {
	types     []models.ReportType
	byCode    map[string]models.ReportType
	fetchedAt time.Time
}

func loadCatalog(force bool) (*catalogCacheEntry, error) {
	catalogCacheMu.RLock()
	cached := catalogCache
	catalogCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < catalogTTL {
		return cached, nil
	}

	catalogCacheMu.Lock()
	defer catalogCacheMu.Unlock()

	if catalogCache != nil && !force && time.Since(catalogCache.fetchedAt) < catalogTTL {
		return catalogCache, nil
	}

	var rows []models.ReportType
	if err := config.DB.
		Where("delete_at IS NULL AND is_active = ?", true).
		Order("display_order ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load report type catalog: %w", err)
	}

	byCode := make(map[string]models.ReportType, len(rows))
	for _, rt := range rows {
		if rt.TypeCode == "" {
			continue
		}
		byCode[strings.TrimSpace(rt.TypeCode)] = rt
	}

	entry := &catalogCacheEntry{
		types:     rows,
		byCode:    byCode,
		fetchedAt: time.Now(),
	}
	catalogCache = entry
	return entry, nil
}

// ClearReportTypeCache invalidates the in-memory catalog cache.
func ClearReportTypeCache() {
	catalogCacheMu.Lock()
	defer catalogCacheMu.Unlock()
	catalogCache = nil
}

// GetReportTypes returns the active report type catalog in canonical
// (display_order) order, with caching support.
func GetReportTypes() ([]models.ReportType, error) {
	entry, err := loadCatalog(false)
	if err != nil {
		return nil, err
	}
	return entry.types, nil
}

// GetReportTypeByCode returns the catalog entry matching the exact type_code.
func GetReportTypeByCode(code string) (*models.ReportType, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, errors.New("report type code is required")
	}

	entry, err := loadCatalog(false)
	if err != nil {
		return nil, err
	}

	if rt, ok := entry.byCode[trimmed]; ok {
		return &rt, nil
	}

	// Force refresh cache once before giving up
	entry, err = loadCatalog(true)
	if err != nil {
		return nil, err
	}

	if rt, ok := entry.byCode[trimmed]; ok {
		return &rt, nil
	}

	return nil, fmt.Errorf("report type '%s' not found", trimmed)
}
