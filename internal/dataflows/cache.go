package dataflows

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CacheManager handles file-based caching of provider responses.
type CacheManager struct {
	cacheDir     string
	ttl          time.Duration
	cacheEnabled bool
}

// NewCacheManager creates a new cache manager.
func NewCacheManager(cacheDir string, ttl time.Duration, cacheEnabled bool) *CacheManager {
	return &CacheManager{
		cacheDir:     cacheDir,
		ttl:          ttl,
		cacheEnabled: cacheEnabled,
	}
}

func (cm *CacheManager) getCacheKey(source, method string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s_%s_%x.json", source, method, hash)
}

// Get retrieves data from cache if present and not expired.
func (cm *CacheManager) Get(source, method string, params interface{}, result interface{}) bool {
	if !cm.cacheEnabled {
		return false
	}

	filePath := filepath.Join(cm.cacheDir, cm.getCacheKey(source, method, params))

	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > cm.ttl {
		os.Remove(filePath)
		return false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, result) == nil
}

// Set stores data in cache.
func (cm *CacheManager) Set(source, method string, params interface{}, data interface{}) error {
	if !cm.cacheEnabled {
		return nil
	}

	if err := os.MkdirAll(cm.cacheDir, 0755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	filePath := filepath.Join(cm.cacheDir, cm.getCacheKey(source, method, params))
	return os.WriteFile(filePath, jsonData, 0644)
}
