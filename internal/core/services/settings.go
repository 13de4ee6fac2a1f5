package services

import (
	"fmt"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkMaxSize      = "chunking.max_size"
	keyChunkOverlap      = "chunking.overlap"
	keyVectorWeight      = "retrieval.vector_weight"
	keyKeywordWeight     = "retrieval.keyword_weight"
	keyMinKeywordScore   = "retrieval.min_keyword_score"
	keyReranking         = "retrieval.reranking"
	keyContextWindowSize = "retrieval.context_window_size"
	keyRerankProxWindow  = "rerank.proximity_window"
	keyRerankProxScale   = "rerank.proximity_scale"
	keyRerankRecencyDays = "rerank.recency_days"
	keyRerankRecScale    = "rerank.recency_scale"
	keyRerankCategory    = "rerank.category_bonus"
	keyRerankDensity     = "rerank.density_scale"
	keyRerankDamping     = "rerank.damping"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
)

// SettingsService manages engine settings on top of the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings, falling back to defaults for keys
// the config store does not hold.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		Chunking: domain.ChunkingSettings{
			MaxSize: s.getInt(keyChunkMaxSize, defaults.Chunking.MaxSize),
			Overlap: s.getIntAllowZero(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			VectorWeight:      s.getFloat(keyVectorWeight, defaults.Retrieval.VectorWeight),
			KeywordWeight:     s.getFloat(keyKeywordWeight, defaults.Retrieval.KeywordWeight),
			MinKeywordScore:   s.getFloat(keyMinKeywordScore, defaults.Retrieval.MinKeywordScore),
			Reranking:         s.getBool(keyReranking, defaults.Retrieval.Reranking),
			ContextWindowSize: s.getInt(keyContextWindowSize, defaults.Retrieval.ContextWindowSize),
		},
		Rerank: domain.RerankWeights{
			ProximityWindow: s.getInt(keyRerankProxWindow, defaults.Rerank.ProximityWindow),
			ProximityScale:  s.getFloat(keyRerankProxScale, defaults.Rerank.ProximityScale),
			RecencyDays:     s.getInt(keyRerankRecencyDays, defaults.Rerank.RecencyDays),
			RecencyScale:    s.getFloat(keyRerankRecScale, defaults.Rerank.RecencyScale),
			CategoryBonus:   s.getFloat(keyRerankCategory, defaults.Rerank.CategoryBonus),
			DensityScale:    s.getFloat(keyRerankDensity, defaults.Rerank.DensityScale),
			Damping:         s.getFloat(keyRerankDamping, defaults.Rerank.Damping),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(defaults.Embedding.Provider),
			Model:    s.configStore.GetString(keyEmbedModel),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return settings, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	pairs := []struct {
		key   string
		value any
	}{
		{keyChunkMaxSize, int64(settings.Chunking.MaxSize)},
		{keyChunkOverlap, int64(settings.Chunking.Overlap)},
		{keyVectorWeight, settings.Retrieval.VectorWeight},
		{keyKeywordWeight, settings.Retrieval.KeywordWeight},
		{keyMinKeywordScore, settings.Retrieval.MinKeywordScore},
		{keyReranking, settings.Retrieval.Reranking},
		{keyContextWindowSize, int64(settings.Retrieval.ContextWindowSize)},
		{keyRerankProxWindow, int64(settings.Rerank.ProximityWindow)},
		{keyRerankProxScale, settings.Rerank.ProximityScale},
		{keyRerankRecencyDays, int64(settings.Rerank.RecencyDays)},
		{keyRerankRecScale, settings.Rerank.RecencyScale},
		{keyRerankCategory, settings.Rerank.CategoryBonus},
		{keyRerankDensity, settings.Rerank.DensityScale},
		{keyRerankDamping, settings.Rerank.Damping},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedAPIKey, settings.Embedding.APIKey},
	}
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("saving %s: %w", p.key, err)
		}
	}
	return nil
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if v := s.configStore.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

// getIntAllowZero distinguishes an explicit zero from a missing key,
// since zero overlap is a valid setting.
func (s *SettingsService) getIntAllowZero(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return fallback
}

func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return fallback
}

func (s *SettingsService) getBool(key string, fallback bool) bool {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetBool(key)
	}
	return fallback
}

func (s *SettingsService) getProvider(fallback domain.EmbeddingProvider) domain.EmbeddingProvider {
	raw := s.configStore.GetString(keyEmbedProvider)
	if raw == "" {
		return fallback
	}
	provider := domain.EmbeddingProvider(raw)
	if !provider.IsValid() {
		return fallback
	}
	return provider
}
