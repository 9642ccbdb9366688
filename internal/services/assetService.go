package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"toolscout/internal/assetcache"
	"toolscout/internal/repositories"
)

// AssetService resolves tool logo URLs through the TTL cache so the favicon
// derivation runs at most once per tool per week.
type AssetService interface {
	ResolveLogo(ctx context.Context, slug string) (string, error)
}

type assetServiceImpl struct {
	toolRepo repositories.ToolRepository
	cache    *assetcache.Cache
}

func NewAssetService(toolRepo repositories.ToolRepository, cache *assetcache.Cache) AssetService {
	return &assetServiceImpl{toolRepo: toolRepo, cache: cache}
}

func (s *assetServiceImpl) ResolveLogo(ctx context.Context, slug string) (string, error) {
	if logo, ok := s.cache.Get(ctx, slug); ok {
		return logo, nil
	}

	tool, err := s.toolRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrToolNotFound
		}
		return "", err
	}

	logo := logoFor(tool.Website, tool.Name)
	s.cache.Put(ctx, slug, logo)
	log.Debug().Str("slug", slug).Str("logo", logo).Msg("Resolved tool logo")
	return logo, nil
}

// logoFor derives a logo URL from the tool's website favicon, falling back to
// a generated avatar when no website is known.
func logoFor(website, name string) string {
	if u, err := url.Parse(website); err == nil && u.Host != "" {
		return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=128", u.Host)
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&size=128", url.QueryEscape(name))
}
