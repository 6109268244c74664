package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophfeed/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophfeed/internal/common"
)

var errEmptyToken = errors.New("empty token")

// TokenStore persists the session credential outside process memory.
// Load returns "" when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MetadataTokenStore keeps the credential in the local metadata table under
// common.TokenMetadataKey.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewMetadataTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

func (s *MetadataTokenStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.TokenMetadataKey)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return string(v), nil
}

func (s *MetadataTokenStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return errEmptyToken
	}
	if err := s.repo.Set(ctx, common.TokenMetadataKey, []byte(token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *MetadataTokenStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.TokenMetadataKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
