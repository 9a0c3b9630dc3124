//go:build integration

package directory_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bestbosses/internal/boss"
	"bestbosses/internal/directory"
	platformredis "bestbosses/internal/platform/redis"
	id "bestbosses/pkg/domain"
	"bestbosses/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *directory.Cache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := &platformredis.Client{Client: s.redis.Client}
	s.cache = directory.NewCache(client, time.Minute, logger)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) listing() []*boss.Boss {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return []*boss.Boss{
		{
			ID:           id.NewBossID(),
			FirstName:    "Alex",
			LastName:     "Morgan",
			Company:      "Acme Corp",
			Slug:         "alex-morgan-suffix",
			NominationID: id.NewNominationID(),
			NominatorID:  id.NewUserID(),
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

func (s *RedisCacheSuite) TestStoreAndListing() {
	ctx := context.Background()

	_, ok := s.cache.Listing(ctx)
	s.False(ok, "empty cache should miss")

	want := s.listing()
	s.cache.StoreListing(ctx, want)

	got, ok := s.cache.Listing(ctx)
	s.Require().True(ok)
	s.Require().Len(got, 1)
	s.Equal(want[0].ID, got[0].ID)
	s.Equal(want[0].Slug, got[0].Slug)
}

func (s *RedisCacheSuite) TestInvalidate() {
	ctx := context.Background()

	s.cache.StoreListing(ctx, s.listing())
	_, ok := s.cache.Listing(ctx)
	s.Require().True(ok)

	s.cache.Invalidate(ctx)

	_, ok = s.cache.Listing(ctx)
	s.False(ok, "invalidated listing should miss")
}

func (s *RedisCacheSuite) TestUndecodableEntryDegradesToMiss() {
	ctx := context.Background()

	err := s.redis.Client.Set(ctx, "directory:listing", "not json", time.Minute).Err()
	s.Require().NoError(err)

	_, ok := s.cache.Listing(ctx)
	s.False(ok)
}
