//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"adonix/internal/database/postgres"
	"adonix/internal/models"
	"adonix/pkg/platform/sentinel"
	"adonix/pkg/testutil/containers"
)

type PostgresEngineSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	models   *models.Models
}

func TestPostgresEngineSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresEngineSuite))
}

func (s *PostgresEngineSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
}

func (s *PostgresEngineSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.DropTables(ctx, "newsletter_subscriptions"))

	m, err := models.New(ctx, postgres.New(s.postgres.DB))
	s.Require().NoError(err)
	s.models = m
}

func (s *PostgresEngineSuite) TestEveryCollectionHasATable() {
	for _, id := range s.models.Identifiers() {
		var exists bool
		err := s.postgres.DB.QueryRow(`SELECT to_regclass($1) IS NOT NULL`, `"`+id.String()+`"`).Scan(&exists)
		s.Require().NoError(err)
		s.True(exists, "table for %s", id)
	}
}

// TestConcurrentSubscribersOnNewList verifies the ON CONFLICT upsert keeps
// every member when the list does not exist yet and all writers race to create it.
func (s *PostgresEngineSuite) TestConcurrentSubscribersOnNewList() {
	ctx := context.Background()
	subs := s.models.Newsletter.Subscriptions
	const goroutines = 50

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- subs.AddToSet(ctx, "testingList", models.NewsletterSubscribersField, fmt.Sprintf("user%d@example.com", i))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	list, err := subs.Find(ctx, "testingList")
	s.Require().NoError(err)
	s.Equal("testingList", list.ListID)
	s.Len(list.Subscribers, goroutines)
}

func (s *PostgresEngineSuite) TestAddToSetIsIdempotent() {
	ctx := context.Background()
	subs := s.models.Newsletter.Subscriptions

	s.Require().NoError(subs.AddToSet(ctx, "testingList", models.NewsletterSubscribersField, "a@b.com"))
	s.Require().NoError(subs.AddToSet(ctx, "testingList", models.NewsletterSubscribersField, "a@b.com"))

	list, err := subs.Find(ctx, "testingList")
	s.Require().NoError(err)
	s.Equal([]string{"a@b.com"}, list.Subscribers)
}

func (s *PostgresEngineSuite) TestAddToSetAfterReplaceWithoutSet() {
	ctx := context.Background()
	subs := s.models.Newsletter.Subscriptions

	s.Require().NoError(subs.Upsert(ctx, "testingList", &models.NewsletterSubscription{ListID: "testingList"}))
	s.Require().NoError(subs.AddToSet(ctx, "testingList", models.NewsletterSubscribersField, "a@b.com"))

	list, err := subs.Find(ctx, "testingList")
	s.Require().NoError(err)
	s.Equal([]string{"a@b.com"}, list.Subscribers)
}

func (s *PostgresEngineSuite) TestDeleteMissing() {
	err := s.models.Newsletter.Subscriptions.Delete(context.Background(), "nope")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
