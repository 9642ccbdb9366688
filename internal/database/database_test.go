package database

import (
	"context"
	"flag"
	"os"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func mustStartMongoContainer() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	dbContainer, err := mongodb.Run(context.Background(), "mongo:latest")
	if err != nil {
		return nil, err
	}

	uri, err := dbContainer.ConnectionString(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	os.Setenv("MONGO_URI", uri)
	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	flag.Parse()

	var teardown func(context.Context, ...testcontainers.TerminateOption) error
	if !testing.Short() {
		var err error
		teardown, err = mustStartMongoContainer()
		if err != nil {
			log.Fatal().Err(err).Msg("Could not start mongodb container")
		}
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Could not teardown mongodb container")
		}
	}
	os.Exit(code)
}

func TestNew(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	srv := New()
	if srv == nil {
		t.Fatal("New() returned nil")
	}
	defer srv.Close()
}

func TestHealth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	srv := New()
	defer srv.Close()

	stats := srv.Health()

	if stats["message"] != "It's healthy" {
		t.Fatalf("expected message to be 'It's healthy', got %s", stats["message"])
	}
}
