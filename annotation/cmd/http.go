package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kanavsharmaa/pdf-annotator/log"

	"github.com/kanavsharmaa/pdf-annotator/annotation/bleve"
	"github.com/kanavsharmaa/pdf-annotator/annotation/bolt"
	"github.com/kanavsharmaa/pdf-annotator/annotation/http"
	"github.com/kanavsharmaa/pdf-annotator/annotation/services"
)

// KeyEnv overrides the key file when set.
const KeyEnv = "ANNOTATE_KEY"

type Configuration struct {
	KeyPath string `toml:"key"`
	Bleve   struct {
		Store string `toml:"store"`
	} `toml:"bleve"`
	Bolt struct {
		Store string `toml:"store"`
	} `toml:"bolt"`
}

// Services bundles what Open creates. Close releases the stores.
type Services struct {
	Annotations *services.AnnotationService
	Documents   *services.DocumentService

	driver *bolt.Driver
	index  *bleve.Index
}

func (s *Services) Close() error {
	if err := s.index.Close(); err != nil {
		s.driver.Close()
		return err
	}
	return s.driver.Close()
}

// LoadKey returns the signing key: the value of ANNOTATE_KEY if set, the
// content of the key file otherwise.
func LoadKey(conf Configuration) ([]byte, error) {
	if k := os.Getenv(KeyEnv); k != "" {
		return []byte(k), nil
	}

	keyData, err := os.ReadFile(conf.KeyPath)
	if err != nil {
		return nil, err
	}

	var key struct {
		Key string `json:"k"`
	}
	if err := json.Unmarshal(keyData, &key); err != nil {
		return nil, err
	}
	return []byte(key.Key), nil
}

// Open opens the stores defined in conf and creates the services on top of
// them.
func Open(conf Configuration, logger log.Logger) (*Services, error) {
	if err := os.MkdirAll(filepath.Dir(conf.Bolt.Store), 0755); err != nil {
		return nil, err
	}

	// Create repositories
	boltDriver := bolt.Driver{}
	if err := boltDriver.Open(conf.Bolt.Store); err != nil {
		return nil, err
	}
	annotationRepository := bolt.AnnotationRepository{Driver: &boltDriver}
	documentRepository := bolt.DocumentRepository{Driver: &boltDriver}

	// Create index
	index := bleve.Index{}
	if err := index.Open(conf.Bleve.Store); err != nil {
		boltDriver.Close()
		return nil, err
	}

	// Create services
	annotationService := services.NewAnnotationService(&annotationRepository, &documentRepository, &index)
	documentService := services.NewDocumentService(&documentRepository, annotationService, logger)

	return &Services{
		Annotations: annotationService,
		Documents:   documentService,
		driver:      &boltDriver,
		index:       &index,
	}, nil
}

// Start registers the annotation and document endpoints on srv.
func Start(srv http.Server, conf Configuration, logger log.Logger) *Services {
	// Load key
	key, err := LoadKey(conf)
	if err != nil {
		logger.Fatal("could not load key:", err)
	}

	s, err := Open(conf, logger)
	if err != nil {
		logger.Fatalf("could not open stores: %v", err)
	}

	// Register endpoints
	http.RegisterAnnotationEndpoints(srv, s.Annotations, key)
	http.RegisterDocumentEndpoints(srv, s.Documents, key)

	return s
}
