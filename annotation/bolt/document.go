package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
)

var documentBucket = []byte("documents")

// DocumentRepository stores the metadata of the annotated documents.
type DocumentRepository struct {
	Driver *Driver
}

func (r *DocumentRepository) Get(ids ...string) ([]annotation.Document, error) {
	documents := make([]annotation.Document, 0, len(ids))
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(documentBucket)

		for _, id := range ids {
			data := bucket.Get([]byte(id))
			if data == nil {
				continue
			}

			var doc annotation.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return err
			}
			documents = append(documents, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return documents, nil
}

func (r *DocumentRepository) List() ([]annotation.Document, error) {
	documents := make([]annotation.Document, 0)
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		return tx.Bucket(documentBucket).ForEach(func(_, data []byte) error {
			var doc annotation.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return err
			}
			documents = append(documents, doc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return documents, nil
}

// Insert stores a new document, assigning its id and upload date unless
// they are already set.
func (r *DocumentRepository) Insert(doc *annotation.Document) error {
	return r.Driver.store.Update(func(tx *bolt.Tx) error {
		if doc.ID == "" {
			doc.ID = annotation.NewID()
		}
		if doc.UploadDate.IsZero() {
			doc.UploadDate = time.Now().UTC()
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return tx.Bucket(documentBucket).Put([]byte(doc.ID), data)
	})
}

func (r *DocumentRepository) Delete(id string) error {
	return r.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(documentBucket)
		if bucket.Get([]byte(id)) == nil {
			return errors.New(fmt.Sprintf("document %s not found", id), errors.NotFound())
		}
		return bucket.Delete([]byte(id))
	})
}
