package bolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
)

var (
	// annotationBucket maps an annotation id to its record.
	annotationBucket = []byte("annotations")
	// documentAnnotationsBucket holds one nested bucket per document mapping
	// an insertion sequence number to an annotation id, so that a document's
	// annotations are listed in insertion order.
	documentAnnotationsBucket = []byte("document_annotations")
)

type record struct {
	Seq        uint64                `json:"seq"`
	Annotation annotation.Annotation `json:"annotation"`
}

func errAnnotationNotFound(id string) error {
	return errors.New(fmt.Sprintf("annotation %s not found", id), errors.NotFound())
}

// AnnotationRepository is used to store and retrieve annotations from a bolt
// database.
type AnnotationRepository struct {
	Driver *Driver
}

// Get retrieves the annotations defined by ids. Unknown ids are skipped.
func (r *AnnotationRepository) Get(ids ...string) ([]annotation.Annotation, error) {
	annotations := make([]annotation.Annotation, 0, len(ids))
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(annotationBucket)

		for _, id := range ids {
			rec, err := getRecord(bucket, id)
			if err != nil {
				return err
			} else if rec == nil {
				continue
			}
			annotations = append(annotations, rec.Annotation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return annotations, nil
}

// List returns all the annotations of a document in insertion order.
func (r *AnnotationRepository) List(documentID string) ([]annotation.Annotation, error) {
	annotations := make([]annotation.Annotation, 0)
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		docBucket := tx.Bucket(documentAnnotationsBucket).Bucket([]byte(documentID))
		if docBucket == nil {
			return nil
		}

		bucket := tx.Bucket(annotationBucket)
		c := docBucket.Cursor()
		for _, id := c.First(); id != nil; _, id = c.Next() {
			rec, err := getRecord(bucket, string(id))
			if err != nil {
				return err
			} else if rec == nil {
				continue
			}
			annotations = append(annotations, rec.Annotation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return annotations, nil
}

// Insert stores a new annotation, assigning its id and creation date.
func (r *AnnotationRepository) Insert(a *annotation.Annotation) error {
	return r.Driver.store.Update(func(tx *bolt.Tx) error {
		docBucket, err := tx.Bucket(documentAnnotationsBucket).CreateBucketIfNotExists([]byte(a.DocumentID))
		if err != nil {
			return err
		}

		seq, err := docBucket.NextSequence()
		if err != nil {
			return fmt.Errorf("error incrementing sequence: %v", err)
		}

		a.ID = annotation.NewID()
		a.CreatedAt = time.Now().UTC()

		if err := docBucket.Put(itob(seq), []byte(a.ID)); err != nil {
			return err
		}
		return putRecord(tx.Bucket(annotationBucket), record{Seq: seq, Annotation: *a})
	})
}

// Update overwrites an existing annotation. The document, author and creation
// date of the stored record are kept.
func (r *AnnotationRepository) Update(a *annotation.Annotation) error {
	return r.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(annotationBucket)

		rec, err := getRecord(bucket, a.ID)
		if err != nil {
			return err
		} else if rec == nil {
			return errAnnotationNotFound(a.ID)
		}

		a.DocumentID = rec.Annotation.DocumentID
		a.CreatedBy = rec.Annotation.CreatedBy
		a.CreatedAt = rec.Annotation.CreatedAt
		rec.Annotation = *a

		return putRecord(bucket, *rec)
	})
}

// Delete removes an annotation.
func (r *AnnotationRepository) Delete(id string) error {
	return r.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(annotationBucket)

		rec, err := getRecord(bucket, id)
		if err != nil {
			return err
		} else if rec == nil {
			return errAnnotationNotFound(id)
		}

		docBucket := tx.Bucket(documentAnnotationsBucket).Bucket([]byte(rec.Annotation.DocumentID))
		if docBucket != nil {
			if err := docBucket.Delete(itob(rec.Seq)); err != nil {
				return err
			}
		}
		return bucket.Delete([]byte(id))
	})
}

// DeleteDocument removes every annotation of a document and returns their
// ids.
func (r *AnnotationRepository) DeleteDocument(documentID string) ([]string, error) {
	var ids []string
	err := r.Driver.store.Update(func(tx *bolt.Tx) error {
		parent := tx.Bucket(documentAnnotationsBucket)
		docBucket := parent.Bucket([]byte(documentID))
		if docBucket == nil {
			return nil
		}

		bucket := tx.Bucket(annotationBucket)
		c := docBucket.Cursor()
		for _, id := c.First(); id != nil; _, id = c.Next() {
			if err := bucket.Delete(id); err != nil {
				return err
			}
			ids = append(ids, string(id))
		}

		return parent.DeleteBucket([]byte(documentID))
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ------------------------------------------------------------------------------------------------
// Helpers
// ------------------------------------------------------------------------------------------------

func getRecord(bucket *bolt.Bucket, id string) (*record, error) {
	data := bucket.Get([]byte(id))
	if data == nil {
		return nil, nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func putRecord(bucket *bolt.Bucket, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(rec.Annotation.ID), data)
}

// itob returns an 8-byte big endian representation of v.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
