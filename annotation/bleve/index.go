package bleve

import (
	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
)

// Index is the full-text index over highlighted text and comments. Drawings
// carry no text and are not indexed.
type Index struct {
	index bleve.Index
}

// Open opens the index stored at path, creating it if it does not exist.
func (s *Index) Open(path string) error {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, indexMapping())
	}
	if err != nil {
		return err
	}

	s.index = index
	return nil
}

// OpenMem opens an index living in memory only.
func (s *Index) OpenMem() error {
	index, err := bleve.NewMemOnly(indexMapping())
	if err != nil {
		return err
	}

	s.index = index
	return nil
}

func (s *Index) Close() error {
	if s.index == nil {
		return nil
	}

	return s.index.Close()
}

func indexMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = en.AnalyzerName

	documentID := bleve.NewTextFieldMapping()
	documentID.Analyzer = keyword.Name

	dm := bleve.NewDocumentMapping()
	dm.AddFieldMappingsAt("text", text)
	dm.AddFieldMappingsAt("documentId", documentID)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = dm
	return m
}

func (s *Index) Index(a *annotation.Annotation) error {
	var text string
	switch d := a.Data.(type) {
	case annotation.HighlightData:
		text = d.Text
	case annotation.CommentData:
		text = d.Text
	case annotation.DrawData:
		return nil
	}

	data := map[string]interface{}{
		"documentId": a.DocumentID,
		"text":       text,
	}
	return s.index.Index(a.ID, data)
}

func (s *Index) Delete(ids ...string) error {
	batch := s.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	return s.index.Batch(batch)
}

// Search returns the ids of the annotations of a document whose text has
// words starting with every word of q. When ids is not empty, only those
// annotations are searched. The result is not filtered by visibility.
func (s *Index) Search(documentID, q string, ids []string) ([]string, error) {
	inDocument := query.NewTermQuery(documentID)
	inDocument.SetField("documentId")

	qs := []query.Query{inDocument}
	if text := s.searchText(q); text != nil {
		qs = append(qs, text)
	}

	// Every hit is returned: callers filter the result afterwards.
	size := len(ids)
	if size > 0 {
		qs = append(qs, query.NewDocIDQuery(ids))
	} else {
		count, err := s.index.DocCount()
		if err != nil {
			return nil, err
		}
		size = int(count)
	}

	req := bleve.NewSearchRequestOptions(query.NewConjunctionQuery(qs), size, 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, err
	}

	hits := make([]string, len(res.Hits))
	for i, hit := range res.Hits {
		hits[i] = hit.ID
	}
	return hits, nil
}

func (s *Index) searchText(q string) query.Query {
	analyzer := s.index.Mapping().AnalyzerNamed(en.AnalyzerName)
	tokens := analyzer.Analyze([]byte(q))
	if len(tokens) == 0 {
		return nil
	}

	conjuncts := make([]query.Query, len(tokens))
	for i, token := range tokens {
		prefix := query.NewPrefixQuery(string(token.Term))
		prefix.SetField("text")
		conjuncts[i] = prefix
	}
	return query.NewConjunctionQuery(conjuncts)
}
