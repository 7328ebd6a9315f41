package history

import (
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
)

// Index is an in-memory full text index over history entries.
type Index struct {
	idx bleve.Index
}

// NewIndex builds a memory-only index of entries.
func NewIndex(entries []*Entry) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}

	ix := &Index{idx: idx}
	if err := ix.Add(entries...); err != nil {
		idx.Close()
		return nil, err
	}
	return ix, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	query := bleve.NewTextFieldMapping()
	query.Analyzer = standard.Name
	query.Store = true
	query.IncludeTermVectors = true

	at := bleve.NewTextFieldMapping()
	at.Index = false
	at.Store = true

	ok := bleve.NewBooleanFieldMapping()
	ok.Store = true

	dm.AddFieldMappingsAt("query", query)
	dm.AddFieldMappingsAt("at", at)
	dm.AddFieldMappingsAt("ok", ok)

	im.DefaultMapping = dm
	return im
}

func (ix *Index) Add(entries ...*Entry) error {
	batch := ix.idx.NewBatch()
	for _, e := range entries {
		if err := batch.Index(docID(e.ID), map[string]any{
			"query": e.Query,
			"at":    e.At.Format(time.RFC3339Nano),
			"ok":    e.OK,
		}); err != nil {
			return err
		}
	}
	return ix.idx.Batch(batch)
}

// Search matches each term of input against indexed queries, either as a
// whole word or as a word prefix.
func (ix *Index) Search(input string, limit int) ([]*Entry, error) {
	tokens := tokenize(input)
	if len(tokens) == 0 {
		return []*Entry{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qm := bleve.NewMatchQuery(tok)
		qm.SetField("query")
		qm.SetBoost(2.0)
		qs = append(qs, qm)

		qp := bleve.NewPrefixQuery(tok)
		qp.SetField("query")
		qs = append(qs, qp)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"query", "at", "ok"}
	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*Entry, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.ParseUint(strings.TrimPrefix(h.ID, "query:"), 10, 64)
		if err != nil {
			continue
		}
		e := &Entry{ID: id}
		if q, ok := h.Fields["query"].(string); ok {
			e.Query = q
		}
		if at, ok := h.Fields["at"].(string); ok {
			e.At, _ = time.Parse(time.RFC3339Nano, at)
		}
		if v, ok := h.Fields["ok"].(bool); ok {
			e.OK = v
		}
		out = append(out, e)
	}
	return out, nil
}

func (ix *Index) Close() error {
	return ix.idx.Close()
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})
	return fields
}

func docID(id uint64) string { return "query:" + strconv.FormatUint(id, 10) }
