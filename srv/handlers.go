package srv

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/semwaqas/MongoDB-toolkit/docschema"
	"github.com/semwaqas/MongoDB-toolkit/infer"
	"github.com/semwaqas/MongoDB-toolkit/sampler"
	"github.com/semwaqas/MongoDB-toolkit/toolkit"
)

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	sample, ok := s.sampleParam(w, r)
	if !ok {
		return
	}

	if coll := r.URL.Query().Get("collection"); coll != "" {
		schema, rep, err := s.tk.CollectionSchema(r.Context(), coll, sample)
		if err != nil {
			s.toolkitError(w, err)
			return
		}
		s.sampled.Add(float64(rep.Analyzed + rep.Skipped))
		writeJSON(w, http.StatusOK, map[string]any{
			"collection": coll,
			"schema":     schema,
			"report":     rep,
		})
		return
	}

	schemas, diags, err := s.tk.DatabaseSchema(r.Context(), sample)
	if err != nil {
		s.toolkitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"schemas":     schemas,
		"diagnostics": nonNil(diags),
	})
}

func (s *Server) handleSchemaOpenAPI(w http.ResponseWriter, r *http.Request) {
	sample, ok := s.sampleParam(w, r)
	if !ok {
		return
	}

	schemas, _, err := s.tk.DatabaseSchema(r.Context(), sample)
	if err != nil {
		s.toolkitError(w, err)
		return
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "inferred collection schemas",
			Version: "0.0.0",
		},
		Paths:      openapi3.Paths{},
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}
	for name, fields := range schemas {
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", docschema.FieldsOpenAPI(fields))
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleInfer(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body: "+err.Error())
		return
	}

	docs, err := infer.ParseSampleDocuments(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "parsing sample documents: "+err.Error())
		return
	}

	schema, rep := infer.Collection(docs)
	s.sampled.Add(float64(rep.Analyzed + rep.Skipped))
	writeJSON(w, http.StatusOK, map[string]any{
		"schema": schema,
		"report": rep,
	})
}

type validateSyntaxRequest struct {
	Query json.RawMessage `json:"query"`
}

func (s *Server) handleValidateSyntax(w http.ResponseWriter, r *http.Request) {
	var req validateSyntaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decoding request: "+err.Error())
		return
	}

	query, err := decodeQuery(req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "decoding query: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"errors": nonNil(s.tk.ValidateSyntax(query)),
	})
}

type validateSchemaRequest struct {
	Collection string          `json:"collection"`
	Sample     int             `json:"sample,omitempty"`
	Query      json.RawMessage `json:"query"`
}

func (s *Server) handleValidateSchema(w http.ResponseWriter, r *http.Request) {
	var req validateSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decoding request: "+err.Error())
		return
	}

	query, err := decodeQuery(req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "decoding query: "+err.Error())
		return
	}

	sample := req.Sample
	if sample <= 0 {
		sample = s.defaultSample
	}
	schema, rep, err := s.tk.CollectionSchema(r.Context(), req.Collection, sample)
	if err != nil {
		s.toolkitError(w, err)
		return
	}
	s.sampled.Add(float64(rep.Analyzed + rep.Skipped))

	writeJSON(w, http.StatusOK, map[string]any{
		"errors": nonNil(s.tk.ValidateAgainstSchema(query, schema)),
	})
}

type queryRequest struct {
	Collection string              `json:"collection"`
	Filter     json.RawMessage     `json:"filter,omitempty"`
	Projection json.RawMessage     `json:"projection,omitempty"`
	Sort       []sampler.SortField `json:"sort,omitempty"`
	Skip       int64               `json:"skip,omitempty"`
	Limit      int64               `json:"limit,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decoding request: "+err.Error())
		return
	}

	exec := toolkit.ExecuteRequest{
		Collection: req.Collection,
		Sort:       req.Sort,
		Skip:       req.Skip,
		Limit:      req.Limit,
	}
	if len(req.Filter) > 0 {
		filter, err := decodeQuery(req.Filter)
		if err != nil {
			writeError(w, http.StatusBadRequest, "decoding filter: "+err.Error())
			return
		}
		exec.Filter = filter
	}
	if len(req.Projection) > 0 {
		proj, err := decodeQuery(req.Projection)
		if err != nil {
			writeError(w, http.StatusBadRequest, "decoding projection: "+err.Error())
			return
		}
		exec.Projection = proj
	}

	docs, err := s.tk.Execute(r.Context(), exec)
	if err != nil {
		s.toolkitError(w, err)
		return
	}
	if docs == nil {
		docs = []any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

// decodeQuery parses a filter document from extended JSON into a bson.D so
// key order survives and wrappers like {"$oid": ...} become their BSON
// types.
func decodeQuery(raw json.RawMessage) (bson.D, error) {
	var q bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Server) sampleParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	q := r.URL.Query().Get("sample")
	if q == "" {
		return s.defaultSample, true
	}
	n, err := strconv.Atoi(q)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "sample must be a positive integer")
		return 0, false
	}
	return n, true
}

func (s *Server) toolkitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, toolkit.ErrConfiguration):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, toolkit.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, toolkit.ErrSchema), errors.Is(err, toolkit.ErrExecution):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
