package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"statadvisor/adapters/dataset"
	domain "statadvisor/domain/profiling"
	"statadvisor/internal/errors"
)

// recommendBody is the JSON form of a recommendation request
type recommendBody struct {
	Dataset         domain.Dataset `json:"dataset"`
	Purpose         string         `json:"purpose"`
	ValueColumn     string         `json:"valueColumn"`
	GroupColumn     string         `json:"groupColumn"`
	Session         string         `json:"session"`
	SkipAssumptions bool           `json:"skipAssumptions"`
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readDataset accepts either a multipart upload in field "file" or a JSON
// body of the form {"columns": [...], "rows": [...]}.
func (s *Server) readDataset(w http.ResponseWriter, r *http.Request) (domain.Dataset, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if isMultipart(r) {
		return s.readUpload(r)
	}
	var ds domain.Dataset
	if err := json.NewDecoder(r.Body).Decode(&ds); err != nil {
		return domain.Dataset{}, errors.InvalidInput(fmt.Sprintf("invalid dataset body: %v", err))
	}
	return normalizeDataset(ds)
}

func (s *Server) readUpload(r *http.Request) (domain.Dataset, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return domain.Dataset{}, errors.InvalidInput(fmt.Sprintf("invalid upload: %v", err))
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return domain.Dataset{}, errors.InvalidInput("upload is missing the \"file\" field")
	}
	defer file.Close()
	return s.reader.Read(file, dataset.FormatFromName(header.Filename))
}

// readRecommendRequest parses either a JSON recommendBody or a multipart
// upload with form fields named like the JSON keys.
func (s *Server) readRecommendRequest(w http.ResponseWriter, r *http.Request) (recommendBody, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if isMultipart(r) {
		ds, err := s.readUpload(r)
		if err != nil {
			return recommendBody{}, err
		}
		skip, _ := strconv.ParseBool(r.FormValue("skipAssumptions"))
		return checkRecommendBody(recommendBody{
			Dataset:         ds,
			Purpose:         r.FormValue("purpose"),
			ValueColumn:     r.FormValue("valueColumn"),
			GroupColumn:     r.FormValue("groupColumn"),
			Session:         r.FormValue("session"),
			SkipAssumptions: skip,
		})
	}

	var body recommendBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return recommendBody{}, errors.InvalidInput(fmt.Sprintf("invalid request body: %v", err))
	}
	ds, err := normalizeDataset(body.Dataset)
	if err != nil {
		return recommendBody{}, err
	}
	body.Dataset = ds
	return checkRecommendBody(body)
}

func checkRecommendBody(body recommendBody) (recommendBody, error) {
	if strings.TrimSpace(body.Purpose) == "" {
		return recommendBody{}, errors.InvalidInput("purpose is required")
	}
	return body, nil
}

// normalizeDataset fills in a missing column list from the first row, sorted
// for determinism since JSON objects carry no order.
func normalizeDataset(ds domain.Dataset) (domain.Dataset, error) {
	if len(ds.Rows) == 0 {
		return domain.Dataset{}, errors.InvalidInput("dataset has no rows")
	}
	if len(ds.Columns) == 0 {
		for name := range ds.Rows[0] {
			ds.Columns = append(ds.Columns, name)
		}
		sort.Strings(ds.Columns)
	}
	return ds, nil
}
