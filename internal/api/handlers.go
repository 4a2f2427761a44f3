package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/inaportnet"
)

func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	window := inaportnet.FetchWindow{
		Port:     q.Get("port"),
		Category: inaportnet.Category(q.Get("jenis")),
		Search:   q.Get("search"),
	}
	var err error
	if window.StartYear, err = intParam(q.Get("start_year"), "start_year"); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	if window.StartMonth, err = intParam(q.Get("start_month"), "start_month"); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	if window.EndYear, err = intParam(q.Get("end_year"), "end_year"); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	if window.EndMonth, err = intParam(q.Get("end_month"), "end_month"); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.activity.FetchRange(r.Context(), window)
	if err != nil {
		writeError(s.logger, w, statusFromErr(err), err.Error())
		return
	}
	writeJSON(s.logger, w, http.StatusOK, result)
}

func (s *Server) getDetail(w http.ResponseWriter, r *http.Request) {
	nomorPKK := r.URL.Query().Get("nomor_pkk")
	if nomorPKK == "" {
		writeError(s.logger, w, http.StatusBadRequest, "nomor_pkk is required")
		return
	}

	record, err := s.activity.FetchDetail(r.Context(), nomorPKK)
	if err != nil {
		writeError(s.logger, w, statusFromErr(err), err.Error())
		return
	}
	writeJSON(s.logger, w, http.StatusOK, record)
}

func (s *Server) getVessel(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("nama")
	if name == "" {
		writeError(s.logger, w, http.StatusBadRequest, "nama is required")
		return
	}

	result, err := s.vessels.LookupVessel(r.Context(), name)
	if err != nil {
		writeError(s.logger, w, statusFromErr(err), err.Error())
		return
	}
	writeJSON(s.logger, w, http.StatusOK, result)
}

type batchRequest struct {
	Names      []string `json:"names"`
	Checkpoint int      `json:"checkpoint"`
}

func (s *Server) batchVessels(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Names) == 0 {
		writeError(s.logger, w, http.StatusBadRequest, "names must be a non-empty array")
		return
	}

	result, err := s.vessels.BatchLookup(r.Context(), req.Names, req.Checkpoint)
	if err != nil {
		writeError(s.logger, w, statusFromErr(err), err.Error())
		return
	}
	writeJSON(s.logger, w, http.StatusOK, result)
}

func (s *Server) getPorts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, s.directory)
}

func (s *Server) getGlobalRanks(w http.ResponseWriter, r *http.Request) {
	ranked := s.ranker.Global(r.Context(), s.directory)
	writeJSON(s.logger, w, http.StatusOK, ranked)
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
