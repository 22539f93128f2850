// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/hibah-admin/models"
)

// FakeAPI is an in-memory stand-in for the external API. It speaks the same
// envelopes, status codes and error bodies, and applies the workflow side
// effects the real API performs (status changes, quota use, review locking).
type FakeAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	proposals  map[string]models.Proposal
	reviewers  []models.Reviewer
	reviews    map[string]models.ReviewResult
	records    map[string]map[int64]map[string]any
	profiles   map[string]json.RawMessage
	registered []models.RegisterRequest
	requests   []string
	failNext   map[string]int
	nextID     int64
}

// NewFakeAPI starts a fake API; it is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		proposals: map[string]models.Proposal{},
		reviews:   map[string]models.ReviewResult{},
		records:   map[string]map[int64]map[string]any{},
		profiles:  map[string]json.RawMessage{},
		failNext:  map[string]int{},
		nextID:    100,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/proposals", f.listProposals)
	mux.HandleFunc("GET /api/proposals/{id}", f.getProposal)
	mux.HandleFunc("POST /api/proposals/{id}/status", f.changeStatus)
	mux.HandleFunc("PUT /api/proposals/{id}/reviewers", f.assignReviewers)
	mux.HandleFunc("GET /api/proposals/{id}/review", f.getReview)
	mux.HandleFunc("POST /api/proposals/{id}/review", f.submitReview)
	mux.HandleFunc("GET /api/reviewers", f.listReviewers)
	mux.HandleFunc("GET /api/profile/{kind}", f.getProfile)
	mux.HandleFunc("PUT /api/profile/{kind}", f.putProfile)
	mux.HandleFunc("POST /api/register", f.register)
	mux.HandleFunc("GET /api/{resource}", f.listRecords)
	mux.HandleFunc("POST /api/{resource}", f.createRecord)
	mux.HandleFunc("PUT /api/{resource}/{id}", f.updateRecord)
	mux.HandleFunc("POST /api/{resource}/{id}", f.updateRecord)
	mux.HandleFunc("DELETE /api/{resource}/{id}", f.deleteRecord)

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		key := r.Method + " " + r.URL.Path
		f.requests = append(f.requests, key)
		status := f.failNext[key]
		delete(f.failNext, key)
		f.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") && r.URL.Path != "/api/register" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base URL to configure the client with.
func (f *FakeAPI) URL() string {
	return f.Server.URL + "/api"
}

// AddProposal stores p.
func (f *FakeAPI) AddProposal(p models.Proposal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.proposals[p.ID] = p
}

// CreateTestProposal stores a proposal in status and returns it.
func (f *FakeAPI) CreateTestProposal(id string, status models.ProposalStatus) models.Proposal {
	submitted := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := models.Proposal{
		ID:          id,
		Title:       "Proposal " + id,
		Ketua:       "Dr. Sari",
		Skema:       "Penelitian Dasar",
		Fakultas:    "Teknik",
		Status:      status,
		SubmittedAt: &submitted,
	}
	f.AddProposal(p)
	return p
}

// Proposal returns the stored proposal.
func (f *FakeAPI) Proposal(id string) models.Proposal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.proposals[id]
}

// AddReviewer adds r to the pool.
func (f *FakeAPI) AddReviewer(r models.Reviewer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewers = append(f.reviewers, r)
}

// Reviewer returns the pool entry for id.
func (f *FakeAPI) Reviewer(id string) (models.Reviewer, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviewers {
		if r.ID == id {
			return r, true
		}
	}
	return models.Reviewer{}, false
}

// Review returns the stored review of a proposal.
func (f *FakeAPI) Review(proposalID string) (models.ReviewResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[proposalID]
	return r, ok
}

// Records returns the stored master-data records of resource.
func (f *FakeAPI) Records(resource string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.records[resource]))
	for _, id := range sortedIDs(f.records[resource]) {
		out = append(out, f.records[resource][id])
	}
	return out
}

// SeedRecord stores a master-data record and returns its id.
func (f *FakeAPI) SeedRecord(resource string, rec map[string]any) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.storeLocked(resource, 0, rec)
}

// SetProfile stores the profile of kind.
func (f *FakeAPI) SetProfile(kind string, v any) {
	b, _ := json.Marshal(v)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[kind] = b
}

// Registered returns the forwarded registrations.
func (f *FakeAPI) Registered() []models.RegisterRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RegisterRequest(nil), f.registered...)
}

// FailNext makes the next "METHOD /api/path" request answer status.
func (f *FakeAPI) FailNext(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[method+" "+path] = status
}

// CallCount counts requests whose "METHOD /path" starts with prefix.
func (f *FakeAPI) CallCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, map[string]any{"message": what + " tidak ditemukan"})
}

func page[T any](r *http.Request, items []T) models.Page[T] {
	size, _ := strconv.Atoi(r.URL.Query().Get("paginate"))
	if size <= 0 {
		size = 10
	}
	current, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if current <= 0 {
		current = 1
	}
	last := (len(items) + size - 1) / size
	if last == 0 {
		last = 1
	}
	start := min((current-1)*size, len(items))
	end := min(start+size, len(items))
	return models.Page[T]{Data: append([]T{}, items[start:end]...), CurrentPage: current, LastPage: last, Total: len(items)}
}

func (f *FakeAPI) listProposals(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	ids := make([]string, 0, len(f.proposals))
	for id := range f.proposals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]models.Proposal, 0, len(ids))
	for _, id := range ids {
		items = append(items, f.proposals[id])
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, page(r, items))
}

func (f *FakeAPI) getProposal(w http.ResponseWriter, r *http.Request) {
	p, ok := f.lookup(r.PathValue("id"))
	if !ok {
		notFound(w, "Proposal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": p})
}

func (f *FakeAPI) lookup(id string) (models.Proposal, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proposals[id]
	return p, ok
}

func (f *FakeAPI) changeStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Status tidak valid",
			"errors":  map[string][]string{"status": {"status tidak valid"}},
		})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proposals[r.PathValue("id")]
	if !ok {
		notFound(w, "Proposal")
		return
	}
	if p.Status != models.StatusSubmitted {
		writeJSON(w, http.StatusConflict, map[string]any{"message": "Status proposal sudah berubah"})
		return
	}
	p.Status = req.Status
	f.proposals[p.ID] = p
	writeJSON(w, http.StatusOK, map[string]any{"data": p})
}

func (f *FakeAPI) assignReviewers(w http.ResponseWriter, r *http.Request) {
	var req models.AssignReviewersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Body tidak valid"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proposals[r.PathValue("id")]
	if !ok {
		notFound(w, "Proposal")
		return
	}

	previous := p.ReviewerIDs()
	p.Reviewer1ID, p.Reviewer2ID = req.Reviewer1ID, req.Reviewer2ID
	for _, id := range p.ReviewerIDs() {
		if slices.Contains(previous, id) {
			continue
		}
		for i := range f.reviewers {
			if f.reviewers[i].ID == id {
				f.reviewers[i].Quota--
			}
		}
	}
	p.Status = models.StatusUnderReview
	f.proposals[p.ID] = p
	writeJSON(w, http.StatusOK, p)
}

func (f *FakeAPI) getReview(w http.ResponseWriter, r *http.Request) {
	rev, ok := f.Review(r.PathValue("id"))
	if !ok {
		notFound(w, "Penilaian")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rev})
}

func (f *FakeAPI) submitReview(w http.ResponseWriter, r *http.Request) {
	var rev models.ReviewResult
	if err := json.NewDecoder(r.Body).Decode(&rev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Body tidak valid"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	p, ok := f.proposals[id]
	if !ok {
		notFound(w, "Proposal")
		return
	}
	if _, done := f.reviews[id]; done || p.Status != models.StatusUnderReview {
		writeJSON(w, http.StatusConflict, map[string]any{"message": "Penilaian sudah dikirim"})
		return
	}
	rev.ProposalID = id
	f.reviews[id] = rev
	p.Status = models.StatusReviewComplete
	f.proposals[id] = p
	writeJSON(w, http.StatusCreated, map[string]any{"data": rev})
}

func (f *FakeAPI) listReviewers(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	items := append([]models.Reviewer(nil), f.reviewers...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, page(r, items))
}

func (f *FakeAPI) getProfile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	p, ok := f.profiles[r.PathValue("kind")]
	f.mu.Unlock()
	if !ok {
		notFound(w, "Profil")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": p})
}

func (f *FakeAPI) putProfile(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Body tidak valid"})
		return
	}
	f.mu.Lock()
	f.profiles[r.PathValue("kind")] = raw
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": raw})
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Body tidak valid"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.registered {
		if existing.Email == req.Email {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"message": "Email sudah terdaftar",
				"errors":  map[string][]string{"email": {"email sudah terdaftar"}},
			})
			return
		}
	}
	f.registered = append(f.registered, req)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "ok"})
}

func sortedIDs(m map[int64]map[string]any) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (f *FakeAPI) storeLocked(resource string, id int64, rec map[string]any) int64 {
	if id == 0 {
		f.nextID++
		id = f.nextID
	}
	if f.records[resource] == nil {
		f.records[resource] = map[int64]map[string]any{}
	}
	rec["id"] = id
	f.records[resource][id] = rec
	return id
}

// readRecord decodes a JSON or multipart record body.
func readRecord(r *http.Request) (map[string]any, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return nil, err
		}
		rec := map[string]any{}
		for k, vs := range r.MultipartForm.Value {
			if k != "_method" && len(vs) > 0 {
				rec[k] = vs[0]
			}
		}
		if files := r.MultipartForm.File["file"]; len(files) > 0 {
			rec["file_url"] = "/storage/" + files[0].Filename
		}
		return rec, nil
	}
	rec := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (f *FakeAPI) listRecords(w http.ResponseWriter, r *http.Request) {
	resource := r.PathValue("resource")
	search := strings.ToLower(r.URL.Query().Get("search"))

	f.mu.Lock()
	var items []map[string]any
	for _, id := range sortedIDs(f.records[resource]) {
		rec := f.records[resource][id]
		if search != "" && !strings.Contains(strings.ToLower(fmt.Sprint(rec["nama"])), search) {
			continue
		}
		items = append(items, rec)
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, page(r, items))
}

func (f *FakeAPI) createRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := readRecord(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Body tidak valid"})
		return
	}
	delete(rec, "id")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeLocked(r.PathValue("resource"), 0, rec)
	writeJSON(w, http.StatusCreated, map[string]any{"data": rec})
}

func (f *FakeAPI) updateRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.FormValue("_method") != http.MethodPut {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "Method not allowed"})
		return
	}
	rec, err := readRecord(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Body tidak valid"})
		return
	}

	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	resource := r.PathValue("resource")
	if _, ok := f.records[resource][id]; !ok {
		notFound(w, "Data")
		return
	}
	f.storeLocked(resource, id, rec)
	writeJSON(w, http.StatusOK, map[string]any{"data": rec})
}

func (f *FakeAPI) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	resource := r.PathValue("resource")
	if _, ok := f.records[resource][id]; !ok {
		notFound(w, "Data")
		return
	}
	delete(f.records[resource], id)
	w.WriteHeader(http.StatusNoContent)
}
