// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package masterdata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/audit"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/workflow"
)

// memStore is an in-memory Store over Fakultas.
type memStore struct {
	mu     sync.Mutex
	rows   []models.Fakultas
	nextID int64
	calls  int
}

func (s *memStore) List(_ context.Context, q apiclient.ListQuery) (models.Page[models.Fakultas], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Fakultas
	for _, r := range s.rows {
		if q.Search == "" || strings.Contains(strings.ToLower(r.Nama), strings.ToLower(q.Search)) {
			matched = append(matched, r)
		}
	}
	last := (len(matched) + q.PageSize - 1) / q.PageSize
	if last == 0 {
		last = 1
	}
	start := min((q.Page-1)*q.PageSize, len(matched))
	end := min(start+q.PageSize, len(matched))
	return models.Page[models.Fakultas]{Data: matched[start:end], CurrentPage: q.Page, LastPage: last, Total: len(matched)}, nil
}

func (s *memStore) Create(_ context.Context, v models.Fakultas, _ *models.FileUpload) (models.Fakultas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.nextID++
	v.ID = s.nextID
	s.rows = append(s.rows, v)
	return v, nil
}

func (s *memStore) Update(_ context.Context, id string, v models.Fakultas, _ *models.FileUpload) (models.Fakultas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	n, _ := strconv.ParseInt(id, 10, 64)
	for i := range s.rows {
		if s.rows[i].ID == n {
			v.ID = n
			s.rows[i] = v
			return v, nil
		}
	}
	return models.Fakultas{}, &apiclient.APIError{Status: http.StatusNotFound, Message: "Data tidak ditemukan."}
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	n, _ := strconv.ParseInt(id, 10, 64)
	for i := range s.rows {
		if s.rows[i].ID == n {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return &apiclient.APIError{Status: http.StatusNotFound, Message: "Data tidak ditemukan."}
}

func seeded(t *testing.T, names ...string) (*Workflow[models.Fakultas], *memStore, *audit.Memory) {
	t.Helper()
	store := &memStore{}
	mem := &audit.Memory{}
	w := New(FakultasEntity, store, mem)
	for i, n := range names {
		_, err := store.Create(context.Background(), models.Fakultas{Kode: "F" + strconv.Itoa(i), Nama: n}, nil)
		require.NoError(t, err)
	}
	store.calls = 0
	return w, store, mem
}

func TestList_Paginates(t *testing.T) {
	w, _, _ := seeded(t, "Teknik", "Hukum", "Kedokteran", "Ekonomi", "Teknologi Pangan")
	ctx := context.Background()

	page, err := w.List(ctx, 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.LastPage)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Kedokteran", page.Data[0].Nama)

	page, err = w.List(ctx, 0, 0, "tek")
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Data, 2)

	page, err = w.List(ctx, 1, 10_000, "")
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
}

func TestCreate_ValidatesBeforeCalling(t *testing.T) {
	w, store, mem := seeded(t)
	ctx := context.Background()

	_, err := w.Create(ctx, models.Fakultas{Kode: "FT"})
	v, ok := workflow.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"wajib diisi"}, v.Fields["nama"])
	assert.Equal(t, 0, store.calls)

	created, err := w.Create(ctx, models.Fakultas{Kode: "FT", Nama: "Teknik"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	require.Len(t, mem.Entries(), 1)
	assert.Equal(t, "fakultas/1", mem.Entries()[0].Subject)
	assert.Equal(t, audit.ActionCreate, mem.Entries()[0].Action)
}

func TestUpdate_SurfacesAPIMessage(t *testing.T) {
	w, _, _ := seeded(t, "Teknik")
	ctx := context.Background()

	updated, err := w.Update(ctx, "1", models.Fakultas{Kode: "FT", Nama: "Fakultas Teknik"})
	require.NoError(t, err)
	assert.Equal(t, "Fakultas Teknik", updated.Nama)

	_, err = w.Update(ctx, "99", models.Fakultas{Kode: "FX", Nama: "X"})
	assert.Equal(t, "Data tidak ditemukan.", apiclient.Message(err))
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("declined leaves list unchanged", func(t *testing.T) {
		w, store, mem := seeded(t, "Teknik", "Hukum")

		err := w.Delete(ctx, confirm.Never, "1")
		assert.ErrorIs(t, err, confirm.ErrDeclined)
		assert.Equal(t, 0, store.calls)

		page, err := w.List(ctx, 1, 10, "")
		require.NoError(t, err)
		assert.Len(t, page.Data, 2)
		assert.Empty(t, mem.Entries())
	})

	t.Run("confirmed removes", func(t *testing.T) {
		w, _, mem := seeded(t, "Teknik", "Hukum")

		var asked confirm.Action
		c := confirm.Func(func(_ context.Context, a confirm.Action) (bool, error) {
			asked = a
			return true, nil
		})
		require.NoError(t, w.Delete(ctx, c, "1"))
		assert.True(t, asked.Destructive)
		assert.Equal(t, "fakultas/1", asked.Subject)

		page, err := w.List(ctx, 1, 10, "")
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "Hukum", page.Data[0].Nama)
		require.Len(t, mem.Entries(), 1)
		assert.Equal(t, audit.ActionDelete, mem.Entries()[0].Action)
	})
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context, q apiclient.ListQuery) (models.Page[models.Skema], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(models.Page[models.Skema]), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, v models.Skema, f *models.FileUpload) (models.Skema, error) {
	args := m.Called(ctx, v, f)
	return args.Get(0).(models.Skema), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id string, v models.Skema, f *models.FileUpload) (models.Skema, error) {
	args := m.Called(ctx, id, v, f)
	return args.Get(0).(models.Skema), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestEntity_DecodesBody(t *testing.T) {
	store := &mockStore{}
	w := New(SkemaEntity, store, nil)
	ctx := context.Background()

	want := models.Skema{Nama: "Penelitian Dasar", Klaster: "Penelitian", DurasiTahun: 2, DanaMaksimal: 5e7}
	store.On("Create", ctx, want, (*models.FileUpload)(nil)).Return(models.Skema{ID: 4, Nama: want.Nama}, nil).Once()

	body := `{"nama":"Penelitian Dasar","klaster":"Penelitian","durasi_tahun":2,"dana_maksimal":50000000}`
	got, err := w.CreateJSON(ctx, []byte(body), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.(models.Skema).ID)

	_, err = w.CreateJSON(ctx, []byte(`{not json`), nil)
	v, ok := workflow.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, v.Fields, "body")

	store.AssertExpectations(t)
}

func TestRegistry(t *testing.T) {
	c, err := apiclient.New("http://api.invalid", apiclient.Options{})
	require.NoError(t, err)

	r := NewAPIRegistry(c, nil)
	assert.Equal(t, []string{"bidang-ilmu", "fakultas", "office", "pengelola", "program-studi", "skema", "template-dokumen"}, r.Names())

	e, ok := r.Get("template-dokumen")
	require.True(t, ok)
	assert.Equal(t, "Template Dokumen", e.Label())

	_, ok = r.Get("nope")
	assert.False(t, ok)
}

func TestTemplateDokumen_SentAsMultipart(t *testing.T) {
	var gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("file")
		if assert.NoError(t, err) {
			b, _ := io.ReadAll(f)
			f.Close()
			gotFile = string(b)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"id": 11, "nama": r.FormValue("nama"), "jenis": r.FormValue("jenis"), "file_url": "/files/11.docx",
		}})
	}))
	defer srv.Close()

	c, err := apiclient.New(srv.URL, apiclient.Options{})
	require.NoError(t, err)
	e, _ := NewAPIRegistry(c, nil).Get("template-dokumen")

	created, err := e.CreateJSON(context.Background(), []byte(`{"nama":"Template Proposal","jenis":"proposal"}`),
		&models.FileUpload{FileName: "proposal.docx", Content: []byte("DOCX-BYTES")})
	require.NoError(t, err)

	doc := created.(models.TemplateDokumen)
	assert.Equal(t, int64(11), doc.ID)
	assert.Equal(t, "/files/11.docx", doc.FileURL)
	assert.Equal(t, "DOCX-BYTES", gotFile)
}
