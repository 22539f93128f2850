// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package masterdata

import (
	"context"
	"sort"
	"strconv"

	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/audit"
	"github.com/danielhkuo/hibah-admin/models"
)

// APIStore keeps a resource on the external API.
type APIStore[T any] struct {
	Client   *apiclient.Client
	Resource string
}

func (s APIStore[T]) List(ctx context.Context, q apiclient.ListQuery) (models.Page[T], error) {
	return apiclient.List[T](ctx, s.Client, s.Resource, q)
}

func (s APIStore[T]) Create(ctx context.Context, v T, file *models.FileUpload) (T, error) {
	if file != nil {
		return apiclient.CreateMultipart[T](ctx, s.Client, s.Resource, v, file)
	}
	return apiclient.Create[T](ctx, s.Client, s.Resource, v)
}

func (s APIStore[T]) Update(ctx context.Context, id string, v T, file *models.FileUpload) (T, error) {
	if file != nil {
		return apiclient.UpdateMultipart[T](ctx, s.Client, s.Resource, id, v, file)
	}
	return apiclient.Update[T](ctx, s.Client, s.Resource, id, v)
}

func (s APIStore[T]) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, s.Client, s.Resource, id)
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// Descriptors for the back-office master-data screens
var (
	SkemaEntity = Descriptor[models.Skema]{
		Name: "skema", Label: "Skema Hibah",
		ID: func(v models.Skema) string { return formatID(v.ID) },
	}
	BidangIlmuEntity = Descriptor[models.BidangIlmu]{
		Name: "bidang-ilmu", Label: "Bidang Ilmu",
		ID: func(v models.BidangIlmu) string { return formatID(v.ID) },
	}
	FakultasEntity = Descriptor[models.Fakultas]{
		Name: "fakultas", Label: "Fakultas",
		ID: func(v models.Fakultas) string { return formatID(v.ID) },
	}
	ProgramStudiEntity = Descriptor[models.ProgramStudi]{
		Name: "program-studi", Label: "Program Studi",
		ID: func(v models.ProgramStudi) string { return formatID(v.ID) },
	}
	TemplateDokumenEntity = Descriptor[models.TemplateDokumen]{
		Name: "template-dokumen", Label: "Template Dokumen",
		ID:   func(v models.TemplateDokumen) string { return formatID(v.ID) },
		File: func(v models.TemplateDokumen) *models.FileUpload { return v.Upload },
	}
	PengelolaEntity = Descriptor[models.Pengelola]{
		Name: "pengelola", Label: "Pengelola",
		ID: func(v models.Pengelola) string { return formatID(v.ID) },
	}
	OfficeEntity = Descriptor[models.Office]{
		Name: "office", Label: "Kantor",
		ID: func(v models.Office) string { return formatID(v.ID) },
	}
)

func register[T any](r *Registry, d Descriptor[T], c *apiclient.Client, rec audit.Recorder) {
	res := d.Resource
	if res == "" {
		res = d.Name
	}
	r.Add(New(d, APIStore[T]{Client: c, Resource: res}, rec))
}

// Registry looks up entities by name.
type Registry struct {
	entities map[string]Entity
}

func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]Entity)}
}

// NewAPIRegistry registers every master-data entity against the API.
func NewAPIRegistry(c *apiclient.Client, rec audit.Recorder) *Registry {
	r := NewRegistry()
	register(r, SkemaEntity, c, rec)
	register(r, BidangIlmuEntity, c, rec)
	register(r, FakultasEntity, c, rec)
	register(r, ProgramStudiEntity, c, rec)
	register(r, TemplateDokumenEntity, c, rec)
	register(r, PengelolaEntity, c, rec)
	register(r, OfficeEntity, c, rec)
	return r
}

func (r *Registry) Add(e Entity) {
	r.entities[e.Name()] = e
}

func (r *Registry) Get(name string) (Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Names returns registered entity names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entities))
	for n := range r.entities {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
