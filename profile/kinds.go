// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package profile

import (
	"context"
	"encoding/json"

	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/audit"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/workflow"
)

// Profile kinds
const (
	KindResearcher = "peneliti"
	KindReviewer   = "reviewer"
	KindPersonal   = "pribadi"
)

// APIStore keeps the caller's profile on the external API.
type APIStore[T any] struct {
	Client *apiclient.Client
	Kind   string
}

func (s APIStore[T]) Get(ctx context.Context) (T, error) {
	return apiclient.GetProfile[T](ctx, s.Client, s.Kind)
}

func (s APIStore[T]) Put(ctx context.Context, v T) (T, error) {
	return apiclient.PutProfile(ctx, s.Client, s.Kind, v)
}

// Kind is one profile type with its record type erased, for routing.
type Kind interface {
	Name() string
	Get(ctx context.Context) (any, error)
	// Replace loads the profile, applies body as the draft and saves it.
	Replace(ctx context.Context, c confirm.Confirmer, body []byte) (any, error)
}

type kind[T Cloner[T]] struct {
	name      string
	store     Store[T]
	audit     audit.Recorder
	normalize func(*T)
}

func (k *kind[T]) Name() string { return k.name }

func (k *kind[T]) Get(ctx context.Context) (any, error) {
	return NewEditor(k.name, k.store, k.audit).Load(ctx)
}

func (k *kind[T]) Replace(ctx context.Context, c confirm.Confirmer, body []byte) (any, error) {
	var next T
	if err := json.Unmarshal(body, &next); err != nil {
		return nil, workflow.NewValidationError("body", "format data tidak valid")
	}
	if k.normalize != nil {
		k.normalize(&next)
	}

	ed := NewEditor(k.name, k.store, k.audit)
	if _, err := ed.Load(ctx); err != nil {
		return nil, err
	}
	if _, err := ed.Edit(); err != nil {
		return nil, err
	}
	if err := ed.Update(func(p *T) error { *p = next; return nil }); err != nil {
		return nil, err
	}
	return ed.Save(ctx, c)
}

// NewKinds returns the profile kinds served by the gateway, keyed by name.
func NewKinds(c *apiclient.Client, rec audit.Recorder) map[string]Kind {
	return map[string]Kind{
		KindResearcher: &kind[models.ResearcherProfile]{
			name:  KindResearcher,
			store: APIStore[models.ResearcherProfile]{Client: c, Kind: KindResearcher},
			audit: rec,
			normalize: func(p *models.ResearcherProfile) {
				p.BidangKeahlian = NormalizeTags(p.BidangKeahlian)
			},
		},
		KindReviewer: &kind[models.ReviewerProfile]{
			name:  KindReviewer,
			store: APIStore[models.ReviewerProfile]{Client: c, Kind: KindReviewer},
			audit: rec,
			normalize: func(p *models.ReviewerProfile) {
				p.Expertise = NormalizeTags(p.Expertise)
			},
		},
		KindPersonal: &kind[models.PersonalInfo]{
			name:  KindPersonal,
			store: APIStore[models.PersonalInfo]{Client: c, Kind: KindPersonal},
			audit: rec,
		},
	}
}
