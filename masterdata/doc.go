// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package masterdata implements the one CRUD flow every back-office table
shares: paginated search, validated create/update, confirmed delete.

A Workflow is instantiated per record type from a Descriptor:

	w := masterdata.New(masterdata.SkemaEntity, masterdata.APIStore[models.Skema]{Client: c, Resource: "skema"}, rec)
	page, err := w.List(ctx, 1, 10, "dasar")
	err = w.Delete(ctx, confirmer, "3")

Validation runs on `validate` struct tags before any API call. Records with a
file (TemplateDokumen) are sent as multipart form data. The Registry erases
the record type so HTTP handlers can route by entity name.
*/
package masterdata
