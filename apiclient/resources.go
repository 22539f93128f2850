// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/danielhkuo/hibah-admin/models"
)

// ListQuery selects one page of a resource listing.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("paginate", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// List fetches one page of resource.
func List[T any](ctx context.Context, c *Client, resource string, q ListQuery) (models.Page[T], error) {
	data, err := c.get(ctx, resource, resource, q.values())
	if err != nil {
		return models.Page[T]{}, fmt.Errorf("list %s: %w", resource, err)
	}
	return decodeList[T](data)
}

// Get fetches a single record.
func Get[T any](ctx context.Context, c *Client, resource, id string) (T, error) {
	data, err := c.get(ctx, resource, resource+"/"+url.PathEscape(id), nil)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get %s/%s: %w", resource, id, err)
	}
	return decodeRecord[T](data)
}

// Create posts payload as JSON and returns the created record.
func Create[T any](ctx context.Context, c *Client, resource string, payload any) (T, error) {
	data, err := c.mutate(ctx, http.MethodPost, resource, payload, resource)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("create %s: %w", resource, err)
	}
	return decodeRecord[T](data)
}

// Update puts payload as JSON and returns the updated record.
func Update[T any](ctx context.Context, c *Client, resource, id string, payload any) (T, error) {
	data, err := c.mutate(ctx, http.MethodPut, resource+"/"+url.PathEscape(id), payload, resource)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("update %s/%s: %w", resource, id, err)
	}
	return decodeRecord[T](data)
}

// Delete removes a record.
func Delete(ctx context.Context, c *Client, resource, id string) error {
	if _, err := c.mutate(ctx, http.MethodDelete, resource+"/"+url.PathEscape(id), nil, resource); err != nil {
		return fmt.Errorf("delete %s/%s: %w", resource, id, err)
	}
	return nil
}

// CreateMultipart posts payload's fields plus file as multipart/form-data.
func CreateMultipart[T any](ctx context.Context, c *Client, resource string, payload any, file *models.FileUpload) (T, error) {
	var zero T
	r, err := multipartRequest(resource, payload, file, "")
	if err != nil {
		return zero, err
	}
	data, err := c.mutateRaw(ctx, r, resource)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", resource, err)
	}
	return decodeRecord[T](data)
}

// UpdateMultipart sends an update as multipart/form-data. The API only
// parses multipart bodies on POST, so the PUT is spoofed with _method.
func UpdateMultipart[T any](ctx context.Context, c *Client, resource, id string, payload any, file *models.FileUpload) (T, error) {
	var zero T
	r, err := multipartRequest(resource+"/"+url.PathEscape(id), payload, file, http.MethodPut)
	if err != nil {
		return zero, err
	}
	data, err := c.mutateRaw(ctx, r, resource)
	if err != nil {
		return zero, fmt.Errorf("update %s/%s: %w", resource, id, err)
	}
	return decodeRecord[T](data)
}

func multipartRequest(path string, payload any, file *models.FileUpload, spoof string) (request, error) {
	fields, err := formFields(payload)
	if err != nil {
		return request{}, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if spoof != "" {
		fields["_method"] = spoof
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return request{}, fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	if file != nil {
		field := file.FieldName
		if field == "" {
			field = "file"
		}
		fw, err := mw.CreateFormFile(field, file.FileName)
		if err != nil {
			return request{}, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := fw.Write(file.Content); err != nil {
			return request{}, fmt.Errorf("failed to write form file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return request{}, fmt.Errorf("failed to close multipart body: %w", err)
	}

	return request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}, nil
}

// formFields flattens payload's JSON form into string form values.
// Booleans become 1/0; nulls are dropped.
func formFields(payload any) (map[string]string, error) {
	fields := make(map[string]string)
	if payload == nil {
		return fields, nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form payload: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("form payload must be an object: %w", err)
	}

	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case bool:
			if val {
				fields[k] = "1"
			} else {
				fields[k] = "0"
			}
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			nested, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("failed to encode form field %s: %w", k, err)
			}
			fields[k] = string(nested)
		}
	}
	return fields, nil
}
