package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Districts lists all districts offering Pahani records.
func (c *Client) Districts(ctx context.Context) ([]string, error) {
	var districts []string
	if err := c.do(ctx, http.MethodGet, "/location/districts", nil, &districts, false); err != nil {
		return nil, fmt.Errorf("failed to fetch districts: %w", err)
	}
	return districts, nil
}

// Mandals lists the mandals of a district.
func (c *Client) Mandals(ctx context.Context, district string) ([]string, error) {
	var mandals []string
	path := "/location/mandals/" + url.PathEscape(district)
	if err := c.do(ctx, http.MethodGet, path, nil, &mandals, false); err != nil {
		return nil, fmt.Errorf("failed to fetch mandals for %s: %w", district, err)
	}
	return mandals, nil
}

// Villages lists the villages of a mandal within a district.
func (c *Client) Villages(ctx context.Context, district, mandal string) ([]string, error) {
	var villages []string
	path := "/location/villages/" + url.PathEscape(district) + "/" + url.PathEscape(mandal)
	if err := c.do(ctx, http.MethodGet, path, nil, &villages, false); err != nil {
		return nil, fmt.Errorf("failed to fetch villages for %s/%s: %w", district, mandal, err)
	}
	return villages, nil
}
