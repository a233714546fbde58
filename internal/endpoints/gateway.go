package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"provenance-api/internal/models"

	"gorm.io/gorm"
)

const defaultAccept = "application/xml"

// ErrInvalidURL is returned when an endpoint URL is not absolute http(s).
var ErrInvalidURL = errors.New("endpoint url must be an absolute http or https url")

// Gateway persists the feed endpoints the worker polls.
type Gateway struct {
	db *gorm.DB
}

// NewGateway returns a Gateway backed by db.
func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// FindAll returns every registered endpoint.
func (g *Gateway) FindAll(ctx context.Context) ([]models.Endpoint, error) {
	var eps []models.Endpoint
	if err := g.db.WithContext(ctx).Order("id asc").Find(&eps).Error; err != nil {
		return nil, fmt.Errorf("find endpoints: %w", err)
	}
	return eps, nil
}

// Create registers a new endpoint. An empty accept defaults to application/xml.
func (g *Gateway) Create(ctx context.Context, rawURL, accept string) (models.Endpoint, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.Endpoint{}, ErrInvalidURL
	}
	accept = strings.TrimSpace(accept)
	if accept == "" {
		accept = defaultAccept
	}

	ep := models.Endpoint{URL: rawURL, Accept: accept}
	if err := g.db.WithContext(ctx).Create(&ep).Error; err != nil {
		return models.Endpoint{}, fmt.Errorf("create endpoint: %w", err)
	}
	return ep, nil
}
