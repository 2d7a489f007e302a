package handler

import (
	"strings"

	"foodlink/internal/donation/models"
	"foodlink/pkg/geo"
)

type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

func (r LocationRequest) point() geo.Point {
	return geo.Point{Lat: *r.Lat, Lng: *r.Lng}
}

type CreateListingRequest struct {
	Title    string          `json:"title" validate:"required,max=200"`
	Category string          `json:"category" validate:"required,oneof=Cooked Raw Bakery"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
	Location LocationRequest `json:"location"`
	IsFresh  bool            `json:"is_fresh"`
}

func (r *CreateListingRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = canonicalCategory(r.Category)
}

type CreateNeedRequest struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Category     string          `json:"category" validate:"required,oneof=Cooked Raw Bakery"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	Location     LocationRequest `json:"location"`
	Urgency      string          `json:"urgency" validate:"omitempty,oneof=Standard Urgent Immediate"`
	IsPerishable bool            `json:"is_perishable"`
}

func (r *CreateNeedRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = canonicalCategory(r.Category)
	if u, err := models.ParseUrgency(r.Urgency); err == nil {
		r.Urgency = string(u)
	}
}

type ListingStatusRequest struct {
	Status string `json:"status" validate:"required"`
	parsed models.ListingStatus
}

func (r *ListingStatusRequest) Validate() error {
	st, err := models.ParseListingStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsed = st
	return nil
}

type NeedStatusRequest struct {
	Status string `json:"status" validate:"required"`
	parsed models.NeedStatus
}

func (r *NeedStatusRequest) Validate() error {
	st, err := models.ParseNeedStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsed = st
	return nil
}

type RatingRequest struct {
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
}

// canonicalCategory fixes letter case so the oneof check accepts "cooked".
func canonicalCategory(s string) string {
	if c, err := models.ParseCategory(s); err == nil {
		return string(c)
	}
	return strings.TrimSpace(s)
}
