package domain

import "time"

// Pagination is the page block the API attaches to list responses.
type Pagination struct {
	Page  int `json:"page" yaml:"page"`
	Limit int `json:"limit" yaml:"limit"`
	Total int `json:"total" yaml:"total"`
	Pages int `json:"pages" yaml:"pages"`
}

type ProjectCategory string

const (
	CategoryResidential ProjectCategory = "residential"
	CategoryCommercial  ProjectCategory = "commercial"
	CategoryMixed       ProjectCategory = "mixed"
)

type ProjectStatus string

const (
	StatusUpcoming  ProjectStatus = "upcoming"
	StatusOngoing   ProjectStatus = "ongoing"
	StatusCompleted ProjectStatus = "completed"
)

// Project is a development listed on the site.
type Project struct {
	ID             string          `json:"id" yaml:"id"`
	Title          string          `json:"title" yaml:"title"`
	Location       string          `json:"location" yaml:"location"`
	Category       ProjectCategory `json:"category" yaml:"category"`
	Status         ProjectStatus   `json:"status" yaml:"status"`
	Progress       int             `json:"progress" yaml:"progress"`
	PriceMin       float64         `json:"priceMin" yaml:"priceMin"`
	PriceMax       float64         `json:"priceMax" yaml:"priceMax"`
	Units          int             `json:"units" yaml:"units"`
	CompletionDate string          `json:"completionDate,omitempty" yaml:"completionDate,omitempty"`
	Description    string          `json:"description,omitempty" yaml:"description,omitempty"`
	Images         []string        `json:"images,omitempty" yaml:"images,omitempty"`
	Brochure       string          `json:"brochure,omitempty" yaml:"brochure,omitempty"`
	Features       []string        `json:"features,omitempty" yaml:"features,omitempty"`
	Featured       bool            `json:"featured" yaml:"featured"`
	IsActive       bool            `json:"isActive" yaml:"isActive"`
}

// Cover is the first project image, if any.
func (p Project) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type ApartmentStatus string

const (
	ApartmentAvailable ApartmentStatus = "available"
	ApartmentBooked    ApartmentStatus = "booked"
	ApartmentSold      ApartmentStatus = "sold"
)

// Apartment is a unit type inside a project.
type Apartment struct {
	ID        string          `json:"id" yaml:"id"`
	ProjectID string          `json:"projectId" yaml:"projectId"`
	Title     string          `json:"title" yaml:"title"`
	Type      string          `json:"type" yaml:"type"`
	AreaSqft  float64         `json:"areaSqft" yaml:"areaSqft"`
	Price     float64         `json:"price" yaml:"price"`
	Floor     int             `json:"floor" yaml:"floor"`
	Status    ApartmentStatus `json:"status" yaml:"status"`
	FloorPlan string          `json:"floorPlan,omitempty" yaml:"floorPlan,omitempty"`
	IsActive  bool            `json:"isActive" yaml:"isActive"`
}

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadClosed    LeadStatus = "closed"
)

// Lead is an enquiry captured from the public site.
type Lead struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Email     string     `json:"email" yaml:"email"`
	Phone     string     `json:"phone" yaml:"phone"`
	Message   string     `json:"message,omitempty" yaml:"message,omitempty"`
	ProjectID string     `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	Source    string     `json:"source,omitempty" yaml:"source,omitempty"`
	Status    LeadStatus `json:"status" yaml:"status"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
}

// SocialLinks of a team member.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" yaml:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram,omitempty"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
}

// TeamMember appears on the About page.
type TeamMember struct {
	ID              string      `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	Position        string      `json:"position" yaml:"position"`
	Experience      int         `json:"experience" yaml:"experience"`
	Description     string      `json:"description,omitempty" yaml:"description,omitempty"`
	Image           string      `json:"image,omitempty" yaml:"image,omitempty"`
	SocialLinks     SocialLinks `json:"socialLinks" yaml:"socialLinks"`
	Specializations []string    `json:"specializations,omitempty" yaml:"specializations,omitempty"`
	Achievements    []string    `json:"achievements,omitempty" yaml:"achievements,omitempty"`
	IsActive        bool        `json:"isActive" yaml:"isActive"`
	SortOrder       int         `json:"sortOrder" yaml:"sortOrder"`
}

// Milestone is one entry of the company timeline.
type Milestone struct {
	ID          string `json:"id" yaml:"id"`
	Year        string `json:"year" yaml:"year"`
	Heading     string `json:"heading" yaml:"heading"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	IsActive    bool   `json:"isActive" yaml:"isActive"`
	SortOrder   int    `json:"sortOrder" yaml:"sortOrder"`
}

// DisplayLocations says where a record is shown on the public site.
type DisplayLocations struct {
	Home   bool `json:"home" yaml:"home"`
	About  bool `json:"about" yaml:"about"`
	Footer bool `json:"footer" yaml:"footer"`
}

// Statistic is a headline number ("250+ families housed").
type Statistic struct {
	ID               string           `json:"id" yaml:"id"`
	Key              string           `json:"key" yaml:"key"`
	Label            string           `json:"label" yaml:"label"`
	Value            float64          `json:"value" yaml:"value"`
	Prefix           string           `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix           string           `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Category         string           `json:"category,omitempty" yaml:"category,omitempty"`
	DisplayLocations DisplayLocations `json:"displayLocations" yaml:"displayLocations"`
	IsActive         bool             `json:"isActive" yaml:"isActive"`
	Animation        string           `json:"animation,omitempty" yaml:"animation,omitempty"`
	SortOrder        int              `json:"sortOrder" yaml:"sortOrder"`
}

type AddressType string

const (
	AddressHeadquarters AddressType = "headquarters"
	AddressBranch       AddressType = "branch"
	AddressSalesOffice  AddressType = "sales_office"
	AddressSiteOffice   AddressType = "site_office"
	AddressOther        AddressType = "other"
)

// Address is an office location.
type Address struct {
	ID               string           `json:"id" yaml:"id"`
	Name             string           `json:"name" yaml:"name"`
	Type             AddressType      `json:"type" yaml:"type"`
	Line1            string           `json:"addressLine1" yaml:"addressLine1"`
	Line2            string           `json:"addressLine2,omitempty" yaml:"addressLine2,omitempty"`
	City             string           `json:"city" yaml:"city"`
	State            string           `json:"state" yaml:"state"`
	PostalCode       string           `json:"postalCode" yaml:"postalCode"`
	Country          string           `json:"country" yaml:"country"`
	Phone            string           `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email            string           `json:"email,omitempty" yaml:"email,omitempty"`
	WorkingHours     string           `json:"workingHours,omitempty" yaml:"workingHours,omitempty"`
	MapURL           string           `json:"mapUrl,omitempty" yaml:"mapUrl,omitempty"`
	IsPrimary        bool             `json:"isPrimary" yaml:"isPrimary"`
	DisplayLocations DisplayLocations `json:"displayLocations" yaml:"displayLocations"`
	IsActive         bool             `json:"isActive" yaml:"isActive"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account on the API.
type User struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Role     Role   `json:"role" yaml:"role"`
	IsActive bool   `json:"isActive" yaml:"isActive"`
}
