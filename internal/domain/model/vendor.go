package model

import (
	"fmt"
	"strings"
)

// VendorKind selects which profile-similarity vendor serves a lookalike job.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type VendorKind string

const (
	// VendorOcean is the Ocean-style similarity vendor.
	VendorOcean VendorKind = "ocean"
	// VendorLinkedIn is the LinkedIn-data similarity vendor.
	VendorLinkedIn VendorKind = "linkedin"
)

// DefaultVendor is used when a lookalike request does not name a vendor.
const DefaultVendor = VendorOcean

// Valid returns true if the VendorKind is a known vendor.
func (v VendorKind) Valid() bool {
	return v == VendorOcean || v == VendorLinkedIn
}

// UnmarshalText implements encoding.TextUnmarshaler for VendorKind.
func (v *VendorKind) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "" {
		*v = DefaultVendor
		return nil
	}
	vk := VendorKind(s)
	if !vk.Valid() {
		return fmt.Errorf("invalid vendor: %q", s)
	}
	*v = vk
	return nil
}

// Profile is one candidate returned by a similarity vendor.
type Profile struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Title       string `json:"title,omitempty"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	LinkedInURL string `json:"linkedin_url"`
}
