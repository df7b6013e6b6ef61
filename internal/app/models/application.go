package models

import "time"

// Application is the canonical record of a submitted enrollment
// application, grouped into the blocks used for storage and for the
// confirmation email. The wire request arrives flat (see dto package)
// and is assembled into this structure only after validation passes.
type Application struct {
	ReferenceNumber string           `json:"referenceNumber"`
	SubmittedAt     time.Time        `json:"submittedAt"`
	PersonalInfo    PersonalInfo     `json:"personalInfo"`
	AddressInfo     AddressInfo      `json:"addressInfo"`
	EmergencyInfo   EmergencyContact `json:"emergencyContact"`
	Education       Education        `json:"education"`
	ProgrammeInfo   ProgrammeInfo    `json:"programmeInfo"`
	DisabilityInfo  DisabilityInfo   `json:"disabilityInfo"`
	Employment      Employment       `json:"employment"`
	AdditionalInfo  AdditionalInfo   `json:"additionalInfo"`
}

// PersonalInfo identifies the applicant.
type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	IDNumber    string `json:"idNumber"`
}

// AddressInfo is the applicant's postal address. PostalCode is optional.
type AddressInfo struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	County     string `json:"county"`
	PostalCode string `json:"postalCode"`
}

// EmergencyContact is the person to reach if the applicant cannot be.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// Education describes the applicant's schooling history.
type Education struct {
	LastSchool     string `json:"lastSchool"`
	GraduationYear int    `json:"graduationYear"`
	Qualification  string `json:"qualification"`
	Certificates   string `json:"certificates"`
}

// ProgrammeInfo is the programme the applicant is applying for.
type ProgrammeInfo struct {
	Programme string `json:"programme"`
	Level     string `json:"level"`
	StartDate string `json:"startDate"`
}

// DisabilityInfo captures accessibility requirements.
type DisabilityInfo struct {
	Type                   string `json:"type"`
	SupportNeeds           string `json:"supportNeeds"`
	SignLanguageExperience string `json:"signLanguageExperience"`
}

// Employment is the applicant's current work situation.
type Employment struct {
	Status            string `json:"status"`
	JobTitle          string `json:"jobTitle"`
	YearsOfExperience int    `json:"yearsOfExperience"`
}

// AdditionalInfo holds the free-text narrative sections.
type AdditionalInfo struct {
	Motivation string `json:"motivation"`
	Goals      string `json:"goals"`
	Referral   string `json:"referral"`
}
