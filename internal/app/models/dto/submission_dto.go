package dto

import "net/url"

// SubmissionRequest is the flat wire payload posted by the application
// form. Every field arrives as a string; numeric fields are coerced
// during record assembly, after validation.
type SubmissionRequest struct {
	FirstName         string `json:"firstName" form:"firstName"`
	LastName          string `json:"lastName" form:"lastName"`
	Email             string `json:"email" form:"email"`
	Phone             string `json:"phone" form:"phone"`
	DOB               string `json:"dob" form:"dob"`
	Gender            string `json:"gender" form:"gender"`
	IDNumber          string `json:"idNumber" form:"idNumber"`
	Address           string `json:"address" form:"address"`
	City              string `json:"city" form:"city"`
	County            string `json:"county" form:"county"`
	PostalCode        string `json:"postalCode" form:"postalCode"`
	EmergencyName     string `json:"emergencyName" form:"emergencyName"`
	EmergencyPhone    string `json:"emergencyPhone" form:"emergencyPhone"`
	Relationship      string `json:"relationship" form:"relationship"`
	LastSchool        string `json:"lastSchool" form:"lastSchool"`
	GraduationYear    string `json:"graduationYear" form:"graduationYear"`
	Qualification     string `json:"qualification" form:"qualification"`
	Certificates      string `json:"certificates" form:"certificates"`
	Programme         string `json:"programme" form:"programme"`
	ProgrammeLevel    string `json:"programmeLevel" form:"programmeLevel"`
	StartDate         string `json:"startDate" form:"startDate"`
	DisabilityType    string `json:"disabilityType" form:"disabilityType"`
	SupportNeeds      string `json:"supportNeeds" form:"supportNeeds"`
	SignLanguage      string `json:"signLanguage" form:"signLanguage"`
	CurrentEmployment string `json:"currentEmployment" form:"currentEmployment"`
	JobTitle          string `json:"jobTitle" form:"jobTitle"`
	WorkExperience    string `json:"workExperience" form:"workExperience"`
	Motivation        string `json:"motivation" form:"motivation"`
	Goals             string `json:"goals" form:"goals"`
	Referral          string `json:"referral" form:"referral"`
}

// FieldValue returns the value of a named wire field. Unknown names
// return the empty string, the same as an absent field.
func (r *SubmissionRequest) FieldValue(name string) string {
	switch name {
	case "firstName":
		return r.FirstName
	case "lastName":
		return r.LastName
	case "email":
		return r.Email
	case "phone":
		return r.Phone
	case "dob":
		return r.DOB
	case "gender":
		return r.Gender
	case "idNumber":
		return r.IDNumber
	case "address":
		return r.Address
	case "city":
		return r.City
	case "county":
		return r.County
	case "postalCode":
		return r.PostalCode
	case "emergencyName":
		return r.EmergencyName
	case "emergencyPhone":
		return r.EmergencyPhone
	case "relationship":
		return r.Relationship
	case "lastSchool":
		return r.LastSchool
	case "graduationYear":
		return r.GraduationYear
	case "qualification":
		return r.Qualification
	case "certificates":
		return r.Certificates
	case "programme":
		return r.Programme
	case "programmeLevel":
		return r.ProgrammeLevel
	case "startDate":
		return r.StartDate
	case "disabilityType":
		return r.DisabilityType
	case "supportNeeds":
		return r.SupportNeeds
	case "signLanguage":
		return r.SignLanguage
	case "currentEmployment":
		return r.CurrentEmployment
	case "jobTitle":
		return r.JobTitle
	case "workExperience":
		return r.WorkExperience
	case "motivation":
		return r.Motivation
	case "goals":
		return r.Goals
	case "referral":
		return r.Referral
	}
	return ""
}

// FromForm populates the request from form-encoded values, the
// fallback encoding when the body is not valid JSON.
func (r *SubmissionRequest) FromForm(values url.Values) {
	r.FirstName = values.Get("firstName")
	r.LastName = values.Get("lastName")
	r.Email = values.Get("email")
	r.Phone = values.Get("phone")
	r.DOB = values.Get("dob")
	r.Gender = values.Get("gender")
	r.IDNumber = values.Get("idNumber")
	r.Address = values.Get("address")
	r.City = values.Get("city")
	r.County = values.Get("county")
	r.PostalCode = values.Get("postalCode")
	r.EmergencyName = values.Get("emergencyName")
	r.EmergencyPhone = values.Get("emergencyPhone")
	r.Relationship = values.Get("relationship")
	r.LastSchool = values.Get("lastSchool")
	r.GraduationYear = values.Get("graduationYear")
	r.Qualification = values.Get("qualification")
	r.Certificates = values.Get("certificates")
	r.Programme = values.Get("programme")
	r.ProgrammeLevel = values.Get("programmeLevel")
	r.StartDate = values.Get("startDate")
	r.DisabilityType = values.Get("disabilityType")
	r.SupportNeeds = values.Get("supportNeeds")
	r.SignLanguage = values.Get("signLanguage")
	r.CurrentEmployment = values.Get("currentEmployment")
	r.JobTitle = values.Get("jobTitle")
	r.WorkExperience = values.Get("workExperience")
	r.Motivation = values.Get("motivation")
	r.Goals = values.Get("goals")
	r.Referral = values.Get("referral")
}

// SubmissionResponse is the wire response for a submission attempt.
type SubmissionResponse struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	ReferenceNumber string   `json:"referenceNumber,omitempty"`
	Errors          []string `json:"errors,omitempty"`
	// Error carries a diagnostic string on unexpected failures; it is
	// omitted in production mode.
	Error string `json:"error,omitempty"`
}
