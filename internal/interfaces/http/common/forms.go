package common

import (
	"net/http"

	"github.com/bizbranches/api/internal/domain"
)

// RawSubmissionFromForm reads every accepted field name, legacy aliases
// included, out of a parsed multipart form.
func RawSubmissionFromForm(r *http.Request) domain.RawSubmission {
	value := r.FormValue
	return domain.RawSubmission{
		Name:              value("name"),
		BusinessName:      value("businessName"),
		ContactPerson:     value("contactPerson"),
		ContactPersonName: value("contactPersonName"),
		Category:          value("category"),
		SubCategory:       value("subCategory"),
		Province:          value("province"),
		City:              value("city"),
		Area:              value("area"),
		PostalCode:        value("postalCode"),
		ZipCode:           value("zipCode"),
		Address:           value("address"),
		Phone:             value("phone"),
		Whatsapp:          value("whatsapp"),
		Email:             value("email"),
		Description:       value("description"),
		WebsiteURL:        value("websiteUrl"),
		Website:           value("website"),
		FacebookURL:       value("facebookUrl"),
		GmbURL:            value("gmbUrl"),
		YoutubeURL:        value("youtubeUrl"),
		SwiftCode:         value("swiftCode"),
		BranchCode:        value("branchCode"),
		CityDialingCode:   value("cityDialingCode"),
		IBAN:              value("iban"),
		LogoDataURL:       value("logoDataUrl"),
	}
}
