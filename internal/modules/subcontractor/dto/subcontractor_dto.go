package dto

type CreateSubcontractorInput struct {
	PhoneNumber             string `json:"phone_number" binding:"required,phone_number"`
	Realname                string `json:"realname" binding:"required,max=32"`
	DateOfBirth             string `json:"date_of_birth" binding:"required,date_of_birth"`
	LicenseNumber           string `json:"license_number" binding:"required,license_number"`
	LicenseType             string `json:"license_type" binding:"required,max=32"`
	InsuranceNumber         string `json:"insurance_number" binding:"required,insurance_number"`
	InsuranceExpirationDate string `json:"insurance_expiration_date" binding:"required,datetime=2006-01-02"`
}

type UpdateSubcontractorInput = CreateSubcontractorInput

type CreateContractorInput struct {
	ContractorCreateKey string `json:"contractor_create_key" binding:"required"`
	PhoneNumber         string `json:"phone_number" binding:"required,phone_number"`
	Password            string `json:"password" binding:"required,min=4"`
}
